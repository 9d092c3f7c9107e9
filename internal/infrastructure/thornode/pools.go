package thornode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

func (t *thornode) GetPools(ctx context.Context) ([]ports.Pool, error) {
	body, err := t.get(ctx, "/thorchain/pools")
	if err != nil {
		return nil, err
	}

	var raw []pool
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parsing pools: %w", err)
	}

	pools := make([]ports.Pool, 0, len(raw))
	for _, p := range raw {
		balanceRune, err := parseUint(p.BalanceRune)
		if err != nil {
			return nil, fmt.Errorf("pool %s balance_rune: %w", p.Asset, err)
		}
		balanceAsset, err := parseUint(p.BalanceAsset)
		if err != nil {
			return nil, fmt.Errorf("pool %s balance_asset: %w", p.Asset, err)
		}
		pools = append(pools, ports.Pool{
			Asset:        p.Asset,
			Status:       p.Status,
			BalanceRune:  balanceRune,
			BalanceAsset: balanceAsset,
			Decimals:     p.Decimals,
			AssetPrice:   parseTorPrice(p.AssetTorPrice),
		})
	}
	return pools, nil
}
