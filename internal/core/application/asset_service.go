package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

const poolStatusAvailable = "Available"

// DepositAsset is one asset eligible for a memoless deposit.
type DepositAsset struct {
	Asset        domain.AssetID
	Decimals     int
	BalanceRune  uint64
	BalanceAsset uint64
	PriceUSD     float64
}

// AssetService exposes the eligible asset universe and per-chain inbound
// info.
type AssetService interface {
	// ListDepositAssets returns the assets a memoless deposit can be made
	// with: pools in Available status, gas assets only (token sub-assets
	// cannot carry the encoded amount), native RUNE excluded.
	ListDepositAssets(ctx context.Context) ([]DepositAsset, error)
	// GetInboundChainInfo returns the inbound address entry for one chain.
	GetInboundChainInfo(ctx context.Context, chain string) (*ports.InboundAddress, error)
}

type assetService struct {
	client ports.ThornodeClient
}

// NewAssetService returns a ready asset service.
func NewAssetService(client ports.ThornodeClient) (AssetService, error) {
	if client == nil {
		return nil, errors.New("missing thornode client")
	}
	return &assetService{client: client}, nil
}

func (s *assetService) ListDepositAssets(ctx context.Context) ([]DepositAsset, error) {
	pools, err := s.client.GetPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching pools: %w", err)
	}

	assets := make([]DepositAsset, 0, len(pools))
	for _, pool := range pools {
		if pool.Status != poolStatusAvailable {
			continue
		}
		asset, err := domain.ParseAssetID(pool.Asset)
		if err != nil {
			continue
		}
		if asset.IsRune() || !asset.IsGasAsset() {
			continue
		}
		decimals, err := asset.Decimals()
		if err != nil {
			continue
		}
		assets = append(assets, DepositAsset{
			Asset:        asset,
			Decimals:     decimals,
			BalanceRune:  pool.BalanceRune,
			BalanceAsset: pool.BalanceAsset,
			PriceUSD:     pool.AssetPrice,
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].BalanceRune > assets[j].BalanceRune
	})
	return assets, nil
}

func (s *assetService) GetInboundChainInfo(
	ctx context.Context, chain string,
) (*ports.InboundAddress, error) {
	addresses, err := s.client.GetInboundAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching inbound addresses: %w", err)
	}
	for i := range addresses {
		if addresses[i].Chain == chain {
			return &addresses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoInboundAddress, chain)
}
