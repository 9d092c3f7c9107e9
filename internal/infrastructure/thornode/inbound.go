package thornode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

func (t *thornode) GetInboundAddresses(ctx context.Context) ([]ports.InboundAddress, error) {
	body, err := t.get(ctx, "/thorchain/inbound_addresses")
	if err != nil {
		return nil, err
	}

	var raw []inboundAddress
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parsing inbound addresses: %w", err)
	}

	addresses := make([]ports.InboundAddress, 0, len(raw))
	for _, a := range raw {
		dust, err := parseUint(a.DustThreshold)
		if err != nil {
			return nil, fmt.Errorf("inbound %s dust_threshold: %w", a.Chain, err)
		}
		addresses = append(addresses, ports.InboundAddress{
			Chain:         a.Chain,
			Address:       a.Address,
			Router:        a.Router,
			Halted:        a.Halted,
			DustThreshold: dust,
			GasRate:       a.GasRate,
		})
	}
	return addresses, nil
}
