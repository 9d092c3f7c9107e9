package thornode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
)

func (t *thornode) GetObservedTx(
	ctx context.Context, hash string,
) (*domain.DepositObservation, error) {
	body, err := t.get(ctx, fmt.Sprintf("/thorchain/tx/%s", hash))
	if err != nil {
		if errors.Is(err, errNotFound) {
			// Not observed yet: an empty observation, not an error.
			return &domain.DepositObservation{}, nil
		}
		return nil, err
	}

	var raw observedTxResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parsing observed tx: %w", err)
	}
	if raw.ObservedTx == nil {
		return &domain.DepositObservation{}, nil
	}

	return &domain.DepositObservation{
		Observed:        true,
		BlockHeight:     raw.ObservedTx.BlockHeight,
		FinalisedHeight: raw.ObservedTx.FinaliseHeight,
		OutboundTxIDs:   raw.ObservedTx.OutHashes,
	}, nil
}
