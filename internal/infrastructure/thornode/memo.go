package thornode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

func (t *thornode) GetMemoReference(
	ctx context.Context, registrationTxHash string,
) (*ports.MemoReference, error) {
	body, err := t.get(ctx, fmt.Sprintf("/thorchain/memo/%s", registrationTxHash))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ports.ErrMemoNotFound
		}
		return nil, err
	}

	var raw memoReference
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parsing memo reference: %w", err)
	}
	// The network may answer before the registration is indexed; an empty
	// reference is indistinguishable from a missing one for the caller.
	if raw.ReferenceID == "" {
		return nil, ports.ErrMemoNotFound
	}

	return &ports.MemoReference{
		ReferenceID:        raw.ReferenceID,
		Memo:               raw.Memo,
		Asset:              raw.Asset,
		RegisteredAtHeight: raw.RegisteredAtHeight,
		ExpiryHeight:       raw.ExpiryHeight,
		UsageCount:         raw.UsageCount,
		MaxUse:             raw.MaxUse,
	}, nil
}

func (t *thornode) CheckMemoAmount(
	ctx context.Context, asset, rawAmount string,
) (*ports.MemoCheckResult, error) {
	body, err := t.get(
		ctx, fmt.Sprintf("/thorchain/memo/check/%s/%s", asset, rawAmount),
	)
	if err != nil {
		if errors.Is(err, errNotFound) {
			// No reference decodes from this amount: a definite verdict,
			// not a transport failure.
			return &ports.MemoCheckResult{Valid: false}, nil
		}
		return nil, err
	}

	var raw memoCheckResult
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("parsing memo check: %w", err)
	}

	return &ports.MemoCheckResult{
		Valid:       raw.Valid,
		ReferenceID: raw.ReferenceID,
		Memo:        raw.Memo,
	}, nil
}
