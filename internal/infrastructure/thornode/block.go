package thornode

import (
	"context"
	"encoding/json"
	"fmt"
)

func (t *thornode) GetLastBlockHeight(ctx context.Context) (int64, error) {
	body, err := t.get(ctx, "/thorchain/lastblock/THORCHAIN")
	if err != nil {
		return 0, err
	}

	var raw []lastBlock
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return 0, fmt.Errorf("parsing last block: %w", err)
	}
	if len(raw) == 0 {
		return 0, fmt.Errorf("empty last block response")
	}

	return raw[0].Thorchain, nil
}
