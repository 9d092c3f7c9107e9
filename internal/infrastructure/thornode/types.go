package thornode

import (
	"strconv"
)

// Thornode serializes most numeric fields as decimal strings; absent and
// null fields must stay distinguishable, hence the pointer members.

type pool struct {
	Asset         string `json:"asset"`
	Status        string `json:"status"`
	BalanceRune   string `json:"balance_rune"`
	BalanceAsset  string `json:"balance_asset"`
	Decimals      int    `json:"decimals"`
	AssetTorPrice string `json:"asset_tor_price"`
}

type inboundAddress struct {
	Chain         string `json:"chain"`
	Address       string `json:"address"`
	Router        string `json:"router"`
	Halted        bool   `json:"halted"`
	DustThreshold string `json:"dust_threshold"`
	GasRate       string `json:"gas_rate"`
}

type memoReference struct {
	ReferenceID        string `json:"reference_id"`
	Memo               string `json:"memo"`
	Asset              string `json:"asset"`
	RegisteredAtHeight int64  `json:"registered_height"`
	ExpiryHeight       int64  `json:"expiry_height"`
	UsageCount         int    `json:"usage_count"`
	MaxUse             int    `json:"max_use"`
}

type memoCheckResult struct {
	Valid       bool   `json:"valid"`
	ReferenceID string `json:"reference_id"`
	Memo        string `json:"memo"`
}

type lastBlock struct {
	Chain     string `json:"chain"`
	Thorchain int64  `json:"thorchain"`
}

type observedTx struct {
	Status         string   `json:"status"`
	BlockHeight    *int64   `json:"block_height"`
	FinaliseHeight *int64   `json:"finalise_height"`
	OutHashes      []string `json:"out_hashes"`
}

type observedTxResponse struct {
	ObservedTx *observedTx `json:"observed_tx"`
}

// parseUint reads thornode's string-encoded integers, tolerating the empty
// string as zero.
func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// parseTorPrice converts the 8-decimal TOR price to a float. Display use
// only.
func parseTorPrice(s string) float64 {
	raw, err := parseUint(s)
	if err != nil {
		return 0
	}
	return float64(raw) / 1e8
}
