package domain

import (
	"fmt"
	"strings"
)

// Decimal precision of the on-chain amount for each supported gas asset.
// THORChain itself quotes everything in 8 decimals, but the encoded deposit
// amount travels on the source chain, so the source chain's native precision
// is what bounds the reference digits.
var chainDecimals = map[string]int{
	"BTC":  8,
	"BCH":  8,
	"LTC":  8,
	"DOGE": 8,
	"ETH":  18,
	"BSC":  18,
	"BASE": 18,
	"AVAX": 18,
	"GAIA": 6,
}

// AssetID identifies an asset as chain plus ticker, with an optional contract
// suffix for token sub-assets ("ETH.USDC-0XA0B8...").
type AssetID struct {
	Chain    string
	Ticker   string
	Contract string
}

// ParseAssetID parses asset notation in the CHAIN.SYMBOL[-CONTRACT] form.
func ParseAssetID(s string) (AssetID, error) {
	chain, symbol, found := strings.Cut(s, ".")
	if !found || chain == "" || symbol == "" {
		return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	ticker, contract, _ := strings.Cut(symbol, "-")
	if ticker == "" {
		return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	return AssetID{
		Chain:    strings.ToUpper(chain),
		Ticker:   strings.ToUpper(ticker),
		Contract: strings.ToUpper(contract),
	}, nil
}

// String returns the CHAIN.SYMBOL[-CONTRACT] notation.
func (a AssetID) String() string {
	if a.Contract != "" {
		return fmt.Sprintf("%s.%s-%s", a.Chain, a.Ticker, a.Contract)
	}
	return fmt.Sprintf("%s.%s", a.Chain, a.Ticker)
}

// IsGasAsset reports whether the asset is the chain's own native asset.
func (a AssetID) IsGasAsset() bool {
	return a.Contract == "" && a.Chain == chainAlias(a.Ticker)
}

// IsTokenAsset reports whether the asset is a token sub-asset rather than the
// chain's native coin.
func (a AssetID) IsTokenAsset() bool {
	return a.Contract != ""
}

// Decimals returns the source-chain precision for the asset's amounts.
func (a AssetID) Decimals() (int, error) {
	d, ok := chainDecimals[a.Chain]
	if !ok {
		return 0, fmt.Errorf("%w: unknown chain %s", ErrInvalidAsset, a.Chain)
	}
	return d, nil
}

// Native RUNE cannot carry a memoless deposit, it supports memos directly.
func (a AssetID) IsRune() bool {
	return a.Chain == "THOR" && a.Ticker == "RUNE"
}

func chainAlias(ticker string) string {
	switch ticker {
	case "RUNE":
		return "THOR"
	case "ATOM":
		return "GAIA"
	default:
		return ticker
	}
}
