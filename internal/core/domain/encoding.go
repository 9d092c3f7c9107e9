package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/decimalutil"
)

// InputMode selects whether the user typed an asset-unit or a USD amount.
type InputMode string

const (
	InputModeAsset InputMode = "asset"
	InputModeUSD   InputMode = "usd"
)

var referenceIDRegex = regexp.MustCompile(`^[0-9]+$`)

// AmountEncoding is the immutable result of one encode call. It is recomputed
// from scratch on every input change and replaced, never mutated.
type AmountEncoding struct {
	RawUserInput  string
	InputMode     InputMode
	AssetDecimals int
	ReferenceID   string
	FinalAmount   string
	BaseAmount    string
	Warnings      []string
	Errors        []string
}

// IsValid reports whether the encoding produced no errors.
func (e AmountEncoding) IsValid() bool {
	return len(e.Errors) == 0
}

func (e AmountEncoding) failed(err error) AmountEncoding {
	e.Errors = append(e.Errors, err.Error())
	return e
}

// Encode builds the deposit amount that carries referenceID in its trailing
// decimal digits. The wire-level amount is assembled by string operations on
// decimalutil only; the single float computation is the USD preview
// conversion, which never feeds the final digits directly.
func Encode(
	userInput string, inputMode InputMode,
	referenceID string, assetDecimals int,
	assetPriceUSD float64,
) AmountEncoding {
	enc := AmountEncoding{
		RawUserInput:  userInput,
		InputMode:     inputMode,
		AssetDecimals: assetDecimals,
		ReferenceID:   referenceID,
	}

	if !referenceIDRegex.MatchString(referenceID) {
		return enc.failed(ErrInvalidReferenceID)
	}
	if len(referenceID) > assetDecimals {
		return enc.failed(ErrReferenceTooLong)
	}

	userInput = strings.TrimSpace(userInput)
	if !decimalutil.IsDecimalString(userInput) || !decimalutil.IsPositive(userInput) {
		return enc.failed(ErrInvalidAmount)
	}

	assetInput := userInput
	if inputMode == InputModeUSD {
		if assetPriceUSD <= 0 {
			return enc.failed(ErrMissingPrice)
		}
		usd, err := strconv.ParseFloat(userInput, 64)
		if err != nil {
			return enc.failed(ErrInvalidAmount)
		}
		// Display-precision preview only: the fractional tail is truncated
		// below before any wire-level digit is chosen.
		assetInput = strconv.FormatFloat(usd/assetPriceUSD, 'f', assetDecimals, 64)
		if !decimalutil.IsPositive(assetInput) {
			return enc.failed(ErrInvalidAmount)
		}
		// FormatFloat pads to assetDecimals digits; strip the padding so the
		// truncation warning below only fires on actual precision loss.
		assetInput = strings.TrimSuffix(strings.TrimRight(assetInput, "0"), ".")
	}

	refLen := len(referenceID)
	maxUserDecimals := assetDecimals - refLen

	intPart, fracPart := decimalutil.SplitDecimal(assetInput)
	if len(fracPart) > maxUserDecimals {
		fracPart = decimalutil.TruncateFraction(fracPart, maxUserDecimals)
		enc.Warnings = append(enc.Warnings, fmt.Sprintf(
			"amount truncated to %d decimals to make room for the reference ID",
			maxUserDecimals,
		))
	}

	zerosNeeded := assetDecimals - len(fracPart) - refLen
	finalFraction := fracPart + strings.Repeat("0", zerosNeeded) + referenceID
	enc.FinalAmount = intPart + "." + finalFraction

	final, err := decimal.NewFromString(enc.FinalAmount)
	if err != nil {
		return enc.failed(ErrInvalidAmount)
	}
	refTail, err := decimal.NewFromString(referenceID)
	if err != nil {
		return enc.failed(ErrInvalidReferenceID)
	}
	base := final.Sub(refTail.Shift(int32(-assetDecimals)))
	if !base.IsPositive() {
		return enc.failed(ErrAmountTooSmall)
	}
	enc.BaseAmount = base.StringFixed(int32(assetDecimals))

	return enc
}

// ValidateEncodedAmount independently re-derives whether amount carries
// referenceID in its trailing digits. It deliberately repeats the digit
// arithmetic instead of delegating to Encode, because the network's memo-check
// endpoint does its own re-derivation and the two must be cross-checked
// bit-for-bit.
func ValidateEncodedAmount(amount, referenceID string, assetDecimals int) bool {
	if !referenceIDRegex.MatchString(referenceID) {
		return false
	}
	if len(referenceID) > assetDecimals {
		return false
	}
	if !decimalutil.IsDecimalString(amount) {
		return false
	}

	_, fracPart := decimalutil.SplitDecimal(amount)
	fracPart = decimalutil.TruncateFraction(fracPart, assetDecimals)
	fracPart = decimalutil.PadFraction(fracPart, assetDecimals)

	return fracPart[assetDecimals-len(referenceID):] == referenceID
}

// DustThresholdOK reports whether amount strictly exceeds the chain's dust
// threshold; an amount equal to the threshold is rejected, since the inbound
// observer ignores it. dustRaw is interpreted in the asset's own decimal
// precision rather than a fixed 8-decimal convention; for 8-decimal chains
// the two readings coincide.
func DustThresholdOK(amount string, dustRaw uint64, assetDecimals int) (bool, error) {
	dust, err := decimalutil.FromBaseUnits(
		strconv.FormatUint(dustRaw, 10), assetDecimals,
	)
	if err != nil {
		return false, err
	}
	cmp, err := decimalutil.Cmp(amount, dust)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}

// USDToAsset converts a USD amount to asset units for display. Never used on
// the wire-level amount path.
func USDToAsset(usd, assetPriceUSD float64) float64 {
	if assetPriceUSD == 0 {
		return 0
	}
	return usd / assetPriceUSD
}

// AssetToUSD converts an asset amount to USD for display.
func AssetToUSD(amount, assetPriceUSD float64) float64 {
	return amount * assetPriceUSD
}
