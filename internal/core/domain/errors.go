package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAsset ...
	ErrInvalidAsset = errors.New("invalid asset notation")
	// ErrInvalidAmount is thrown when the user input is not a positive decimal number
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrAmountTooSmall is thrown when the base amount excluding the reference ID would not exceed 0
	ErrAmountTooSmall = errors.New(
		"amount too small: base amount excluding reference ID must exceed 0",
	)
	// ErrBelowDustThreshold is thrown when the encoded amount does not strictly exceed the chain's dust threshold
	ErrBelowDustThreshold = errors.New("amount does not exceed the chain dust threshold")
	// ErrInvalidReferenceID is thrown when the reference ID is not a decimal-digit string
	ErrInvalidReferenceID = errors.New("reference ID must be a decimal-digit string")
	// ErrReferenceTooLong is thrown when the reference ID cannot fit the asset's decimal precision
	ErrReferenceTooLong = errors.New("reference ID longer than asset decimal precision")
	// ErrMissingPrice is thrown when a USD-mode encode is requested without an asset price
	ErrMissingPrice = errors.New("asset price required for usd input mode")
	// ErrRegistrationExpired is thrown when the reference registration can no longer be used
	ErrRegistrationExpired = errors.New("reference registration expired")
	// ErrInvalidStatusTransition ...
	ErrInvalidStatusTransition = errors.New("invalid registration status transition")
	// ErrMissingInboundAddress is thrown when building a deposit instruction without chain info
	ErrMissingInboundAddress = errors.New("inbound address not fetched for chain")
	// ErrUnsupportedChain is thrown when no QR payload scheme is known for the chain
	ErrUnsupportedChain = errors.New("unsupported chain")
)

// EncodingMismatchError is returned when the locally encoded amount and the
// network's own memo-check endpoint disagree. Both verdicts are carried for
// diagnosis.
type EncodingMismatchError struct {
	LocalAmount     string
	LocalReference  string
	RemoteReference string
}

func (e *EncodingMismatchError) Error() string {
	return fmt.Sprintf(
		"memo-check mismatch for amount %s: local reference %s, network reference %s",
		e.LocalAmount, e.LocalReference, e.RemoteReference,
	)
}
