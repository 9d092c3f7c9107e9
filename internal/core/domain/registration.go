package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RegistrationStatusCodeDraft = iota
	RegistrationStatusCodeRegistering
	RegistrationStatusCodeAwaitingReference
	RegistrationStatusCodeReferenceObtained
	RegistrationStatusCodeAmountConfiguring
	RegistrationStatusCodeAmountValidated
	RegistrationStatusCodeDepositPending
	RegistrationStatusCodeDepositObserved
	RegistrationStatusCodeCompleted
	RegistrationStatusCodeExpired
	RegistrationStatusCodeFailed
)

// AverageBlockTime is THORChain's block interval, used for human time
// estimates on expiry heights.
const AverageBlockTime = 6 * time.Second

// RegistrationStatus represents the different statuses a memo registration
// can assume on its way from draft to a tracked deposit.
type RegistrationStatus struct {
	Code   int
	Reason string
}

func (s RegistrationStatus) IsTerminal() bool {
	return s.Code == RegistrationStatusCodeCompleted ||
		s.Code == RegistrationStatusCodeExpired ||
		s.Code == RegistrationStatusCodeFailed
}

func (s RegistrationStatus) String() string {
	switch s.Code {
	case RegistrationStatusCodeDraft:
		return "draft"
	case RegistrationStatusCodeRegistering:
		return "registering"
	case RegistrationStatusCodeAwaitingReference:
		return "awaiting_reference"
	case RegistrationStatusCodeReferenceObtained:
		return "reference_obtained"
	case RegistrationStatusCodeAmountConfiguring:
		return "amount_configuring"
	case RegistrationStatusCodeAmountValidated:
		return "amount_validated"
	case RegistrationStatusCodeDepositPending:
		return "deposit_pending"
	case RegistrationStatusCodeDepositObserved:
		return "deposit_observed"
	case RegistrationStatusCodeCompleted:
		return "completed"
	case RegistrationStatusCodeExpired:
		return "expired"
	case RegistrationStatusCodeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReferenceRegistration is the entity tracking one registered memo and the
// short reference ID the network assigned to it. Usage count and expiry are
// server state: they are only ever refreshed from the network, never advanced
// locally.
type ReferenceRegistration struct {
	Id                 string
	Asset              AssetID
	RawMemo            string
	RegistrationTxHash string
	ReferenceID        string
	RegisteredAtHeight int64
	ExpiryHeight       int64
	UsageCount         int
	MaxUse             int
	Status             RegistrationStatus

	InboundAddress string
	DustThreshold  uint64
	Encoding       *AmountEncoding
	DepositHash    string
}

// NewReferenceRegistration returns a registration in Draft status.
func NewReferenceRegistration(asset AssetID, rawMemo string) *ReferenceRegistration {
	return &ReferenceRegistration{
		Id:      uuid.New().String(),
		Asset:   asset,
		RawMemo: rawMemo,
		Status:  RegistrationStatus{Code: RegistrationStatusCodeDraft},
	}
}

// RegistrationMemo is the memo carried by the zero-amount registration
// transaction.
func (r *ReferenceRegistration) RegistrationMemo() string {
	return fmt.Sprintf("REFERENCE:%s:%s", r.Asset, r.RawMemo)
}

// Register brings a Draft registration to Registering.
func (r *ReferenceRegistration) Register() error {
	if r.Status.Code == RegistrationStatusCodeRegistering {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeDraft {
		return r.transitionErr("registering")
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeRegistering}
	return nil
}

// ConfirmBroadcast records the registration tx hash and moves to
// AwaitingReference.
func (r *ReferenceRegistration) ConfirmBroadcast(txHash string) error {
	if r.Status.Code == RegistrationStatusCodeAwaitingReference {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeRegistering {
		return r.transitionErr("awaiting_reference")
	}
	r.RegistrationTxHash = txHash
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeAwaitingReference}
	return nil
}

// ObtainReference records the reference metadata returned by the network.
// Leading zeros in referenceID are significant and preserved.
func (r *ReferenceRegistration) ObtainReference(
	referenceID string, registeredAt, expiry int64, usageCount, maxUse int,
) error {
	if r.Status.Code == RegistrationStatusCodeReferenceObtained {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeAwaitingReference {
		return r.transitionErr("reference_obtained")
	}
	if !referenceIDRegex.MatchString(referenceID) {
		return ErrInvalidReferenceID
	}
	r.ReferenceID = referenceID
	r.RegisteredAtHeight = registeredAt
	r.ExpiryHeight = expiry
	r.UsageCount = usageCount
	r.MaxUse = maxUse
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeReferenceObtained}
	return nil
}

// AttachChainInfo records the inbound address and dust threshold fetched for
// the asset's chain and opens amount configuration.
func (r *ReferenceRegistration) AttachChainInfo(inboundAddress string, dustThreshold uint64) error {
	switch r.Status.Code {
	case RegistrationStatusCodeAmountConfiguring:
		return nil
	case RegistrationStatusCodeReferenceObtained:
	default:
		return r.transitionErr("amount_configuring")
	}
	r.InboundAddress = inboundAddress
	r.DustThreshold = dustThreshold
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeAmountConfiguring}
	return nil
}

// SetEncoding replaces the current amount encoding snapshot. Allowed while
// configuring or re-configuring a previously validated amount.
func (r *ReferenceRegistration) SetEncoding(enc AmountEncoding) error {
	switch r.Status.Code {
	case RegistrationStatusCodeAmountConfiguring, RegistrationStatusCodeAmountValidated:
	default:
		return r.transitionErr("amount_configuring")
	}
	r.Encoding = &enc
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeAmountConfiguring}
	return nil
}

// ValidateAmount marks the current encoding as confirmed by both the local
// and the remote validator.
func (r *ReferenceRegistration) ValidateAmount() error {
	if r.Status.Code == RegistrationStatusCodeAmountValidated {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeAmountConfiguring {
		return r.transitionErr("amount_validated")
	}
	if r.Encoding == nil || !r.Encoding.IsValid() {
		return ErrInvalidAmount
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeAmountValidated}
	return nil
}

// AttachDepositHash records the hash of the externally broadcast deposit and
// hands the registration over to deposit tracking.
func (r *ReferenceRegistration) AttachDepositHash(hash string) error {
	if r.Status.Code == RegistrationStatusCodeDepositPending {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeAmountValidated {
		return r.transitionErr("deposit_pending")
	}
	r.DepositHash = hash
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeDepositPending}
	return nil
}

// ObserveDeposit marks the deposit as observed by the network.
func (r *ReferenceRegistration) ObserveDeposit() error {
	if r.Status.Code == RegistrationStatusCodeDepositObserved {
		return nil
	}
	if r.Status.Code != RegistrationStatusCodeDepositPending {
		return r.transitionErr("deposit_observed")
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeDepositObserved}
	return nil
}

// Complete marks the whole flow as finished.
func (r *ReferenceRegistration) Complete() error {
	if r.Status.Code == RegistrationStatusCodeCompleted {
		return nil
	}
	switch r.Status.Code {
	case RegistrationStatusCodeDepositPending, RegistrationStatusCodeDepositObserved:
	default:
		return r.transitionErr("completed")
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeCompleted}
	return nil
}

// Expire moves the registration to the terminal Expired status. Reachable
// from any non-terminal status.
func (r *ReferenceRegistration) Expire(reason string) error {
	if r.Status.IsTerminal() {
		if r.Status.Code == RegistrationStatusCodeExpired {
			return nil
		}
		return r.transitionErr("expired")
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeExpired, Reason: reason}
	return nil
}

// Fail moves the registration to the terminal Failed status. Reachable from
// any non-terminal status.
func (r *ReferenceRegistration) Fail(reason string) error {
	if r.Status.IsTerminal() {
		if r.Status.Code == RegistrationStatusCodeFailed {
			return nil
		}
		return r.transitionErr("failed")
	}
	r.Status = RegistrationStatus{Code: RegistrationStatusCodeFailed, Reason: reason}
	return nil
}

// RefreshServerState overwrites usage count and expiry with freshly fetched
// server values and expires the registration if they say so.
func (r *ReferenceRegistration) RefreshServerState(
	usageCount int, expiryHeight, currentHeight int64,
) {
	r.UsageCount = usageCount
	r.ExpiryHeight = expiryHeight
	if r.IsStale(currentHeight) && !r.Status.IsTerminal() {
		reason := "expiry height exceeded"
		if r.MaxUse > 0 && r.UsageCount >= r.MaxUse {
			reason = "max usage reached"
		}
		// Expire cannot fail from a non-terminal status.
		r.Expire(reason)
	}
}

// IsStale reports whether the registration can no longer be used, either
// because its expiry height has been exceeded or its usage budget is spent.
func (r *ReferenceRegistration) IsStale(currentHeight int64) bool {
	if r.ExpiryHeight > 0 && currentHeight > r.ExpiryHeight {
		return true
	}
	if r.MaxUse > 0 && r.UsageCount >= r.MaxUse {
		return true
	}
	return false
}

// BlocksRemaining returns the number of blocks until expiry, floored at zero.
func (r *ReferenceRegistration) BlocksRemaining(currentHeight int64) int64 {
	remaining := r.ExpiryHeight - currentHeight
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TimeRemaining estimates the wall-clock time until expiry.
func (r *ReferenceRegistration) TimeRemaining(currentHeight int64) time.Duration {
	return time.Duration(r.BlocksRemaining(currentHeight)) * AverageBlockTime
}

func (r *ReferenceRegistration) transitionErr(target string) error {
	return fmt.Errorf(
		"%w: %s -> %s", ErrInvalidStatusTransition, r.Status, target,
	)
}
