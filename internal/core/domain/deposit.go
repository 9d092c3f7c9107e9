package domain

import (
	"fmt"
	"time"
)

// Ordered pipeline stages a deposit passes through on the network.
const (
	StageInboundObserved = iota
	StageProcessing
	StageOutboundSent
	StageFinalized
)

var stageNames = []string{
	"inbound_observed",
	"processing",
	"outbound_sent",
	"finalized",
}

// Deposit tracking statuses.
const (
	DepositStatusPolling   = "polling"
	DepositStatusCompleted = "completed"
	DepositStatusTimedOut  = "timedOut"
	DepositStatusError     = "error"
)

var utxoChainSchemes = map[string]string{
	"BTC":  "bitcoin",
	"LTC":  "litecoin",
	"BCH":  "bitcoincash",
	"DOGE": "dogecoin",
}

// EVM side-chain ids for the ethereum: URI scheme. The EVM L1 itself carries
// no chain id suffix.
var evmChainIDs = map[string]string{
	"ETH":  "",
	"BSC":  "56",
	"BASE": "8453",
	"AVAX": "43114",
}

// DepositInstruction carries everything the user needs to broadcast the
// encoded deposit. It is immutable: a changed amount or inbound address
// requires building a new instruction.
type DepositInstruction struct {
	Asset          AssetID
	InboundAddress string
	DustThreshold  uint64
	FinalAmount    string
	QRPayload      string
}

// NewDepositInstruction validates the inputs and builds the chain-specific
// QR payload.
func NewDepositInstruction(
	asset AssetID, inboundAddress string, dustThreshold uint64, finalAmount string,
) (*DepositInstruction, error) {
	if inboundAddress == "" {
		return nil, ErrMissingInboundAddress
	}
	qr, err := qrPayload(asset.Chain, inboundAddress, finalAmount)
	if err != nil {
		return nil, err
	}
	return &DepositInstruction{
		Asset:          asset,
		InboundAddress: inboundAddress,
		DustThreshold:  dustThreshold,
		FinalAmount:    finalAmount,
		QRPayload:      qr,
	}, nil
}

func qrPayload(chain, address, amount string) (string, error) {
	if scheme, ok := utxoChainSchemes[chain]; ok {
		return fmt.Sprintf("%s:%s?amount=%s", scheme, address, amount), nil
	}
	if chainID, ok := evmChainIDs[chain]; ok {
		if chainID == "" {
			return fmt.Sprintf("ethereum:%s?value=%s", address, amount), nil
		}
		return fmt.Sprintf("ethereum:%s@%s?value=%s", address, chainID, amount), nil
	}
	return "", fmt.Errorf("%w: no QR scheme for %s", ErrUnsupportedChain, chain)
}

// DepositObservation is one poll's view of the observed transaction. Pointer
// fields distinguish "field absent" from "field zero", which stage derivation
// depends on.
type DepositObservation struct {
	Observed        bool
	BlockHeight     *int64
	FinalisedHeight *int64
	OutboundTxIDs   []string
}

// StageState is the completion flag of a single pipeline stage.
type StageState struct {
	Name      string
	Completed bool
}

// TrackedDeposit is the polling-side view of a submitted deposit. Stage
// completion is a high-water mark: a later, less complete observation never
// regresses the reported progress.
type TrackedDeposit struct {
	Hash         string
	Stages       [4]StageState
	Status       string
	Attempts     int
	LastPolledAt time.Time
}

// NewTrackedDeposit returns a deposit in polling status with all stages
// pending.
func NewTrackedDeposit(hash string) *TrackedDeposit {
	d := &TrackedDeposit{Hash: hash, Status: DepositStatusPolling}
	for i := range d.Stages {
		d.Stages[i] = StageState{Name: stageNames[i]}
	}
	return d
}

// MergeObservation folds one poll result into the stage high-water mark and
// reports whether the deposit reached the Finalized stage.
func (d *TrackedDeposit) MergeObservation(obs DepositObservation) bool {
	if obs.Observed {
		d.Stages[StageInboundObserved].Completed = true
	}
	if obs.BlockHeight != nil {
		d.Stages[StageInboundObserved].Completed = true
		d.Stages[StageProcessing].Completed = true
	}
	if len(obs.OutboundTxIDs) > 0 {
		d.Stages[StageOutboundSent].Completed = true
	}
	if obs.FinalisedHeight != nil {
		d.Stages[StageFinalized].Completed = true
		d.Status = DepositStatusCompleted
	}
	return d.Stages[StageFinalized].Completed
}

// CurrentStage returns the name of the most advanced completed stage, or
// "pending" when nothing has been observed yet.
func (d *TrackedDeposit) CurrentStage() string {
	for i := len(d.Stages) - 1; i >= 0; i-- {
		if d.Stages[i].Completed {
			return d.Stages[i].Name
		}
	}
	return "pending"
}

// Snapshot returns a value copy safe to hand across the API boundary.
func (d *TrackedDeposit) Snapshot() TrackedDeposit {
	return *d
}
