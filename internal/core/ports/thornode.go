package ports

import (
	"context"
	"errors"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
)

// ErrMemoNotFound is returned while a registration has not been picked up by
// the network yet. Callers retry it, they do not surface it.
var ErrMemoNotFound = errors.New("memo reference not found")

// Pool is one entry of the network's pool list.
type Pool struct {
	Asset        string
	Status       string
	BalanceRune  uint64
	BalanceAsset uint64
	Decimals     int
	AssetPrice   float64
}

// InboundAddress is the currently designated deposit address for one chain.
type InboundAddress struct {
	Chain         string
	Address       string
	Router        string
	Halted        bool
	DustThreshold uint64
	GasRate       string
}

// MemoReference is the reference metadata for a registered memo.
type MemoReference struct {
	ReferenceID        string
	Memo               string
	Asset              string
	RegisteredAtHeight int64
	ExpiryHeight       int64
	UsageCount         int
	MaxUse             int
}

// MemoCheckResult is the server-side re-derivation of a candidate amount.
type MemoCheckResult struct {
	Valid       bool
	ReferenceID string
	Memo        string
}

// ThornodeClient is the engine's view of the network REST API.
type ThornodeClient interface {
	// GetPools returns the asset universe with liquidity info.
	GetPools(ctx context.Context) ([]Pool, error)
	// GetInboundAddresses returns the per-chain deposit addresses and dust
	// thresholds.
	GetInboundAddresses(ctx context.Context) ([]InboundAddress, error)
	// GetMemoReference looks up the reference assigned to a registration tx.
	// A registration not yet picked up returns ErrMemoNotFound.
	GetMemoReference(ctx context.Context, registrationTxHash string) (*MemoReference, error)
	// CheckMemoAmount asks the network to re-derive the reference carried by
	// rawAmount for the given asset.
	CheckMemoAmount(ctx context.Context, asset, rawAmount string) (*MemoCheckResult, error)
	// GetLastBlockHeight returns the network's current block height.
	GetLastBlockHeight(ctx context.Context) (int64, error)
	// GetObservedTx returns the observation status of an inbound deposit.
	GetObservedTx(ctx context.Context, hash string) (*domain.DepositObservation, error)
}
