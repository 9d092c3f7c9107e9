package application

import "errors"

var (
	// ErrBroadcastFailed is fatal for the current registration attempt.
	ErrBroadcastFailed = errors.New("registration broadcast failed")
	// ErrReferenceTimeout is returned once the reference-await budget is spent.
	ErrReferenceTimeout = errors.New("timed out waiting for reference ID")
	// ErrWorkflowTerminal is returned when operating on an expired or failed workflow.
	ErrWorkflowTerminal = errors.New("workflow reached a terminal status")
	// ErrNoInboundAddress is returned when the network lists no usable inbound address for the chain.
	ErrNoInboundAddress = errors.New("no inbound address for chain")
	// ErrChainHalted is returned when the chain's inbound observation is halted.
	ErrChainHalted = errors.New("chain trading is halted")
	// ErrAmountNotValidated is returned when building a deposit instruction before validation.
	ErrAmountNotValidated = errors.New("amount has not been validated")
	// ErrMissingHash ...
	ErrMissingHash = errors.New("deposit hash must not be empty")
)
