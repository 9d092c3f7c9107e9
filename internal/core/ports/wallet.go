package ports

import "context"

// TxBroadcaster is the signing collaborator. It is the only side-effecting
// dependency of the registration workflow: one zero-amount deposit-type
// transaction per registration.
type TxBroadcaster interface {
	// BroadcastDeposit signs and broadcasts a deposit-type transaction and
	// returns its hash. Deposit-type transactions are the only message kind
	// allowed to carry a zero amount; value transfers must reject zero.
	BroadcastDeposit(ctx context.Context, asset, amount, memo string) (string, error)
}

// BalanceRefresher is notified once a tracked deposit finalizes, so the host
// application can refresh dependent state. Optional collaborator.
type BalanceRefresher interface {
	RefreshBalances(ctx context.Context)
}
