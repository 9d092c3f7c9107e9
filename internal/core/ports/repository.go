package ports

import (
	"context"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
)

// RegistrationRepository persists memo registrations for the local history
// view. Persistence is optional: services accept a nil repository and then
// keep no history.
type RegistrationRepository interface {
	AddRegistration(ctx context.Context, r *domain.ReferenceRegistration) error
	UpdateRegistration(ctx context.Context, r *domain.ReferenceRegistration) error
	GetRegistration(ctx context.Context, id string) (*domain.ReferenceRegistration, error)
	GetAllRegistrations(ctx context.Context) ([]*domain.ReferenceRegistration, error)
}

// DepositRepository persists tracked deposits for the local history view.
type DepositRepository interface {
	AddDeposit(ctx context.Context, d *domain.TrackedDeposit) error
	UpdateDeposit(ctx context.Context, d *domain.TrackedDeposit) error
	GetDeposit(ctx context.Context, hash string) (*domain.TrackedDeposit, error)
	GetAllDeposits(ctx context.Context) ([]*domain.TrackedDeposit, error)
}

// RepoManager gives access to all repositories and owns the underlying store.
type RepoManager interface {
	RegistrationRepository() RegistrationRepository
	DepositRepository() DepositRepository
	Close()
}
