package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

type registrationRepositoryImpl struct {
	store *badgerhold.Store
}

func newRegistrationRepositoryImpl(store *badgerhold.Store) ports.RegistrationRepository {
	return registrationRepositoryImpl{store}
}

func (r registrationRepositoryImpl) AddRegistration(
	ctx context.Context, reg *domain.ReferenceRegistration,
) error {
	if err := r.store.Insert(reg.Id, *reg); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return ErrRegistrationAlreadyExists
		}
		return err
	}
	return nil
}

func (r registrationRepositoryImpl) UpdateRegistration(
	ctx context.Context, reg *domain.ReferenceRegistration,
) error {
	if err := r.store.Update(reg.Id, *reg); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}
	return nil
}

func (r registrationRepositoryImpl) GetRegistration(
	ctx context.Context, id string,
) (*domain.ReferenceRegistration, error) {
	var reg domain.ReferenceRegistration
	if err := r.store.Get(id, &reg); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r registrationRepositoryImpl) GetAllRegistrations(
	ctx context.Context,
) ([]*domain.ReferenceRegistration, error) {
	var regs []domain.ReferenceRegistration
	if err := r.store.Find(&regs, nil); err != nil {
		return nil, err
	}

	list := make([]*domain.ReferenceRegistration, 0, len(regs))
	for i := range regs {
		list = append(list, &regs[i])
	}
	return list, nil
}
