package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

type depositRepositoryImpl struct {
	store *badgerhold.Store
}

func newDepositRepositoryImpl(store *badgerhold.Store) ports.DepositRepository {
	return depositRepositoryImpl{store}
}

func (d depositRepositoryImpl) AddDeposit(
	ctx context.Context, deposit *domain.TrackedDeposit,
) error {
	if err := d.store.Insert(deposit.Hash, *deposit); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return ErrDepositAlreadyExists
		}
		return err
	}
	return nil
}

func (d depositRepositoryImpl) UpdateDeposit(
	ctx context.Context, deposit *domain.TrackedDeposit,
) error {
	if err := d.store.Update(deposit.Hash, *deposit); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrDepositNotFound
		}
		return err
	}
	return nil
}

func (d depositRepositoryImpl) GetDeposit(
	ctx context.Context, hash string,
) (*domain.TrackedDeposit, error) {
	var deposit domain.TrackedDeposit
	if err := d.store.Get(hash, &deposit); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

func (d depositRepositoryImpl) GetAllDeposits(
	ctx context.Context,
) ([]*domain.TrackedDeposit, error) {
	var deposits []domain.TrackedDeposit
	if err := d.store.Find(&deposits, nil); err != nil {
		return nil, err
	}

	list := make([]*domain.TrackedDeposit, 0, len(deposits))
	for i := range deposits {
		list = append(list, &deposits[i])
	}
	return list, nil
}
