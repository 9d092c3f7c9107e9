package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

// **** ThornodeClient ****

type mockThornodeClient struct {
	mock.Mock
}

func (m *mockThornodeClient) GetPools(ctx context.Context) ([]ports.Pool, error) {
	args := m.Called(ctx)

	var res []ports.Pool
	if a := args.Get(0); a != nil {
		res = a.([]ports.Pool)
	}
	return res, args.Error(1)
}

func (m *mockThornodeClient) GetInboundAddresses(
	ctx context.Context,
) ([]ports.InboundAddress, error) {
	args := m.Called(ctx)

	var res []ports.InboundAddress
	if a := args.Get(0); a != nil {
		res = a.([]ports.InboundAddress)
	}
	return res, args.Error(1)
}

func (m *mockThornodeClient) GetMemoReference(
	ctx context.Context, registrationTxHash string,
) (*ports.MemoReference, error) {
	args := m.Called(ctx, registrationTxHash)

	var res *ports.MemoReference
	if a := args.Get(0); a != nil {
		res = a.(*ports.MemoReference)
	}
	return res, args.Error(1)
}

func (m *mockThornodeClient) CheckMemoAmount(
	ctx context.Context, asset, rawAmount string,
) (*ports.MemoCheckResult, error) {
	args := m.Called(ctx, asset, rawAmount)

	var res *ports.MemoCheckResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.MemoCheckResult)
	}
	return res, args.Error(1)
}

func (m *mockThornodeClient) GetLastBlockHeight(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockThornodeClient) GetObservedTx(
	ctx context.Context, hash string,
) (*domain.DepositObservation, error) {
	args := m.Called(ctx, hash)

	var res *domain.DepositObservation
	if a := args.Get(0); a != nil {
		res = a.(*domain.DepositObservation)
	}
	return res, args.Error(1)
}

// **** TxBroadcaster ****

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastDeposit(
	ctx context.Context, asset, amount, memo string,
) (string, error) {
	args := m.Called(ctx, asset, amount, memo)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

// **** BalanceRefresher ****

type mockBalanceRefresher struct {
	mock.Mock
}

func (m *mockBalanceRefresher) RefreshBalances(ctx context.Context) {
	m.Called(ctx)
}
