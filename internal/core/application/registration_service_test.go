package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/application"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/retry"
)

const (
	testMemo   = "=:ETH.ETH:0xdef"
	testTxHash = "AB12CD34"
)

var testAwaitOpts = retry.Opts{
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   1.6,
	MaxAttempts:  4,
	MaxElapsed:   time.Second,
}

func testAsset(t *testing.T) domain.AssetID {
	t.Helper()
	asset, err := domain.ParseAssetID("BTC.BTC")
	require.NoError(t, err)
	return asset
}

func newTestService(
	t *testing.T, client *mockThornodeClient, broadcaster *mockBroadcaster,
) application.RegistrationService {
	t.Helper()
	svc, err := application.NewRegistrationService(application.RegistrationServiceOpts{
		Client:      client,
		Broadcaster: broadcaster,
		SettleDelay: time.Millisecond,
		AwaitOpts:   testAwaitOpts,
	})
	require.NoError(t, err)
	return svc
}

func testReference() *ports.MemoReference {
	return &ports.MemoReference{
		ReferenceID:        "00003",
		Memo:               testMemo,
		Asset:              "BTC.BTC",
		RegisteredAtHeight: 1000,
		ExpiryHeight:       2000,
		UsageCount:         0,
		MaxUse:             10,
	}
}

func testInbound() []ports.InboundAddress {
	return []ports.InboundAddress{
		{Chain: "ETH", Address: "0xinbound", DustThreshold: 0},
		{Chain: "BTC", Address: "bc1qinbound", DustThreshold: 10000},
	}
}

func TestStartRegistration(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, "BTC.BTC", "0", "REFERENCE:BTC.BTC:"+testMemo).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(testReference(), nil)
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1500), nil)
	client.On("GetInboundAddresses", mock.Anything).Return(testInbound(), nil)

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusCodeAmountConfiguring, reg.Status.Code)
	require.Equal(t, "00003", reg.ReferenceID)
	require.Equal(t, "bc1qinbound", reg.InboundAddress)
	require.Equal(t, uint64(10000), reg.DustThreshold)
	broadcaster.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestStartRegistrationBroadcastFailure(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("insufficient funds"))

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.ErrorIs(t, err, application.ErrBroadcastFailed)
	require.Equal(t, domain.RegistrationStatusCodeFailed, reg.Status.Code)
}

func TestStartRegistrationRetriesEmptyPolls(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).
		Return(nil, ports.ErrMemoNotFound).Twice()
	client.On("GetMemoReference", mock.Anything, testTxHash).
		Return(testReference(), nil).Once()
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1500), nil)
	client.On("GetInboundAddresses", mock.Anything).Return(testInbound(), nil)

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusCodeAmountConfiguring, reg.Status.Code)
	client.AssertNumberOfCalls(t, "GetMemoReference", 3)
}

func TestStartRegistrationReferenceTimeout(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).
		Return(nil, ports.ErrMemoNotFound)

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.ErrorIs(t, err, application.ErrReferenceTimeout)
	require.Equal(t, domain.RegistrationStatusCodeFailed, reg.Status.Code)
	client.AssertNumberOfCalls(t, "GetMemoReference", 4)
}

func TestStartRegistrationExpiredReference(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(testReference(), nil)
	// Current height already past the expiry height.
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(2001), nil)

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.ErrorIs(t, err, domain.ErrRegistrationExpired)
	require.Equal(t, domain.RegistrationStatusCodeExpired, reg.Status.Code)
}

func TestStartRegistrationHaltedChain(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(testReference(), nil)
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1500), nil)
	client.On("GetInboundAddresses", mock.Anything).Return([]ports.InboundAddress{
		{Chain: "BTC", Address: "bc1qinbound", Halted: true},
	}, nil)

	reg, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.ErrorIs(t, err, application.ErrChainHalted)
	require.Equal(t, domain.RegistrationStatusCodeFailed, reg.Status.Code)
}

func startConfiguredRegistration(
	t *testing.T, client *mockThornodeClient, broadcaster *mockBroadcaster,
) application.RegistrationService {
	t.Helper()
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(testReference(), nil)
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1500), nil)
	client.On("GetInboundAddresses", mock.Anything).Return(testInbound(), nil)

	_, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.NoError(t, err)
	return svc
}

func TestConfigureAmount(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00003"}, nil)

	enc, err := svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)
	require.NoError(t, err)
	require.True(t, enc.IsValid())
	require.Equal(t, "1.00000003", enc.FinalAmount)
	require.Equal(
		t, domain.RegistrationStatusCodeAmountValidated,
		svc.CurrentState().Status.Code,
	)
}

func TestConfigureAmountBelowDust(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	// 0.00005 BTC < 10000 raw dust (0.0001). No remote check must happen.
	enc, err := svc.ConfigureAmount(context.Background(), "0.00005", domain.InputModeAsset, 0)
	require.NoError(t, err)
	require.False(t, enc.IsValid())
	require.Contains(t, enc.Errors, domain.ErrBelowDustThreshold.Error())
	client.AssertNotCalled(t, "CheckMemoAmount", mock.Anything, mock.Anything, mock.Anything)
	require.Equal(
		t, domain.RegistrationStatusCodeAmountConfiguring,
		svc.CurrentState().Status.Code,
	)
}

func TestConfigureAmountRemoteMismatch(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00007"}, nil)

	_, err := svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)

	var mismatch *domain.EncodingMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "00003", mismatch.LocalReference)
	require.Equal(t, "00007", mismatch.RemoteReference)
	// Recoverable: the workflow stays in amount configuration.
	require.Equal(
		t, domain.RegistrationStatusCodeAmountConfiguring,
		svc.CurrentState().Status.Code,
	)
}

func TestBuildDepositInstruction(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	// Not validated yet.
	_, err := svc.BuildDepositInstruction(context.Background())
	require.ErrorIs(t, err, application.ErrAmountNotValidated)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00003"}, nil)
	_, err = svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)
	require.NoError(t, err)

	instr, err := svc.BuildDepositInstruction(context.Background())
	require.NoError(t, err)
	require.Equal(t, "bc1qinbound", instr.InboundAddress)
	require.Equal(t, "1.00000003", instr.FinalAmount)
	require.Equal(t, "bitcoin:bc1qinbound?amount=1.00000003", instr.QRPayload)
}

func TestAttachDepositHash(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00003"}, nil)
	_, err := svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)
	require.NoError(t, err)

	_, err = svc.AttachDepositHash(context.Background(), "")
	require.ErrorIs(t, err, application.ErrMissingHash)

	reg, err := svc.AttachDepositHash(context.Background(), "FEED1234")
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusCodeDepositPending, reg.Status.Code)
	require.Equal(t, "FEED1234", reg.DepositHash)
}

func startPendingDeposit(
	t *testing.T, client *mockThornodeClient, broadcaster *mockBroadcaster,
) application.RegistrationService {
	t.Helper()
	svc := startConfiguredRegistration(t, client, broadcaster)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00003"}, nil)
	_, err := svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)
	require.NoError(t, err)
	_, err = svc.AttachDepositHash(context.Background(), testDepositHash)
	require.NoError(t, err)
	return svc
}

func TestFollowDepositObservesInbound(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startPendingDeposit(t, client, broadcaster)

	// Every poll sees the inbound but the deposit never finalizes before the
	// tracking budget is spent.
	client.On("GetObservedTx", mock.Anything, testDepositHash).
		Return(&domain.DepositObservation{
			Observed: true, BlockHeight: int64Ptr(100),
		}, nil)

	snapshots, err := svc.FollowDeposit(
		context.Background(), newTestTracker(t, client, nil, 2),
	)
	require.NoError(t, err)
	collectSnapshots(t, snapshots)

	// The observation advanced the workflow; a tracking timeout alone does
	// not fail the registration.
	require.Equal(
		t, domain.RegistrationStatusCodeDepositObserved,
		svc.CurrentState().Status.Code,
	)
}

func TestFollowDepositCompletesWorkflow(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	client.On("CheckMemoAmount", mock.Anything, "BTC.BTC", "100000003").
		Return(&ports.MemoCheckResult{Valid: true, ReferenceID: "00003"}, nil)
	_, err := svc.ConfigureAmount(context.Background(), "1", domain.InputModeAsset, 0)
	require.NoError(t, err)

	tracker := newTestTracker(t, client, nil, 10)

	// No deposit hash attached yet.
	_, err = svc.FollowDeposit(context.Background(), tracker)
	require.ErrorIs(t, err, application.ErrMissingHash)

	_, err = svc.AttachDepositHash(context.Background(), testDepositHash)
	require.NoError(t, err)

	// Poll 1: inbound observed. Poll 2: finalized.
	client.On("GetObservedTx", mock.Anything, testDepositHash).
		Return(&domain.DepositObservation{
			Observed: true, BlockHeight: int64Ptr(100),
		}, nil).Once()
	client.On("GetObservedTx", mock.Anything, testDepositHash).
		Return(&domain.DepositObservation{
			Observed: true, BlockHeight: int64Ptr(100), FinalisedHeight: int64Ptr(105),
		}, nil).Once()

	snapshots, err := svc.FollowDeposit(context.Background(), tracker)
	require.NoError(t, err)
	all := collectSnapshots(t, snapshots)
	require.NotEmpty(t, all)
	require.Equal(t, domain.DepositStatusCompleted, all[len(all)-1].Status)

	require.Equal(
		t, domain.RegistrationStatusCodeCompleted,
		svc.CurrentState().Status.Code,
	)
}

func TestRefreshRegistrationExpires(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := newTestService(t, client, broadcaster)

	broadcaster.
		On("BroadcastDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testTxHash, nil)
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(testReference(), nil).Once()
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1500), nil).Once()
	client.On("GetInboundAddresses", mock.Anything).Return(testInbound(), nil)

	_, err := svc.StartRegistration(context.Background(), testAsset(t), testMemo)
	require.NoError(t, err)

	// The server now reports the usage budget as spent.
	spent := testReference()
	spent.UsageCount = 10
	client.On("GetMemoReference", mock.Anything, testTxHash).Return(spent, nil).Once()
	client.On("GetLastBlockHeight", mock.Anything).Return(int64(1600), nil).Once()

	reg, err := svc.RefreshRegistration(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusCodeExpired, reg.Status.Code)
	require.Equal(t, 10, reg.UsageCount)
}

func TestSnapshotsAreDetached(t *testing.T) {
	t.Parallel()

	client := &mockThornodeClient{}
	broadcaster := &mockBroadcaster{}
	svc := startConfiguredRegistration(t, client, broadcaster)

	snap := svc.CurrentState()
	snap.ReferenceID = "tampered"
	snap.Status.Code = domain.RegistrationStatusCodeCompleted

	require.Equal(t, "00003", svc.CurrentState().ReferenceID)
	require.Equal(
		t, domain.RegistrationStatusCodeAmountConfiguring,
		svc.CurrentState().Status.Code,
	)
}
