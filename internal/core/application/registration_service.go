package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/decimalutil"
	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/retry"
)

// DefaultSettleDelay is the wait between registration broadcast and the first
// reference poll, roughly one source-chain block confirmation.
const DefaultSettleDelay = 6 * time.Second

// DefaultAwaitOpts bounds the reference-await polling loop.
var DefaultAwaitOpts = retry.Opts{
	InitialDelay: 2 * time.Second,
	MaxDelay:     15 * time.Second,
	Multiplier:   1.6,
	MaxAttempts:  24,
	MaxElapsed:   5 * time.Minute,
}

// RegistrationService drives one memo registration from draft to a tracked
// deposit. One service instance owns exactly one workflow; callers needing
// concurrent registrations instantiate independent services.
type RegistrationService interface {
	// StartRegistration broadcasts the zero-amount registration transaction
	// and blocks until the network assigns a reference ID (or the attempt
	// budget is spent), then fetches inbound address, dust threshold and
	// current height for the asset's chain.
	StartRegistration(ctx context.Context, asset domain.AssetID, memo string) (domain.ReferenceRegistration, error)
	// CurrentState returns an immutable snapshot of the workflow.
	CurrentState() domain.ReferenceRegistration
	// ConfigureAmount re-encodes the amount on every call and, once locally
	// valid and above dust, cross-checks it against the network memo-check
	// endpoint. Local and remote must agree for the amount to validate.
	ConfigureAmount(ctx context.Context, userInput string, mode domain.InputMode, assetPriceUSD float64) (domain.AmountEncoding, error)
	// BuildDepositInstruction freezes the validated amount into an immutable
	// deposit instruction with the chain-specific QR payload.
	BuildDepositInstruction(ctx context.Context) (*domain.DepositInstruction, error)
	// AttachDepositHash records the externally broadcast deposit hash and
	// hands the workflow over to deposit tracking.
	AttachDepositHash(ctx context.Context, hash string) (domain.ReferenceRegistration, error)
	// FollowDeposit tracks the attached deposit and feeds its progress back
	// into the workflow: the registration advances to DepositObserved when
	// the inbound is first seen and to Completed once the deposit finalizes.
	// Snapshots from the tracker are forwarded on the returned channel.
	FollowDeposit(ctx context.Context, tracker TrackerService) (<-chan domain.TrackedDeposit, error)
	// RefreshRegistration re-fetches usage count and expiry from the network.
	// Server state is never advanced locally.
	RefreshRegistration(ctx context.Context) (domain.ReferenceRegistration, error)
}

type registrationService struct {
	client      ports.ThornodeClient
	broadcaster ports.TxBroadcaster
	repoManager ports.RepoManager
	settleDelay time.Duration
	awaitOpts   retry.Opts

	mtx sync.Mutex
	reg *domain.ReferenceRegistration
}

// RegistrationServiceOpts groups the collaborators of a registration service.
// RepoManager may be nil to run without local history.
type RegistrationServiceOpts struct {
	Client      ports.ThornodeClient
	Broadcaster ports.TxBroadcaster
	RepoManager ports.RepoManager
	SettleDelay time.Duration
	AwaitOpts   retry.Opts
}

// NewRegistrationService returns a registration service in Draft status.
func NewRegistrationService(opts RegistrationServiceOpts) (RegistrationService, error) {
	if opts.Client == nil {
		return nil, errors.New("missing thornode client")
	}
	if opts.Broadcaster == nil {
		return nil, errors.New("missing tx broadcaster")
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.AwaitOpts == (retry.Opts{}) {
		opts.AwaitOpts = DefaultAwaitOpts
	}
	return &registrationService{
		client:      opts.Client,
		broadcaster: opts.Broadcaster,
		repoManager: opts.RepoManager,
		settleDelay: opts.SettleDelay,
		awaitOpts:   opts.AwaitOpts,
	}, nil
}

func (s *registrationService) StartRegistration(
	ctx context.Context, asset domain.AssetID, memo string,
) (domain.ReferenceRegistration, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.reg != nil {
		return s.snapshot(), fmt.Errorf(
			"registration already started for %s", s.reg.Asset,
		)
	}

	reg := domain.NewReferenceRegistration(asset, memo)
	s.reg = reg
	if err := reg.Register(); err != nil {
		return s.snapshot(), err
	}
	s.persist(ctx)

	txHash, err := s.broadcaster.BroadcastDeposit(
		ctx, asset.String(), "0", reg.RegistrationMemo(),
	)
	if err != nil {
		reg.Fail(fmt.Sprintf("broadcast: %v", err))
		s.persist(ctx)
		return s.snapshot(), fmt.Errorf("%w: %v", ErrBroadcastFailed, err)
	}
	if err := reg.ConfirmBroadcast(txHash); err != nil {
		return s.snapshot(), err
	}
	s.persist(ctx)

	log.Debugf(
		"registration %s broadcast as %s, waiting %s before first poll",
		reg.Id, txHash, s.settleDelay,
	)
	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return s.snapshot(), ctx.Err()
	}

	ref, err := s.awaitReference(ctx, txHash)
	if err != nil {
		reg.Fail(fmt.Sprintf("await reference: %v", err))
		s.persist(ctx)
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return s.snapshot(), ErrReferenceTimeout
		}
		return s.snapshot(), err
	}
	if err := reg.ObtainReference(
		ref.ReferenceID, ref.RegisteredAtHeight, ref.ExpiryHeight,
		ref.UsageCount, ref.MaxUse,
	); err != nil {
		return s.snapshot(), err
	}

	height, err := s.client.GetLastBlockHeight(ctx)
	if err != nil {
		reg.Fail(fmt.Sprintf("last block: %v", err))
		s.persist(ctx)
		return s.snapshot(), err
	}
	if reg.IsStale(height) {
		reg.RefreshServerState(ref.UsageCount, ref.ExpiryHeight, height)
		s.persist(ctx)
		return s.snapshot(), domain.ErrRegistrationExpired
	}

	inbound, err := s.inboundForChain(ctx, asset.Chain)
	if err != nil {
		reg.Fail(fmt.Sprintf("inbound address: %v", err))
		s.persist(ctx)
		return s.snapshot(), err
	}
	if err := reg.AttachChainInfo(inbound.Address, inbound.DustThreshold); err != nil {
		return s.snapshot(), err
	}
	s.persist(ctx)

	log.Infof(
		"registration %s obtained reference %s, expires in ~%s",
		reg.Id, reg.ReferenceID, reg.TimeRemaining(height),
	)
	return s.snapshot(), nil
}

func (s *registrationService) CurrentState() domain.ReferenceRegistration {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.snapshot()
}

func (s *registrationService) ConfigureAmount(
	ctx context.Context, userInput string,
	mode domain.InputMode, assetPriceUSD float64,
) (domain.AmountEncoding, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	reg := s.reg
	if reg == nil || reg.Status.IsTerminal() {
		return domain.AmountEncoding{}, ErrWorkflowTerminal
	}

	decimals, err := reg.Asset.Decimals()
	if err != nil {
		return domain.AmountEncoding{}, err
	}

	enc := domain.Encode(userInput, mode, reg.ReferenceID, decimals, assetPriceUSD)
	if enc.IsValid() {
		ok, err := domain.DustThresholdOK(enc.FinalAmount, reg.DustThreshold, decimals)
		if err != nil {
			return enc, err
		}
		if !ok {
			enc.Errors = append(enc.Errors, domain.ErrBelowDustThreshold.Error())
		}
	}
	if err := reg.SetEncoding(enc); err != nil {
		return enc, err
	}
	s.persist(ctx)
	if !enc.IsValid() {
		return enc, nil
	}

	// Local validator passed; require bit-for-bit agreement with the
	// network's own re-derivation before allowing progression.
	rawAmount, err := decimalutil.ShiftToInteger(enc.FinalAmount, decimals)
	if err != nil {
		return enc, err
	}
	check, err := s.client.CheckMemoAmount(ctx, reg.Asset.String(), rawAmount)
	if err != nil {
		return enc, fmt.Errorf("memo-check: %w", err)
	}
	if !check.Valid || check.ReferenceID != reg.ReferenceID {
		return enc, &domain.EncodingMismatchError{
			LocalAmount:     enc.FinalAmount,
			LocalReference:  reg.ReferenceID,
			RemoteReference: check.ReferenceID,
		}
	}

	if err := reg.ValidateAmount(); err != nil {
		return enc, err
	}
	s.persist(ctx)
	return enc, nil
}

func (s *registrationService) BuildDepositInstruction(
	ctx context.Context,
) (*domain.DepositInstruction, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	reg := s.reg
	if reg == nil || reg.Status.IsTerminal() {
		return nil, ErrWorkflowTerminal
	}
	if reg.Status.Code != domain.RegistrationStatusCodeAmountValidated {
		return nil, ErrAmountNotValidated
	}

	return domain.NewDepositInstruction(
		reg.Asset, reg.InboundAddress, reg.DustThreshold,
		reg.Encoding.FinalAmount,
	)
}

func (s *registrationService) AttachDepositHash(
	ctx context.Context, hash string,
) (domain.ReferenceRegistration, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if hash == "" {
		return s.snapshot(), ErrMissingHash
	}
	reg := s.reg
	if reg == nil || reg.Status.IsTerminal() {
		return s.snapshot(), ErrWorkflowTerminal
	}
	if err := reg.AttachDepositHash(hash); err != nil {
		return s.snapshot(), err
	}
	s.persist(ctx)
	return s.snapshot(), nil
}

func (s *registrationService) FollowDeposit(
	ctx context.Context, tracker TrackerService,
) (<-chan domain.TrackedDeposit, error) {
	s.mtx.Lock()
	reg := s.reg
	if reg == nil || reg.Status.IsTerminal() {
		s.mtx.Unlock()
		return nil, ErrWorkflowTerminal
	}
	if reg.Status.Code != domain.RegistrationStatusCodeDepositPending ||
		reg.DepositHash == "" {
		s.mtx.Unlock()
		return nil, ErrMissingHash
	}
	hash := reg.DepositHash
	s.mtx.Unlock()

	snapshots, err := tracker.Track(ctx, hash)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.TrackedDeposit, snapshotQueueMaxSize)
	go func() {
		defer close(out)
		for snapshot := range snapshots {
			s.applyDepositProgress(ctx, snapshot)
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// applyDepositProgress folds one tracker snapshot into the workflow status.
func (s *registrationService) applyDepositProgress(
	ctx context.Context, snapshot domain.TrackedDeposit,
) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	reg := s.reg
	if reg == nil || reg.Status.IsTerminal() {
		return
	}
	if snapshot.Stages[domain.StageInboundObserved].Completed &&
		reg.Status.Code == domain.RegistrationStatusCodeDepositPending {
		if err := reg.ObserveDeposit(); err != nil {
			log.Warnf("registration %s: %v", reg.Id, err)
			return
		}
		s.persist(ctx)
	}
	if snapshot.Status == domain.DepositStatusCompleted &&
		reg.Status.Code != domain.RegistrationStatusCodeCompleted {
		if err := reg.Complete(); err != nil {
			log.Warnf("registration %s: %v", reg.Id, err)
			return
		}
		s.persist(ctx)
		log.Infof("registration %s completed", reg.Id)
	}
}

func (s *registrationService) RefreshRegistration(
	ctx context.Context,
) (domain.ReferenceRegistration, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	reg := s.reg
	if reg == nil || reg.RegistrationTxHash == "" {
		return s.snapshot(), ErrWorkflowTerminal
	}

	ref, err := s.client.GetMemoReference(ctx, reg.RegistrationTxHash)
	if err != nil {
		return s.snapshot(), err
	}
	height, err := s.client.GetLastBlockHeight(ctx)
	if err != nil {
		return s.snapshot(), err
	}
	reg.RefreshServerState(ref.UsageCount, ref.ExpiryHeight, height)
	s.persist(ctx)
	return s.snapshot(), nil
}

func (s *registrationService) awaitReference(
	ctx context.Context, txHash string,
) (*ports.MemoReference, error) {
	var ref *ports.MemoReference
	err := retry.Do(ctx, s.awaitOpts, func() error {
		r, err := s.client.GetMemoReference(ctx, txHash)
		if err != nil {
			// Empty and failed polls alike are non-fatal until the
			// budget is spent.
			log.Debugf("reference poll for %s: %v", txHash, err)
			return err
		}
		ref = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *registrationService) inboundForChain(
	ctx context.Context, chain string,
) (*ports.InboundAddress, error) {
	addresses, err := s.client.GetInboundAddresses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range addresses {
		if addresses[i].Chain != chain {
			continue
		}
		if addresses[i].Halted {
			return nil, fmt.Errorf("%w: %s", ErrChainHalted, chain)
		}
		return &addresses[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoInboundAddress, chain)
}

// snapshot returns a value copy detached from the internal entity. Callers
// must re-enter through service methods, never patch fields.
func (s *registrationService) snapshot() domain.ReferenceRegistration {
	if s.reg == nil {
		return domain.ReferenceRegistration{
			Status: domain.RegistrationStatus{Code: domain.RegistrationStatusCodeDraft},
		}
	}
	snap := *s.reg
	if s.reg.Encoding != nil {
		enc := *s.reg.Encoding
		snap.Encoding = &enc
	}
	return snap
}

func (s *registrationService) persist(ctx context.Context) {
	if s.repoManager == nil || s.reg == nil {
		return
	}
	repo := s.repoManager.RegistrationRepository()
	if err := repo.UpdateRegistration(ctx, s.reg); err != nil {
		if err := repo.AddRegistration(ctx, s.reg); err != nil {
			log.Warnf("persisting registration %s: %v", s.reg.Id, err)
		}
	}
}
