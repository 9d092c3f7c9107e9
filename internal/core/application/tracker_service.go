package application

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

const (
	// DefaultTrackInterval is the fixed delay between observation polls.
	DefaultTrackInterval = 3 * time.Second
	// DefaultTrackMaxAttempts bounds the polling budget (~10 minutes at the
	// default interval).
	DefaultTrackMaxAttempts = 200

	snapshotQueueMaxSize = 20
)

// TrackerService polls the network observation pipeline for submitted
// deposits and emits monotonically advancing stage snapshots.
type TrackerService interface {
	// Track starts polling for the given deposit hash. The returned channel
	// receives a snapshot after every poll and is closed once the deposit
	// finalizes, the attempt budget is spent, or ctx is cancelled. Polls for
	// one hash never overlap.
	Track(ctx context.Context, hash string) (<-chan domain.TrackedDeposit, error)
}

type trackerService struct {
	client      ports.ThornodeClient
	repoManager ports.RepoManager
	refresher   ports.BalanceRefresher
	interval    time.Duration
	maxAttempts int
	rateLimiter *rate.Limiter
}

// TrackerServiceOpts groups the collaborators of a tracker service.
// RepoManager and Refresher may be nil.
type TrackerServiceOpts struct {
	Client      ports.ThornodeClient
	RepoManager ports.RepoManager
	Refresher   ports.BalanceRefresher
	Interval    time.Duration
	MaxAttempts int
}

// NewTrackerService returns a ready tracker service.
func NewTrackerService(opts TrackerServiceOpts) (TrackerService, error) {
	if opts.Client == nil {
		return nil, errors.New("missing thornode client")
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultTrackInterval
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultTrackMaxAttempts
	}
	return &trackerService{
		client:      opts.Client,
		repoManager: opts.RepoManager,
		refresher:   opts.Refresher,
		interval:    opts.Interval,
		maxAttempts: opts.MaxAttempts,
		rateLimiter: rate.NewLimiter(rate.Every(opts.Interval/2), 1),
	}, nil
}

func (t *trackerService) Track(
	ctx context.Context, hash string,
) (<-chan domain.TrackedDeposit, error) {
	if hash == "" {
		return nil, ErrMissingHash
	}

	deposit := domain.NewTrackedDeposit(hash)
	t.persist(ctx, deposit)

	snapshots := make(chan domain.TrackedDeposit, snapshotQueueMaxSize)
	go t.poll(ctx, deposit, snapshots)

	return snapshots, nil
}

// poll runs in a single goroutine per tracked hash: polls happen inline on
// the ticker, so they can never overlap for the same deposit.
func (t *trackerService) poll(
	ctx context.Context,
	deposit *domain.TrackedDeposit,
	snapshots chan<- domain.TrackedDeposit,
) {
	defer close(snapshots)

	log.Debugf("start tracking deposit %s", deposit.Hash)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugf("tracking of %s cancelled", deposit.Hash)
			return
		case <-ticker.C:
			if err := t.rateLimiter.Wait(ctx); err != nil {
				return
			}

			deposit.Attempts++
			deposit.LastPolledAt = time.Now()

			obs, err := t.client.GetObservedTx(ctx, deposit.Hash)
			if err != nil {
				// Transient by definition: only the exhausted budget is
				// surfaced to the caller.
				log.Warnf("observation poll %d for %s: %v", deposit.Attempts, deposit.Hash, err)
			} else if obs != nil {
				finalized := deposit.MergeObservation(*obs)
				if finalized {
					t.persist(ctx, deposit)
					t.emitTerminal(ctx, deposit, snapshots)
					log.Infof("deposit %s finalized after %d polls", deposit.Hash, deposit.Attempts)
					if t.refresher != nil {
						t.refresher.RefreshBalances(ctx)
					}
					return
				}
			}
			t.persist(ctx, deposit)

			if deposit.Attempts >= t.maxAttempts {
				deposit.Status = domain.DepositStatusTimedOut
				t.persist(ctx, deposit)
				t.emitTerminal(ctx, deposit, snapshots)
				log.Warnf("gave up tracking deposit %s after %d polls", deposit.Hash, deposit.Attempts)
				return
			}

			t.emit(deposit, snapshots)
		}
	}
}

// emit delivers an interim snapshot without ever blocking the polling loop;
// slow consumers miss intermediate snapshots, never terminal ones.
func (t *trackerService) emit(
	deposit *domain.TrackedDeposit, snapshots chan<- domain.TrackedDeposit,
) {
	select {
	case snapshots <- deposit.Snapshot():
	default:
	}
}

func (t *trackerService) emitTerminal(
	ctx context.Context,
	deposit *domain.TrackedDeposit, snapshots chan<- domain.TrackedDeposit,
) {
	select {
	case snapshots <- deposit.Snapshot():
	case <-ctx.Done():
	}
}

func (t *trackerService) persist(ctx context.Context, deposit *domain.TrackedDeposit) {
	if t.repoManager == nil {
		return
	}
	repo := t.repoManager.DepositRepository()
	if err := repo.UpdateDeposit(ctx, deposit); err != nil {
		if err := repo.AddDeposit(ctx, deposit); err != nil {
			log.Warnf("persisting deposit %s: %v", deposit.Hash, err)
		}
	}
}
