package contest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"contest-sync/core/logger"
	"contest-sync/core/reconcile"
	"contest-sync/core/scheduler"
	"contest-sync/feature/contest/models"
	"contest-sync/feature/contest/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// ErrAllProvidersFailed is returned when no provider produced a batch.
var ErrAllProvidersFailed = errors.New("all providers failed")

// Fetcher retrieves raw records from the contest providers.
type Fetcher interface {
	FetchAll(ctx context.Context, provider string) iter.Seq2[upstream.RawRecord, error]
	Ping(ctx context.Context, provider string) error
}

// Reconciler applies a normalized batch to the store.
type Reconciler interface {
	Reconcile(ctx context.Context, batch []reconcile.Item, opts reconcile.Options) (reconcile.Summary, error)
	Plan(ctx context.Context, batch []reconcile.Item) (*reconcile.Plan, error)
	Apply(ctx context.Context, plan *reconcile.Plan, opts reconcile.Options) (reconcile.Summary, error)
}

// RunOptions tweaks a single sync run.
type RunOptions struct {
	// Providers overrides the configured provider list.
	Providers []string
	// DryRun plans the writes without applying them.
	DryRun bool
	// FromSnapshot reconciles the latest archived snapshot instead of fetching.
	FromSnapshot bool
}

// ProviderReport is the outcome of one provider within a run.
type ProviderReport struct {
	Provider string            `json:"provider"`
	Fetched  int               `json:"fetched"`
	Dropped  int               `json:"dropped"`
	Selected int               `json:"selected"`
	Summary  reconcile.Summary `json:"summary"`
	// Changes lists the planned inserts and updates of a dry run.
	Changes []reconcile.Action `json:"changes,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Report is the outcome of one sync run.
type Report struct {
	Cycle     string            `json:"cycle"`
	Providers []ProviderReport  `json:"providers"`
	Summary   reconcile.Summary `json:"summary"`
	Snapshot  string            `json:"snapshot,omitempty"`
}

// Syncer runs the full, incremental and keepalive cycles.
type Syncer struct {
	fetcher Fetcher
	engine  Reconciler
	archive *Archive
	cfg     SyncConfig
	clock   clock.PassiveClock
	logger  *zap.Logger
	metrics *Metrics
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithArchive enables snapshot archiving and --from-snapshot runs.
func WithArchive(a *Archive) SyncerOption {
	return func(s *Syncer) { s.archive = a }
}

// WithSyncClock sets the clock used for the incremental window.
func WithSyncClock(c clock.PassiveClock) SyncerOption {
	return func(s *Syncer) { s.clock = c }
}

// WithSyncLogger sets the logger.
func WithSyncLogger(l *zap.Logger) SyncerOption {
	return func(s *Syncer) { s.logger = l }
}

// WithSyncMetrics sets the metrics recorder.
func WithSyncMetrics(m *Metrics) SyncerOption {
	return func(s *Syncer) { s.metrics = m }
}

// NewSyncer creates a syncer.
func NewSyncer(fetcher Fetcher, engine Reconciler, cfg SyncConfig, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		fetcher: fetcher,
		engine:  engine,
		cfg:     cfg,
		clock:   clock.RealClock{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cycles returns the scheduler cycles backed by this syncer.
func (s *Syncer) Cycles() []scheduler.Cycle {
	return []scheduler.Cycle{
		{
			Name:       CycleFull,
			Interval:   s.cfg.FullInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := s.FullSync(ctx, RunOptions{})
				return err
			},
		},
		{
			Name:       CycleIncremental,
			Interval:   s.cfg.IncrementalInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := s.IncrementalSync(ctx, RunOptions{})
				return err
			},
		},
		{
			Name:     CycleKeepalive,
			Interval: s.cfg.KeepaliveInterval,
			Run:      s.KeepAlive,
		},
	}
}

// FullSync reconciles every contest currently listed by the providers.
func (s *Syncer) FullSync(ctx context.Context, opts RunOptions) (*Report, error) {
	return s.run(ctx, CycleFull, opts, func(models.Contest, time.Time) bool { return true })
}

// IncrementalSync reconciles only contests that are running or start within
// the incremental window.
func (s *Syncer) IncrementalSync(ctx context.Context, opts RunOptions) (*Report, error) {
	return s.run(ctx, CycleIncremental, opts, func(c models.Contest, now time.Time) bool {
		return inWindow(c, now, s.cfg.IncrementalWindow)
	})
}

// KeepAlive pings every keepalive provider and discards the responses.
func (s *Syncer) KeepAlive(ctx context.Context) error {
	log := logger.WithCycle(s.logger, CycleKeepalive)

	var errs []error
	for _, provider := range s.cfg.KeepaliveProviders {
		pl := log.With(zap.String("provider", provider))
		pl.Info("Pinging...")
		if err := s.fetcher.Ping(ctx, provider); err != nil {
			pl.Warn("Ping failed", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		pl.Info("Pong!")
	}
	return errors.Join(errs...)
}

func (s *Syncer) run(ctx context.Context, cycle string, opts RunOptions, keep func(models.Contest, time.Time) bool) (*Report, error) {
	log := logger.WithCycle(s.logger, cycle)
	providers := opts.Providers
	if len(providers) == 0 {
		providers = s.cfg.Providers
	}

	report := &Report{Cycle: cycle, Providers: make([]ProviderReport, len(providers))}
	batches := make([][]models.Contest, len(providers))
	for i, p := range providers {
		report.Providers[i].Provider = p
	}

	if opts.FromSnapshot {
		if err := s.loadSnapshot(ctx, report, batches); err != nil {
			return report, err
		}
	} else {
		s.collect(ctx, log, report, batches)
	}

	now := s.clock.Now()
	var archived []models.Contest
	failed := 0
	for i := range report.Providers {
		pr := &report.Providers[i]
		pl := log.With(zap.String("provider", pr.Provider))
		if pr.Error != "" {
			failed++
			continue
		}

		archived = append(archived, batches[i]...)
		selected := slices.DeleteFunc(batches[i], func(c models.Contest) bool { return !keep(c, now) })
		pr.Selected = len(selected)

		summary, changes, err := s.reconcile(ctx, selected, opts.DryRun)
		pr.Summary = summary
		pr.Changes = changes
		report.Summary.Add(summary)
		if err != nil {
			pl.Error("Reconcile failed", zap.Error(err))
			pr.Error = err.Error()
			failed++
			continue
		}

		pl.Info("Provider synced",
			zap.Int("fetched", pr.Fetched),
			zap.Int("dropped", pr.Dropped),
			zap.Int("selected", pr.Selected),
			zap.Int("inserted", summary.Inserted),
			zap.Int("updated", summary.Updated),
			zap.Int("unchanged", summary.Unchanged),
			zap.Int("failed", summary.Failed),
			zap.Bool("dry_run", opts.DryRun),
		)
	}

	if cycle == CycleFull && s.archive != nil && s.cfg.ArchiveSnapshots && !opts.DryRun && !opts.FromSnapshot && len(archived) > 0 {
		key, err := s.archive.Save(ctx, archived)
		if err != nil {
			log.Warn("Snapshot archive failed", zap.Error(err))
		} else {
			report.Snapshot = key
			log.Info("Snapshot archived", zap.String("key", key), zap.Int("contests", len(archived)))
		}
	}

	log.Info("Sync finished",
		zap.Int("providers", len(providers)),
		zap.Int("failed_providers", failed),
		zap.Int("inserted", report.Summary.Inserted),
		zap.Int("updated", report.Summary.Updated),
		zap.Int("unchanged", report.Summary.Unchanged),
		zap.Int("failed", report.Summary.Failed),
	)

	if len(providers) > 0 && failed == len(providers) {
		return report, fmt.Errorf("%s sync: %w", cycle, ErrAllProvidersFailed)
	}
	return report, nil
}

// reconcile writes the batch, or plans it and reports the changes on a dry run.
func (s *Syncer) reconcile(ctx context.Context, batch []models.Contest, dryRun bool) (reconcile.Summary, []reconcile.Action, error) {
	if !dryRun {
		summary, err := s.engine.Reconcile(ctx, Items(batch), reconcile.Options{})
		return summary, nil, err
	}

	plan, err := s.engine.Plan(ctx, Items(batch))
	if err != nil {
		return reconcile.Summary{}, nil, err
	}
	var changes []reconcile.Action
	for _, a := range plan.Actions {
		if a.Type != reconcile.ActionNoop {
			changes = append(changes, a)
		}
	}
	summary, err := s.engine.Apply(ctx, plan, reconcile.Options{DryRun: true})
	return summary, changes, err
}

// collect fetches and normalizes every provider concurrently.
// A provider failure is recorded in its report and never cancels the others.
func (s *Syncer) collect(ctx context.Context, log *zap.Logger, report *Report, batches [][]models.Contest) {
	var g errgroup.Group
	for i := range report.Providers {
		pr := &report.Providers[i]
		g.Go(func() error {
			pl := log.With(zap.String("provider", pr.Provider))

			var raws []upstream.RawRecord
			for raw, err := range s.fetcher.FetchAll(ctx, pr.Provider) {
				if err != nil {
					pl.Error("Fetch failed, provider skipped", zap.Error(err))
					s.metrics.fetchFailed(pr.Provider)
					pr.Error = err.Error()
					return nil
				}
				raws = append(raws, raw)
			}

			contests, errs := NormalizeAll(raws)
			for _, err := range errs {
				pl.Warn("Record dropped", zap.Error(err))
			}
			pr.Fetched = len(raws)
			pr.Dropped = len(errs)
			s.metrics.countRecords(pr.Provider, len(raws), len(errs))
			batches[i] = contests
			return nil
		})
	}
	_ = g.Wait()
}

// loadSnapshot fills the batches from the latest archived snapshot.
func (s *Syncer) loadSnapshot(ctx context.Context, report *Report, batches [][]models.Contest) error {
	if s.archive == nil {
		return errors.New("snapshot archive is not configured")
	}
	snap, key, err := s.archive.Latest(ctx)
	if err != nil {
		return err
	}
	report.Snapshot = key

	for i := range report.Providers {
		pr := &report.Providers[i]
		for _, c := range snap.Contests {
			if c.Provider == pr.Provider {
				batches[i] = append(batches[i], c)
			}
		}
		pr.Fetched = len(batches[i])
	}
	return nil
}

// inWindow reports whether the contest is running at now or starts before now+window.
func inWindow(c models.Contest, now time.Time, window time.Duration) bool {
	switch c.Status(now) {
	case models.StatusRunning:
		return true
	case models.StatusUpcoming:
		return c.StartTime.Before(now.Add(window))
	default:
		return false
	}
}
