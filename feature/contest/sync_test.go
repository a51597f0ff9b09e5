package contest

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"contest-sync/core/reconcile"
	"contest-sync/feature/contest/models"
	"contest-sync/feature/contest/upstream"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	clocktesting "k8s.io/utils/clock/testing"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAll(_ context.Context, provider string) iter.Seq2[upstream.RawRecord, error] {
	args := m.Called(provider)
	records, _ := args.Get(0).([]upstream.RawRecord)
	err := args.Error(1)
	return func(yield func(upstream.RawRecord, error) bool) {
		if err != nil {
			yield(nil, err)
			return
		}
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (m *mockFetcher) Ping(_ context.Context, provider string) error {
	return m.Called(provider).Error(0)
}

func cfRound(id int64, name string, start time.Time) upstream.CodeforcesRecord {
	return upstream.CodeforcesRecord{ID: id, Name: name, DurationSeconds: 7200, StartTimeSeconds: start.Unix()}
}

func testSyncConfig() SyncConfig {
	return SyncConfig{
		Providers:           []string{upstream.ProviderCodeforces, upstream.ProviderCodeChef},
		KeepaliveProviders:  []string{upstream.ProviderCodeforces},
		FullInterval:        90 * time.Minute,
		IncrementalInterval: 60 * time.Minute,
		KeepaliveInterval:   13 * time.Minute,
		IncrementalWindow:   48 * time.Hour,
	}
}

func newTestSyncer(t *testing.T, fetcher Fetcher, opts ...SyncerOption) (*Syncer, *GormRepository) {
	t.Helper()
	repo := newTestRepo(t)
	engine := reconcile.NewEngine(NewAdapter(repo))
	opts = append([]SyncerOption{WithSyncClock(clocktesting.NewFakePassiveClock(cupStart.Add(-time.Hour)))}, opts...)
	return NewSyncer(fetcher, engine, testSyncConfig(), opts...), repo
}

func TestSyncer_FullSync(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", upstream.ProviderCodeforces).Return([]upstream.RawRecord{
		cfRound(1, "Round 1", cupStart),
		cfRound(2, "", cupStart),
		cfRound(3, "Round 3", cupStart.Add(30*24*time.Hour)),
	}, nil)
	fetcher.On("FetchAll", upstream.ProviderCodeChef).Return(nil,
		&upstream.FetchError{Provider: upstream.ProviderCodeChef, Err: errors.New("connection refused")})

	syncer, repo := newTestSyncer(t, fetcher)
	report, err := syncer.FullSync(context.Background(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, report.Providers, 2)
	cf := report.Providers[0]
	assert.Equal(t, 3, cf.Fetched)
	assert.Equal(t, 1, cf.Dropped)
	assert.Equal(t, 2, cf.Selected)
	assert.Equal(t, reconcile.Summary{Inserted: 2}, cf.Summary)
	assert.Contains(t, report.Providers[1].Error, "connection refused")
	assert.Equal(t, reconcile.Summary{Inserted: 2}, report.Summary)

	all, err := repo.List(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	report, err = syncer.FullSync(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Summary{Unchanged: 2}, report.Summary)
}

func TestSyncer_AllProvidersFailed(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(nil, errors.New("timeout"))

	syncer, _ := newTestSyncer(t, fetcher)
	_, err := syncer.FullSync(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestSyncer_ProviderOverride(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", upstream.ProviderCodeforces).Return([]upstream.RawRecord{cfRound(1, "Round 1", cupStart)}, nil)

	syncer, _ := newTestSyncer(t, fetcher)
	report, err := syncer.FullSync(context.Background(), RunOptions{Providers: []string{upstream.ProviderCodeforces}})
	require.NoError(t, err)
	require.Len(t, report.Providers, 1)
	fetcher.AssertNotCalled(t, "FetchAll", upstream.ProviderCodeChef)
}

func TestSyncer_IncrementalWindow(t *testing.T) {
	now := cupStart.Add(-time.Hour)
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", upstream.ProviderCodeforces).Return([]upstream.RawRecord{
		cfRound(1, "Running", now.Add(-30*time.Minute)),
		cfRound(2, "Tomorrow", now.Add(24*time.Hour)),
		cfRound(3, "Later", now.Add(72*time.Hour)),
		cfRound(4, "Finished", now.Add(-10*time.Hour)),
	}, nil)
	fetcher.On("FetchAll", upstream.ProviderCodeChef).Return([]upstream.RawRecord{}, nil)

	syncer, repo := newTestSyncer(t, fetcher)
	report, err := syncer.IncrementalSync(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Providers[0].Selected)
	assert.Equal(t, reconcile.Summary{Inserted: 2}, report.Summary)

	all, err := repo.List(context.Background(), models.Filter{})
	require.NoError(t, err)
	var names []string
	for _, c := range all {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Running", "Tomorrow"}, names)
}

func TestSyncer_DryRun(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return([]upstream.RawRecord{cfRound(1, "Round 1", cupStart)}, nil)

	syncer, repo := newTestSyncer(t, fetcher)
	report, err := syncer.FullSync(context.Background(), RunOptions{DryRun: true, Providers: []string{upstream.ProviderCodeforces}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Inserted)
	require.Len(t, report.Providers[0].Changes, 1)
	assert.Equal(t, reconcile.ActionInsert, report.Providers[0].Changes[0].Type)

	all, err := repo.List(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSyncer_ReconcileErrorCountsAsProviderFailure(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return([]upstream.RawRecord{cfRound(1, "Round 1", cupStart)}, nil)

	gormDB, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))
	engine := reconcile.NewEngine(NewAdapter(NewGormRepository(gormDB)))

	cfg := testSyncConfig()
	cfg.Providers = []string{upstream.ProviderCodeforces}
	syncer := NewSyncer(fetcher, engine, cfg)

	report, err := syncer.FullSync(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Contains(t, report.Providers[0].Error, "load_index")
}

func TestSyncer_KeepAlive(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fetcher := new(mockFetcher)
	fetcher.On("Ping", upstream.ProviderCodeforces).Return(nil).Once()

	syncer, _ := newTestSyncer(t, fetcher, WithSyncLogger(zap.New(core)))
	require.NoError(t, syncer.KeepAlive(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("Pinging...").Len())
	assert.Equal(t, 1, logs.FilterMessage("Pong!").Len())

	fetcher.On("Ping", upstream.ProviderCodeforces).Return(errors.New("503"))
	assert.Error(t, syncer.KeepAlive(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("Ping failed").Len())
	fetcher.AssertNotCalled(t, "FetchAll", mock.Anything)
}

func TestSyncer_Cycles(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Ping", mock.Anything).Return(nil)

	syncer, _ := newTestSyncer(t, fetcher)
	cycles := syncer.Cycles()
	require.Len(t, cycles, 3)

	assert.Equal(t, CycleFull, cycles[0].Name)
	assert.Equal(t, 90*time.Minute, cycles[0].Interval)
	assert.True(t, cycles[0].RunOnStart)

	assert.Equal(t, CycleIncremental, cycles[1].Name)
	assert.Equal(t, 60*time.Minute, cycles[1].Interval)
	assert.True(t, cycles[1].RunOnStart)

	assert.Equal(t, CycleKeepalive, cycles[2].Name)
	assert.Equal(t, 13*time.Minute, cycles[2].Interval)
	assert.False(t, cycles[2].RunOnStart)

	require.NoError(t, cycles[2].Run(context.Background()))
	fetcher.AssertCalled(t, "Ping", upstream.ProviderCodeforces)
}

func TestSyncer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	fetcher := new(mockFetcher)
	fetcher.On("FetchAll", upstream.ProviderCodeforces).Return([]upstream.RawRecord{
		cfRound(1, "Round 1", cupStart),
		cfRound(2, "", cupStart),
	}, nil)
	fetcher.On("FetchAll", upstream.ProviderCodeChef).Return(nil, errors.New("down"))

	syncer, _ := newTestSyncer(t, fetcher, WithSyncMetrics(metrics))
	_, err := syncer.FullSync(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.fetched.WithLabelValues(upstream.ProviderCodeforces)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.dropped.WithLabelValues(upstream.ProviderCodeforces)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.fetchErrors.WithLabelValues(upstream.ProviderCodeChef)))
}

func TestInWindow(t *testing.T) {
	now := cupStart
	window := 48 * time.Hour

	tests := []struct {
		name string
		c    models.Contest
		want bool
	}{
		{"Running", contestAt("a", "1", "x", now.Add(-time.Hour), 2*time.Hour), true},
		{"SoonUpcoming", contestAt("a", "1", "x", now.Add(47*time.Hour), time.Hour), true},
		{"FarUpcoming", contestAt("a", "1", "x", now.Add(49*time.Hour), time.Hour), false},
		{"Finished", contestAt("a", "1", "x", now.Add(-3*time.Hour), time.Hour), false},
		{"OpenEnded", models.Contest{StartTime: ptr(now.Add(-time.Hour))}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inWindow(tt.c, now, window))
		})
	}
}
