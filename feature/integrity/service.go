package integrity

import (
	"context"
	"errors"

	"contest-sync/core/storage"
	"contest-sync/feature/integrity/checks"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"k8s.io/utils/clock"
)

var (
	// ErrNoStore is returned when neither a SQL database nor a collection is configured.
	ErrNoStore = errors.New("no contest store configured")
	// ErrStorageDisabled is returned by storage checks when object storage is off.
	ErrStorageDisabled = errors.New("object storage is disabled")
)

// Deps are the resources the checks inspect. Nil members are skipped.
type Deps struct {
	DB        *gorm.DB
	Contests  *mongo.Collection
	Storage   storage.Client
	Bucket    string
	Region    string
	Pinger    checks.Pinger
	Providers []string
}

// Report is the combined result of every check.
type Report struct {
	Healthy  bool                    `json:"healthy"`
	Schema   *checks.SchemaReport    `json:"schema,omitempty"`
	Storage  *checks.StorageReport   `json:"storage,omitempty"`
	Upstream []checks.ProviderStatus `json:"upstream"`
	Errors   map[string]string       `json:"errors,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	deps   Deps
	clock  clock.PassiveClock
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps, clk clock.PassiveClock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		deps:   deps,
		clock:  clk,
		logger: logger,
	}
}

// StorageEnabled reports whether an object storage client is configured.
func (s *Service) StorageEnabled() bool {
	return s.deps.Storage != nil
}

// CheckSchema verifies the layout of whichever contest store is configured.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	switch {
	case s.deps.DB != nil:
		return checks.CheckSQLSchema(s.deps.DB.WithContext(ctx))
	case s.deps.Contests != nil:
		return checks.CheckMongoSchema(ctx, s.deps.Contests)
	default:
		return nil, ErrNoStore
	}
}

// CheckStorage inspects the snapshot bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.deps.Storage == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.deps.Storage, s.deps.Bucket)
}

// FixStorage creates the snapshot bucket when it is missing.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.deps.Storage == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.deps.Storage, s.deps.Bucket, s.deps.Region)
}

// CheckUpstream pings every configured provider.
func (s *Service) CheckUpstream(ctx context.Context) []checks.ProviderStatus {
	if s.deps.Pinger == nil {
		return []checks.ProviderStatus{}
	}
	return checks.CheckUpstream(ctx, s.deps.Pinger, s.deps.Providers, s.clock)
}

// CheckAll runs every check. With fix set a missing bucket is created before it is inspected.
// A failing check is recorded in Errors and marks the report unhealthy.
func (s *Service) CheckAll(ctx context.Context, fix bool) *Report {
	report := &Report{Healthy: true, Errors: map[string]string{}}
	fail := func(check string, err error) {
		s.logger.Warn("Integrity check failed", zap.String("check", check), zap.Error(err))
		report.Errors[check] = err.Error()
		report.Healthy = false
	}

	if schema, err := s.CheckSchema(ctx); err != nil {
		fail("schema", err)
	} else {
		report.Schema = schema
		report.Healthy = report.Healthy && schema.Matched
	}

	if s.StorageEnabled() {
		if fix {
			if err := s.FixStorage(ctx); err != nil {
				fail("storage_fix", err)
			}
		}
		if st, err := s.CheckStorage(ctx); err != nil {
			fail("storage", err)
		} else {
			report.Storage = st
			report.Healthy = report.Healthy && st.Exists
		}
	}

	report.Upstream = s.CheckUpstream(ctx)
	for _, p := range report.Upstream {
		if !p.Reachable {
			report.Healthy = false
		}
	}

	if len(report.Errors) == 0 {
		report.Errors = nil
	}
	return report
}
