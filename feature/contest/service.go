package contest

import (
	"context"
	"errors"
	"fmt"

	"contest-sync/feature/contest/models"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// MaxListLimit caps the number of contests returned by one listing.
const MaxListLimit = 500

// ErrInvalidFilter is returned for listing filters that cannot be served.
var ErrInvalidFilter = errors.New("invalid filter")

// Service serves read-only contest queries.
type Service struct {
	repo   Repository
	clock  clock.PassiveClock
	logger *zap.Logger
}

// NewService creates a new contest service.
func NewService(repo Repository, clk clock.PassiveClock, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// List returns contests matching the filter. The status is evaluated at the
// service clock's current time. Without a limit at most MaxListLimit contests are
// returned; Truncated is set when more matched.
func (s *Service) List(ctx context.Context, filter models.Filter) (*models.ContestList, error) {
	switch filter.Status {
	case "", models.StatusUpcoming, models.StatusRunning, models.StatusFinished:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, filter.Status)
	}
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidFilter, filter.Limit)
	}
	if filter.Limit == 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	filter.Now = s.clock.Now()

	// One extra row tells whether the page is complete
	limit := filter.Limit
	filter.Limit++

	contests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := &models.ContestList{Contests: contests}
	if len(contests) > limit {
		list.Contests = contests[:limit]
		list.Truncated = true
	}
	if list.Contests == nil {
		list.Contests = []models.Contest{}
	}
	return list, nil
}

// Get returns a single contest by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Contest, error) {
	return s.repo.FindByID(ctx, id)
}
