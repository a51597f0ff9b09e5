package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contest-sync/core/database"
	"contest-sync/core/reconcile"
	"contest-sync/feature/contest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// indexChunkSize bounds the IN list of a single index query.
const indexChunkSize = 500

// Repository persists contests.
type Repository interface {
	// Migrate creates or updates the schema (table and unique key).
	Migrate(ctx context.Context) error
	// LoadIndex returns the persisted contests for the given keys.
	LoadIndex(ctx context.Context, keys []reconcile.Key) (map[reconcile.Key]models.Contest, error)
	// Upsert atomically inserts the contest or overwrites the descriptive fields of
	// the contest with the same provider and external id. The id of an existing
	// contest is never changed and last_synced_at only moves forward.
	Upsert(ctx context.Context, c models.Contest) error
	// List returns contests matching the filter ordered by start time.
	List(ctx context.Context, filter models.Filter) ([]models.Contest, error)
	// FindByID returns the contest with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Contest, error)
}

// upsertColumns are overwritten when the key already exists.
var upsertColumns = []string{
	"name", "url", "start_time", "end_time", "duration_seconds", "phase",
}

// syncedAtExpr keeps the later of the stored and the incoming last_synced_at.
var syncedAtExpr = map[string]string{
	database.DriverMySQL:  "CASE WHEN VALUES(last_synced_at) > last_synced_at THEN VALUES(last_synced_at) ELSE last_synced_at END",
	database.DriverSQLite: "CASE WHEN excluded.last_synced_at > last_synced_at THEN excluded.last_synced_at ELSE last_synced_at END",
}

// GormRepository stores contests in MySQL or SQLite.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository on the given connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the contests table and its unique key.
func (r *GormRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Contest{}); err != nil {
		return fmt.Errorf("failed to migrate contests: %w", err)
	}
	return nil
}

// LoadIndex loads the persisted contests for keys, grouped by provider.
func (r *GormRepository) LoadIndex(ctx context.Context, keys []reconcile.Key) (map[reconcile.Key]models.Contest, error) {
	index := make(map[reconcile.Key]models.Contest, len(keys))

	byProvider := make(map[string][]string)
	for _, k := range keys {
		byProvider[k.Provider] = append(byProvider[k.Provider], k.ExternalID)
	}

	for provider, ids := range byProvider {
		for start := 0; start < len(ids); start += indexChunkSize {
			end := min(start+indexChunkSize, len(ids))

			var rows []models.Contest
			err := r.db.WithContext(ctx).
				Where("provider = ? AND external_id IN ?", provider, ids[start:end]).
				Find(&rows).Error
			if err != nil {
				return nil, fmt.Errorf("failed to load contests for %s: %w", provider, err)
			}
			for _, row := range rows {
				index[reconcile.Key{Provider: row.Provider, ExternalID: row.ExternalID}] = row
			}
		}
	}

	return index, nil
}

// Upsert writes the contest with a single INSERT ... ON CONFLICT statement.
// last_synced_at never moves backwards, even when a slower writer lands last.
func (r *GormRepository) Upsert(ctx context.Context, c models.Contest) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	// SQLite compares the stored text, so every timestamp is written in UTC.
	c.LastSyncedAt = c.LastSyncedAt.UTC()

	updates := clause.AssignmentColumns(upsertColumns)
	if expr, ok := syncedAtExpr[r.db.Dialector.Name()]; ok {
		updates = append(updates, clause.Assignment{Column: clause.Column{Name: "last_synced_at"}, Value: gorm.Expr(expr)})
	} else {
		updates = append(updates, clause.AssignmentColumns([]string{"last_synced_at"})...)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "external_id"}},
		DoUpdates: updates,
	}).Create(&c).Error
	if err != nil {
		return fmt.Errorf("failed to upsert contest %s/%s: %w", c.Provider, c.ExternalID, err)
	}
	return nil
}

// List returns contests matching the filter ordered by start time.
func (r *GormRepository) List(ctx context.Context, filter models.Filter) ([]models.Contest, error) {
	q := r.db.WithContext(ctx).Model(&models.Contest{})

	if filter.Provider != "" {
		q = q.Where("provider = ?", filter.Provider)
	}

	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	switch filter.Status {
	case "":
	case models.StatusUpcoming:
		q = q.Where("start_time > ?", now)
	case models.StatusRunning:
		q = q.Where("(start_time IS NULL OR start_time <= ?) AND (end_time IS NULL OR end_time > ?)", now, now)
	case models.StatusFinished:
		q = q.Where("end_time <= ?", now)
	default:
		return nil, fmt.Errorf("unknown status %q", filter.Status)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var contests []models.Contest
	if err := q.Order("start_time ASC").Order("id ASC").Find(&contests).Error; err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	return contests, nil
}

// FindByID returns the contest with the given id.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.Contest, error) {
	var c models.Contest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contest %s: %w", id, err)
	}
	return &c, nil
}
