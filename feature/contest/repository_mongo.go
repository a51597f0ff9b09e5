package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contest-sync/core/reconcile"
	"contest-sync/feature/contest/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding contests.
const CollectionName = "contests"

// MongoRepository stores contests in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository on the given collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// Migrate creates the unique (provider, external_id) index and the start_time index.
func (r *MongoRepository) Migrate(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "external_id", Value: 1}},
			Options: options.Index().SetName("idx_contest_provider_external").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "start_time", Value: 1}},
			Options: options.Index().SetName("idx_contest_start_time"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create contest indexes: %w", err)
	}
	return nil
}

// LoadIndex loads the persisted contests for keys with one query.
func (r *MongoRepository) LoadIndex(ctx context.Context, keys []reconcile.Key) (map[reconcile.Key]models.Contest, error) {
	index := make(map[reconcile.Key]models.Contest, len(keys))
	if len(keys) == 0 {
		return index, nil
	}

	byProvider := make(map[string][]string)
	var order []string
	for _, k := range keys {
		if _, ok := byProvider[k.Provider]; !ok {
			order = append(order, k.Provider)
		}
		byProvider[k.Provider] = append(byProvider[k.Provider], k.ExternalID)
	}

	clauses := make(bson.A, 0, len(order))
	for _, provider := range order {
		clauses = append(clauses, bson.D{
			{Key: "provider", Value: provider},
			{Key: "external_id", Value: bson.D{{Key: "$in", Value: byProvider[provider]}}},
		})
	}

	cursor, err := r.coll.Find(ctx, bson.D{{Key: "$or", Value: clauses}})
	if err != nil {
		return nil, fmt.Errorf("failed to load contests: %w", err)
	}

	var rows []models.Contest
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}
	for _, row := range rows {
		index[reconcile.Key{Provider: row.Provider, ExternalID: row.ExternalID}] = row
	}
	return index, nil
}

// Upsert writes the contest with a single UpdateOne{upsert: true}.
func (r *MongoRepository) Upsert(ctx context.Context, c models.Contest) error {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	filter := bson.D{
		{Key: "provider", Value: c.Provider},
		{Key: "external_id", Value: c.ExternalID},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: c.Name},
			{Key: "url", Value: c.URL},
			{Key: "start_time", Value: c.StartTime},
			{Key: "end_time", Value: c.EndTime},
			{Key: "duration_seconds", Value: c.DurationSeconds},
			{Key: "phase", Value: c.Phase},
		}},
		{Key: "$max", Value: bson.D{{Key: "last_synced_at", Value: c.LastSyncedAt}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "_id", Value: id}}},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert contest %s/%s: %w", c.Provider, c.ExternalID, err)
	}
	return nil
}

// List returns contests matching the filter ordered by start time.
func (r *MongoRepository) List(ctx context.Context, filter models.Filter) ([]models.Contest, error) {
	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}

	contests := []models.Contest{}
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}
	return contests, nil
}

// FindByID returns the contest with the given id.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Contest, error) {
	var c models.Contest
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contest %s: %w", id, err)
	}
	return &c, nil
}

func mongoFilter(filter models.Filter) (bson.D, error) {
	query := bson.D{}
	if filter.Provider != "" {
		query = append(query, bson.E{Key: "provider", Value: filter.Provider})
	}

	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	switch filter.Status {
	case "":
	case models.StatusUpcoming:
		query = append(query, bson.E{Key: "start_time", Value: bson.D{{Key: "$gt", Value: now}}})
	case models.StatusRunning:
		query = append(query, bson.E{Key: "$and", Value: bson.A{
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "start_time", Value: nil}},
				bson.D{{Key: "start_time", Value: bson.D{{Key: "$lte", Value: now}}}},
			}}},
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "end_time", Value: nil}},
				bson.D{{Key: "end_time", Value: bson.D{{Key: "$gt", Value: now}}}},
			}}},
		}})
	case models.StatusFinished:
		query = append(query, bson.E{Key: "end_time", Value: bson.D{{Key: "$lte", Value: now}}})
	default:
		return nil, fmt.Errorf("unknown status %q", filter.Status)
	}
	return query, nil
}
