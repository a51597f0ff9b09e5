package contest

import (
	"context"
	"testing"
	"time"

	"contest-sync/core/reconcile"
	"contest-sync/feature/contest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func contestDoc(id, provider, externalID, name string, start time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "provider", Value: provider},
		{Key: "external_id", Value: externalID},
		{Key: "name", Value: name},
		{Key: "start_time", Value: start},
		{Key: "end_time", Value: start.Add(2 * time.Hour)},
		{Key: "duration_seconds", Value: int64(7200)},
		{Key: "last_synced_at", Value: cupStart},
	}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Migrate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoRepository(mt.Coll)
		require.NoError(mt, repo.Migrate(context.Background()))

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "idx_contest_provider_external", cmd.Lookup("indexes", "0", "name").StringValue())
		assert.True(mt, cmd.Lookup("indexes", "0", "unique").Boolean())
		assert.Equal(mt, "idx_contest_start_time", cmd.Lookup("indexes", "1", "name").StringValue())
	})

	mt.Run("LoadIndex", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contestDoc("c1", "codeforces", "1", "Round 1", cupStart),
			contestDoc("c2", "codechef", "START1", "Starters 1", cupStart.Add(time.Hour)),
		))

		repo := NewMongoRepository(mt.Coll)
		keys := []reconcile.Key{
			{Provider: "codeforces", ExternalID: "1"},
			{Provider: "codeforces", ExternalID: "2"},
			{Provider: "codechef", ExternalID: "START1"},
		}
		index, err := repo.LoadIndex(context.Background(), keys)
		require.NoError(mt, err)

		require.Len(mt, index, 2)
		cf := index[reconcile.Key{Provider: "codeforces", ExternalID: "1"}]
		assert.Equal(mt, "c1", cf.ID)
		assert.Equal(mt, "Round 1", cf.Name)
		require.NotNil(mt, cf.StartTime)
		assert.True(mt, cf.StartTime.Equal(cupStart))
		assert.Equal(mt, int64(7200), cf.DurationSeconds)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "codeforces", cmd.Lookup("filter", "$or", "0", "provider").StringValue())
		assert.Equal(mt, "codechef", cmd.Lookup("filter", "$or", "1", "provider").StringValue())
	})

	mt.Run("LoadIndexEmpty", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		index, err := repo.LoadIndex(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, index)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("LoadIndexError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		repo := NewMongoRepository(mt.Coll)
		_, err := repo.LoadIndex(context.Background(), []reconcile.Key{{Provider: "codeforces", ExternalID: "1"}})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to load contests")
	})

	mt.Run("Upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		repo := NewMongoRepository(mt.Coll)
		c := contestAt("codeforces", "1", "Cup", cupStart, 2*time.Hour)
		require.NoError(mt, repo.Upsert(context.Background(), c))

		cmd := mt.GetStartedEvent().Command
		assert.True(mt, cmd.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, "1", cmd.Lookup("updates", "0", "q", "external_id").StringValue())
		assert.Equal(mt, "Cup", cmd.Lookup("updates", "0", "u", "$set", "name").StringValue())
		assert.NotEmpty(mt, cmd.Lookup("updates", "0", "u", "$setOnInsert", "_id").StringValue())
		assert.True(mt, cmd.Lookup("updates", "0", "u", "$max", "last_synced_at").Time().Equal(cupStart))
		_, err := cmd.LookupErr("updates", "0", "u", "$set", "last_synced_at")
		assert.Error(mt, err)
	})

	mt.Run("UpsertKeepsGivenID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		repo := NewMongoRepository(mt.Coll)
		c := contestAt("codeforces", "1", "Cup", cupStart, 2*time.Hour)
		c.ID = "fixed-id"
		require.NoError(mt, repo.Upsert(context.Background(), c))

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "fixed-id", cmd.Lookup("updates", "0", "u", "$setOnInsert", "_id").StringValue())
	})

	mt.Run("UpsertError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		repo := NewMongoRepository(mt.Coll)
		err := repo.Upsert(context.Background(), contestAt("codeforces", "1", "Cup", cupStart, time.Hour))
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to upsert contest codeforces/1")
	})

	mt.Run("List", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contestDoc("c1", "codeforces", "1", "Round 1", cupStart),
		))

		repo := NewMongoRepository(mt.Coll)
		contests, err := repo.List(context.Background(), models.Filter{
			Provider: "codeforces",
			Status:   models.StatusUpcoming,
			Now:      cupStart.Add(-time.Hour),
			Limit:    5,
		})
		require.NoError(mt, err)
		require.Len(mt, contests, 1)
		assert.Equal(mt, "c1", contests[0].ID)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "codeforces", cmd.Lookup("filter", "provider").StringValue())
		assert.Equal(mt, int64(5), cmd.Lookup("limit").AsInt64())
		gt := cmd.Lookup("filter", "start_time", "$gt").Time()
		assert.True(mt, gt.Equal(cupStart.Add(-time.Hour)))
	})

	mt.Run("ListRunningMatchesOpenBounds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		repo := NewMongoRepository(mt.Coll)
		contests, err := repo.List(context.Background(), models.Filter{Status: models.StatusRunning, Now: cupStart})
		require.NoError(mt, err)
		assert.Empty(mt, contests)

		cmd := mt.GetStartedEvent().Command
		_, err = cmd.LookupErr("filter", "$and", "0", "$or", "0", "start_time")
		assert.NoError(mt, err)
		_, err = cmd.LookupErr("filter", "$and", "1", "$or", "1", "end_time", "$gt")
		assert.NoError(mt, err)
	})

	mt.Run("ListUnknownStatus", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		_, err := repo.List(context.Background(), models.Filter{Status: "paused"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), `unknown status "paused"`)
	})

	mt.Run("FindByID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contestDoc("c1", "codeforces", "1", "Round 1", cupStart),
		))

		repo := NewMongoRepository(mt.Coll)
		c, err := repo.FindByID(context.Background(), "c1")
		require.NoError(mt, err)
		assert.Equal(mt, "Round 1", c.Name)
		assert.Equal(mt, "codeforces", c.Provider)
	})

	mt.Run("FindByIDNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		repo := NewMongoRepository(mt.Coll)
		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
