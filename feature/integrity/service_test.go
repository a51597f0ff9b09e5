package integrity

import (
	"context"
	"errors"
	"testing"
	"time"

	"contest-sync/core/database"
	"contest-sync/core/storage/mocks"
	"contest-sync/feature/contest/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	clocktesting "k8s.io/utils/clock/testing"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(_ context.Context, provider string) error {
	return m.Called(provider).Error(0)
}

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contest{}))
	return db
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func newTestService(deps Deps) *Service {
	return NewService(deps, clocktesting.NewFakePassiveClock(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)), zap.NewNop())
}

func TestService_CheckSchema(t *testing.T) {
	t.Run("SQL", func(t *testing.T) {
		svc := newTestService(Deps{DB: migratedDB(t)})
		report, err := svc.CheckSchema(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Matched)
	})

	t.Run("NoStore", func(t *testing.T) {
		_, err := newTestService(Deps{}).CheckSchema(context.Background())
		assert.ErrorIs(t, err, ErrNoStore)
	})
}

func TestService_StorageDisabled(t *testing.T) {
	svc := newTestService(Deps{})
	assert.False(t, svc.StorageEnabled())

	_, err := svc.CheckStorage(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.FixStorage(context.Background()), ErrStorageDisabled)
}

func TestService_CheckUpstream_NoPinger(t *testing.T) {
	assert.Empty(t, newTestService(Deps{}).CheckUpstream(context.Background()))
}

func TestService_CheckAll(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)
		client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).Return(emptyListing())
		pinger := new(mockPinger)
		pinger.On("Ping", "codeforces").Return(nil)

		svc := newTestService(Deps{
			DB:        migratedDB(t),
			Storage:   client,
			Bucket:    "snapshots",
			Pinger:    pinger,
			Providers: []string{"codeforces"},
		})

		report := svc.CheckAll(context.Background(), false)
		assert.True(t, report.Healthy)
		assert.Nil(t, report.Errors)
		assert.True(t, report.Schema.Matched)
		assert.True(t, report.Storage.Exists)
		assert.Len(t, report.Upstream, 1)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnreachableProvider", func(t *testing.T) {
		pinger := new(mockPinger)
		pinger.On("Ping", "codeforces").Return(nil)
		pinger.On("Ping", "codechef").Return(errors.New("timeout"))

		svc := newTestService(Deps{
			DB:        migratedDB(t),
			Pinger:    pinger,
			Providers: []string{"codeforces", "codechef"},
		})

		report := svc.CheckAll(context.Background(), false)
		assert.False(t, report.Healthy)
		assert.Nil(t, report.Storage)
		assert.Nil(t, report.Errors)
	})

	t.Run("FixMissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(false, nil).Once()
		client.On("MakeBucket", mock.Anything, "snapshots", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
		client.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)
		client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).Return(emptyListing())

		svc := newTestService(Deps{
			DB:      migratedDB(t),
			Storage: client,
			Bucket:  "snapshots",
			Region:  "us-east-1",
		})

		report := svc.CheckAll(context.Background(), true)
		assert.True(t, report.Healthy)
		assert.True(t, report.Storage.Exists)
		client.AssertExpectations(t)
	})

	t.Run("Errors", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(false, errors.New("connection refused"))

		svc := newTestService(Deps{Storage: client, Bucket: "snapshots"})

		report := svc.CheckAll(context.Background(), false)
		assert.False(t, report.Healthy)
		assert.Equal(t, ErrNoStore.Error(), report.Errors["schema"])
		assert.Contains(t, report.Errors["storage"], "connection refused")
		assert.Empty(t, report.Upstream)
	})
}
