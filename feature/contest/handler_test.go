package contest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"contest-sync/core/database"
	"contest-sync/core/scheduler"
	"contest-sync/feature/contest"
	"contest-sync/feature/contest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	clocktesting "k8s.io/utils/clock/testing"
)

var now = time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

type mockCycles struct {
	mock.Mock
}

func (m *mockCycles) Status() []scheduler.CycleStatus {
	args := m.Called()
	return args.Get(0).([]scheduler.CycleStatus)
}

func (m *mockCycles) Trigger(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func setupApp(t *testing.T, cycles contest.CycleRunner) (*fiber.App, *contest.GormRepository) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	repo := contest.NewGormRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	seed := []models.Contest{
		{ID: "past", Provider: "codeforces", ExternalID: "1", Name: "Round 1",
			StartTime: models.TimePtr(now.Add(-48 * time.Hour)), EndTime: models.TimePtr(now.Add(-46 * time.Hour))},
		{ID: "live", Provider: "codechef", ExternalID: "START1", Name: "Starters 1",
			StartTime: models.TimePtr(now.Add(-time.Hour)), EndTime: models.TimePtr(now.Add(time.Hour))},
		{ID: "next", Provider: "codeforces", ExternalID: "2", Name: "Round 2",
			StartTime: models.TimePtr(now.Add(24 * time.Hour)), EndTime: models.TimePtr(now.Add(26 * time.Hour))},
	}
	for _, c := range seed {
		c.LastSyncedAt = now
		require.NoError(t, repo.Upsert(context.Background(), c))
	}

	svc := contest.NewService(repo, clocktesting.NewFakePassiveClock(now), zap.NewNop())
	app := fiber.New()
	contest.NewHandler(svc, cycles).RegisterRoutes(app)
	return app, repo
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleListContests(t *testing.T) {
	app, _ := setupApp(t, nil)

	tests := []struct {
		name      string
		query     string
		want      []string
		truncated bool
	}{
		{"All", "", []string{"past", "live", "next"}, false},
		{"Provider", "?provider=codeforces", []string{"past", "next"}, false},
		{"Upcoming", "?status=upcoming", []string{"next"}, false},
		{"Running", "?status=running", []string{"live"}, false},
		{"Finished", "?status=finished", []string{"past"}, false},
		{"Limit", "?limit=2", []string{"past", "live"}, true},
		{"LimitExact", "?limit=3", []string{"past", "live", "next"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/contests"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			assert.Equal(t, strconv.Itoa(len(tt.want)), resp.Header.Get(contest.HeaderResultCount))
			assert.Equal(t, strconv.FormatBool(tt.truncated), resp.Header.Get(contest.HeaderTruncated))

			list := decode[[]models.Contest](t, resp.Body)
			var ids []string
			for _, c := range list {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestHandleListContests_BadRequest(t *testing.T) {
	app, _ := setupApp(t, nil)

	for _, query := range []string{"?status=paused", "?limit=abc", "?limit=-1"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/contests"+query, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestHandleGetContest(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/contests/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	c := decode[models.Contest](t, resp.Body)
	assert.Equal(t, "Starters 1", c.Name)
	assert.Equal(t, "codechef", c.Provider)
}

func TestHandleGetContest_NotFound(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/contests/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decode[map[string]string](t, resp.Body)
	assert.Equal(t, "contest missing not found", body["error"])
}

func TestHandleStatus(t *testing.T) {
	cycles := new(mockCycles)
	cycles.On("Status").Return([]scheduler.CycleStatus{
		{Name: contest.CycleFull, Interval: 90 * time.Minute, Runs: 2, Failures: 1, LastError: "all providers failed"},
		{Name: contest.CycleKeepalive, Interval: 13 * time.Minute, Running: true},
	})
	app, _ := setupApp(t, cycles)

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status := decode[[]scheduler.CycleStatus](t, resp.Body)
	require.Len(t, status, 2)
	assert.Equal(t, int64(2), status[0].Runs)
	assert.Equal(t, "all providers failed", status[0].LastError)
	assert.True(t, status[1].Running)
	cycles.AssertExpectations(t)
}

func TestHandleStatus_NoScheduler(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]scheduler.CycleStatus](t, resp.Body))
}

func TestHandleRunCycle(t *testing.T) {
	cycles := new(mockCycles)
	cycles.On("Trigger", "full").Return(nil)
	cycles.On("Trigger", "incremental").Return(scheduler.ErrCycleRunning)
	cycles.On("Trigger", "nope").Return(scheduler.ErrUnknownCycle)
	app, _ := setupApp(t, cycles)

	tests := []struct {
		cycle string
		want  int
	}{
		{"full", fiber.StatusAccepted},
		{"incremental", fiber.StatusConflict},
		{"nope", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("POST", "/status/"+tt.cycle+"/run", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, tt.cycle)
	}
	cycles.AssertExpectations(t)
}

func TestFeature(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	repo := contest.NewGormRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	f := contest.NewFeature(repo, nil, zap.NewNop())
	assert.Equal(t, "contest", f.Name())
	assert.True(t, f.IsEnabled())

	app := fiber.New()
	require.NoError(t, f.Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/contests", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}
