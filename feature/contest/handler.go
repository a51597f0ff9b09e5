package contest

import (
	"errors"
	"strconv"

	"contest-sync/core/logger"
	"contest-sync/core/scheduler"
	"contest-sync/feature/contest/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CycleRunner exposes the scheduler to the HTTP layer.
type CycleRunner interface {
	Status() []scheduler.CycleStatus
	Trigger(name string) error
}

// Handler handles HTTP requests for contests.
type Handler struct {
	service *Service
	cycles  CycleRunner
}

// NewHandler creates a new HTTP handler. cycles may be nil when no scheduler runs.
func NewHandler(service *Service, cycles CycleRunner) *Handler {
	return &Handler{service: service, cycles: cycles}
}

// RegisterRoutes registers the contest and status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/contests")
	group.Get("/", h.HandleListContests)
	group.Get("/:id", h.HandleGetContest)

	app.Get("/status", h.HandleStatus)
	app.Post("/status/:cycle/run", h.HandleRunCycle)
}

// Response headers of the list endpoint.
const (
	HeaderResultCount = "X-Result-Count"
	HeaderTruncated   = "X-Result-Truncated"
)

// HandleListContests lists contests as a JSON array.
// @Summary List Contests
// @Description List contests ordered by start time, optionally filtered by provider and status.
// @Description At most 500 contests are returned; X-Result-Truncated is "true" when more matched.
// @Tags contests
// @Produce json
// @Param provider query string false "Provider name (e.g. 'codeforces')"
// @Param status query string false "upcoming, running or finished"
// @Param limit query int false "Maximum number of contests (default and cap 500)"
// @Success 200 {array} models.Contest "Contests"
// @Header 200 {integer} X-Result-Count "Number of contests in the body"
// @Header 200 {boolean} X-Result-Truncated "More contests matched than returned"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /contests [get]
func (h *Handler) HandleListContests(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter := models.Filter{
		Provider: c.Query("provider"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}
		filter.Limit = limit
	}

	list, err := h.service.List(c.Context(), filter)
	if errors.Is(err, ErrInvalidFilter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Contest listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(HeaderResultCount, strconv.Itoa(len(list.Contests)))
	c.Set(HeaderTruncated, strconv.FormatBool(list.Truncated))
	return c.JSON(list.Contests)
}

// HandleGetContest returns a single contest.
// @Summary Get Contest
// @Description Get a contest by its id.
// @Tags contests
// @Produce json
// @Param id path string true "Contest ID"
// @Success 200 {object} models.Contest "Contest"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /contests/{id} [get]
func (h *Handler) HandleGetContest(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	contest, err := h.service.Get(c.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "contest " + id + " not found",
		})
	}
	if err != nil {
		l.Error("Contest lookup failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(contest)
}

// HandleStatus reports the state of every sync cycle.
// @Summary Sync Status
// @Description Last run, failures and skipped ticks of every sync cycle.
// @Tags status
// @Produce json
// @Success 200 {array} scheduler.CycleStatus "Cycles"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	if h.cycles == nil {
		return c.JSON([]scheduler.CycleStatus{})
	}
	return c.JSON(h.cycles.Status())
}

// HandleRunCycle starts a sync cycle outside its schedule.
// @Summary Run Cycle
// @Description Start a sync cycle now. The run continues after the response.
// @Tags status
// @Produce json
// @Param cycle path string true "Cycle name (full, incremental, keepalive)"
// @Success 202 {object} map[string]string "Accepted"
// @Failure 404 {object} map[string]string "Unknown cycle"
// @Failure 409 {object} map[string]string "Cycle already running"
// @Failure 503 {object} map[string]string "Scheduler not running"
// @Router /status/{cycle}/run [post]
func (h *Handler) HandleRunCycle(c *fiber.Ctx) error {
	name := c.Params("cycle")
	if h.cycles == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "scheduler is not running",
		})
	}

	err := h.cycles.Trigger(name)
	switch {
	case err == nil:
		logger.WithRayID(h.service.logger, c).Info("Cycle triggered", zap.String("cycle", name))
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"cycle": name,
		})
	case errors.Is(err, scheduler.ErrUnknownCycle):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, scheduler.ErrCycleRunning):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
}
