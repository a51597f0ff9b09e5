package integrity

import (
	"errors"

	"contest-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/upstream", h.HandleUpstreamCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the contest store schema, the snapshot bucket and provider reachability.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the snapshot bucket if missing"
// @Success 200 {object} integrity.Report "Healthy"
// @Failure 503 {object} integrity.Report "Unhealthy"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.CheckAll(c.Context(), c.QueryBool("fix"))
	if !report.Healthy {
		l.Warn("Integrity checks reported problems", zap.Any("errors", report.Errors))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the contest store schema.
// @Summary Check Store Schema
// @Description Checks that the contest table or collection carries the expected columns and indexes.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema(c.Context())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema drift detected",
			zap.Strings("missing_columns", report.MissingColumns),
			zap.Strings("missing_indexes", report.MissingIndexes))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the snapshot bucket.
// @Summary Check Snapshot Storage
// @Description Checks that the snapshot bucket exists and counts its snapshots. Optionally creates the bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 404 {object} map[string]string "Storage Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := c.Context()

	if c.QueryBool("fix") {
		l.Info("Attempting to fix snapshot bucket")
		if err := h.service.FixStorage(ctx); err != nil {
			return storageError(c, l, err)
		}
	}

	report, err := h.service.CheckStorage(ctx)
	if err != nil {
		return storageError(c, l, err)
	}
	return c.JSON(report)
}

func storageError(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, ErrStorageDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Storage check failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleUpstreamCheck pings every provider.
// @Summary Check Upstream Providers
// @Description Issues one request to every configured provider and reports latency.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.ProviderStatus "Provider Status"
// @Router /integrity/upstream [get]
func (h *Handler) HandleUpstreamCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckUpstream(c.Context()))
}
