package contest

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the contest feature serving repo and reporting on cycles.
func NewFeature(repo Repository, cycles CycleRunner, logger *zap.Logger) *Feature {
	svc := NewService(repo, clock.RealClock{}, logger)
	return &Feature{handler: NewHandler(svc, cycles)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "contest"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
