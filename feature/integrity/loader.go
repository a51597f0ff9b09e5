package integrity

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the integrity feature over the given resources.
func NewFeature(deps Deps, logger *zap.Logger) *Feature {
	svc := NewService(deps, clock.RealClock{}, logger)
	return &Feature{handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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
