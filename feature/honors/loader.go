package honors

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the honors feature around an existing service.
func NewFeature(svc *Service, allowWrites bool) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc, allowWrites)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "honors"
}

// IsEnabled reports whether the feature has a record store to work against.
func (f *Feature) IsEnabled() bool {
	return f.service != nil && f.service.store != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
