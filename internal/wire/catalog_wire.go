package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services - List active services
	r.Get("/api/services", catalogHandler.GetServices)

	// GET /api/services/{id}/slots - List slot definitions for a service
	r.Get("/api/services/{id}/slots", catalogHandler.GetServiceSlots)

	// GET /api/services/{id}/availability?date=YYYY-MM-DD - Per-date slot statuses
	r.Get("/api/services/{id}/availability", availabilityHandler.GetAvailability)
}
