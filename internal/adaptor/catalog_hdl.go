package adaptor

import (
	"net/http"

	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetServices handles GET /api/services (public)
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.GetActiveServices(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetServiceSlots handles GET /api/services/{id}/slots (public)
func (h *CatalogHandler) GetServiceSlots(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	slots, err := h.service.GetServiceSlots(r.Context(), serviceID)
	if err != nil {
		handleServiceError(w, h.log, err, "get service slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}
