package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain errors onto HTTP responses. Conflicts over a
// slot (taken, reserved, lost race) and double cancels are 409, stale holds
// are 410, and rule violations on an existing resource are 422.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, entity.ErrSlotTaken),
		errors.Is(err, entity.ErrSlotReserved),
		errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrConcurrencyConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, entity.ErrExpired):
		log.Warn(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseGone(w, errMsg)

	case errors.Is(err, entity.ErrInvalidState),
		errors.Is(err, entity.ErrPastSlot),
		errors.Is(err, entity.ErrCutoffViolation),
		errors.Is(err, entity.ErrPastBooking):
		log.Warn(operation+" failed - rule violation", zap.Error(err))
		utils.ResponseUnprocessable(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
