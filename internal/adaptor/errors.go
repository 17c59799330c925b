package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst and answers 400 itself when the body
// is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// handleServiceError maps an AppError kind to its status code. Anything
// else is logged and reported as a bare 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
	}

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Kind == utils.KindInternal {
		log.Error(operation+" failed", fields...)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected", append(fields, zap.Stringer("kind", appErr.Kind))...)

	switch appErr.Kind {
	case utils.KindValidation:
		var details any
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
		utils.ResponseBadRequest(w, appErr.Message, details)
	case utils.KindUnauthorized:
		utils.ResponseUnauthorized(w, appErr.Message)
	case utils.KindForbidden:
		utils.ResponseForbidden(w, appErr.Message)
	case utils.KindNotFound:
		utils.ResponseNotFound(w, appErr.Message)
	case utils.KindConflict:
		utils.ResponseConflict(w, appErr.Message)
	}
}
