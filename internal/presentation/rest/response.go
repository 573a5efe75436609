package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error      string            `json:"error"`
	Violations []model.Violation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// decodeJSON reads a single JSON object from the request body. A malformed
// body is reported as a validation error on the field "body".
func decodeJSON(r *http.Request, v any) error {
	d := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := d.Decode(v); err != nil {
		return model.NewValidationError("body", fmt.Sprintf("must be a valid JSON object: %v", err))
	}
	return nil
}

// writeError maps use-case errors to HTTP status codes. Unexpected errors are
// logged and answered with a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Violations: verr.Violations})
	case errors.Is(err, port.ErrApplicationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: port.ErrApplicationNotFound.Error()})
	case errors.Is(err, port.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "application was modified concurrently, retry"})
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
