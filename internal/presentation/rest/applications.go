package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/pkg/auth"
)

// Use-case contracts the handler depends on.
type (
	Evaluator interface {
		Execute(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error)
	}
	Submitter interface {
		Execute(ctx context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error)
	}
	Getter interface {
		Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error)
	}
	Lister interface {
		Execute(ctx context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error)
	}
	StatusUpdater interface {
		Execute(ctx context.Context, req dto.UpdateStatusRequest) (dto.ApplicationResponse, error)
	}
)

// ApplicationHandler serves the loan application API.
type ApplicationHandler struct {
	evaluate     Evaluator
	submit       Submitter
	get          Getter
	list         Lister
	updateStatus StatusUpdater
	logger       *slog.Logger
}

// NewApplicationHandler constructs the handler with its use cases.
func NewApplicationHandler(
	evaluate Evaluator,
	submit Submitter,
	get Getter,
	list Lister,
	updateStatus StatusUpdater,
	logger *slog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		evaluate:     evaluate,
		submit:       submit,
		get:          get,
		list:         list,
		updateStatus: updateStatus,
		logger:       logger,
	}
}

// Register mounts the endpoints on r. statusGuards wrap the status update
// route only.
func (h *ApplicationHandler) Register(r chi.Router, statusGuards ...func(http.Handler) http.Handler) {
	r.Post("/evaluations", h.HandleEvaluate)
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.HandleSubmit)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.With(statusGuards...).Put("/{id}/status", h.HandleUpdateStatus)
	})
}

// HandleEvaluate handles POST /evaluations.
func (h *ApplicationHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	resp, err := h.evaluate.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSubmit handles POST /applications.
func (h *ApplicationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		req.UserID = claims.UserID.String()
	}

	resp, err := h.submit.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/applications/"+resp.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /applications?status=&userId=&limit=&offset=.
// Customers only ever see their own applications.
func (h *ApplicationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListApplicationsRequest{
		Status: q.Get("status"),
		UserID: q.Get("userId"),
	}

	var err error
	if req.Limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	if req.Offset, err = queryInt(q.Get("offset"), "offset"); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	if owner := auth.OwnerScope(r.Context()); owner != "" {
		req.UserID = owner
	}

	resp, err := h.list.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /applications/{id}. Customers get 404 for
// applications they do not own.
func (h *ApplicationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.get.Execute(r.Context(), dto.GetApplicationRequest{
		ApplicationID: chi.URLParam(r, "id"),
		OwnerID:       auth.OwnerScope(r.Context()),
	})
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateStatus handles PUT /applications/{id}/status.
func (h *ApplicationHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	req.ApplicationID = chi.URLParam(r, "id")

	resp, err := h.updateStatus.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(field, "must be an integer")
	}
	return n, nil
}
