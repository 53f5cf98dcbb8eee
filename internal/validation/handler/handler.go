package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"condogov/internal/validation"
	validationService "condogov/internal/validation/service"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/httputil"
)

// BatchService defines the cross-process validation operations.
type BatchService interface {
	ValidateAll(ctx context.Context, processIDs []id.ProcessID) (*validation.BatchReport, error)
	IntegrityMetrics(ctx context.Context) (*validation.Metrics, error)
}

type Handler struct {
	logger    *slog.Logger
	validator validationService.Validator
	batch     BatchService
}

func New(validator validationService.Validator, batch BatchService, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, validator: validator, batch: batch}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/validation/entities", h.handleValidate)
	r.Post("/validation/entities/missing", h.handleMissing)
	r.Post("/validation/entities/incomplete", h.handleIncomplete)
	r.Post("/validation/processes", h.handleValidateAll)
	r.Get("/validation/metrics", h.handleIntegrityMetrics)
}

type validateRequest struct {
	Entities []string `json:"entities"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	result, err := h.validator.ValidateEntities(r.Context(), req.Entities)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMissing(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	missing, err := h.validator.GetMissingEntities(r.Context(), req.Entities)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if missing == nil {
		missing = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"missing_entities": missing})
}

func (h *Handler) handleIncomplete(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	incomplete, err := h.validator.GetIncompleteEntities(r.Context(), req.Entities)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if incomplete == nil {
		incomplete = []validation.EntityIssue{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]validation.EntityIssue{"incomplete_entities": incomplete})
}

type validateAllRequest struct {
	ProcessIDs []string `json:"process_ids,omitempty"`
}

func (h *Handler) handleValidateAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validateAllRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	processIDs := make([]id.ProcessID, 0, len(req.ProcessIDs))
	for _, raw := range req.ProcessIDs {
		pid, err := id.ParseProcessID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		processIDs = append(processIDs, pid)
	}

	report, err := h.batch.ValidateAll(ctx, processIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch validation failed", "error", err.Error())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleIntegrityMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.batch.IntegrityMetrics(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, metrics)
}
