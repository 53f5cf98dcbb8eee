package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"condogov/internal/stakeholder"
	stakeholderService "condogov/internal/stakeholder/service"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/httputil"
)

// Service defines the stakeholder registry operations the handler depends on.
type Service interface {
	Create(ctx context.Context, spec stakeholderService.CreateSpec) (*stakeholder.Stakeholder, error)
	Get(ctx context.Context, stakeholderID id.StakeholderID) (*stakeholder.Stakeholder, error)
	ListActive(ctx context.Context) ([]*stakeholder.Stakeholder, error)
	Update(ctx context.Context, stakeholderID id.StakeholderID, spec stakeholderService.UpdateSpec) (*stakeholder.Stakeholder, error)
	Deactivate(ctx context.Context, stakeholderID id.StakeholderID) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/stakeholders", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{stakeholderID}", h.handleGet)
		r.Put("/{stakeholderID}", h.handleUpdate)
		r.Delete("/{stakeholderID}", h.handleDeactivate)
	})
}

type createStakeholderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Type  string `json:"stakeholder_type"`
	Role  string `json:"role"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createStakeholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	stype, err := id.ParseStakeholderType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := id.ParseStakeholderRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := h.service.Create(ctx, stakeholderService.CreateSpec{
		Name:  req.Name,
		Email: req.Email,
		Type:  stype,
		Role:  role,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, st)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	stakeholderID, err := id.ParseStakeholderID(chi.URLParam(r, "stakeholderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.service.Get(r.Context(), stakeholderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	stakeholders, err := h.service.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if stakeholders == nil {
		stakeholders = []*stakeholder.Stakeholder{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": stakeholders})
}

type updateStakeholderRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stakeholderID, err := id.ParseStakeholderID(chi.URLParam(r, "stakeholderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req updateStakeholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	spec := stakeholderService.UpdateSpec{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role, err := id.ParseStakeholderRole(*req.Role)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		spec.Role = &role
	}

	st, err := h.service.Update(ctx, stakeholderID, spec)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	stakeholderID, err := id.ParseStakeholderID(chi.URLParam(r, "stakeholderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Deactivate(r.Context(), stakeholderID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
