package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"condogov/internal/entity"
	entityService "condogov/internal/entity/service"
	"condogov/internal/platform/middleware"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/httputil"
)

// Service defines the entity registry operations the handler depends on.
type Service interface {
	Create(ctx context.Context, spec entityService.CreateSpec) (*entity.Entity, error)
	Update(ctx context.Context, entityID id.EntityID, spec entityService.UpdateSpec) (*entity.Entity, error)
	Get(ctx context.Context, entityID id.EntityID) (*entity.Entity, error)
	List(ctx context.Context, filter entity.ListFilter) ([]*entity.Entity, int, error)
	Deactivate(ctx context.Context, entityID id.EntityID) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/entities", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{entityID}", h.handleGet)
		r.Put("/{entityID}", h.handleUpdate)
		r.Delete("/{entityID}", h.handleDeactivate)
	})
}

type entityRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"entity_type"`
	Category       *string `json:"category,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Email          string  `json:"email,omitempty"`
	ContactPerson  string  `json:"contact_person,omitempty"`
	Description    string  `json:"description,omitempty"`
	Address        string  `json:"address,omitempty"`
	EmergencyPhone string  `json:"emergency_phone,omitempty"`
	MeetingPoint   string  `json:"meeting_point,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	etype, err := id.ParseEntityType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var category *id.EntityCategory
	if req.Category != nil {
		c, err := id.ParseEntityCategory(*req.Category)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		category = &c
	}

	e, err := h.service.Create(ctx, entityService.CreateSpec{
		Name:           req.Name,
		Type:           etype,
		Category:       category,
		Phone:          req.Phone,
		Email:          req.Email,
		ContactPerson:  req.ContactPerson,
		Description:    req.Description,
		Address:        req.Address,
		EmergencyPhone: req.EmergencyPhone,
		MeetingPoint:   req.MeetingPoint,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "entity creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

type updateEntityRequest struct {
	Name           *string `json:"name,omitempty"`
	Type           *string `json:"entity_type,omitempty"`
	Category       *string `json:"category,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	Description    *string `json:"description,omitempty"`
	Address        *string `json:"address,omitempty"`
	EmergencyPhone *string `json:"emergency_phone,omitempty"`
	MeetingPoint   *string `json:"meeting_point,omitempty"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req updateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	spec := entityService.UpdateSpec{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		ContactPerson:  req.ContactPerson,
		Description:    req.Description,
		Address:        req.Address,
		EmergencyPhone: req.EmergencyPhone,
		MeetingPoint:   req.MeetingPoint,
	}
	if req.Type != nil {
		etype, err := id.ParseEntityType(*req.Type)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		spec.Type = &etype
	}
	if req.Category != nil {
		category, err := id.ParseEntityCategory(*req.Category)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		spec.Category = &category
	}

	e, err := h.service.Update(ctx, entityID, spec)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.Get(r.Context(), entityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := entity.ListFilter{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	}
	if raw := r.URL.Query().Get("entity_type"); raw != "" {
		etype, err := id.ParseEntityType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Type = etype
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := id.ParseEntityCategory(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Category = category
	}

	entities, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entities == nil {
		entities = []*entity.Entity{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Items: entities, Total: total, Page: filter.Page})
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Deactivate(r.Context(), entityID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
