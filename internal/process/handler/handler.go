package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"condogov/internal/platform/middleware"
	"condogov/internal/process"
	processService "condogov/internal/process/service"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/httputil"
)

// Service defines the process ledger operations the handler depends on.
type Service interface {
	Create(ctx context.Context, creator id.StakeholderID, spec processService.CreateSpec) (*process.Process, *process.ProcessVersion, error)
	CreateVersion(ctx context.Context, processID id.ProcessID, creator id.StakeholderID, spec processService.VersionSpec) (*process.ProcessVersion, error)
	Update(ctx context.Context, processID id.ProcessID, actor id.StakeholderID, spec processService.UpdateSpec) (*process.Process, error)
	Delete(ctx context.Context, processID id.ProcessID, actor id.StakeholderID) error
	SubmitForReview(ctx context.Context, processID id.ProcessID, actor id.StakeholderID) (*process.ProcessVersion, error)
	Get(ctx context.Context, processID id.ProcessID) (*process.Process, error)
	GetVersion(ctx context.Context, versionID id.VersionID) (*process.ProcessVersion, error)
	CurrentVersion(ctx context.Context, processID id.ProcessID) (*process.ProcessVersion, error)
	ListVersions(ctx context.Context, processID id.ProcessID) ([]*process.ProcessVersion, error)
	List(ctx context.Context, filter process.ListFilter) ([]*process.Process, int, error)
}

// RejectionLinker marks an earlier rejection as addressed by a version. The
// approval service satisfies it; the linkage is always an explicit request.
type RejectionLinker interface {
	MarkRejectionAddressed(ctx context.Context, rejectionID id.RejectionID, versionID id.VersionID) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
	linker  RejectionLinker
}

func New(service Service, linker RejectionLinker, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, linker: linker}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/processes", h.handleList)
	r.Post("/processes", h.handleCreate)
	r.Get("/processes/{processID}", h.handleGet)
	r.Put("/processes/{processID}", h.handleUpdate)
	r.Delete("/processes/{processID}", h.handleDelete)
	r.Post("/processes/{processID}/submit", h.handleSubmitForReview)
	r.Get("/processes/{processID}/versions", h.handleListVersions)
	r.Post("/processes/{processID}/versions", h.handleCreateVersion)
	r.Get("/processes/{processID}/versions/current", h.handleCurrentVersion)
	r.Get("/processes/{processID}/versions/{versionID}", h.handleGetVersion)
}

type contentRequest struct {
	Description    string              `json:"description"`
	Workflow       []string            `json:"workflow"`
	Entities       []string            `json:"entities"`
	MermaidDiagram string              `json:"mermaid_diagram,omitempty"`
	RACI           []process.RACIEntry `json:"raci,omitempty"`
	Variables      map[string]*string  `json:"variables,omitempty"`
}

func (c contentRequest) toContent() process.VersionContent {
	return process.VersionContent{
		Description:    c.Description,
		Workflow:       c.Workflow,
		Entities:       c.Entities,
		Variables:      c.Variables,
		MermaidDiagram: c.MermaidDiagram,
		RACI:           c.RACI,
	}
}

type createProcessRequest struct {
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Subcategory  string         `json:"subcategory,omitempty"`
	DocumentType string         `json:"document_type"`
	Content      contentRequest `json:"content"`
	Variables    []string       `json:"variables,omitempty"`
}

type createProcessResponse struct {
	Process *process.Process        `json:"process"`
	Version *process.ProcessVersion `json:"version"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	category, err := id.ParseProcessCategory(req.Category)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	docType, err := id.ParseDocumentType(req.DocumentType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, v, err := h.service.Create(ctx, middleware.GetStakeholderID(ctx), processService.CreateSpec{
		Name:         req.Name,
		Category:     category,
		Subcategory:  req.Subcategory,
		DocumentType: docType,
		Content:      req.Content.toContent(),
		Variables:    req.Variables,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "process creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createProcessResponse{Process: p, Version: v})
}

type createVersionRequest struct {
	Content              contentRequest `json:"content"`
	ChangeSummary        string         `json:"change_summary,omitempty"`
	AddressedRejectionID *string        `json:"addressed_rejection_id,omitempty"`
}

func (h *Handler) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	var rejectionID *id.RejectionID
	if req.AddressedRejectionID != nil {
		parsed, err := id.ParseRejectionID(*req.AddressedRejectionID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		rejectionID = &parsed
	}

	v, err := h.service.CreateVersion(ctx, processID, middleware.GetStakeholderID(ctx), processService.VersionSpec{
		Content:       req.Content.toContent(),
		ChangeSummary: req.ChangeSummary,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if rejectionID != nil {
		if err := h.linker.MarkRejectionAddressed(ctx, *rejectionID, v.ID); err != nil {
			// The version exists either way; surface the failed linkage.
			h.logger.WarnContext(ctx, "failed to link addressed rejection",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

type updateProcessRequest struct {
	Name         *string `json:"name,omitempty"`
	Category     *string `json:"category,omitempty"`
	Subcategory  *string `json:"subcategory,omitempty"`
	DocumentType *string `json:"document_type,omitempty"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req updateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	spec := processService.UpdateSpec{Name: req.Name, Subcategory: req.Subcategory}
	if req.Category != nil {
		category, err := id.ParseProcessCategory(*req.Category)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		spec.Category = &category
	}
	if req.DocumentType != nil {
		docType, err := id.ParseDocumentType(*req.DocumentType)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		spec.DocumentType = &docType
	}

	p, err := h.service.Update(ctx, processID, middleware.GetStakeholderID(ctx), spec)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, processID, middleware.GetStakeholderID(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmitForReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.service.SubmitForReview(ctx, processID, middleware.GetStakeholderID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), processID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.service.GetVersion(r.Context(), versionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleCurrentVersion(w http.ResponseWriter, r *http.Request) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.service.CurrentVersion(r.Context(), processID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	versions, err := h.service.ListVersions(r.Context(), processID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if versions == nil {
		versions = []*process.ProcessVersion{}
	}
	httputil.WriteJSON(w, http.StatusOK, versions)
}

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := process.ListFilter{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := id.ParseProcessCategory(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Category = category
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := id.ParseProcessStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = status
	}

	processes, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if processes == nil {
		processes = []*process.Process{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Items: processes, Total: total, Page: filter.Page})
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
