package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"condogov/internal/approval"
	approvalService "condogov/internal/approval/service"
	"condogov/internal/platform/middleware"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/httputil"
)

// Service defines the decision operations the handler depends on.
type Service interface {
	Approve(ctx context.Context, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, spec approvalService.ApproveSpec) (*approval.Approval, error)
	Reject(ctx context.Context, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, reason string) (*approval.Rejection, error)
	ListApprovalsByProcess(ctx context.Context, processID id.ProcessID) ([]*approval.Approval, error)
	ListApprovalsByVersion(ctx context.Context, versionID id.VersionID) ([]*approval.Approval, error)
	ListRejectionsByProcess(ctx context.Context, processID id.ProcessID) ([]*approval.Rejection, error)
	ListRejectionsByVersion(ctx context.Context, versionID id.VersionID) ([]*approval.Rejection, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/processes/{processID}/versions/{versionID}/approve", h.handleApprove)
	r.Post("/processes/{processID}/versions/{versionID}/reject", h.handleReject)
	r.Get("/processes/{processID}/approvals", h.handleListApprovals)
	r.Get("/processes/{processID}/rejections", h.handleListRejections)
	r.Get("/versions/{versionID}/approvals", h.handleListVersionApprovals)
	r.Get("/versions/{versionID}/rejections", h.handleListVersionRejections)
}

type approveRequest struct {
	ApprovalType string `json:"approval_type"`
	Comments     string `json:"comments,omitempty"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, versionID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	approvalType, err := id.ParseApprovalType(req.ApprovalType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.service.Approve(ctx, processID, versionID, middleware.GetStakeholderID(ctx), approvalService.ApproveSpec{
		Type:     approvalType,
		Comments: req.Comments,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "approval failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processID, versionID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rejection, err := h.service.Reject(ctx, processID, versionID, middleware.GetStakeholderID(ctx), req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "rejection failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rejection)
}

func (h *Handler) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	approvals, err := h.service.ListApprovalsByProcess(r.Context(), processID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, approvals)
}

func (h *Handler) handleListRejections(w http.ResponseWriter, r *http.Request) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rejections, err := h.service.ListRejectionsByProcess(r.Context(), processID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, rejections)
}

func (h *Handler) handleListVersionApprovals(w http.ResponseWriter, r *http.Request) {
	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	approvals, err := h.service.ListApprovalsByVersion(r.Context(), versionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, approvals)
}

func (h *Handler) handleListVersionRejections(w http.ResponseWriter, r *http.Request) {
	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rejections, err := h.service.ListRejectionsByVersion(r.Context(), versionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, rejections)
}

func pathIDs(r *http.Request) (id.ProcessID, id.VersionID, error) {
	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		return id.ProcessID{}, id.VersionID{}, err
	}
	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		return id.ProcessID{}, id.VersionID{}, err
	}
	return processID, versionID, nil
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}
