package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"condogov/internal/platform/metrics"
	"condogov/internal/process"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/audit"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// Service orchestrates the process ledger: creation, versioning and the
// draft → in-review submission. Approval and rejection decisions live in the
// approval service; this one owns the append-only version history.
type Service struct {
	store   process.Store
	auditor *audit.Publisher
	metrics *metrics.Metrics
}

func NewService(store process.Store, auditor *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{store: store, auditor: auditor, metrics: m}
}

// CreateSpec carries the fields accepted when creating a process. The
// content becomes version 1, held in draft.
type CreateSpec struct {
	Name         string
	Category     id.ProcessCategory
	Subcategory  string
	DocumentType id.DocumentType
	Content      process.VersionContent
	// Variables declares variable names for version 1; each becomes a nil
	// placeholder in the content map until resolution fills it.
	Variables []string
}

// VersionSpec carries the fields accepted when appending a version.
type VersionSpec struct {
	Content       process.VersionContent
	ChangeSummary string
}

// UpdateSpec mutates process metadata only. Content changes always go
// through CreateVersion; nil fields are untouched.
type UpdateSpec struct {
	Name         *string
	Category     *id.ProcessCategory
	Subcategory  *string
	DocumentType *id.DocumentType
}

func (s *Service) Create(ctx context.Context, creator id.StakeholderID, spec CreateSpec) (*process.Process, *process.ProcessVersion, error) {
	now := requestcontext.Now(ctx)
	p, err := process.NewProcess(id.ProcessID(uuid.New()), spec.Name, spec.Category, spec.Subcategory, spec.DocumentType, creator, now)
	if err != nil {
		return nil, nil, err
	}

	content := normalizeContent(spec.Content)
	for _, name := range spec.Variables {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if content.Variables == nil {
			content.Variables = make(map[string]*string, len(spec.Variables))
		}
		if _, ok := content.Variables[name]; !ok {
			content.Variables[name] = nil
		}
	}
	v := &process.ProcessVersion{
		ID:            id.VersionID(uuid.New()),
		ProcessID:     p.ID,
		VersionNumber: 1,
		Content:       content,
		ContentText:   content.PlainText(),
		Status:        id.StatusDraft,
		CreatedBy:     creator,
		CreatedAt:     now,
	}

	if err := s.store.CreateWithVersion(ctx, p, v); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create process")
	}
	s.metrics.IncrementProcessesCreated()
	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: creator,
		ProcessID:     p.ID,
		VersionID:     v.ID,
		Action:        audit.ActionProcessCreated,
		Detail:        p.Name,
	})
	return p, v, nil
}

// CreateVersion appends the next version of a process. The new version
// number is exactly the process's current number plus one; concurrent
// appends race on the store's atomic counter and the loser gets a conflict.
func (s *Service) CreateVersion(ctx context.Context, processID id.ProcessID, creator id.StakeholderID, spec VersionSpec) (*process.ProcessVersion, error) {
	p, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}

	previous, err := s.store.CurrentVersion(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}

	content := normalizeContent(spec.Content)
	prevID := previous.ID
	v := &process.ProcessVersion{
		ID:                id.VersionID(uuid.New()),
		ProcessID:         processID,
		VersionNumber:     p.CurrentVersionNumber + 1,
		Content:           content,
		ContentText:       content.PlainText(),
		Status:            id.StatusDraft,
		ChangeSummary:     strings.TrimSpace(spec.ChangeSummary),
		CreatedBy:         creator,
		CreatedAt:         requestcontext.Now(ctx),
		PreviousVersionID: &prevID,
	}

	if err := s.store.AppendVersion(ctx, v); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a version was appended concurrently, retry")
		}
		return nil, wrapProcessErr(err)
	}
	s.metrics.IncrementVersionsCreated()
	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: creator,
		ProcessID:     processID,
		VersionID:     v.ID,
		Action:        audit.ActionVersionCreated,
		Detail:        v.ChangeSummary,
	})
	return v, nil
}

func (s *Service) Update(ctx context.Context, processID id.ProcessID, actor id.StakeholderID, spec UpdateSpec) (*process.Process, error) {
	p, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}

	if spec.Name != nil {
		name := strings.TrimSpace(*spec.Name)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "process name cannot be empty")
		}
		p.Name = name
	}
	if spec.Category != nil {
		if !spec.Category.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid process category")
		}
		p.Category = *spec.Category
	}
	if spec.Subcategory != nil {
		p.Subcategory = *spec.Subcategory
	}
	if spec.DocumentType != nil {
		if !spec.DocumentType.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid document type")
		}
		p.DocumentType = *spec.DocumentType
	}
	p.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, p); err != nil {
		return nil, wrapProcessErr(err)
	}
	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: actor,
		ProcessID:     processID,
		Action:        audit.ActionProcessUpdated,
		Detail:        p.Name,
	})
	return p, nil
}

func (s *Service) Delete(ctx context.Context, processID id.ProcessID, actor id.StakeholderID) error {
	if err := s.store.Delete(ctx, processID); err != nil {
		return wrapProcessErr(err)
	}
	s.metrics.IncrementProcessesDeleted()
	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: actor,
		ProcessID:     processID,
		Action:        audit.ActionProcessDeleted,
	})
	return nil
}

// SubmitForReview moves a draft's current version to in-review. Only drafts
// are eligible.
func (s *Service) SubmitForReview(ctx context.Context, processID id.ProcessID, actor id.StakeholderID) (*process.ProcessVersion, error) {
	p, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	if err := p.CanSubmitForReview(); err != nil {
		return nil, err
	}

	v, err := s.store.CurrentVersion(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	swapped, err := s.store.TransitionStatusIf(ctx, processID, v.ID, id.StatusDraft, id.StatusInReview)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	if !swapped {
		return nil, dErrors.New(dErrors.CodeConflict, "version status changed concurrently")
	}
	v.Status = id.StatusInReview
	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: actor,
		ProcessID:     processID,
		VersionID:     v.ID,
		Action:        audit.ActionVersionSubmitted,
	})
	return v, nil
}

func (s *Service) Get(ctx context.Context, processID id.ProcessID) (*process.Process, error) {
	p, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	return p, nil
}

func (s *Service) GetVersion(ctx context.Context, versionID id.VersionID) (*process.ProcessVersion, error) {
	v, err := s.store.FindVersion(ctx, versionID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	return v, nil
}

func (s *Service) CurrentVersion(ctx context.Context, processID id.ProcessID) (*process.ProcessVersion, error) {
	v, err := s.store.CurrentVersion(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	return v, nil
}

func (s *Service) ListVersions(ctx context.Context, processID id.ProcessID) ([]*process.ProcessVersion, error) {
	if _, err := s.store.FindByID(ctx, processID); err != nil {
		return nil, wrapProcessErr(err)
	}
	versions, err := s.store.ListVersions(ctx, processID)
	if err != nil {
		return nil, wrapProcessErr(err)
	}
	return versions, nil
}

func (s *Service) List(ctx context.Context, filter process.ListFilter) ([]*process.Process, int, error) {
	processes, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list processes")
	}
	return processes, total, nil
}

// normalizeContent never leaves the slices nil so serialized content is
// stable across stores.
func normalizeContent(c process.VersionContent) process.VersionContent {
	if c.Workflow == nil {
		c.Workflow = []string{}
	}
	if c.Entities == nil {
		c.Entities = []string{}
	}
	return c
}

func wrapProcessErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "process not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "process store failure")
}
