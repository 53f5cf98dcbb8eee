package process

import (
	"encoding/json"
	"strings"
	"time"

	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
)

// Process is a governance document tracked through the
// draft → in-review → approved/rejected lifecycle. It owns an ordered
// sequence of immutable versions.
//
// Invariants:
//   - Name is non-empty; Category and DocumentType belong to the closed
//     vocabularies.
//   - CurrentVersionNumber is a monotonic counter starting at 1; it always
//     matches the highest version number in the store.
//   - A process never exists without at least one version.
type Process struct {
	ID                   id.ProcessID       `json:"id"`
	Name                 string             `json:"name"`
	Category             id.ProcessCategory `json:"category"`
	Subcategory          string             `json:"subcategory,omitempty"`
	DocumentType         id.DocumentType    `json:"document_type"`
	Status               id.ProcessStatus   `json:"status"`
	CurrentVersionNumber int                `json:"current_version_number"`
	CreatorID            id.StakeholderID   `json:"creator_id"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// RACIEntry assigns responsibility roles to one workflow activity.
type RACIEntry struct {
	Activity    string   `json:"activity"`
	Responsible []string `json:"responsible,omitempty"`
	Accountable []string `json:"accountable,omitempty"`
	Consulted   []string `json:"consulted,omitempty"`
	Informed    []string `json:"informed,omitempty"`
}

// EntityList tolerates legacy encodings of the entity references: a JSON
// array of strings, or a JSON string that itself encodes such an array.
// Anything unparsable decodes to an empty list rather than an error.
type EntityList []string

func (l *EntityList) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*l = names
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &names); err == nil {
			*l = names
			return nil
		}
	}
	*l = EntityList{}
	return nil
}

// VersionContent is the structured payload of a process version. Content is
// immutable once the version is created; corrections produce a new version.
type VersionContent struct {
	Description string     `json:"description"`
	Workflow    []string   `json:"workflow"`
	Entities    EntityList `json:"entities"`
	// Variables maps variable names to their applied values; nil values are
	// placeholders to be filled by variable resolution outside this core.
	Variables      map[string]*string `json:"variables,omitempty"`
	MermaidDiagram string             `json:"mermaid_diagram,omitempty"`
	RACI           []RACIEntry        `json:"raci,omitempty"`
}

// ProcessVersion is an immutable snapshot of a process's content.
//
// Invariant: (ProcessID, VersionNumber) is unique; numbers form a gap-free
// ascending sequence starting at 1.
type ProcessVersion struct {
	ID            id.VersionID   `json:"id"`
	ProcessID     id.ProcessID   `json:"process_id"`
	VersionNumber int            `json:"version_number"`
	Content       VersionContent `json:"content"`
	// ContentText is the denormalized plain-text rendition used for search.
	ContentText       string           `json:"content_text,omitempty"`
	Status            id.ProcessStatus `json:"status"`
	ChangeSummary     string           `json:"change_summary,omitempty"`
	CreatedBy         id.StakeholderID `json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"`
	PreviousVersionID *id.VersionID    `json:"previous_version_id,omitempty"`
}

// NewProcess validates invariants and constructs a draft process.
func NewProcess(processID id.ProcessID, name string, category id.ProcessCategory, subcategory string, docType id.DocumentType, creator id.StakeholderID, now time.Time) (*Process, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "process name cannot be empty")
	}
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid process category: "+string(category))
	}
	if !docType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid document type: "+string(docType))
	}
	if creator.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "creator id is required")
	}
	return &Process{
		ID:                   processID,
		Name:                 name,
		Category:             category,
		Subcategory:          subcategory,
		DocumentType:         docType,
		Status:               id.StatusDraft,
		CurrentVersionNumber: 1,
		CreatorID:            creator,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// CanSubmitForReview checks the draft → in-review transition.
func (p *Process) CanSubmitForReview() error {
	if p.Status != id.StatusDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "only draft processes can be submitted for review")
	}
	return nil
}

// PlainText renders the content for full-text search: description followed by
// the workflow steps.
func (c VersionContent) PlainText() string {
	parts := make([]string, 0, 1+len(c.Workflow))
	if strings.TrimSpace(c.Description) != "" {
		parts = append(parts, c.Description)
	}
	parts = append(parts, c.Workflow...)
	return strings.Join(parts, "\n")
}
