package validation

import (
	"time"

	id "condogov/pkg/domain"
)

// EntityIssue names an entity that resolved but fails its required-field
// rules, with the fields it lacks in rule-table order.
type EntityIssue struct {
	Name          string   `json:"name"`
	MissingFields []string `json:"missing_fields"`
}

// Result is the outcome of validating one list of entity names. Valid holds
// exactly when both issue lists are empty; Errors is reserved for validator
// failures such as an unreachable store.
type Result struct {
	Valid              bool          `json:"valid"`
	MissingEntities    []string      `json:"missing_entities"`
	IncompleteEntities []EntityIssue `json:"incomplete_entities"`
	Errors             []string      `json:"errors,omitempty"`
	// ExpiresAt lets a cache collaborator decide staleness; the validator
	// itself never reads it.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// ProcessIssue reports one invalid process inside a batch run.
type ProcessIssue struct {
	ProcessID          id.ProcessID  `json:"process_id"`
	ProcessName        string        `json:"process_name"`
	MissingEntities    []string      `json:"missing_entities"`
	IncompleteEntities []EntityIssue `json:"incomplete_entities"`
}

// BatchReport aggregates a validation run across processes.
type BatchReport struct {
	TotalProcesses   int            `json:"total_processes"`
	ValidProcesses   int            `json:"valid_processes"`
	InvalidProcesses int            `json:"invalid_processes"`
	Issues           []ProcessIssue `json:"issues"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// Metrics is the system-wide integrity dashboard payload. CompleteEntities
// uses a coarser heuristic than per-type validation: name, type and at least
// one of phone or email.
type Metrics struct {
	TotalEntities       int       `json:"total_entities"`
	CompleteEntities    int       `json:"complete_entities"`
	TotalProcesses      int       `json:"total_processes"`
	ProcessesWithIssues int       `json:"processes_with_issues"`
	OrphanedEntities    []string  `json:"orphaned_entities"`
	GeneratedAt         time.Time `json:"generated_at"`
}
