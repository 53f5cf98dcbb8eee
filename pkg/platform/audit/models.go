package audit

import (
	"time"

	id "condogov/pkg/domain"
)

// Action names the governance operation an event records.
type Action string

const (
	ActionProcessCreated    Action = "process.created"
	ActionProcessUpdated    Action = "process.updated"
	ActionProcessDeleted    Action = "process.deleted"
	ActionVersionCreated    Action = "version.created"
	ActionVersionSubmitted  Action = "version.submitted"
	ActionVersionApproved   Action = "version.approved"
	ActionVersionRejected   Action = "version.rejected"
	ActionEntityDeactivated Action = "entity.deactivated"
)

// Event is emitted from domain logic to capture key governance actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time
	StakeholderID id.StakeholderID
	ProcessID     id.ProcessID
	VersionID     id.VersionID
	Action        Action
	Detail        string
}
