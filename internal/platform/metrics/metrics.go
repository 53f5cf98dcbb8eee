package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProcessesCreated   prometheus.Counter
	VersionsCreated    prometheus.Counter
	ProcessesDeleted   prometheus.Counter
	ApprovalsRecorded  prometheus.Counter
	RejectionsRecorded prometheus.Counter
	ValidationRuns     prometheus.Counter
	ValidationFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProcessesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_processes_created_total",
			Help: "Total number of governance processes created",
		}),
		VersionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_versions_created_total",
			Help: "Total number of process versions created",
		}),
		ProcessesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_processes_deleted_total",
			Help: "Total number of governance processes deleted",
		}),
		ApprovalsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_approvals_recorded_total",
			Help: "Total number of version approvals recorded",
		}),
		RejectionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_rejections_recorded_total",
			Help: "Total number of version rejections recorded",
		}),
		ValidationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_validation_runs_total",
			Help: "Total number of entity validation runs",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condogov_validation_failures_total",
			Help: "Total number of validation runs that found missing or incomplete entities",
		}),
	}
}

func (m *Metrics) IncrementProcessesCreated() {
	if m != nil {
		m.ProcessesCreated.Inc()
	}
}

func (m *Metrics) IncrementVersionsCreated() {
	if m != nil {
		m.VersionsCreated.Inc()
	}
}

func (m *Metrics) IncrementProcessesDeleted() {
	if m != nil {
		m.ProcessesDeleted.Inc()
	}
}

func (m *Metrics) IncrementApprovalsRecorded() {
	if m != nil {
		m.ApprovalsRecorded.Inc()
	}
}

func (m *Metrics) IncrementRejectionsRecorded() {
	if m != nil {
		m.RejectionsRecorded.Inc()
	}
}

func (m *Metrics) IncrementValidationRuns() {
	if m != nil {
		m.ValidationRuns.Inc()
	}
}

func (m *Metrics) IncrementValidationFailures() {
	if m != nil {
		m.ValidationFailures.Inc()
	}
}
