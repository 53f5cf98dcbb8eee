package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "condogov/pkg/domain"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, stakeholder_id, process_id, version_id, action, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		event.Timestamp, uuidOrNil(uuid.UUID(event.StakeholderID)),
		uuidOrNil(uuid.UUID(event.ProcessID)), uuidOrNil(uuid.UUID(event.VersionID)),
		string(event.Action), event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByProcess(ctx context.Context, processID id.ProcessID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, stakeholder_id, process_id, version_id, action, detail
		FROM audit_events
		WHERE process_id = $1
		ORDER BY occurred_at
	`, uuid.UUID(processID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e           Event
			stakeholder uuid.NullUUID
			process     uuid.NullUUID
			version     uuid.NullUUID
			action      string
		)
		if err := rows.Scan(&e.Timestamp, &stakeholder, &process, &version, &action, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.StakeholderID = id.StakeholderID(stakeholder.UUID)
		e.ProcessID = id.ProcessID(process.UUID)
		e.VersionID = id.VersionID(version.UUID)
		e.Action = Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}

func uuidOrNil(u uuid.UUID) uuid.NullUUID {
	if u == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: u, Valid: true}
}
