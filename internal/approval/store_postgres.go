package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
)

// PostgresStore persists approvals and rejections. The unique index on
// (version_id, stakeholder_id) makes the one-approval-per-stakeholder rule
// hold under concurrent inserts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const approvalColumns = `id, process_id, version_id, stakeholder_id, approval_type, comments, created_at`

const rejectionColumns = `id, process_id, version_id, stakeholder_id, reason, addressed_in_version_id, created_at`

func (s *PostgresStore) CreateApproval(ctx context.Context, a *Approval) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approvals (`+approvalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(a.ID), uuid.UUID(a.ProcessID), uuid.UUID(a.VersionID),
		uuid.UUID(a.StakeholderID), string(a.Type), a.Comments, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateRejection(ctx context.Context, r *Rejection) error {
	var addressed any
	if r.AddressedInVersionID != nil {
		addressed = uuid.UUID(*r.AddressedInVersionID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rejections (`+rejectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(r.ID), uuid.UUID(r.ProcessID), uuid.UUID(r.VersionID),
		uuid.UUID(r.StakeholderID), r.Reason, addressed, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rejection: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListApprovalsByProcess(ctx context.Context, processID id.ProcessID) ([]*Approval, error) {
	return s.queryApprovals(ctx,
		`SELECT `+approvalColumns+` FROM approvals WHERE process_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(processID))
}

func (s *PostgresStore) ListApprovalsByVersion(ctx context.Context, versionID id.VersionID) ([]*Approval, error) {
	return s.queryApprovals(ctx,
		`SELECT `+approvalColumns+` FROM approvals WHERE version_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(versionID))
}

func (s *PostgresStore) ListRejectionsByProcess(ctx context.Context, processID id.ProcessID) ([]*Rejection, error) {
	return s.queryRejections(ctx,
		`SELECT `+rejectionColumns+` FROM rejections WHERE process_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(processID))
}

func (s *PostgresStore) ListRejectionsByVersion(ctx context.Context, versionID id.VersionID) ([]*Rejection, error) {
	return s.queryRejections(ctx,
		`SELECT `+rejectionColumns+` FROM rejections WHERE version_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(versionID))
}

func (s *PostgresStore) CountApprovalsForVersion(ctx context.Context, versionID id.VersionID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM approvals WHERE version_id = $1`, uuid.UUID(versionID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approvals: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) LinkAddressedVersion(ctx context.Context, rejectionID id.RejectionID, versionID id.VersionID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rejections SET addressed_in_version_id = $2 WHERE id = $1`,
		uuid.UUID(rejectionID), uuid.UUID(versionID))
	if err != nil {
		return fmt.Errorf("link addressed version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link addressed version rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryApprovals(ctx context.Context, query string, args ...any) ([]*Approval, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}
	defer rows.Close()

	var out []*Approval
	for rows.Next() {
		var (
			a            Approval
			approvalID   uuid.UUID
			processID    uuid.UUID
			versionID    uuid.UUID
			stakeholder  uuid.UUID
			approvalType string
		)
		if err := rows.Scan(&approvalID, &processID, &versionID, &stakeholder,
			&approvalType, &a.Comments, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		a.ID = id.ApprovalID(approvalID)
		a.ProcessID = id.ProcessID(processID)
		a.VersionID = id.VersionID(versionID)
		a.StakeholderID = id.StakeholderID(stakeholder)
		a.Type = id.ApprovalType(approvalType)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approvals: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) queryRejections(ctx context.Context, query string, args ...any) ([]*Rejection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rejections: %w", err)
	}
	defer rows.Close()

	var out []*Rejection
	for rows.Next() {
		var (
			r           Rejection
			rejectionID uuid.UUID
			processID   uuid.UUID
			versionID   uuid.UUID
			stakeholder uuid.UUID
			addressed   uuid.NullUUID
		)
		if err := rows.Scan(&rejectionID, &processID, &versionID, &stakeholder,
			&r.Reason, &addressed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		r.ID = id.RejectionID(rejectionID)
		r.ProcessID = id.ProcessID(processID)
		r.VersionID = id.VersionID(versionID)
		r.StakeholderID = id.StakeholderID(stakeholder)
		if addressed.Valid {
			v := id.VersionID(addressed.UUID)
			r.AddressedInVersionID = &v
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rejections: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
