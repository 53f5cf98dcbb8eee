package stakeholder

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

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const stakeholderColumns = `id, name, email, stakeholder_type, role, active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, st *Stakeholder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stakeholders (`+stakeholderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(st.ID), st.Name, st.Email, string(st.Type), string(st.Role),
		st.Active, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert stakeholder: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, stakeholderID id.StakeholderID) (*Stakeholder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+stakeholderColumns+` FROM stakeholders WHERE id = $1`, uuid.UUID(stakeholderID))
	st, err := scanStakeholder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find stakeholder: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*Stakeholder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stakeholderColumns+` FROM stakeholders WHERE active ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list stakeholders: %w", err)
	}
	defer rows.Close()

	var out []*Stakeholder
	for rows.Next() {
		st, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stakeholder: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stakeholders: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, st *Stakeholder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stakeholders SET name = $2, email = $3, stakeholder_type = $4,
			role = $5, active = $6, updated_at = $7
		WHERE id = $1
	`,
		uuid.UUID(st.ID), st.Name, st.Email, string(st.Type), string(st.Role),
		st.Active, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stakeholder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stakeholder rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, stakeholderID id.StakeholderID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE stakeholders SET active = false, updated_at = now() WHERE id = $1`,
		uuid.UUID(stakeholderID))
	if err != nil {
		return fmt.Errorf("deactivate stakeholder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate stakeholder rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanStakeholder(row interface{ Scan(...any) error }) (*Stakeholder, error) {
	var (
		st            Stakeholder
		stakeholderID uuid.UUID
		stype         string
		role          string
	)
	err := row.Scan(&stakeholderID, &st.Name, &st.Email, &stype, &role,
		&st.Active, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st.ID = id.StakeholderID(stakeholderID)
	st.Type = id.StakeholderType(stype)
	st.Role = id.StakeholderRole(role)
	return &st, nil
}
