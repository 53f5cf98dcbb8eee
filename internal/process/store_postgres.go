package process

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
)

// PostgresStore persists processes and versions in PostgreSQL. Referential
// integrity of Delete relies on ON DELETE CASCADE from versions, approvals
// and rejections to the processes table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed process store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const processColumns = `id, name, category, subcategory, document_type, status,
	current_version_number, creator_id, created_at, updated_at`

const versionColumns = `id, process_id, version_number, content, content_text,
	status, change_summary, created_by, created_at, previous_version_id`

func (s *PostgresStore) CreateWithVersion(ctx context.Context, p *Process, v *ProcessVersion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create process: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO processes (`+processColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.UUID(p.ID), p.Name, string(p.Category), nullable(p.Subcategory),
		string(p.DocumentType), string(p.Status), p.CurrentVersionNumber,
		uuid.UUID(p.CreatorID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert process: %w", err)
	}

	if err := insertVersion(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create process: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendVersion(ctx context.Context, v *ProcessVersion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append version: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the process row so concurrent appends serialize and numbering
	// stays gap-free; the unique constraint is the backstop.
	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT current_version_number FROM processes WHERE id = $1 FOR UPDATE`,
		uuid.UUID(v.ProcessID)).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("lock process row: %w", err)
	}
	if v.VersionNumber != current+1 {
		return sentinel.ErrConflict
	}

	if err := insertVersion(ctx, tx, v); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE processes SET current_version_number = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, uuid.UUID(v.ProcessID), v.VersionNumber, string(v.Status), v.CreatedAt)
	if err != nil {
		return fmt.Errorf("bump process version counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append version: %w", err)
	}
	return nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, v *ProcessVersion) error {
	content, err := json.Marshal(v.Content)
	if err != nil {
		return fmt.Errorf("marshal version content: %w", err)
	}
	var previous any
	if v.PreviousVersionID != nil {
		previous = uuid.UUID(*v.PreviousVersionID)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO process_versions (`+versionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.UUID(v.ID), uuid.UUID(v.ProcessID), v.VersionNumber, content,
		nullable(v.ContentText), string(v.Status), nullable(v.ChangeSummary),
		uuid.UUID(v.CreatedBy), v.CreatedAt, previous,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert process version: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, processID id.ProcessID) (*Process, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+processColumns+` FROM processes WHERE id = $1`, uuid.UUID(processID))
	p, err := scanProcess(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find process by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindVersion(ctx context.Context, versionID id.VersionID) (*ProcessVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM process_versions WHERE id = $1`, uuid.UUID(versionID))
	v, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find version by id: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) CurrentVersion(ctx context.Context, processID id.ProcessID) (*ProcessVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionColumns+` FROM process_versions
		WHERE process_id = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, uuid.UUID(processID))
	v, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("current version: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListVersions(ctx context.Context, processID id.ProcessID) ([]*ProcessVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+` FROM process_versions
		WHERE process_id = $1
		ORDER BY version_number
	`, uuid.UUID(processID))
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []*ProcessVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*Process, int, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	where := `true`
	args := []any{}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM processes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count processes: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM processes WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			processColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list processes: %w", err)
	}
	defer rows.Close()

	processes, err := collectProcesses(rows)
	if err != nil {
		return nil, 0, err
	}
	return processes, total, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*Process, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+processColumns+` FROM processes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all processes: %w", err)
	}
	defer rows.Close()
	return collectProcesses(rows)
}

func (s *PostgresStore) Update(ctx context.Context, p *Process) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE processes SET
			name = $2, category = $3, subcategory = $4, document_type = $5,
			status = $6, updated_at = $7
		WHERE id = $1
	`,
		uuid.UUID(p.ID), p.Name, string(p.Category), nullable(p.Subcategory),
		string(p.DocumentType), string(p.Status), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update process: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update process rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, processID id.ProcessID) error {
	// Versions, approvals and rejections carry ON DELETE CASCADE foreign
	// keys, so a single delete preserves referential integrity atomically.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM processes WHERE id = $1`, uuid.UUID(processID))
	if err != nil {
		return fmt.Errorf("delete process: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete process rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM processes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count processes: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) TransitionStatus(ctx context.Context, processID id.ProcessID, versionID id.VersionID, to id.ProcessStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE process_versions SET status = $3
		WHERE id = $2 AND process_id = $1
	`, uuid.UUID(processID), uuid.UUID(versionID), string(to))
	if err != nil {
		return fmt.Errorf("transition version status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE processes SET status = $2, updated_at = now() WHERE id = $1
	`, uuid.UUID(processID), string(to)); err != nil {
		return fmt.Errorf("transition process status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}

func (s *PostgresStore) TransitionStatusIf(ctx context.Context, processID id.ProcessID, versionID id.VersionID, from, to id.ProcessStatus) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE process_versions SET status = $4
		WHERE id = $2 AND process_id = $1 AND status = $3
	`, uuid.UUID(processID), uuid.UUID(versionID), string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("cas version status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cas rows affected: %w", err)
	}
	if affected == 0 {
		// Either the version is gone or its status moved; both mean no swap.
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE processes SET status = $2, updated_at = now() WHERE id = $1
	`, uuid.UUID(processID), string(to)); err != nil {
		return false, fmt.Errorf("cas process status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit cas transition: %w", err)
	}
	return true, nil
}

func scanProcess(row interface{ Scan(...any) error }) (*Process, error) {
	var (
		p           Process
		processID   uuid.UUID
		creatorID   uuid.UUID
		category    string
		subcategory sql.NullString
		docType     string
		status      string
	)
	err := row.Scan(&processID, &p.Name, &category, &subcategory, &docType,
		&status, &p.CurrentVersionNumber, &creatorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.ProcessID(processID)
	p.Category = id.ProcessCategory(category)
	p.Subcategory = subcategory.String
	p.DocumentType = id.DocumentType(docType)
	p.Status = id.ProcessStatus(status)
	p.CreatorID = id.StakeholderID(creatorID)
	return &p, nil
}

func scanVersion(row interface{ Scan(...any) error }) (*ProcessVersion, error) {
	var (
		v           ProcessVersion
		versionID   uuid.UUID
		processID   uuid.UUID
		createdBy   uuid.UUID
		content     []byte
		contentText sql.NullString
		status      string
		summary     sql.NullString
		previous    uuid.NullUUID
	)
	err := row.Scan(&versionID, &processID, &v.VersionNumber, &content,
		&contentText, &status, &summary, &createdBy, &v.CreatedAt, &previous)
	if err != nil {
		return nil, err
	}
	v.ID = id.VersionID(versionID)
	v.ProcessID = id.ProcessID(processID)
	v.CreatedBy = id.StakeholderID(createdBy)
	v.ContentText = contentText.String
	v.Status = id.ProcessStatus(status)
	v.ChangeSummary = summary.String
	if previous.Valid {
		prev := id.VersionID(previous.UUID)
		v.PreviousVersionID = &prev
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &v.Content); err != nil {
			return nil, fmt.Errorf("unmarshal version content: %w", err)
		}
	}
	return &v, nil
}

func collectProcesses(rows *sql.Rows) ([]*Process, error) {
	var out []*Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("scan process: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processes: %w", err)
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
