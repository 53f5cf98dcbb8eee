package entity

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

// PostgresStore persists entities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed entity store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const entityColumns = `id, name, type, category, phone, email, contact_person,
	description, address, emergency_phone, meeting_point, is_active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, e *Entity) error {
	query := `
		INSERT INTO entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(e.ID), e.Name, string(e.Type), categoryValue(e.Category),
		nullString(e.Phone), nullString(e.Email), nullString(e.ContactPerson),
		nullString(e.Description), nullString(e.Address),
		nullString(e.EmergencyPhone), nullString(e.MeetingPoint),
		e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create entity: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e *Entity) error {
	query := `
		UPDATE entities SET
			name = $2, type = $3, category = $4, phone = $5, email = $6,
			contact_person = $7, description = $8, address = $9,
			emergency_phone = $10, meeting_point = $11, is_active = $12,
			updated_at = $13
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(e.ID), e.Name, string(e.Type), categoryValue(e.Category),
		nullString(e.Phone), nullString(e.Email), nullString(e.ContactPerson),
		nullString(e.Description), nullString(e.Address),
		nullString(e.EmergencyPhone), nullString(e.MeetingPoint),
		e.Active, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entity rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, entityID id.EntityID) (*Entity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1`, uuid.UUID(entityID))
	e, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find entity by id: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) FindActiveByNames(ctx context.Context, names []string) (map[string]*Entity, error) {
	if len(names) == 0 {
		return map[string]*Entity{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE is_active AND name = ANY($1)`,
		pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("find entities by names: %w", err)
	}
	defer rows.Close()

	found := make(map[string]*Entity)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		found[e.Name] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return found, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE is_active ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list active entities: %w", err)
	}
	defer rows.Close()
	return collectEntities(rows)
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*Entity, int, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	where := `is_active`
	args := []any{}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM entities WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entities: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM entities WHERE %s ORDER BY lower(name) LIMIT $%d OFFSET $%d`,
			entityColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	entities, err := collectEntities(rows)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, entityID id.EntityID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE entities SET is_active = false, updated_at = now() WHERE id = $1`,
		uuid.UUID(entityID))
	if err != nil {
		return fmt.Errorf("deactivate entity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate entity rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*Entity, error) {
	var (
		e         Entity
		entityID  uuid.UUID
		rawType   string
		category  sql.NullString
		phone     sql.NullString
		email     sql.NullString
		contact   sql.NullString
		desc      sql.NullString
		address   sql.NullString
		emergency sql.NullString
		meeting   sql.NullString
	)
	err := row.Scan(&entityID, &e.Name, &rawType, &category, &phone, &email,
		&contact, &desc, &address, &emergency, &meeting,
		&e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.ID = id.EntityID(entityID)
	e.Type = id.EntityType(rawType)
	if category.Valid {
		c := id.EntityCategory(category.String)
		e.Category = &c
	}
	e.Phone = phone.String
	e.Email = email.String
	e.ContactPerson = contact.String
	e.Description = desc.String
	e.Address = address.String
	e.EmergencyPhone = emergency.String
	e.MeetingPoint = meeting.String
	return &e, nil
}

func collectEntities(rows *sql.Rows) ([]*Entity, error) {
	var out []*Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return out, nil
}

func categoryValue(c *id.EntityCategory) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*c), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
