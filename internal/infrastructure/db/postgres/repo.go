package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/carhive/interaction-service/internal/application/tracking"
	"github.com/carhive/interaction-service/internal/domain"
)

const uniqueViolation = "23505"

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

// Insert adds one event row. A primary-key conflict is classified into
// domain.ErrDuplicate so the persistence service can treat it as a no-op.
func (r *Repo) Insert(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.UserID, string(e.Type), e.Description, e.CreatedAt,
	)
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}

func (r *Repo) Query(ctx context.Context, f tracking.Filter) ([]*domain.Event, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Type != nil {
		add("type = $%d", string(*f.Type))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM events " + whereSQL
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// id as secondary key keeps pagination deterministic among equal timestamps
	orderBy := "created_at DESC, id DESC"
	if !f.Descending {
		orderBy = "created_at ASC, id ASC"
	}

	offset := (f.Page - 1) * f.PageSize

	listSQL := `
SELECT id, user_id, type, description, created_at
FROM events
` + whereSQL + `
ORDER BY ` + orderBy + `
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	args = append(args, f.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		var typ string
		if err := rows.Scan(&e.ID, &e.UserID, &typ, &e.Description, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Type = domain.EventType(typ)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}
