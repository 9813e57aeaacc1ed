package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/carhive/interaction-service/internal/application/tracking"
	"github.com/carhive/interaction-service/internal/domain"
)

// Timestamps are stored as fixed-width UTC text so lexical order matches
// chronological order (RFC3339Nano drops trailing zeros and would not).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repo is the embedded single-instance backend.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func Open(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *Repo) Insert(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.UserID, string(e.Type), e.Description, fmtTime(e.CreatedAt),
	)
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return domain.ErrDuplicate
	}
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicate
	}
	return err
}

func (r *Repo) Query(ctx context.Context, f tracking.Filter) ([]*domain.Event, int, error) {
	where := []string{}
	args := []any{}

	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*f.Type))
	}
	if f.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, fmtTime(*f.To))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC, id DESC"
	if !f.Descending {
		orderBy = "created_at ASC, id ASC"
	}

	listSQL := `
SELECT id, user_id, type, description, created_at
FROM events
` + whereSQL + `
ORDER BY ` + orderBy + `
LIMIT ? OFFSET ?`

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		var typ, createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &typ, &e.Description, &createdAt); err != nil {
			return nil, 0, err
		}
		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, 0, err
		}
		e.Type = domain.EventType(typ)
		e.CreatedAt = t.UTC()
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
