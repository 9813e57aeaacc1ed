package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/carhive/interaction-service/internal/application/tracking"
	"github.com/carhive/interaction-service/internal/domain"
)

func TestRepo_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)
	now := time.Now().UTC()
	e := domain.Reconstitute("evt-1", "user-1", domain.TypePageView, "Viewed car-1 Toyota Corolla", now)

	mock.ExpectExec("INSERT INTO events").
		WithArgs(e.ID, e.UserID, string(e.Type), e.Description, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Insert(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Insert_ClassifiesDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := New(db)
	e := domain.Reconstitute("evt-1", "user-1", domain.TypePageView, "d", time.Now().UTC())

	t.Run("unique_violation_code", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO events").
			WillReturnError(&pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "events_pkey"`})

		err := repo.Insert(context.Background(), e)
		assert.True(t, domain.IsDuplicate(err))
	})

	t.Run("other_pq_errors_pass_through", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO events").
			WillReturnError(&pq.Error{Code: "53300", Message: "too many connections"})

		err := repo.Insert(context.Background(), e)
		assert.Error(t, err)
		assert.False(t, domain.IsDuplicate(err))
	})

	t.Run("plain_errors_pass_through", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO events").
			WillReturnError(errors.New("connection reset"))

		err := repo.Insert(context.Background(), e)
		assert.Error(t, err)
		assert.False(t, domain.IsDuplicate(err))
	})
}

func eventRows(n int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "description", "created_at"})
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rows.AddRow("evt-"+string(rune('a'+i)), "user-1", "PageView", "desc", base.Add(time.Duration(i)*time.Hour))
	}
	return rows
}

func TestRepo_Query(t *testing.T) {
	t.Run("no_filters_descending", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := New(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
			WithArgs(50, 0).
			WillReturnRows(eventRows(2))

		items, total, err := repo.Query(context.Background(), tracking.Filter{
			Descending: true, Page: 1, PageSize: 50,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
		assert.Equal(t, domain.TypePageView, items[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all_filters_bound_in_order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := New(db)

		typ := domain.TypeClick
		from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE user_id = \$1 AND type = \$2 AND created_at >= \$3 AND created_at <= \$4`).
			WithArgs("user-1", "Click", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY created_at ASC, id ASC`).
			WithArgs("user-1", "Click", from, to, 10, 10).
			WillReturnRows(eventRows(0))

		items, total, err := repo.Query(context.Background(), tracking.Filter{
			UserID: "user-1", Type: &typ, From: &from, To: &to,
			Descending: false, Page: 2, PageSize: 10,
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count_error_short_circuits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := New(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnError(errors.New("relation does not exist"))

		_, _, err = repo.Query(context.Background(), tracking.Filter{Descending: true, Page: 1, PageSize: 50})
		assert.Error(t, err)
	})
}
