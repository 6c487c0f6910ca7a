package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanagement/internal/domain"
)

var registrationColumns = []string{"id", "event_id", "user_id", "name", "email", "phone", "created_at"}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success assigns id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations \(id, event_id, user_id, name, email, phone, created_at\)`).
					WithArgs(sqlmock.AnyArg(), "ev-1", "u-1", "alice", "alice@example.com", "5551234567", now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate email for event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: uniqueViolation})
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg := domain.NewRegistration("ev-1", "u-1", "alice", "alice@example.com", "5551234567", now)
			err = repo.Create(ctx, reg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, reg.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM registrations\s+WHERE event_id = \$1 AND user_id = \$2`).
			WithArgs("ev-1", "u-1").
			WillReturnRows(sqlmock.NewRows(registrationColumns).
				AddRow("reg-1", "ev-1", "u-1", "alice", "alice@example.com", "5551234567", now))

		repo := NewRegistrationRepository(db)
		reg, err := repo.GetByEventAndUser(ctx, "ev-1", "u-1")
		require.NoError(t, err)
		assert.Equal(t, "reg-1", reg.ID)
		assert.Equal(t, now, reg.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM registrations`).
			WithArgs("ev-1", "u-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		_, err = repo.GetByEventAndUser(ctx, "ev-1", "u-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// Insertion order, oldest first.
	mock.ExpectQuery(`SELECT .+ FROM registrations\s+WHERE event_id = \$1\s+ORDER BY created_at ASC`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(registrationColumns).
			AddRow("reg-1", "ev-1", "u-1", "alice", "alice@example.com", "5551234567", now.Add(-2*time.Hour)).
			AddRow("reg-2", "ev-1", "u-2", "bob", "bob@example.com", "5557654321", now.Add(-time.Hour)))

	repo := NewRegistrationRepository(db)
	regs, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "reg-1", regs[0].ID)
	assert.Equal(t, "reg-2", regs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM registrations\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(registrationColumns))

	repo := NewRegistrationRepository(db)
	regs, err := repo.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, regs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations WHERE id = \$1`).
			WithArgs("reg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Delete(ctx, "reg-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations WHERE id = \$1`).
			WithArgs("reg-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "reg-1"), domain.ErrNotFound)
	})
}
