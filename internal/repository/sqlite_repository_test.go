package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
)

func setupDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mockDB.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mockDB
}

func TestClientRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteClientRepository(db)

		now := time.Now()
		mockDB.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at, updated_at FROM clients WHERE id = ?")).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow("c1", "Acme", now, now))

		client, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", client.Name)
	})

	t.Run("Missing row maps to ErrNotFound", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteClientRepository(db)

		mockDB.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at, updated_at FROM clients WHERE id = ?")).
			WithArgs("c9").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "c9")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestClientRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Zero affected rows means not found", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteClientRepository(db)

		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE clients SET name = ?, updated_at = ? WHERE id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &model.Client{ID: "c9", Name: "x"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("Null client_id stays nil", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteUserRepository(db)

		now := time.Now()
		mockDB.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password, role, client_id, created_at, updated_at FROM users WHERE username = ?")).
			WithArgs("maria").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "client_id", "created_at", "updated_at"}).
				AddRow("u1", "maria", "hash", "admin", nil, now, now))

		user, err := repo.GetByUsername(ctx, "maria")
		require.NoError(t, err)
		assert.Nil(t, user.ClientID)
	})

	t.Run("Set client_id comes back as a pointer", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteUserRepository(db)

		now := time.Now()
		mockDB.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password, role, client_id, created_at, updated_at FROM users WHERE id = ?")).
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "client_id", "created_at", "updated_at"}).
				AddRow("u2", "tenant", "hash", "client", "c1", now, now))

		user, err := repo.GetByID(ctx, "u2")
		require.NoError(t, err)
		require.NotNil(t, user.ClientID)
		assert.Equal(t, "c1", *user.ClientID)
	})
}

func TestUserRepository_CountByClientID(t *testing.T) {
	db, mockDB := setupDB(t)
	repo := repository.NewSQLiteUserRepository(db)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE client_id = ?")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByClientID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMeasurementRepository_Create(t *testing.T) {
	db, mockDB := setupDB(t)
	repo := repository.NewSQLiteMeasurementRepository(db)

	m := &model.Measurement{
		ID:         "m1",
		ClientID:   "c1",
		Year:       2025,
		Month:      7,
		MonthIndex: model.MonthIndexOf(2025, 7),
		Good:       5,
		Causes:     model.CauseBreakdown{Misalignment: 2},
	}

	mockDB.ExpectExec("INSERT INTO measurements").
		WithArgs(
			"m1", "c1", 2025, 7, 24306,
			5, 0, 0, 0, 0,
			// The breakdown is persisted as one JSON document.
			sqlmock.AnyArg(), m.CreatedAt, m.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), m))
}

func TestMeasurementRepository_Find(t *testing.T) {
	ctx := context.Background()

	measurementRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "client_id", "year", "month", "month_index",
			"good", "observation", "unsatisfactory", "danger", "unmeasured",
			"causes", "created_at", "updated_at",
		})
	}

	t.Run("No filters sorts descending", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteMeasurementRepository(db)

		now := time.Now()
		mockDB.ExpectQuery(regexp.QuoteMeta("FROM measurements ORDER BY month_index DESC")).
			WillReturnRows(measurementRows().
				AddRow("m2", "c1", 2025, 7, 24306, 1, 0, 0, 0, 0, `{"misalignment": 2}`, now, now).
				AddRow("m1", "c1", 2025, 6, 24305, 3, 0, 0, 0, 0, "", now, now))

		ms, err := repo.Find(ctx, repository.MeasurementFilter{MinMonthIndex: -1, MaxMonthIndex: -1})
		require.NoError(t, err)
		require.Len(t, ms, 2)
		assert.Equal(t, 2, ms[0].Causes.Misalignment)
		// An empty causes column decodes to a zero breakdown.
		assert.Zero(t, ms[1].Causes)
	})

	t.Run("All filters and ascending sort", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteMeasurementRepository(db)

		mockDB.ExpectQuery(regexp.QuoteMeta(
			"WHERE client_id = ? AND year = ? AND month = ? AND month_index >= ? AND month_index <= ? ORDER BY month_index ASC")).
			WithArgs("c1", 2025, 7, 24295, 24306).
			WillReturnRows(measurementRows())

		ms, err := repo.Find(ctx, repository.MeasurementFilter{
			ClientID:      "c1",
			Year:          2025,
			Month:         7,
			MinMonthIndex: 24295,
			MaxMonthIndex: 24306,
			SortAscending: true,
		})
		require.NoError(t, err)
		assert.Empty(t, ms)
	})

	t.Run("Upper month-index bound applies on its own", func(t *testing.T) {
		db, mockDB := setupDB(t)
		repo := repository.NewSQLiteMeasurementRepository(db)

		now := time.Now()
		mockDB.ExpectQuery(regexp.QuoteMeta("WHERE month_index <= ? ORDER BY month_index DESC")).
			WithArgs(24306).
			WillReturnRows(measurementRows().
				AddRow("m1", "c1", 2025, 7, 24306, 1, 0, 0, 0, 0, "", now, now))

		ms, err := repo.Find(ctx, repository.MeasurementFilter{MinMonthIndex: -1, MaxMonthIndex: 24306})
		require.NoError(t, err)
		require.Len(t, ms, 1)
		assert.Equal(t, 24306, ms[0].MonthIndex)
	})
}
