package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"honor-sync/core/database"
	"honor-sync/core/errors"
	"honor-sync/feature/honors/models"
	"honor-sync/feature/honors/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := New(db, nil)
	require.NoError(t, s.Prepare(context.Background()))
	return s
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return New(gormDB, nil), mock
}

func sampleHonor(year int, cat models.Category) models.CanonicalHonor {
	return models.CanonicalHonor{
		Year:      year,
		AwardType: "Spiel des Jahres",
		Category:  cat,
		Name:      fmt.Sprintf("%d Spiel des Jahres %s", year, cat),
		Source:    "boardgamegeek",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		HonorID:   "1234",
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	err := s.Create(ctx, &reconcile.Document{
		GameID:      "13",
		Name:        "Catan",
		Provisional: true,
		Honors:      []models.CanonicalHonor{sampleHonor(1995, models.CategoryWinner)},
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "13")
	require.NoError(t, err)
	assert.Equal(t, "Catan", doc.Name)
	assert.True(t, doc.Provisional)
	require.Len(t, doc.Honors, 1)
	assert.Equal(t, models.CategoryWinner, doc.Honors[0].Category)
	assert.True(t, doc.Honors[0].CreatedAt.Equal(sampleHonor(1995, models.CategoryWinner).CreatedAt))

	doc.Honors = append(doc.Honors, sampleHonor(1996, models.CategoryNominee))
	doc.Name = "ignored"
	doc.Provisional = false
	require.NoError(t, s.Save(ctx, doc))

	doc, err = s.Get(ctx, "13")
	require.NoError(t, err)
	assert.Len(t, doc.Honors, 2)
	assert.Equal(t, "Catan", doc.Name, "save only touches honors")
	assert.True(t, doc.Provisional, "save never clears the provisional flag")
}

func TestStore_GetNormalizesLegacyCategories(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	recommended := sampleHonor(2019, "recommended")
	unknown := sampleHonor(2018, "runner-up")
	require.NoError(t, s.db.Create(&Game{ExternalID: "7", Honors: []models.CanonicalHonor{recommended, unknown}}).Error)

	doc, err := s.Get(ctx, "7")
	require.NoError(t, err)
	require.Len(t, doc.Honors, 2)
	assert.Equal(t, models.CategorySpecial, doc.Honors[0].Category)
	assert.Equal(t, models.Category("runner-up"), doc.Honors[1].Category)
}

func TestStore_EmptyHonorsPersistAsArray(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &reconcile.Document{GameID: "1"}))

	var raw string
	require.NoError(t, s.db.Raw("SELECT honors FROM games WHERE external_id = ?", "1").Scan(&raw).Error)
	assert.Equal(t, "[]", raw)
}

func TestStore_NotFound(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = s.Save(ctx, &reconcile.Document{GameID: "missing"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStore_CreateDuplicateFails(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &reconcile.Document{GameID: "1"}))

	err := s.Create(ctx, &reconcile.Document{GameID: "1"})
	var storeErr *errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "create", storeErr.Op)
}

func TestStore_ScanPages(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	for _, id := range []string{"c", "a", "e", "b", "d"} {
		require.NoError(t, s.Create(ctx, &reconcile.Document{GameID: id}))
	}

	var seen []string
	after := ""
	for {
		page, err := s.Scan(ctx, after, 2)
		require.NoError(t, err)
		for _, d := range page {
			seen = append(seen, d.GameID)
		}
		if len(page) < 2 {
			break
		}
		after = page[len(page)-1].GameID
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, seen)
}

func TestStore_ReconcileEndToEnd(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &reconcile.Document{GameID: "1", Name: "One"}))

	canonical := []models.CanonicalHonor{sampleHonor(2024, models.CategoryWinner)}
	canonical[0].ExternalGameID = "1"

	opts := reconcile.Options{Mode: reconcile.ModeMerge, Scope: reconcile.Scope{AwardType: "Spiel des Jahres"}}
	_, summary, err := reconcile.Reconcile(ctx, s, canonical, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	_, summary, err = reconcile.Reconcile(ctx, s, canonical, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestStore_GetQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `games` WHERE external_id = \\?").
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := s.Get(context.Background(), "42")
	var storeErr *errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get", storeErr.Op)
	assert.Equal(t, "42", storeErr.GameID)
	assert.NotErrorIs(t, err, errors.ErrNotFound)
	assert.NotErrorIs(t, err, errors.ErrTransient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeadlockIsTransient(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `games` WHERE external_id = \\?").
		WillReturnError(&mysqldrv.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})

	_, err := s.Get(context.Background(), "42")
	assert.ErrorIs(t, err, errors.ErrTransient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bad connection", fmt.Errorf("exec: %w", driver.ErrBadConn), true},
		{"invalid connection", mysqldrv.ErrInvalidConn, true},
		{"lock wait timeout", &mysqldrv.MySQLError{Number: 1205}, true},
		{"duplicate key", &mysqldrv.MySQLError{Number: 1062}, false},
		{"sqlite busy", fmt.Errorf("database is locked"), true},
		{"syntax error", fmt.Errorf("near \"SELEC\": syntax error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transient(tt.err))
		})
	}
}

func TestStore_SaveMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `games` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.Save(context.Background(), &reconcile.Document{GameID: "42"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_PrepareReportsMigrationFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("access denied"))

	err := s.Prepare(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate games table")
}
