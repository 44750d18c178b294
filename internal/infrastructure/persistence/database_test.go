package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/innledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database backed by sqlmock
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_PingContext(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, mock, _ := newMockDatabase(t)
		mock.ExpectPing()

		assert.NoError(t, db.PingContext(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable", func(t *testing.T) {
		db, mock, _ := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err := db.PingContext(context.Background())
		assert.EqualError(t, err, "connection refused")
	})
}

func TestDatabase_PoolStats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	mockDB.SetMaxOpenConns(7)

	stats := db.PoolStats()
	assert.Equal(t, 7, stats.MaxOpenConnections)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)
	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactor(t *testing.T) {
	t.Run("commits and hands the transaction to repositories", func(t *testing.T) {
		db, mock, _ := newMockDatabase(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "rows"`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx := NewGormTransactor(db.DB)
		err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return conn(ctx, db.DB).Exec(`INSERT INTO "rows" (id, name) VALUES (1, 'a')`).Error
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, _ := newMockDatabase(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		tx := NewGormTransactor(db.DB)
		err := tx.WithinTransaction(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		db, mock, _ := newMockDatabase(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx := NewGormTransactor(db.DB)
		calls := 0
		err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return tx.WithinTransaction(ctx, func(context.Context) error {
				calls++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewDatabase_Unreachable(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:         "127.0.0.1",
		Port:         1,
		User:         "ledger",
		DBName:       "ledger",
		SSLMode:      "disable",
		MaxOpenConns: 1,
	}
	_, err := NewDatabase(cfg)
	assert.Error(t, err)
}
