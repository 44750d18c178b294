// Package integration runs the ledger against a real PostgreSQL started
// with testcontainers. The suite is skipped with -short.
package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/innledger/backend/internal/infrastructure/config"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"github.com/innledger/backend/internal/infrastructure/migration"
	"github.com/innledger/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// one container per test binary, tables are truncated between tests
	sharedContainer *tcpostgres.PostgresContainer
	sharedConfig    config.DatabaseConfig
	sharedOnce      sync.Once
	sharedErr       error
)

// TestDB is a migrated database with its tables emptied for the calling test
type TestDB struct {
	DB     *gorm.DB
	Config config.DatabaseConfig
	t      *testing.T
}

// NewTestDB connects to the shared container, starting and migrating it on
// first use, and truncates every ledger table.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests need docker; skipped with -short")
	}

	sharedOnce.Do(func() {
		sharedErr = startContainer(context.Background())
	})
	require.NoError(t, sharedErr, "Failed to start PostgreSQL container")

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = logger.NewGormLogger(zap.NewExample(), gormlogger.Info)
	}
	db, err := persistence.NewDatabaseWithLogger(&sharedConfig, gormLog)
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{DB: db.DB, Config: sharedConfig, t: t}
	tdb.CleanTables()
	return tdb
}

func startContainer(ctx context.Context) error {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return err
	}
	sharedContainer = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		return err
	}
	sharedConfig = config.DatabaseConfig{
		Host:            host,
		Port:            port,
		User:            "postgres",
		Password:        "ledger",
		DBName:          "ledger_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}

	db, err := persistence.NewDatabase(&sharedConfig)
	if err != nil {
		return err
	}
	defer db.Close()
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, zap.NewNop())
	if err != nil {
		return err
	}
	return m.Up()
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

// terminateContainer stops the shared container if it was started
func terminateContainer() {
	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
}
