package suites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	postgresImage = "postgres:17.5-alpine3.21"
	postgresPort  = "5432/tcp"
	testDatabase  = "atlas_test"
	testUser      = "atlas"
	testPassword  = "atlas"
)

// Postgres is a throwaway database container
type Postgres struct {
	testcontainers.Container
	DSN string
}

// StartPostgres runs a postgres container and waits until it answers queries
func StartPostgres(ctx context.Context) (*Postgres, error) {
	dsn := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			testUser, testPassword, host, port.Port(), testDatabase)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{postgresPort},
			Cmd:          []string{"postgres", "-c", "fsync=off"},
			Env: map[string]string{
				"POSTGRES_DB":       testDatabase,
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
			},
			WaitingFor: wait.ForSQL(postgresPort, "postgres", dsn).
				WithStartupTimeout(30 * time.Second).
				WithQuery("SELECT 1"),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &Postgres{Container: container, DSN: dsn(host, port)}, nil
}

// DatabaseSuite gives repository tests a migrated database. Every table
// listed in Tables is emptied before each test.
type DatabaseSuite struct {
	suite.Suite
	Postgres       *Postgres
	DB             *gorm.DB
	SQLDB          *sql.DB
	MigrationsPath string
	Tables         []string
}

func (s *DatabaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping database integration tests in short mode")
	}

	ctx := context.Background()
	pg, err := StartPostgres(ctx)
	s.Require().NoError(err)
	s.Postgres = pg
	s.T().Cleanup(func() {
		if s.SQLDB != nil {
			_ = s.SQLDB.Close()
		}
		_ = pg.Terminate(context.Background())
	})

	sqlDB, err := sql.Open("postgres", pg.DSN)
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	s.SQLDB = sqlDB

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	s.Require().NoError(sqlDB.PingContext(pingCtx))

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)

	if s.MigrationsPath == "" {
		s.MigrationsPath = findMigrations()
	}
	s.Require().NoError(s.migrate(), "apply migrations")
}

// SetupTest empties the suite tables
func (s *DatabaseSuite) SetupTest() {
	if len(s.Tables) == 0 {
		return
	}
	quoted := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	s.Require().NoError(s.DB.Exec("TRUNCATE " + strings.Join(quoted, ", ")).Error)
}

func (s *DatabaseSuite) migrate() error {
	if s.MigrationsPath == "" {
		return errors.New("migrations directory not found")
	}
	m, err := migrate.New("file://"+s.MigrationsPath, s.Postgres.DSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// CountRows counts the rows of a table
func (s *DatabaseSuite) CountRows(table string) int64 {
	var n int64
	s.Require().NoError(s.DB.Table(table).Count(&n).Error)
	return n
}

// findMigrations walks up from the working directory to the module root
func findMigrations() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "migrations")
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}
