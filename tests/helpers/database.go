package helpers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/hbomb79/Cadence/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	SQLDialect          = "postgres"
	SQLConnectionString = "host=%s user=%s password=%s dbname=%s port=%s sslmode=disable"
	User                = "postgres"
	Password            = "postgres"
	MasterDBName        = "CADENCE_DB"
)

var (
	ctx = context.Background()

	sharedDatabaseManager = newDatabaseManager(MasterDBName)
)

// databaseManager is an internal test helper which facilitates
// the templating of a single 'master' database in a shared postgresql
// docker instance. This allows tests to use individual databases without
// needing to create multiple instances of docker. This manager will:
//   - automatically spawn the container,
//   - migrate the master database,
//   - mark the master database as a template, and,
//   - facilitate provisioning of new databases based off that master database.
type databaseManager struct {
	*sync.Mutex
	masterDatabaseName string
	pgContainer        *postgres.PostgresContainer
	host               string
	port               string
	connection         *sql.DB
}

func newDatabaseManager(databaseName string) *databaseManager {
	return &databaseManager{
		Mutex:              &sync.Mutex{},
		masterDatabaseName: databaseName,
	}
}

// RequireDatabase provisions a fresh, fully migrated, database for the calling
// test and returns a connection to it. Tests calling this are skipped when
// running in short mode, as a docker daemon is required.
func RequireDatabase(t *testing.T) *sqlx.DB {
	if testing.Short() {
		t.Skip("skipping database backed test in short mode")
	}

	name := sanitizeDatabaseName(t.Name())
	sharedDatabaseManager.provisionDB(t, name)

	db, err := sqlx.Open(SQLDialect, sharedDatabaseManager.dsn(name))
	if err != nil {
		t.Fatalf("failed to open connection to provisioned database '%s': %s", name, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func (manager *databaseManager) dsn(databaseName string) string {
	return fmt.Sprintf(SQLConnectionString, manager.host, User, Password, databaseName, manager.port)
}

func (manager *databaseManager) provisionDB(t *testing.T, databaseName string) {
	manager.Lock()
	defer manager.Unlock()

	if manager.connection == nil {
		t.Log("Database provisioning request received but manager not started yet. Initializing database management...")
		manager.connect(t)
		manager.markMasterDB(t)
		t.Log("Database management initialised!")
	}

	_, err := manager.connection.Exec(fmt.Sprintf(`CREATE DATABASE "%s" TEMPLATE "%s"`, databaseName, manager.masterDatabaseName))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			t.Logf("Database '%s' already provisioned. Reusing database", databaseName)
			return
		}

		t.Fatalf("failed to provision database '%s' based on template database '%s': (%T) %s", databaseName, manager.masterDatabaseName, err, err)
	}
}

func (manager *databaseManager) connect(t *testing.T) {
	if manager.pgContainer == nil {
		manager.spawnPostgres(t)
	}

	// Connect to the postgres maintenance DB, as the master
	// database cannot be templated while we hold a connection to it.
	db, err := sql.Open(SQLDialect, manager.dsn("postgres"))
	if err != nil {
		t.Fatalf("failed to open postgres connection: %s", err)
	}

	for attempt := 1; ; attempt++ {
		if err := db.Ping(); err == nil {
			break
		} else if attempt == 3 {
			t.Fatalf("all database connection attempts FAILED: %s", err)
		}

		t.Logf("DB connection attempt (%v/3) failed... Retrying in 3s", attempt)
		time.Sleep(3 * time.Second)
	}

	t.Log("Database connection established!")
	manager.connection = db
}

func (manager *databaseManager) markMasterDB(t *testing.T) {
	t.Log("Migrating master database...")
	mgr := database.New()
	if err := mgr.Connect(database.DatabaseConfig{
		User:            User,
		Password:        Password,
		Name:            manager.masterDatabaseName,
		Host:            manager.host,
		Port:            manager.port,
		ConnectAttempts: 3,
	}); err != nil {
		t.Fatalf("failed to migrate master database: %s", err)
	}
	_ = mgr.Close()

	t.Log("Master DB migrated, marking master database as template...")
	if _, err := manager.connection.Exec(fmt.Sprintf(`ALTER DATABASE "%s" WITH is_template TRUE`, manager.masterDatabaseName)); err != nil {
		t.Fatalf("failed to mark master database (%s) as template: %s", manager.masterDatabaseName, err)
	}
}

func (manager *databaseManager) spawnPostgres(t *testing.T) {
	postgresC, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:14.1-alpine"),
		postgres.WithDatabase(MasterDBName),
		postgres.WithUsername(User),
		postgres.WithPassword(Password),
		// Test databases are disposable, keep the data dir in memory
		testcontainers.WithHostConfigModifier(func(hostConfig *container.HostConfig) {
			hostConfig.Tmpfs = map[string]string{"/var/lib/postgresql/data": "rw"}
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %s", err)
		return
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to resolve postgres container host: %s", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to resolve postgres container port: %s", err)
	}

	manager.pgContainer = postgresC
	manager.host = host
	manager.port = port.Port()
}

func sanitizeDatabaseName(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	if len(name) > 60 {
		name = name[len(name)-60:]
	}

	return name
}
