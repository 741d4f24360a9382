// Package postgres provides a PostgreSQL companion service backed by
// testcontainers. Start launches a disposable container and waits until the
// database accepts connections; Stop terminates it.
//
// If POSTGRES_HOST is set in the environment, the service attaches to that
// external instance instead of starting a container, and Stop leaves it
// running.
package postgres

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/companion/internal/logger"
)

// Config holds the settings for a PostgreSQL companion.
type Config struct {
	// ServiceName is the registry name. Defaults to "postgres".
	ServiceName string
	// Image is the container image. Defaults to "postgres:16-alpine".
	Image string
	// Database, User and Password configure the container. All default to
	// "companion".
	Database string
	User     string
	Password string
	// StartupTimeout bounds the wait for readiness. Defaults to 5 minutes,
	// generous because the image may need to be pulled on first run.
	StartupTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "postgres"
	}
	if c.Image == "" {
		c.Image = "postgres:16-alpine"
	}
	if c.Database == "" {
		c.Database = "companion"
	}
	if c.User == "" {
		c.User = "companion"
	}
	if c.Password == "" {
		c.Password = "companion"
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = 5 * time.Minute
	}
}

// Service is a PostgreSQL companion service. Construct it with New and hand
// it to companion.Register.
type Service struct {
	cfg Config

	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// New creates a PostgreSQL companion with the given configuration. Zero-value
// fields take defaults.
func New(cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{cfg: cfg}
}

// Name returns the configured service name.
func (s *Service) Name() string { return s.cfg.ServiceName }

// DSN returns the connection string of the running database, or "" before
// Start / after Stop.
func (s *Service) DSN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dsn
}

// Start launches the container (or attaches to an external instance) and
// blocks until the database answers a ping. Failure to come up panics: a
// companion that cannot start leaves nothing for the host program to run
// against.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dsn != "" {
		// Already running; starting twice is the caller's business, not an error.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StartupTimeout)
	defer cancel()

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		s.dsn = s.externalDSN(host)
		s.ping(ctx)
		logger.Info("using external postgres", "service", s.cfg.ServiceName, "host", host)
		return
	}

	// PostgreSQL logs "ready to accept connections" twice during startup
	// (bootstrap, then for real), hence the occurrence count.
	container, err := tcpostgres.Run(ctx,
		s.cfg.Image,
		tcpostgres.WithDatabase(s.cfg.Database),
		tcpostgres.WithUsername(s.cfg.User),
		tcpostgres.WithPassword(s.cfg.Password),
		testcontainers.WithWaitStrategyAndDeadline(s.cfg.StartupTimeout,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		logger.Error("failed to start postgres container", "service", s.cfg.ServiceName, "error", err)
		panic(fmt.Sprintf("postgres companion %q: start: %v", s.cfg.ServiceName, err))
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(context.Background())
		panic(fmt.Sprintf("postgres companion %q: connection string: %v", s.cfg.ServiceName, err))
	}

	s.container = container
	s.dsn = dsn
	s.ping(ctx)
	logger.Info("postgres companion started", "service", s.cfg.ServiceName)
}

// Stop terminates the container. Stopping an already-stopped service (or an
// external instance) is a no-op; the teardown hook stops every service
// unconditionally, so this must stay tolerant.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		s.dsn = ""
		return
	}

	if err := s.container.Terminate(context.Background()); err != nil {
		logger.Warn("failed to terminate postgres container", "service", s.cfg.ServiceName, "error", err)
	}
	s.container = nil
	s.dsn = ""
	logger.Info("postgres companion stopped", "service", s.cfg.ServiceName)
}

// ping verifies the database is reachable before Start returns. Called with
// s.mu held.
func (s *Service) ping(ctx context.Context) {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		panic(fmt.Sprintf("postgres companion %q: pool: %v", s.cfg.ServiceName, err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		panic(fmt.Sprintf("postgres companion %q: ping: %v", s.cfg.ServiceName, err))
	}
}

func (s *Service) externalDSN(host string) string {
	port := 5432
	if p := os.Getenv("POSTGRES_PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	database := s.cfg.Database
	if d := os.Getenv("POSTGRES_DATABASE"); d != "" {
		database = d
	}
	user := s.cfg.User
	if u := os.Getenv("POSTGRES_USER"); u != "" {
		user = u
	}
	password := s.cfg.Password
	if p := os.Getenv("POSTGRES_PASSWORD"); p != "" {
		password = p
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		user, password, host, port, database)
}
