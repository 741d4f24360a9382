// Package badgerdb provides an embedded Badger key-value store as a
// companion service, for tests that need a scratch database without Docker.
package badgerdb

import (
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/companion/internal/logger"
)

// Config holds the settings for a Badger companion.
type Config struct {
	// ServiceName is the registry name. Defaults to "badger".
	ServiceName string
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory runs the store without touching disk.
	InMemory bool
}

// Service is an embedded Badger companion. Start opens the database, Stop
// closes it.
type Service struct {
	cfg Config

	mu sync.Mutex
	db *badger.DB
}

// New creates a Badger companion with the given configuration.
func New(cfg Config) *Service {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "badger"
	}
	return &Service{cfg: cfg}
}

// Name returns the configured service name.
func (s *Service) Name() string { return s.cfg.ServiceName }

// DB returns the open database, or nil before Start / after Stop.
func (s *Service) DB() *badger.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Start opens the database. Panics if it cannot be opened.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return
	}

	opts := badger.DefaultOptions(s.cfg.Path).WithLogger(nil)
	if s.cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		logger.Error("failed to open badger store", "service", s.cfg.ServiceName, "error", err)
		panic(fmt.Sprintf("badger companion %q: open: %v", s.cfg.ServiceName, err))
	}
	s.db = db
	logger.Info("badger companion started", "service", s.cfg.ServiceName, "path", s.cfg.Path)
}

// Stop closes the database. Tolerates being called when already closed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return
	}

	if err := s.db.Close(); err != nil {
		logger.Warn("failed to close badger store", "service", s.cfg.ServiceName, "error", err)
	}
	s.db = nil
	logger.Info("badger companion stopped", "service", s.cfg.ServiceName)
}
