// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/userdir/internal/adapters/repository"
	"github.com/okian/userdir/internal/domain/model"
	"github.com/okian/userdir/pkg/logger"
	"github.com/okian/userdir/pkg/metrics"
)

// Operation outcomes used for logs, metrics and stats.
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeDeleted  = "deleted"
	outcomeNoop     = "noop"
	outcomeError    = "error"
)

// Service owns the user directory and routes every read and write
// through it.
type Service struct {
	mu sync.RWMutex

	directory repository.Directory
	seed      []model.User

	started bool
	logger  logger.Logger

	statsMu  sync.Mutex
	outcomes map[string]int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed replaces the users the directory starts with. A nil slice keeps
// the default seed; an empty one starts an empty directory.
func WithSeed(users []model.User) Option {
	return func(s *Service) {
		if users != nil {
			s.seed = make([]model.User, len(users))
			copy(s.seed, users)
		}
	}
}

// WithDirectory injects a ready-made directory. The seed is ignored when
// one is given.
func WithDirectory(d repository.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.directory = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seed:     model.DefaultSeed(),
		outcomes: make(map[string]int64),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds and seeds the directory. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.directory == nil {
		s.directory = repository.NewListDirectory(ctx, repository.WithSeed(s.seed))
	}

	s.started = true
	users := s.directory.Len(ctx)
	metrics.UpdateTotalUsers(users)
	s.logger.Info(ctx, "user directory service started", logger.Int("users", users))

	return nil
}

// Stop marks the service stopped. The directory keeps its contents until
// the process exits.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "user directory service stopped")
}

func (s *Service) dir() (repository.Directory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.directory, nil
}

// Lookup returns the user with the given name.
func (s *Service) Lookup(ctx context.Context, name string) (model.User, error) {
	d, err := s.dir()
	if err != nil {
		return model.User{}, err
	}

	u, err := d.Lookup(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.record(ctx, metrics.OpLookup, outcomeNotFound, name)
		return model.User{}, err
	case err != nil:
		s.fail(ctx, metrics.OpLookup, name, err)
		return model.User{}, err
	}
	s.record(ctx, metrics.OpLookup, outcomeFound, name)
	return u, nil
}

// Create adds a new user. It fails with repository.ErrConflict if the name
// is already taken, leaving the directory unchanged.
func (s *Service) Create(ctx context.Context, name, age, occupation string) (model.User, error) {
	if name == "" {
		return model.User{}, ErrEmptyName
	}
	d, err := s.dir()
	if err != nil {
		return model.User{}, err
	}

	u, err := d.Create(ctx, model.User{Name: name, Age: age, Occupation: occupation})
	switch {
	case errors.Is(err, repository.ErrConflict):
		s.record(ctx, metrics.OpCreate, outcomeConflict, name)
		return model.User{}, err
	case err != nil:
		s.fail(ctx, metrics.OpCreate, name, err)
		return model.User{}, err
	}
	s.record(ctx, metrics.OpCreate, repository.Created.String(), name)
	return u, nil
}

// Upsert updates age and occupation of an existing user, or creates it.
func (s *Service) Upsert(ctx context.Context, name, age, occupation string) (model.User, repository.Outcome, error) {
	if name == "" {
		return model.User{}, 0, ErrEmptyName
	}
	d, err := s.dir()
	if err != nil {
		return model.User{}, 0, err
	}

	u, outcome, err := d.Upsert(ctx, model.User{Name: name, Age: age, Occupation: occupation})
	if err != nil {
		s.fail(ctx, metrics.OpUpsert, name, err)
		return model.User{}, 0, err
	}
	s.record(ctx, metrics.OpUpsert, outcome.String(), name)
	return u, outcome, nil
}

// Delete removes the named user if present and reports how many records
// went away. Deleting an absent name succeeds.
func (s *Service) Delete(ctx context.Context, name string) (int, error) {
	d, err := s.dir()
	if err != nil {
		return 0, err
	}

	removed, err := d.Delete(ctx, name)
	if err != nil {
		s.fail(ctx, metrics.OpDelete, name, err)
		return 0, err
	}
	if removed == 0 {
		s.record(ctx, metrics.OpDelete, outcomeNoop, name)
	} else {
		s.record(ctx, metrics.OpDelete, outcomeDeleted, name)
	}
	return removed, nil
}

// Users returns a snapshot of the directory in insertion order.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	d, err := s.dir()
	if err != nil {
		return nil, err
	}
	return d.List(ctx), nil
}

func (s *Service) record(ctx context.Context, op, outcome, name string) {
	if err := metrics.RecordOperation(op, outcome); err != nil {
		s.logger.Warn(ctx, "metrics record failed", logger.String("operation", op), logger.Error(err))
	}

	s.statsMu.Lock()
	s.outcomes[op+"."+outcome]++
	s.statsMu.Unlock()

	s.logger.Debug(ctx, "directory operation",
		logger.String("operation", op),
		logger.String("outcome", outcome),
		logger.String("name", name),
	)
}

func (s *Service) fail(ctx context.Context, op, name string, err error) {
	s.logger.Error(ctx, "directory operation failed",
		logger.String("operation", op),
		logger.String("name", name),
		logger.Error(err),
	)
	s.record(ctx, op, outcomeError, name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		users := s.directory.Len(context.Background())
		stats["users"] = users
		metrics.UpdateTotalUsers(users)
	}

	s.statsMu.Lock()
	ops := make(map[string]int64, len(s.outcomes))
	for k, v := range s.outcomes {
		ops[k] = v
	}
	s.statsMu.Unlock()
	stats["operations"] = ops

	return stats
}
