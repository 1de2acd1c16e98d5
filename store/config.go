package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/types"
)

type notFoundError struct{}

func (notFoundError) Error() string { return "no saved configuration" }
func (notFoundError) Kind() string  { return "not_found" }

type conflictError struct{}

func (conflictError) Error() string { return "configuration was saved by someone else" }
func (conflictError) Kind() string  { return "conflict" }

type invalidError struct{}

func (invalidError) Error() string { return "invalid configuration" }
func (invalidError) Kind() string  { return "invalid_config" }

var (
	ErrNotFound = notFoundError{}
	ErrConflict = conflictError{}
	ErrInvalid  = invalidError{}
)

// Snapshot is the stored form of a configuration. Config holds the encoded
// tree so callers never share memory with the store.
type Snapshot struct {
	Config      []byte    `json:"config"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Revision    int64     `json:"revision"`
	SavedAt     time.Time `json:"savedAt"`
}

type SaveRequest struct {
	Config      *types.CheckoutConfiguration `json:"config"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	// ExpectedRevision, when set, makes the save fail with ErrConflict unless
	// the stored revision matches. Zero expects nothing to be stored yet.
	ExpectedRevision *int64 `json:"expectedRevision,omitempty"`
}

type Saved struct {
	Config      *types.CheckoutConfiguration `json:"config"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	Revision    int64                        `json:"revision"`
	SavedAt     time.Time                    `json:"savedAt"`
}

// ConfigStore keeps one configuration per tenant. Saves for the same tenant
// are serialized; without ExpectedRevision the last save wins.
type ConfigStore struct {
	snapshots Scoped[Snapshot]
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*ConfigStore)

func WithLogger(logger *zap.Logger) Option {
	return func(s *ConfigStore) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *ConfigStore) { s.now = now }
}

func NewConfigStore(cache Cache[Snapshot], opts ...Option) *ConfigStore {
	s := &ConfigStore{
		snapshots: NewScoped(cache, "checkout-config", Tenant),
		logger:    zap.NewNop(),
		now:       time.Now,
		locks:     map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ConfigStore) lock(ctx context.Context) func() {
	key, _ := s.snapshots.Key(ctx)
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Save validates and stores req for the context tenant.
func (s *ConfigStore) Save(ctx context.Context, req SaveRequest) (Saved, error) {
	if req.Config == nil {
		return Saved{}, fmt.Errorf("%w: missing config", ErrInvalid)
	}
	if err := types.Check(req.Config); err != nil {
		return Saved{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	data, err := types.Encode(req.Config)
	if err != nil {
		return Saved{}, err
	}

	unlock := s.lock(ctx)
	defer unlock()

	prev, exists, err := s.snapshots.Get(ctx)
	if err != nil {
		return Saved{}, err
	}
	if req.ExpectedRevision != nil && *req.ExpectedRevision != prev.Revision {
		return Saved{}, fmt.Errorf("%w: expected revision %d, have %d", ErrConflict, *req.ExpectedRevision, prev.Revision)
	}
	tenant, _ := Tenant(ctx)
	if exists && req.ExpectedRevision == nil {
		s.logger.Debug("overwriting configuration",
			zap.String("tenant", tenant),
			zap.Int64("revision", prev.Revision))
	}

	snap := Snapshot{
		Config:      data,
		Name:        req.Name,
		Description: req.Description,
		Revision:    prev.Revision + 1,
		SavedAt:     s.now().UTC(),
	}
	if err := s.snapshots.Set(ctx, snap); err != nil {
		s.logger.Error("save configuration", zap.String("tenant", tenant), zap.Error(err))
		return Saved{}, err
	}
	return Saved{
		Config:      req.Config,
		Name:        snap.Name,
		Description: snap.Description,
		Revision:    snap.Revision,
		SavedAt:     snap.SavedAt,
	}, nil
}

// Load returns a decoded copy of the tenant's configuration or ErrNotFound.
func (s *ConfigStore) Load(ctx context.Context) (Saved, error) {
	snap, ok, err := s.snapshots.Get(ctx)
	if err != nil {
		return Saved{}, err
	}
	if !ok {
		return Saved{}, ErrNotFound
	}
	cfg, err := types.Decode(snap.Config)
	if err != nil {
		return Saved{}, err
	}
	return Saved{
		Config:      cfg,
		Name:        snap.Name,
		Description: snap.Description,
		Revision:    snap.Revision,
		SavedAt:     snap.SavedAt,
	}, nil
}

func (s *ConfigStore) Delete(ctx context.Context) error {
	unlock := s.lock(ctx)
	defer unlock()
	return s.snapshots.Del(ctx)
}
