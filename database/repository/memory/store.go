// Package memoryRepo keeps every repository in process memory. It backs
// DATABASE_DRIVER=memory and the service tests.
package memoryRepo

import (
	"context"
	"sync"

	"servicehub/models"
)

type txKey struct{}

// Store holds all collections. Writes are serialized; a transaction holds the
// write lock for its whole callback and restores a snapshot on error. Reads
// outside a transaction wait for any open transaction to finish, so they
// never observe uncommitted state.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex

	providers map[string]models.Provider
	bookings  map[string]models.Booking
	reviews   map[string]models.Review
	services  map[string]models.Service
	users     map[string]models.User
}

func NewStore() *Store {
	return &Store{
		providers: map[string]models.Provider{},
		bookings:  map[string]models.Booking{},
		reviews:   map[string]models.Review{},
		services:  map[string]models.Service{},
		users:     map[string]models.User{},
	}
}

type snapshot struct {
	providers map[string]models.Provider
	bookings  map[string]models.Booking
	reviews   map[string]models.Review
	services  map[string]models.Service
	users     map[string]models.User
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		providers: copyMap(s.providers),
		bookings:  copyMap(s.bookings),
		reviews:   copyMap(s.reviews),
		services:  copyMap(s.services),
		users:     copyMap(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = snap.providers
	s.bookings = snap.bookings
	s.reviews = snap.reviews
	s.services = snap.services
	s.users = snap.users
}

func (s *Store) inTransaction(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// WithTransaction implements database.Transactor.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// write runs f under the data lock, joining the caller's transaction when
// there is one and taking the transaction lock otherwise.
func (s *Store) write(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTransaction(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return f()
}

// read runs f under the data read lock. Inside a transaction it sees the
// transaction's own writes.
func (s *Store) read(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTransaction(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f()
}

// Repositories bundles every repository over one store.
type Repositories struct {
	Store     *Store
	Providers *ProviderRepo
	Bookings  *BookingRepo
	Reviews   *ReviewRepo
	Services  *ServiceRepo
	Users     *UserRepo
}

func NewRepositories() *Repositories {
	s := NewStore()
	return &Repositories{
		Store:     s,
		Providers: &ProviderRepo{s: s},
		Bookings:  &BookingRepo{s: s},
		Reviews:   &ReviewRepo{s: s},
		Services:  &ServiceRepo{s: s},
		Users:     &UserRepo{s: s},
	}
}
