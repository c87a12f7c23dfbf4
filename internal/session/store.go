// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/pkg/errutil"
)

// Persister stores the single persisted identity.
type Persister interface {
	// Load returns the stored identity and whether one exists.
	Load(ctx context.Context) (string, bool, error)

	// Save replaces the stored identity.
	Save(ctx context.Context, identity string) error

	// Delete removes the stored identity. Deleting a missing value is not an error.
	Delete(ctx context.Context) error
}

// Event describes the store state after a change.
type Event struct {
	Identity string
	Present  bool
}

// Reader is read access to the session.
type Reader interface {
	Current() (string, bool)
	Resolved() bool
	Ready() <-chan struct{}
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Store is the single owner of the current identity.
type Store struct {
	persister Persister
	logger    *slog.Logger

	// writeMu serialises Initialize, Set and Clear including notification,
	// so subscribers observe changes in the order they were applied.
	writeMu sync.Mutex

	mu       sync.RWMutex
	identity string
	present  bool
	resolved bool
	ready    chan struct{}

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Pending store backed by p.
func NewStore(p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, oops.Code(CodeNoPersister).Errorf("session persister is required")
	}
	s := &Store{
		persister: p,
		logger:    slog.Default(),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Initialize reads persisted storage once and resolves the store.
//
// A read failure still resolves the store, as unauthenticated, and is
// returned so the caller can report it. Calls after the store is resolved
// do nothing.
func (s *Store) Initialize(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Resolved() {
		return nil
	}

	identity, ok, loadErr := s.persister.Load(ctx)
	if loadErr != nil {
		identity, ok = "", false
		loadErr = oops.Code(CodeLoadFailed).With("operation", "load persisted identity").Wrap(loadErr)
		errutil.LogError(s.logger, "reading persisted session failed, starting signed out", loadErr)
	}
	identity = strings.TrimSpace(identity)
	ok = ok && identity != ""

	s.apply(identity, ok)
	s.logger.Info("session initialized", "present", ok)
	s.notify(Event{Identity: identity, Present: ok})
	return loadErr
}

// Set persists identity, adopts it, and notifies subscribers.
func (s *Store) Set(ctx context.Context, identity string) error {
	if strings.TrimSpace(identity) == "" || identity != strings.TrimSpace(identity) {
		return oops.Code(CodeInvalidIdentity).Errorf("identity must be a non-empty username without surrounding whitespace")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persister.Save(ctx, identity); err != nil {
		return oops.Code(CodePersistFailed).With("operation", "save identity").Wrap(err)
	}
	s.apply(identity, true)
	s.logger.Info("session established", "username", identity)
	s.notify(Event{Identity: identity, Present: true})
	return nil
}

// Clear deletes the persisted identity, forgets it, and notifies subscribers.
// Clearing an empty session succeeds.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persister.Delete(ctx); err != nil {
		return oops.Code(CodeDeleteFailed).With("operation", "delete identity").Wrap(err)
	}
	s.apply("", false)
	s.logger.Info("session cleared")
	s.notify(Event{})
	return nil
}

// Current returns the identity and whether one is present.
func (s *Store) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.present
}

// Resolved reports whether the session state is known.
func (s *Store) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Ready is closed once the store is resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe registers fn to be called synchronously after every change.
// fn must not call Set, Clear or Initialize. The returned function
// unregisters fn.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) apply(identity string, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	s.present = present
	if !s.resolved {
		s.resolved = true
		close(s.ready)
	}
}

func (s *Store) notify(ev Event) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
