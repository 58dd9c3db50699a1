// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package viewctx holds the effective-actor state of a console session: the signed-in
// actor and an optional impersonation overlay.
//
// A Store is constructed explicitly and passed to whatever needs it. State changes only
// through StartImpersonation, Complete/Await and StopImpersonation. Readers take a
// Snapshot.
package viewctx

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"k8s.io/apimachinery/pkg/util/sets"
)

// DefaultDelay is the simulated round trip before an impersonation becomes visible.
const DefaultDelay = 800 * time.Millisecond

// ErrCancelled is returned by Await when the ticket was superseded or stopped
// before the delay elapsed.
var ErrCancelled = errors.New("impersonation start cancelled")

// Actor is the signed-in identity. It never changes during a session.
type Actor struct {
	Name string `json:"name"`
}

// Ticket identifies one pending impersonation start.
type Ticket struct {
	ID   string
	done <-chan struct{}
}

// Done is closed when the ticket is cancelled or completed.
func (t Ticket) Done() <-chan struct{} {
	return t.done
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Actor   Actor
	User    string           // impersonated user, empty when not impersonating
	Groups  sets.Set[string] // impersonated groups
	Session string           // id of the active impersonation session
	Loading bool
}

// Impersonating reports whether an impersonation overlay is applied.
func (s Snapshot) Impersonating() bool {
	return s.User != ""
}

// EffectiveUser returns the impersonated user, or the actor when not impersonating.
func (s Snapshot) EffectiveUser() string {
	if s.User != "" {
		return s.User
	}
	return s.Actor.Name
}

type pendingStart struct {
	id     string
	user   string
	groups sets.Set[string]
	cancel context.CancelFunc
}

// Store is the single source of truth for who the effective actor is.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	actor   Actor
	user    string
	groups  sets.Set[string]
	session string
	pending *pendingStart

	delay time.Duration
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDelay sets the simulated start latency.
func WithDelay(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger attaches a logger for state transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "viewctx").Logger()
	}
}

// New creates a store for actor.
func New(actor Actor, opts ...Option) *Store {
	s := &Store{
		actor:  actor,
		groups: sets.New[string](),
		delay:  DefaultDelay,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the simulated start latency.
func (s *Store) Delay() time.Duration {
	return s.delay
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Actor:   s.actor,
		User:    s.user,
		Groups:  s.groups.Clone(),
		Session: s.session,
		Loading: s.pending != nil,
	}
}

// StartImpersonation begins switching the view to username and groups. Loading is
// set immediately; the overlay is applied when the returned ticket completes.
// A start issued while another is pending replaces it. An empty username is ignored.
func (s *Store) StartImpersonation(username string, groups []string) (Ticket, bool) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Ticket{}, false
	}

	target := sets.New[string]()
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			target.Insert(g)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingStart{
		id:     uuid.NewString(),
		user:   username,
		groups: target,
		cancel: cancel,
	}

	s.mu.Lock()
	if s.pending != nil {
		s.log.Debug().Str("ticket", s.pending.id).Str("user", s.pending.user).Msg("pending impersonation superseded")
		s.pending.cancel()
	}
	s.pending = p
	s.mu.Unlock()

	s.log.Info().
		Str("ticket", p.id).
		Str("user", username).
		Strs("groups", sets.List(target)).
		Msg("impersonation start requested")

	return Ticket{ID: p.id, done: ctx.Done()}, true
}

// Complete applies the pending start identified by t. It returns false when t is no
// longer the pending start.
func (s *Store) Complete(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.id != t.ID {
		return false
	}
	p := s.pending
	s.pending = nil
	p.cancel()

	s.user = p.user
	s.groups = p.groups
	s.session = p.id

	s.log.Info().
		Str("session", p.id).
		Str("user", p.user).
		Strs("groups", sets.List(p.groups)).
		Msg("impersonation active")
	return true
}

// Await blocks for the store delay and then completes t. It returns ErrCancelled if
// t was superseded or stopped first, or ctx.Err() if ctx ends first.
func (s *Store) Await(ctx context.Context, t Ticket) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Done():
		return ErrCancelled
	case <-timer.C:
	}

	if !s.Complete(t) {
		return ErrCancelled
	}
	return nil
}

// StopImpersonation clears the overlay and any pending start. It is a no-op when
// nothing is active or pending.
func (s *Store) StopImpersonation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" && s.pending == nil {
		return
	}
	if s.pending != nil {
		s.pending.cancel()
		s.pending = nil
	}

	s.log.Info().Str("session", s.session).Str("user", s.user).Msg("impersonation stopped")

	s.user = ""
	s.groups = sets.New[string]()
	s.session = ""
}
