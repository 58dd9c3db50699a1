// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package perspective

// Selector holds the active perspective and the open/closed state of its menu.
// While an impersonation is active the selector is locked to FleetVirtualization.
type Selector struct {
	current Perspective
	open    bool
}

// NewSelector returns a closed selector showing initial.
func NewSelector(initial Perspective) *Selector {
	if !initial.Valid() {
		initial = FleetManagement
	}
	return &Selector{current: initial}
}

// Current returns the active perspective.
func (s *Selector) Current() Perspective {
	return s.current
}

// IsOpen reports whether the menu is expanded.
func (s *Selector) IsOpen() bool {
	return s.open
}

// Locked reports whether the control is non-interactive.
func (s *Selector) Locked(impersonating bool) bool {
	return impersonating
}

// Options returns the perspectives that may currently be selected.
func (s *Selector) Options(impersonating bool) []Perspective {
	if impersonating {
		return []Perspective{FleetVirtualization}
	}
	return All()
}

// Offers reports whether p is among the current options.
func (s *Selector) Offers(p Perspective, impersonating bool) bool {
	for _, o := range s.Options(impersonating) {
		if o == p {
			return true
		}
	}
	return false
}

// Toggle opens or closes the menu. Ignored while locked.
func (s *Selector) Toggle(impersonating bool) {
	if s.Locked(impersonating) {
		s.open = false
		return
	}
	s.open = !s.open
}

// Close collapses the menu.
func (s *Selector) Close() {
	s.open = false
}

// Select switches to p when it is offered and closes the menu. Selections that are
// not offered, including every selection while locked, are ignored.
func (s *Selector) Select(p Perspective, impersonating bool) bool {
	if s.Locked(impersonating) || !s.Offers(p, impersonating) {
		return false
	}
	s.current = p
	s.open = false
	return true
}

// Force sets the perspective regardless of the lock. Used by the redirect policy.
func (s *Selector) Force(p Perspective) {
	if !p.Valid() {
		return
	}
	s.current = p
	s.open = false
}
