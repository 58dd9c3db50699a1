// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package redirect moves the viewer to the virtualization fleet the first time an
// impersonation becomes active, once per impersonation session.
package redirect

import (
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
)

// State of the policy.
type State int

const (
	Idle State = iota
	JustActivated
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case JustActivated:
		return "just-activated"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Action is the side effect to apply on activation.
type Action struct {
	Perspective perspective.Perspective
	Path        string
}

// DefaultAction forces the virtualization perspective and opens the VM list.
func DefaultAction() Action {
	return Action{
		Perspective: perspective.FleetVirtualization,
		Path:        navigation.VirtualMachinesPath,
	}
}

// Policy is the latch. The zero value is Idle and uses DefaultAction.
type Policy struct {
	state  State
	action *Action
}

// New returns a policy that emits action on activation.
func New(action Action) *Policy {
	return &Policy{action: &action}
}

// State returns the current state.
func (p *Policy) State() State {
	return p.state
}

// Observe feeds the currently impersonated user (empty when none). It returns the
// action to apply exactly once when a session begins.
func (p *Policy) Observe(impersonatedUser string) (Action, bool) {
	if impersonatedUser == "" {
		p.state = Idle
		return Action{}, false
	}

	switch p.state {
	case Idle:
		p.state = JustActivated
		act := DefaultAction()
		if p.action != nil {
			act = *p.action
		}
		p.state = Active
		return act, true
	default:
		p.state = Active
		return Action{}, false
	}
}
