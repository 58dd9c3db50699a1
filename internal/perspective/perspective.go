// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package perspective defines the top-level navigation modes of the console and the
// selector that switches between them.
package perspective

import (
	"errors"
	"fmt"
	"strings"
)

// Perspective is one of the top-level navigation modes.
type Perspective int

const (
	// CorePlatforms shows the single-cluster platform tree.
	CorePlatforms Perspective = iota
	// FleetManagement shows the multicluster management tree.
	FleetManagement
	// FleetVirtualization shows the virtual machine fleet tree.
	FleetVirtualization
)

// ErrUnknown is returned by Parse for names that do not denote a perspective.
var ErrUnknown = errors.New("unknown perspective")

// All returns every perspective in menu order.
func All() []Perspective {
	return []Perspective{CorePlatforms, FleetManagement, FleetVirtualization}
}

// String returns the flag/config name of the perspective.
func (p Perspective) String() string {
	switch p {
	case CorePlatforms:
		return "core-platforms"
	case FleetManagement:
		return "fleet-management"
	case FleetVirtualization:
		return "fleet-virtualization"
	default:
		return fmt.Sprintf("perspective(%d)", int(p))
	}
}

// Label returns the display name shown in the selector.
func (p Perspective) Label() string {
	switch p {
	case CorePlatforms:
		return "Core platforms"
	case FleetManagement:
		return "Fleet management"
	case FleetVirtualization:
		return "Fleet virtualization"
	default:
		return p.String()
	}
}

// Valid reports whether p is one of the declared perspectives.
func (p Perspective) Valid() bool {
	return p >= CorePlatforms && p <= FleetVirtualization
}

// Parse accepts the flag name, the display label, or a few short aliases.
func Parse(s string) (Perspective, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	switch norm {
	case "core-platforms", "core", "platforms":
		return CorePlatforms, nil
	case "fleet-management", "fleet", "management", "acm":
		return FleetManagement, nil
	case "fleet-virtualization", "virtualization", "virt", "vms":
		return FleetVirtualization, nil
	}
	return 0, fmt.Errorf("%w: %q (expected one of core-platforms, fleet-management, fleet-virtualization)", ErrUnknown, s)
}

// MarshalText implements encoding.TextMarshaler so perspectives round-trip through
// YAML and environment configuration.
func (p Perspective) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Perspective) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
