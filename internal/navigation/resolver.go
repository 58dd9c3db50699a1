// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package navigation

import (
	"fmt"
	"path"
	"strings"

	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
)

// Resolver maps a perspective and impersonation state to the route groups that
// are rendered and matched. It holds only the static trees.
type Resolver struct {
	Core           []RouteGroup
	General        []RouteGroup
	Virtualization []RouteGroup
}

// NewResolver returns a resolver over the built-in trees.
func NewResolver() *Resolver {
	return &Resolver{
		Core:           CoreTree(),
		General:        GeneralTree(),
		Virtualization: VirtualizationTree(),
	}
}

// Effective returns the perspective that is actually in force. Impersonated sessions
// are always shown the virtualization tree.
func Effective(p perspective.Perspective, impersonating bool) perspective.Perspective {
	if impersonating {
		return perspective.FleetVirtualization
	}
	return p
}

// Resolve returns the ordered route groups for p. The result is a fresh slice and
// may be modified by the caller.
func (r *Resolver) Resolve(p perspective.Perspective, impersonating bool) []RouteGroup {
	p = Effective(p, impersonating)

	var groups []RouteGroup
	switch p {
	case perspective.CorePlatforms:
		groups = cloneGroups(r.Core)
	case perspective.FleetVirtualization:
		groups = cloneGroups(r.Virtualization)
	case perspective.FleetManagement:
		groups = without(r.General, GroupCorePlatforms)
	default:
		panic(fmt.Sprintf("navigation: no route tree for %s", p))
	}

	if impersonating && p == perspective.FleetVirtualization {
		groups = without(groups, GroupUserManagement)
	}
	return groups
}

// Trees returns every static tree keyed by the perspective that selects it.
func (r *Resolver) Trees() map[perspective.Perspective][]RouteGroup {
	return map[perspective.Perspective][]RouteGroup{
		perspective.CorePlatforms:       cloneGroups(r.Core),
		perspective.FleetManagement:     cloneGroups(r.General),
		perspective.FleetVirtualization: cloneGroups(r.Virtualization),
	}
}

func without(groups []RouteGroup, label string) []RouteGroup {
	out := make([]RouteGroup, 0, len(groups))
	for _, g := range groups {
		if g.Label == label {
			continue
		}
		out = append(out, cloneGroup(g))
	}
	return out
}

func cloneGroups(groups []RouteGroup) []RouteGroup {
	out := make([]RouteGroup, len(groups))
	for i, g := range groups {
		out[i] = cloneGroup(g)
	}
	return out
}

func cloneGroup(g RouteGroup) RouteGroup {
	g.Routes = append([]Route(nil), g.Routes...)
	return g
}

// CleanPath normalizes a location for matching: leading slash, no trailing slash,
// no query or fragment.
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Match finds the route for location among groups.
func Match(groups []RouteGroup, location string) (Route, bool) {
	location = CleanPath(location)
	for _, g := range groups {
		for _, r := range g.Routes {
			if r.Path == location {
				return r, true
			}
		}
	}
	return Route{}, false
}

// Lookup is Match with the NotFound route as fallback.
func Lookup(groups []RouteGroup, location string) Route {
	if r, ok := Match(groups, location); ok {
		return r
	}
	return NotFoundRoute(CleanPath(location))
}

// Breadcrumb returns the group and route labels leading to location.
func Breadcrumb(groups []RouteGroup, location string) []string {
	location = CleanPath(location)
	for _, g := range groups {
		for _, r := range g.Routes {
			if r.Path != location {
				continue
			}
			var crumbs []string
			if g.Label != "" {
				crumbs = append(crumbs, g.Label)
			}
			if r.Label != "" {
				crumbs = append(crumbs, r.Label)
			}
			return crumbs
		}
	}
	return []string{"Not found"}
}

// FirstPath returns the first labeled, enabled route, used as the landing page of a
// perspective.
func FirstPath(groups []RouteGroup) string {
	for _, g := range groups {
		if g.Disabled {
			continue
		}
		for _, r := range g.Routes {
			if r.Label != "" {
				return r.Path
			}
		}
	}
	return "/"
}
