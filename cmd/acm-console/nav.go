// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kuklas/acm-user-interface-sub002/internal/clierr"
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
	"github.com/kuklas/acm-user-interface-sub002/internal/redirect"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
)

// impersonationFlags are shared by the commands that can view as another user.
type impersonationFlags struct {
	user   string
	groups []string
}

func (f *impersonationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "as", "", "Impersonate this user")
	cmd.Flags().StringSliceVar(&f.groups, "group", nil, "Impersonated group (repeatable, requires --as)")
}

func (f *impersonationFlags) validate() error {
	if f.user == "" && len(f.groups) > 0 {
		return clierr.Validation(fmt.Errorf("--group requires --as"))
	}
	return nil
}

var (
	navPerspective string
	navPath        string
	navJSON        bool
	navImp         impersonationFlags
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Print the navigation menu",
	Long: `Print the navigation menu shown for a perspective.

With --as the menu is the one an impersonated user sees: the perspective is
locked to fleet virtualization and the user lands on the virtual machines page.

Examples:
  # Menu of the default perspective
  acm-console nav

  # Core platforms menu with the Users page open
  acm-console nav --perspective core --path /k8s/user-management/users

  # What alice sees when impersonated with her team
  acm-console nav --as alice --group dev-team-alpha
`,
	Args: cobra.NoArgs,
	RunE: runNav,
}

func init() {
	rootCmd.AddCommand(navCmd)
	navCmd.Flags().StringVarP(&navPerspective, "perspective", "p", "", "Perspective (core, fleet, virtualization)")
	navCmd.Flags().StringVar(&navPath, "path", "", "Current location; defaults to the perspective's landing page")
	navCmd.Flags().BoolVar(&navJSON, "json", false, "Output in JSON format")
	navImp.register(navCmd)
}

// navView is the resolved menu for one perspective, location and identity.
type navView struct {
	Perspective perspective.Perspective `json:"perspective"`
	Locked      bool                    `json:"locked"`
	User        string                  `json:"user"`
	Groups      []string                `json:"groups,omitempty"`
	Location    string                  `json:"location"`
	Route       navigation.Route        `json:"route"`
	Breadcrumb  []string                `json:"breadcrumb"`
	Items       []navItem               `json:"items"`
}

type navItem struct {
	Kind     string             `json:"kind"`
	Label    string             `json:"label,omitempty"`
	Path     string             `json:"path,omitempty"`
	Active   bool               `json:"active,omitempty"`
	Expanded bool               `json:"expanded,omitempty"`
	Children []navigation.Route `json:"children,omitempty"`
}

func itemKind(k navigation.ItemKind) string {
	switch k {
	case navigation.ItemDivider:
		return "divider"
	case navigation.ItemLink:
		return "link"
	case navigation.ItemHeading:
		return "heading"
	case navigation.ItemSection:
		return "section"
	}
	return "unknown"
}

// resolveNav computes the menu the console would show. The redirect policy runs
// once, as it does when an impersonation becomes active.
func resolveNav(resolver *navigation.Resolver, snap viewctx.Snapshot, p perspective.Perspective, location string) navView {
	selector := perspective.NewSelector(p)
	policy := redirect.New(redirect.DefaultAction())
	if action, ok := policy.Observe(snap.User); ok {
		selector.Force(action.Perspective)
		if location == "" {
			location = action.Path
		}
	}

	imp := snap.Impersonating()
	groups := resolver.Resolve(selector.Current(), imp)
	if location == "" {
		location = navigation.FirstPath(groups)
	}
	location = navigation.CleanPath(location)

	v := navView{
		Perspective: navigation.Effective(selector.Current(), imp),
		Locked:      selector.Locked(imp),
		User:        snap.EffectiveUser(),
		Groups:      sets.List(snap.Groups),
		Location:    location,
		Route:       navigation.Lookup(groups, location),
		Breadcrumb:  navigation.Breadcrumb(groups, location),
	}
	for _, it := range navigation.Plan(groups, location) {
		v.Items = append(v.Items, navItem{
			Kind:     itemKind(it.Kind),
			Label:    it.Label,
			Path:     it.Route.Path,
			Active:   it.Active,
			Expanded: it.Expanded,
			Children: it.Children,
		})
	}
	return v
}

func runNav(cmd *cobra.Command, args []string) error {
	if err := navImp.validate(); err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	p := s.cfg.InitialPerspective()
	if navPerspective != "" {
		p, err = perspective.Parse(navPerspective)
		if err != nil {
			return clierr.Validation(fmt.Errorf("--perspective: %w", err))
		}
	}

	v := resolveNav(s.resolver, s.viewAs(navImp.user, navImp.groups), p, navPath)

	if navJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	printNav(cmd.OutOrStdout(), v)
	return nil
}

func printNav(w io.Writer, v navView) {
	locked := ""
	if v.Locked {
		locked = " (locked while impersonating)"
	}
	fmt.Fprintf(w, "Perspective: %s%s\n", v.Perspective.Label(), locked)
	if len(v.Groups) > 0 {
		fmt.Fprintf(w, "Viewing as:  %s (groups: %s)\n", v.User, strings.Join(v.Groups, ", "))
	} else {
		fmt.Fprintf(w, "Viewing as:  %s\n", v.User)
	}
	fmt.Fprintf(w, "Location:    %s (%s)\n", v.Location, strings.Join(v.Breadcrumb, " › "))
	fmt.Fprintln(w)

	for _, it := range v.Items {
		switch it.Kind {
		case "divider":
			fmt.Fprintln(w, "  ────────────")
		case "link":
			fmt.Fprintf(w, "%s %s\n", marker(it.Active), it.Label)
		case "heading":
			fmt.Fprintf(w, "  %s (unavailable)\n", it.Label)
		case "section":
			arrow := "▸"
			if it.Expanded {
				arrow = "▾"
			}
			fmt.Fprintf(w, "%s %s\n", arrow, it.Label)
			if !it.Expanded {
				continue
			}
			for _, c := range it.Children {
				fmt.Fprintf(w, "  %s %s\n", marker(c.Path == v.Location), c.Label)
			}
		}
	}
}

func marker(active bool) string {
	if active {
		return "●"
	}
	return " "
}
