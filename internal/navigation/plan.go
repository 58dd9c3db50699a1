// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package navigation

// ItemKind says how a navigation item is drawn.
type ItemKind int

const (
	// ItemDivider separates consecutive unlabeled blocks.
	ItemDivider ItemKind = iota
	// ItemLink is a top-level link from an unlabeled group.
	ItemLink
	// ItemHeading is a disabled group: a label with no children.
	ItemHeading
	// ItemSection is an expandable group.
	ItemSection
)

// Item is one row of the navigation rendering plan.
type Item struct {
	Kind     ItemKind
	Label    string
	Route    Route   // ItemLink only
	Children []Route // ItemSection only; labeled routes
	Expanded bool    // ItemSection only
	Active   bool    // ItemLink only
}

// Plan lays out groups for rendering at location. Expansion is derived from
// location on every call and never stored.
func Plan(groups []RouteGroup, location string) []Item {
	location = CleanPath(location)

	var items []Item
	flatBlocks := 0
	for _, g := range groups {
		if len(g.Routes) == 0 {
			continue
		}

		switch {
		case g.Label == "":
			links := labeled(g.Routes)
			if len(links) == 0 {
				continue
			}
			if flatBlocks > 0 {
				items = append(items, Item{Kind: ItemDivider})
			}
			flatBlocks++
			for _, r := range links {
				items = append(items, Item{
					Kind:   ItemLink,
					Label:  r.Label,
					Route:  r,
					Active: r.Path == location,
				})
			}

		case g.Disabled:
			items = append(items, Item{Kind: ItemHeading, Label: g.Label})

		default:
			items = append(items, Item{
				Kind:     ItemSection,
				Label:    g.Label,
				Children: labeled(g.Routes),
				Expanded: containsPath(g.Routes, location),
			})
		}
	}
	return items
}

func labeled(routes []Route) []Route {
	var out []Route
	for _, r := range routes {
		if r.Label != "" {
			out = append(out, r)
		}
	}
	return out
}

func containsPath(routes []Route, location string) bool {
	for _, r := range routes {
		if r.Path == location {
			return true
		}
	}
	return false
}

// Entry is a selectable row in the navigation pane.
type Entry struct {
	Label  string
	Path   string // destination when activated
	Depth  int
	Active bool
	Header bool
}

// Entries flattens a plan into the rows a cursor can move over. A section header
// leads to its first child; children are listed only when the section is expanded.
// Dividers and disabled headings are not selectable.
func Entries(items []Item, location string) []Entry {
	location = CleanPath(location)

	var out []Entry
	for _, it := range items {
		switch it.Kind {
		case ItemLink:
			out = append(out, Entry{Label: it.Label, Path: it.Route.Path, Active: it.Active})
		case ItemSection:
			if len(it.Children) == 0 {
				continue
			}
			out = append(out, Entry{Label: it.Label, Path: it.Children[0].Path, Header: true})
			if !it.Expanded {
				continue
			}
			for _, c := range it.Children {
				out = append(out, Entry{Label: c.Label, Path: c.Path, Depth: 1, Active: c.Path == location})
			}
		}
	}
	return out
}
