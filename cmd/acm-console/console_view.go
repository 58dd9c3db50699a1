// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kuklas/acm-user-interface-sub002/internal/clierr"
	"github.com/kuklas/acm-user-interface-sub002/internal/fleetstatus"
	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/scope"
)

const navWidth = 30

// View renders the model
func (m ConsoleModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	crumbs := navigation.Breadcrumb(m.groups, m.location)
	if len(crumbs) > 0 {
		b.WriteString(breadcrumbStyle.Render(strings.Join(crumbs, " › ")))
	}
	b.WriteString("\n")

	nav := m.navView()
	var content string
	switch {
	case m.overlay == overlayImpersonate:
		content = m.dialog.View()
	case m.overlay == overlayHelp:
		m.help.ShowAll = true
		content = dialogStyle.Render(pageTitleStyle.Render("Keys") + "\n" + m.help.View(m.keys))
	case m.selector.IsOpen():
		content = m.perspectiveMenuView()
	default:
		content = m.contentView()
	}

	navPane, contentPane := paneStyle, paneActiveStyle
	if m.focus == focusNav {
		navPane, contentPane = paneActiveStyle, paneStyle
	}
	contentWidth := max(m.width-navWidth-6, 20)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		navPane.Width(navWidth).Render(nav),
		contentPane.Width(contentWidth).Render(content),
	))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(clierr.Pretty(m.err)))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	m.help.ShowAll = false
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m ConsoleModel) headerView() string {
	p := m.selector.Current()
	label := perspectiveStyle.Render(p.Label() + " ▾")
	if m.selector.Locked(m.snap.Impersonating()) {
		label = perspectiveStyle.Render(p.Label()) + dimStyle.Render(" (locked)")
	}

	parts := []string{
		titleStyle.Render("ACM Console"),
		label,
		actorStyle.Render(m.snap.Actor.Name),
	}
	switch {
	case m.snap.Loading:
		parts = append(parts, m.spinner.View()+" "+dimStyle.Render("switching identity..."))
	case m.snap.Impersonating():
		banner := fmt.Sprintf("You are impersonating %s", m.snap.User)
		if groups := sets.List(m.snap.Groups); len(groups) > 0 {
			banner += " (" + strings.Join(groups, ", ") + ")"
		}
		parts = append(parts, impersonationBanner.Render(banner+"  x: stop"))
	}
	return strings.Join(parts, "  ")
}

// navView draws the plan, keeping the cursor in step with m.entries.
func (m ConsoleModel) navView() string {
	var b strings.Builder
	idx := 0
	row := func(label string, depth int, active bool) {
		text := strings.Repeat("  ", depth) + label
		switch {
		case m.focus == focusNav && idx == m.navCursor:
			b.WriteString(navCursorStyle.Render(text))
		case active:
			b.WriteString(navActiveStyle.Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
		idx++
	}

	for _, it := range navigation.Plan(m.groups, m.location) {
		switch it.Kind {
		case navigation.ItemDivider:
			b.WriteString(dimStyle.Render(strings.Repeat("─", navWidth-2)) + "\n")
		case navigation.ItemHeading:
			b.WriteString(navDisabledStyle.Render(it.Label) + "\n")
		case navigation.ItemLink:
			row(it.Label, 0, it.Active)
		case navigation.ItemSection:
			if len(it.Children) == 0 {
				continue
			}
			arrow := "▸ "
			if it.Expanded {
				arrow = "▾ "
			}
			row(navSectionStyle.Render(arrow+it.Label), 0, false)
			if !it.Expanded {
				continue
			}
			for _, c := range it.Children {
				row(c.Label, 1, c.Path == m.location)
			}
		}
	}
	return b.String()
}

func (m ConsoleModel) perspectiveMenuView() string {
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render("Switch perspective"))
	b.WriteString("\n")
	for i, p := range m.selector.Options(m.snap.Impersonating()) {
		label := p.Label()
		if p == m.selector.Current() {
			label += " ✓"
		}
		b.WriteString(cursorLine(i == m.persp, label))
	}
	b.WriteString("\n" + dimStyle.Render("enter: select   esc: close"))
	return dialogStyle.Render(b.String())
}

func (m ConsoleModel) contentView() string {
	if m.snap.Loading {
		return fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.route.Label)
	}

	switch m.route.Page {
	case navigation.PageNotFound:
		return pageTitleStyle.Render("404: Page not found") + "\n" +
			dimStyle.Render(m.location) + "\n\n" +
			"Use the navigation to pick another page."

	case navigation.PageOverview, navigation.PageWelcome:
		return m.overviewView()

	case navigation.PageClusterDetails:
		return m.clusterDetailsView()

	case navigation.PageRoleAssignmentNew:
		return pageTitleStyle.Render("Create role assignment") + "\n" + m.wizard.View()
	}

	if m.resource.Name != "" {
		return m.listView()
	}
	return pageTitleStyle.Render(m.route.Label) + "\n" +
		dimStyle.Render("This page has no content in the mock console.")
}

func (m ConsoleModel) overviewView() string {
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render(m.route.Label))
	b.WriteString("\n")
	if m.route.Page == navigation.PageWelcome {
		b.WriteString(fmt.Sprintf("Welcome, %s.\n\n", m.snap.EffectiveUser()))
	}
	for _, r := range mockdata.Resources() {
		records := m.catalog.Records(r)
		if r.Scoped {
			records = scope.Apply(m.filter, m.snap, records)
		}
		line := fmt.Sprintf("  %-18s %d", r.Title, len(records))
		if summary := fleetstatus.Count(records).Summary(); summary != "" {
			line += dimStyle.Render("  (" + summary + ")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m ConsoleModel) listView() string {
	var b strings.Builder
	title := m.route.Label
	if m.route.Page == navigation.PageIdentities {
		tab := "Users"
		if m.showGroups {
			tab = "Groups"
		}
		title += " › " + tab
	}
	b.WriteString(pageTitleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case m.overlay == overlayFilter:
		b.WriteString(m.filterInput.View() + "\n")
		if m.filterErr != nil {
			b.WriteString(errorStyle.Render(m.filterErr.Error()) + "\n")
		}
	case m.query != nil:
		b.WriteString(dimStyle.Render("Filter: "+m.query.String()+"   esc: clear") + "\n")
	}

	if len(m.records) == 0 {
		b.WriteString("\n" + clierr.NothingFound(m.resource.Name) + "\n")
		return b.String()
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")

	var hints []string
	switch m.route.Page {
	case navigation.PageClusters:
		hints = append(hints, "enter: details")
	case navigation.PageRoleAssignments:
		hints = append(hints, "n: new assignment")
	case navigation.PageIdentities:
		hints = append(hints, "t: users/groups")
	}
	hints = append(hints, fmt.Sprintf("%d %s", len(m.records), m.resource.Name))
	b.WriteString(dimStyle.Render(strings.Join(hints, "   ")))
	return b.String()
}

func (m ConsoleModel) clusterDetailsView() string {
	if m.clusterDetails == "" {
		return pageTitleStyle.Render("Cluster details") + "\n" +
			dimStyle.Render("Pick a cluster from the list and press enter.")
	}
	r, err := mockdata.LookupResource("clusters")
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	rec, err := m.catalog.Get(r, m.clusterDetails)
	if err == nil {
		err = scope.Authorize(m.filter, m.snap, r.GroupResource(), m.clusterDetails, rec)
	}
	if err != nil {
		return errorStyle.Render(clierr.Pretty(err))
	}

	c := rec.(mockdata.Cluster)
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render(c.Name))
	b.WriteString("\n")
	rows := [][2]string{
		{"Status", c.Status + " (" + fleetstatus.DetectStatus(c) + ")"},
		{"Infrastructure", c.Infrastructure},
		{"Distribution", c.Distribution},
		{"Cluster set", c.ClusterSet},
		{"Nodes", fmt.Sprint(c.Nodes)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-15s %s\n", r[0]+":", r[1]))
	}
	if len(c.Labels) > 0 {
		keys := make([]string, 0, len(c.Labels))
		for k := range c.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n  Labels:\n")
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("    %s=%s\n", k, c.Labels[k]))
		}
	}

	vms := fleetstatus.Count(m.catalog.VirtualMachines)
	b.WriteString(fmt.Sprintf("\n  Virtual machines: %d\n", vms.ByCluster[c.Name]))
	b.WriteString("\n" + dimStyle.Render("esc: back to clusters"))
	return b.String()
}
