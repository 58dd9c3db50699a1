// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
	"github.com/kuklas/acm-user-interface-sub002/internal/redirect"
	"github.com/kuklas/acm-user-interface-sub002/internal/scope"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
	"github.com/kuklas/acm-user-interface-sub002/pkg/queries"
	"github.com/kuklas/acm-user-interface-sub002/pkg/query"
)

// Focus areas
const (
	focusNav = iota
	focusContent
)

// Overlays drawn over the content pane
const (
	overlayNone = iota
	overlayImpersonate
	overlayFilter
	overlayHelp
)

// pageResources maps list pages to the resource they show.
var pageResources = map[navigation.Page]string{
	navigation.PageClusters:        "clusters",
	navigation.PageInstanceTypes:   "instancetypes",
	navigation.PageVirtualMachines: "vms",
	navigation.PageUsers:           "users",
	navigation.PageGroups:          "groups",
	navigation.PageIdentities:      "users",
	navigation.PageRoles:           "roles",
	navigation.PageRoleAssignments: "rolebindings",
}

// impersonationDoneMsg reports the end of a simulated impersonation round trip.
type impersonationDoneMsg struct {
	ticket string
	err    error
}

// ConsoleModel is the bubbletea model for the interactive console
type ConsoleModel struct {
	// Session state, shared with nothing else
	store    *viewctx.Store
	selector *perspective.Selector
	redirect *redirect.Policy
	resolver *navigation.Resolver
	filter   *scope.Filter
	queries  *queries.QueryStore
	catalog  *mockdata.Catalog
	log      zerolog.Logger
	ctx      context.Context

	// Derived on every change
	snap    viewctx.Snapshot
	groups  []navigation.RouteGroup
	entries []navigation.Entry
	route   navigation.Route

	// Navigation
	location  string
	navCursor int
	focus     int

	// Overlays
	overlay int
	dialog  impersonateDialog
	persp   int // cursor in the perspective menu

	// List pages
	resource       mockdata.Resource
	records        []mockdata.Record
	table          table.Model
	filterInput    textinput.Model
	query          *query.Query
	filterErr      error
	showGroups     bool   // identities page: groups instead of users
	clusterDetails string // cluster shown on the details page

	// Role assignment wizard
	wizard assignWizard

	// UI components
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int

	status string
	err    error
}

// NewConsoleModel creates the console for one session. ctx bounds pending
// impersonation starts.
func NewConsoleModel(ctx context.Context, s *session) ConsoleModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "status=Running AND cluster=dev-team-* or @running"

	m := ConsoleModel{
		store:       viewctx.New(s.actor, viewctx.WithDelay(s.cfg.ImpersonationDelay), viewctx.WithLogger(s.log)),
		selector:    perspective.NewSelector(s.cfg.InitialPerspective()),
		redirect:    redirect.New(redirect.DefaultAction()),
		resolver:    s.resolver,
		filter:      s.filter,
		queries:     s.queries,
		catalog:     s.catalog,
		log:         s.log.With().Str("component", "console").Logger(),
		ctx:         ctx,
		table:       table.New(),
		filterInput: fi,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		width:       100,
		height:      30,
	}
	m.sync()
	m.navigate(navigation.FirstPath(m.groups))
	return m
}

// Init initializes the model
func (m ConsoleModel) Init() tea.Cmd {
	return nil
}

// awaitImpersonation waits out the simulated round trip for t.
func (m ConsoleModel) awaitImpersonation(t viewctx.Ticket) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return impersonationDoneMsg{ticket: t.ID, err: store.Await(ctx, t)}
	}
}

// Update handles messages
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case impersonationDoneMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, viewctx.ErrCancelled) && !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			return m, nil
		}
		m.sync()
		if m.snap.Impersonating() {
			m.status = fmt.Sprintf("Now impersonating %s", m.snap.User)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.store.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ConsoleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayImpersonate:
		return m.handleDialogKey(msg)
	case overlayFilter:
		return m.handleFilterKey(msg)
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	}
	if m.selector.IsOpen() {
		return m.handlePerspectiveKey(msg)
	}
	if m.focus == focusContent && m.route.Page == navigation.PageRoleAssignmentNew && !m.snap.Loading {
		return m.handleWizardKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusNav {
			m.focus = focusContent
			m.table.Focus()
		} else {
			m.focus = focusNav
			m.table.Blur()
		}

	case key.Matches(msg, m.keys.Perspective):
		m.selector.Toggle(m.snap.Impersonating())
		m.persp = 0
		if m.snap.Impersonating() {
			m.status = "Perspective is locked while impersonating"
		}

	case key.Matches(msg, m.keys.Impersonate):
		m.dialog = newImpersonateDialog(m.catalog.Users)
		m.overlay = overlayImpersonate

	case key.Matches(msg, m.keys.Stop):
		if m.snap.Impersonating() || m.snap.Loading {
			m.store.StopImpersonation()
			m.sync()
			m.status = "Stopped impersonating"
		}

	case key.Matches(msg, m.keys.Filter):
		if m.resource.Name != "" {
			m.overlay = overlayFilter
			m.filterErr = nil
			cmd := m.filterInput.Focus()
			return m, cmd
		}

	case key.Matches(msg, m.keys.Back):
		if m.query != nil {
			m.query = nil
			m.filterInput.SetValue("")
			m.refresh()
		} else if m.route.Page == navigation.PageClusterDetails {
			m.navigate(navigation.ClustersPath)
		}

	case key.Matches(msg, m.keys.New):
		if m.route.Page == navigation.PageRoleAssignments {
			m.openWizard()
		}

	case key.Matches(msg, m.keys.Identities):
		if m.route.Page == navigation.PageIdentities {
			m.showGroups = !m.showGroups
			m.refresh()
		}

	case m.focus == focusNav:
		return m.handleNavKey(msg)

	default:
		return m.handleContentKey(msg)
	}
	return m, nil
}

func (m ConsoleModel) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.navCursor > 0 {
			m.navCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.navCursor < len(m.entries)-1 {
			m.navCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.navCursor < len(m.entries) {
			m.navigate(m.entries[m.navCursor].Path)
		}
	}
	return m, nil
}

func (m ConsoleModel) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Enter) && m.route.Page == navigation.PageClusters {
		if row := m.table.Cursor(); row >= 0 && row < len(m.records) {
			name, _ := m.records[row].GetField("name")
			m.clusterDetails = name
			m.navigate(navigation.ClustersPath + "/details")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ConsoleModel) handlePerspectiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.selector.Options(m.snap.Impersonating())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.persp > 0 {
			m.persp--
		}
	case key.Matches(msg, m.keys.Down):
		if m.persp < len(options)-1 {
			m.persp++
		}
	case key.Matches(msg, m.keys.Enter):
		before := m.selector.Current()
		if m.persp < len(options) && m.selector.Select(options[m.persp], m.snap.Impersonating()) {
			if m.selector.Current() != before {
				m.log.Info().
					Stringer("from", before).
					Stringer("to", m.selector.Current()).
					Msg("perspective changed")
				m.sync()
				m.navigate(navigation.FirstPath(m.groups))
			}
		}
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Perspective):
		m.selector.Close()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m ConsoleModel) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var outcome dialogOutcome
	var cmd tea.Cmd
	m.dialog, outcome, cmd = m.dialog.Update(msg)

	switch outcome {
	case dialogCancelled:
		m.overlay = overlayNone
		return m, nil
	case dialogSubmitted:
		m.overlay = overlayNone
		user, groups := m.dialog.Values()
		ticket, ok := m.store.StartImpersonation(user, groups)
		if !ok {
			return m, nil
		}
		m.status = ""
		m.sync()
		return m, tea.Batch(m.spinner.Tick, m.awaitImpersonation(ticket))
	}
	return m, cmd
}

func (m ConsoleModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		m.filterInput.Blur()
		return m, nil
	case "enter":
		q, err := m.queries.Compile(m.filterInput.Value())
		if err != nil {
			m.filterErr = err
			return m, nil
		}
		m.query = q
		m.filterErr = nil
		m.overlay = overlayNone
		m.filterInput.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m ConsoleModel) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "tab" {
		m.focus = focusNav
		return m, nil
	}

	var outcome assignOutcome
	var cmd tea.Cmd
	m.wizard, outcome, cmd = m.wizard.Update(msg)

	switch outcome {
	case assignCancelled:
		m.navigate(navigation.RoleAssignmentsPath)
	case assignSubmitted:
		b, err := m.wizard.Submit(m.catalog)
		if err != nil {
			m.wizard.err = err
			return m, nil
		}
		m.log.Info().
			Str("binding", b.Name).
			Str("subject", b.Subject).
			Str("role", b.Role).
			Str("cluster", b.Cluster).
			Str("by", m.snap.EffectiveUser()).
			Msg("role assignment created")
		m.status = fmt.Sprintf("Created role assignment %s", b.Name)
		m.navigate(navigation.RoleAssignmentsPath)
	}
	return m, cmd
}

func (m *ConsoleModel) openWizard() {
	m.navigate(navigation.RoleAssignmentNewPath)
	m.focus = focusContent
}

// sync re-reads the store and recomputes everything derived from it. The
// redirect policy sees every change, so it fires once per impersonation.
func (m *ConsoleModel) sync() {
	m.snap = m.store.Snapshot()
	if action, ok := m.redirect.Observe(m.snap.User); ok {
		m.selector.Force(action.Perspective)
		m.log.Info().
			Str("user", m.snap.User).
			Strs("groups", sets.List(m.snap.Groups)).
			Str("path", action.Path).
			Msg("impersonation active, redirecting")
		m.groups = m.resolver.Resolve(m.selector.Current(), m.snap.Impersonating())
		m.navigate(action.Path)
		return
	}
	m.groups = m.resolver.Resolve(m.selector.Current(), m.snap.Impersonating())
	m.refresh()
}

// navigate moves to location and resets page state.
func (m *ConsoleModel) navigate(location string) {
	location = navigation.CleanPath(location)
	if location != m.location {
		m.log.Debug().Str("from", m.location).Str("to", location).Msg("navigate")
	}
	m.location = location
	m.query = nil
	m.filterInput.SetValue("")
	m.filterErr = nil
	m.showGroups = false

	if navigation.Lookup(m.groups, location).Page == navigation.PageRoleAssignmentNew {
		m.wizard = newAssignWizard(m.catalog, m.visibleClusterNames())
	}
	m.refresh()

	for i, e := range m.entries {
		if e.Path == location && !e.Header {
			m.navCursor = i
			break
		}
	}
}

func (m *ConsoleModel) visibleClusterNames() []string {
	clusters := scope.Apply(m.filter, m.snap, m.catalog.Clusters)
	names := make([]string, len(clusters))
	for i, c := range clusters {
		names[i] = c.Name
	}
	return names
}

// refresh recomputes the navigation rows and the current page's records.
func (m *ConsoleModel) refresh() {
	m.entries = navigation.Entries(navigation.Plan(m.groups, m.location), m.location)
	if m.navCursor >= len(m.entries) {
		m.navCursor = max(len(m.entries)-1, 0)
	}
	m.route = navigation.Lookup(m.groups, m.location)

	m.resource = mockdata.Resource{}
	m.records = nil
	name, ok := pageResources[m.route.Page]
	if !ok {
		return
	}
	if m.route.Page == navigation.PageIdentities && m.showGroups {
		name = "groups"
	}
	r, err := mockdata.LookupResource(name)
	if err != nil {
		m.err = err
		return
	}
	m.resource = r

	records := m.catalog.Records(r)
	if r.Scoped {
		records = scope.Apply(m.filter, m.snap, records)
	}
	m.records = query.Filter(m.query, records)
	m.rebuildTable()
}

func (m *ConsoleModel) rebuildTable() {
	widths := make([]int, len(m.resource.Columns))
	for i, c := range m.resource.Columns {
		widths[i] = len(c)
	}
	rows := make([]table.Row, len(m.records))
	for i, rec := range m.records {
		row := rec.Row()
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = min(len(cell), 40)
			}
		}
		rows[i] = table.Row(row)
	}
	cols := make([]table.Column, len(m.resource.Columns))
	for i, c := range m.resource.Columns {
		cols[i] = table.Column{Title: c, Width: widths[i]}
	}

	cursor := m.table.Cursor()
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(m.focus == focusContent),
		table.WithHeight(max(m.height-12, 5)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("212"))
	t.SetStyles(s)
	if cursor >= 0 && cursor < len(rows) {
		t.SetCursor(cursor)
	}
	m.table = t
}
