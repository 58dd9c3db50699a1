// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuklas/acm-user-interface-sub002/internal/config"
	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
)

func testSession(t *testing.T) *session {
	t.Helper()
	cfg := config.Default()
	cfg.Actor = "kube:admin"
	cfg.ImpersonationDelay = 0
	s, err := newSessionFromConfig(cfg, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func testConsoleModel(t *testing.T) ConsoleModel {
	t.Helper()
	return NewConsoleModel(context.Background(), testSession(t))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one at a time and drops the returned commands.
func press(m ConsoleModel, keys ...string) ConsoleModel {
	for _, k := range keys {
		m, _ = pressCmd(m, k)
	}
	return m
}

func pressCmd(m ConsoleModel, k string) (ConsoleModel, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(ConsoleModel), cmd
}

func typeText(m ConsoleModel, text string) ConsoleModel {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(ConsoleModel)
	}
	return m
}

// finishImpersonation runs the command returned by the dialog and delivers the
// completion message.
func finishImpersonation(m ConsoleModel, cmd tea.Cmd) ConsoleModel {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = finishImpersonation(m, c)
		}
	case impersonationDoneMsg:
		next, _ := m.Update(msg)
		m = next.(ConsoleModel)
	}
	return m
}

// impersonateAlice picks the first known identity in the dialog.
func impersonateAlice(t *testing.T, m ConsoleModel) ConsoleModel {
	t.Helper()
	m = press(m, "i", "down")
	m, cmd := pressCmd(m, "enter")
	require.True(t, m.snap.Loading)
	return finishImpersonation(m, cmd)
}

func groupLabels(groups []navigation.RouteGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Label)
	}
	return out
}

func TestConsoleStartsOnFirstPage(t *testing.T) {
	m := testConsoleModel(t)

	assert.Equal(t, perspective.FleetManagement, m.selector.Current())
	assert.Equal(t, navigation.WelcomePath, m.location)
	assert.Equal(t, navigation.PageWelcome, m.route.Page)
	assert.NotContains(t, groupLabels(m.groups), navigation.GroupCorePlatforms)
	assert.Contains(t, m.View(), "Welcome, kube:admin.")
}

func TestConsoleImpersonationRedirectsToVirtualMachines(t *testing.T) {
	m := testConsoleModel(t)

	m = press(m, "i", "down")
	m, cmd := pressCmd(m, "enter")
	assert.True(t, m.snap.Loading)
	assert.Empty(t, m.snap.User, "pending user is not shown while loading")
	assert.Contains(t, m.View(), "switching identity")

	m = finishImpersonation(m, cmd)
	assert.False(t, m.snap.Loading)
	assert.Equal(t, "alice", m.snap.User)
	assert.Equal(t, perspective.FleetVirtualization, m.selector.Current())
	assert.Equal(t, navigation.VirtualMachinesPath, m.location)
	assert.Equal(t, navigation.PageVirtualMachines, m.route.Page)
	assert.NotContains(t, groupLabels(m.groups), navigation.GroupUserManagement)
	assert.Len(t, m.records, 4, "dev-team-alpha sees the two dev clusters")
	assert.Equal(t, "Now impersonating alice", m.status)
	assert.Contains(t, m.View(), "You are impersonating alice")
}

func TestConsoleRedirectFiresOncePerImpersonation(t *testing.T) {
	m := impersonateAlice(t, testConsoleModel(t))

	m.navigate(navigation.InstanceTypesPath)
	m.sync()
	assert.Equal(t, navigation.InstanceTypesPath, m.location)
	assert.Len(t, m.records, 4)
}

func TestConsolePerspectiveLockedWhileImpersonating(t *testing.T) {
	m := impersonateAlice(t, testConsoleModel(t))

	m = press(m, "p")
	assert.False(t, m.selector.IsOpen())
	assert.Equal(t, perspective.FleetVirtualization, m.selector.Current())
	assert.Contains(t, m.status, "locked")
}

func TestConsoleStopImpersonating(t *testing.T) {
	m := impersonateAlice(t, testConsoleModel(t))

	m = press(m, "x")
	assert.False(t, m.snap.Impersonating())
	assert.Equal(t, perspective.FleetVirtualization, m.selector.Current(), "perspective is kept")
	assert.Equal(t, navigation.VirtualMachinesPath, m.location, "location is kept")
	assert.Contains(t, groupLabels(m.groups), navigation.GroupUserManagement)
	assert.Len(t, m.records, 7)

	// A new impersonation redirects again.
	m.navigate(navigation.InstanceTypesPath)
	m = impersonateAlice(t, m)
	assert.Equal(t, navigation.VirtualMachinesPath, m.location)
}

func TestConsoleStopCancelsPendingImpersonation(t *testing.T) {
	m := testConsoleModel(t)

	m = press(m, "i", "down")
	m, cmd := pressCmd(m, "enter")
	m = press(m, "x")
	assert.False(t, m.snap.Loading)

	m = finishImpersonation(m, cmd)
	assert.False(t, m.snap.Impersonating())
	assert.NoError(t, m.err)
	assert.Equal(t, perspective.FleetManagement, m.selector.Current())
}

func TestConsoleImpersonateDialogRequiresUser(t *testing.T) {
	m := testConsoleModel(t)

	m, cmd := pressCmd(press(m, "i"), "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, overlayImpersonate, m.overlay)
	assert.False(t, m.snap.Loading)
	assert.Contains(t, m.View(), "user is required")

	m = press(m, "esc")
	assert.Equal(t, overlayNone, m.overlay)
}

func TestConsoleImpersonateTypedIdentity(t *testing.T) {
	m := testConsoleModel(t)

	m = typeText(press(m, "i"), "carol")
	m = typeText(press(m, "tab"), "qa-team")
	m, cmd := pressCmd(m, "enter")
	m = finishImpersonation(m, cmd)

	assert.Equal(t, "carol", m.snap.User)
	assert.True(t, m.snap.Groups.Has("qa-team"))
	assert.Len(t, m.records, 7, "qa-team has no scope rule")
}

func TestConsoleSwitchPerspective(t *testing.T) {
	m := testConsoleModel(t)

	m = press(m, "p")
	assert.True(t, m.selector.IsOpen())
	assert.Contains(t, m.View(), "Switch perspective")

	m = press(m, "enter")
	assert.False(t, m.selector.IsOpen())
	assert.Equal(t, perspective.CorePlatforms, m.selector.Current())
	assert.Equal(t, navigation.CoreOverviewPath, m.location)

	m = press(m, "p", "down", "down", "enter")
	assert.Equal(t, perspective.FleetVirtualization, m.selector.Current())
	assert.Equal(t, navigation.VirtOverviewPath, m.location)

	m = press(m, "p", "esc")
	assert.False(t, m.selector.IsOpen())
}

func TestConsoleNavigateAndFilterClusters(t *testing.T) {
	m := testConsoleModel(t)

	// Welcome, Overview, then the Infrastructure section which opens Clusters.
	m = press(m, "j", "j", "enter")
	require.Equal(t, navigation.ClustersPath, m.location)
	assert.Len(t, m.records, 5)
	assert.Equal(t, navigation.ClustersPath, m.entries[m.navCursor].Path)
	assert.Equal(t, []string{"Infrastructure", "Clusters"}, navigation.Breadcrumb(m.groups, m.location))

	m = press(m, "tab", "/")
	assert.Equal(t, overlayFilter, m.overlay)
	m = press(typeText(m, "status=Ready"), "enter")
	assert.Equal(t, overlayNone, m.overlay)
	assert.Len(t, m.records, 3)
	assert.Contains(t, m.View(), "Filter: status=Ready")

	m = press(m, "esc")
	assert.Nil(t, m.query)
	assert.Len(t, m.records, 5)
}

func TestConsoleFilterError(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate(navigation.ClustersPath)

	m = press(typeText(press(m, "/"), "@nope"), "enter")
	assert.Equal(t, overlayFilter, m.overlay)
	assert.Error(t, m.filterErr)
	assert.Len(t, m.records, 5)
}

func TestConsoleClusterDetails(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate(navigation.ClustersPath)

	m = press(m, "tab", "enter")
	assert.Equal(t, navigation.PageClusterDetails, m.route.Page)
	assert.Equal(t, "cluster-hub", m.clusterDetails)
	view := m.View()
	assert.Contains(t, view, "Bare metal")
	assert.Contains(t, view, "local-cluster=true")

	m = press(m, "esc")
	assert.Equal(t, navigation.ClustersPath, m.location)
}

func TestConsoleIdentitiesToggle(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate("/multicloud/user-management/identities")

	assert.Equal(t, "users", m.resource.Name)
	m = press(m, "t")
	assert.Equal(t, "groups", m.resource.Name)
	assert.Contains(t, m.View(), "Identities › Groups")
}

func TestConsoleCreateRoleAssignment(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate(navigation.RoleAssignmentsPath)
	before := len(m.records)

	m = press(m, "n")
	require.Equal(t, navigation.PageRoleAssignmentNew, m.route.Page)
	assert.Equal(t, focusContent, m.focus)

	m = press(m, "enter", "enter", "enter")
	assert.Equal(t, assignStepReview, m.wizard.step)
	m = press(m, "enter")

	assert.Equal(t, navigation.RoleAssignmentsPath, m.location)
	assert.Len(t, m.records, before+1)
	assert.Equal(t, "Created role assignment alice-cluster-admin", m.status)
}

func TestConsoleCancelRoleAssignment(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate(navigation.RoleAssignmentsPath)
	before := len(m.catalog.RoleBindings)

	m = press(m, "n", "enter", "esc", "esc")
	assert.Equal(t, navigation.RoleAssignmentsPath, m.location)
	assert.Len(t, m.catalog.RoleBindings, before)
}

func TestConsoleNotFound(t *testing.T) {
	m := testConsoleModel(t)
	m.navigate("/no/such/page/")

	assert.Equal(t, navigation.PageNotFound, m.route.Page)
	assert.Equal(t, "/no/such/page", m.location)
	assert.Contains(t, m.View(), "404")
}

func TestConsoleHelpOverlay(t *testing.T) {
	m := testConsoleModel(t)

	m = press(m, "?")
	assert.Equal(t, overlayHelp, m.overlay)
	view := m.View()
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "perspective")

	m = press(m, "j")
	assert.Equal(t, overlayNone, m.overlay)
}

func TestConsoleJourney_ImpersonateAndQuit(t *testing.T) {
	m := testConsoleModel(t)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	defer tm.Quit()

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "impersonating alice")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	finalModel := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	fm := finalModel.(ConsoleModel)

	if fm.location != navigation.VirtualMachinesPath {
		t.Errorf("Expected redirect to %s, got %s", navigation.VirtualMachinesPath, fm.location)
	}
	if fm.selector.Current() != perspective.FleetVirtualization {
		t.Errorf("Expected fleet virtualization, got %s", fm.selector.Current())
	}
}
