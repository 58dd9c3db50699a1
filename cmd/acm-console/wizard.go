// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
)

// Role assignment wizard steps
const (
	assignStepSubject = iota
	assignStepRole
	assignStepScope
	assignStepReview
)

var assignStepTitles = []string{"Subject", "Role", "Scope", "Review"}

// assignOutcome tells the console what the wizard wants after a key.
type assignOutcome int

const (
	assignContinue assignOutcome = iota
	assignCancelled
	assignSubmitted
)

// subjectOption is a user or group the role can be given to.
type subjectOption struct {
	Kind string // User or Group
	Name string
}

func (o subjectOption) String() string {
	return o.Kind + "/" + o.Name
}

// assignWizard collects a role assignment in four steps.
type assignWizard struct {
	step int

	subjects []subjectOption
	roles    []mockdata.Role
	clusters []string

	subjectCursor int
	roleCursor    int
	clusterCursor int
	namespace     textinput.Model

	err error
}

// newAssignWizard offers the catalog's identities and roles and the given
// clusters, which the caller has already scoped to the current view.
func newAssignWizard(catalog *mockdata.Catalog, clusters []string) assignWizard {
	var subjects []subjectOption
	for _, u := range catalog.Users {
		subjects = append(subjects, subjectOption{Kind: "User", Name: u.Name})
	}
	for _, g := range catalog.Groups {
		subjects = append(subjects, subjectOption{Kind: "Group", Name: g.Name})
	}

	ns := textinput.New()
	ns.Placeholder = "all namespaces"
	ns.CharLimit = 63
	ns.Prompt = "Namespace: "

	return assignWizard{
		step:      assignStepSubject,
		subjects:  subjects,
		roles:     append([]mockdata.Role(nil), catalog.Roles...),
		clusters:  clusters,
		namespace: ns,
	}
}

func (w assignWizard) subject() subjectOption {
	if w.subjectCursor < len(w.subjects) {
		return w.subjects[w.subjectCursor]
	}
	return subjectOption{}
}

func (w assignWizard) role() string {
	if w.roleCursor < len(w.roles) {
		return w.roles[w.roleCursor].Name
	}
	return ""
}

func (w assignWizard) cluster() string {
	if w.clusterCursor < len(w.clusters) {
		return w.clusters[w.clusterCursor]
	}
	return ""
}

func (w *assignWizard) cursor() (*int, int) {
	switch w.step {
	case assignStepSubject:
		return &w.subjectCursor, len(w.subjects)
	case assignStepRole:
		return &w.roleCursor, len(w.roles)
	case assignStepScope:
		return &w.clusterCursor, len(w.clusters)
	}
	return nil, 0
}

// Update handles one key. Up and down move the list cursor; on the scope step
// other keys go to the namespace input.
func (w assignWizard) Update(msg tea.KeyMsg) (assignWizard, assignOutcome, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if w.step == assignStepSubject {
			return w, assignCancelled, nil
		}
		w.step--
		w.namespace.Blur()
		w.err = nil
		return w, assignContinue, nil

	case "up", "down":
		if cur, n := w.cursor(); cur != nil && n > 0 {
			if msg.String() == "up" && *cur > 0 {
				*cur--
			}
			if msg.String() == "down" && *cur < n-1 {
				*cur++
			}
		}
		return w, assignContinue, nil

	case "enter":
		if w.step == assignStepReview {
			return w, assignSubmitted, nil
		}
		if _, n := w.cursor(); n == 0 {
			w.err = fmt.Errorf("nothing to choose for %s", strings.ToLower(assignStepTitles[w.step]))
			return w, assignContinue, nil
		}
		w.err = nil
		w.step++
		if w.step == assignStepScope {
			cmd := w.namespace.Focus()
			return w, assignContinue, cmd
		}
		w.namespace.Blur()
		return w, assignContinue, nil
	}

	if w.step == assignStepScope {
		var cmd tea.Cmd
		w.namespace, cmd = w.namespace.Update(msg)
		return w, assignContinue, cmd
	}
	return w, assignContinue, nil
}

// Submit creates the assignment in catalog.
func (w assignWizard) Submit(catalog *mockdata.Catalog) (mockdata.RoleBinding, error) {
	s := w.subject()
	return catalog.Assign(s.Kind, s.Name, w.role(), w.cluster(), strings.TrimSpace(w.namespace.Value()))
}

func (w assignWizard) View() string {
	var b strings.Builder

	var steps []string
	for i, t := range assignStepTitles {
		label := fmt.Sprintf("%d. %s", i+1, t)
		switch {
		case i == w.step:
			steps = append(steps, selectedStyle.Render(label))
		case i < w.step:
			steps = append(steps, successStyle.Render("✓ "+t))
		default:
			steps = append(steps, dimStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(steps, dimStyle.Render("  ›  ")))
	b.WriteString("\n\n")

	switch w.step {
	case assignStepSubject:
		b.WriteString("Who gets the role?\n\n")
		for i, s := range w.subjects {
			b.WriteString(cursorLine(i == w.subjectCursor, s.String()))
		}
	case assignStepRole:
		b.WriteString(fmt.Sprintf("Role for %s\n\n", w.subject()))
		for i, r := range w.roles {
			b.WriteString(cursorLine(i == w.roleCursor, fmt.Sprintf("%-20s %s", r.Name, dimStyle.Render(r.Description))))
		}
	case assignStepScope:
		b.WriteString("Cluster\n\n")
		for i, c := range w.clusters {
			b.WriteString(cursorLine(i == w.clusterCursor, c))
		}
		b.WriteString("\n" + w.namespace.View() + "\n")
	case assignStepReview:
		ns := strings.TrimSpace(w.namespace.Value())
		if ns == "" {
			ns = "(all namespaces)"
		}
		rows := [][2]string{
			{"Subject", w.subject().String()},
			{"Role", w.role()},
			{"Cluster", w.cluster()},
			{"Namespace", ns},
		}
		for _, r := range rows {
			b.WriteString(fmt.Sprintf("  %-10s %s\n", r[0]+":", r[1]))
		}
		b.WriteString("\n" + dimStyle.Render("enter: create   esc: back") + "\n")
	}

	if w.err != nil {
		b.WriteString("\n" + errorStyle.Render(w.err.Error()) + "\n")
	}
	return b.String()
}

func cursorLine(selected bool, text string) string {
	if selected {
		return selectedStyle.Render("▸ "+text) + "\n"
	}
	return "  " + text + "\n"
}
