// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
)

type dialogOutcome int

const (
	dialogOpen dialogOutcome = iota
	dialogCancelled
	dialogSubmitted
)

// impersonateDialog asks for a user and comma-separated groups. Known identities
// can be picked with up/down, which fills both fields.
type impersonateDialog struct {
	user   textinput.Model
	groups textinput.Model
	focus  int // 0 user, 1 groups

	picks []mockdata.User
	pick  int // -1 before the first pick

	err error
}

func newImpersonateDialog(users []mockdata.User) impersonateDialog {
	user := textinput.New()
	user.Prompt = "User:   "
	user.Placeholder = "alice"
	user.CharLimit = 253
	user.Focus()

	groups := textinput.New()
	groups.Prompt = "Groups: "
	groups.Placeholder = "dev-team-alpha, qa-team"
	groups.CharLimit = 512

	return impersonateDialog{
		user:   user,
		groups: groups,
		picks:  users,
		pick:   -1,
	}
}

// Values returns the trimmed user and the non-empty groups.
func (d impersonateDialog) Values() (string, []string) {
	var groups []string
	for _, g := range strings.Split(d.groups.Value(), ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return strings.TrimSpace(d.user.Value()), groups
}

func (d impersonateDialog) Update(msg tea.KeyMsg) (impersonateDialog, dialogOutcome, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return d, dialogCancelled, nil

	case "enter":
		if user, _ := d.Values(); user == "" {
			d.err = errors.New("user is required")
			return d, dialogOpen, nil
		}
		return d, dialogSubmitted, nil

	case "tab", "shift+tab":
		d.focus = 1 - d.focus
		var cmd tea.Cmd
		if d.focus == 0 {
			d.groups.Blur()
			cmd = d.user.Focus()
		} else {
			d.user.Blur()
			cmd = d.groups.Focus()
		}
		return d, dialogOpen, cmd

	case "up", "down":
		if len(d.picks) == 0 {
			return d, dialogOpen, nil
		}
		if msg.String() == "up" {
			d.pick--
			if d.pick < 0 {
				d.pick = len(d.picks) - 1
			}
		} else {
			d.pick = (d.pick + 1) % len(d.picks)
		}
		p := d.picks[d.pick]
		d.user.SetValue(p.Name)
		d.groups.SetValue(strings.Join(p.Groups, ", "))
		d.err = nil
		return d, dialogOpen, nil
	}

	var cmd tea.Cmd
	if d.focus == 0 {
		d.user, cmd = d.user.Update(msg)
	} else {
		d.groups, cmd = d.groups.Update(msg)
	}
	d.err = nil
	return d, dialogOpen, cmd
}

func (d impersonateDialog) View() string {
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render("Impersonate user"))
	b.WriteString("\n")
	b.WriteString(d.user.View() + "\n")
	b.WriteString(d.groups.View() + "\n\n")

	if len(d.picks) > 0 {
		b.WriteString(dimStyle.Render("Known identities (↑/↓):") + "\n")
		for i, p := range d.picks {
			line := fmt.Sprintf("%-8s %s", p.Name, strings.Join(p.Groups, ", "))
			b.WriteString(cursorLine(i == d.pick, line))
		}
		b.WriteString("\n")
	}
	if d.err != nil {
		b.WriteString(errorStyle.Render(d.err.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render("enter: impersonate   tab: next field   esc: cancel"))
	return dialogStyle.Render(b.String())
}
