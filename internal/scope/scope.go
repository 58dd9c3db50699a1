// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package scope narrows the records shown while impersonating to those owned by
// the impersonated groups.
//
// Each rule maps a group name to a label selector evaluated against record
// fields, so "cluster in (a,b)" keeps records whose cluster field is a or b.
package scope

import (
	"fmt"
	"sort"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
	"github.com/kuklas/acm-user-interface-sub002/pkg/query"
)

// DefaultGroup and DefaultSelector describe the built-in rule.
const (
	DefaultGroup    = "dev-team-alpha"
	DefaultSelector = "cluster in (dev-team-a-cluster,dev-team-b-cluster)"
)

// Filter holds the group rules.
type Filter struct {
	rules map[string]labels.Selector
}

// NewFilter returns a filter with only the built-in rule.
func NewFilter() *Filter {
	f := &Filter{rules: map[string]labels.Selector{}}
	if err := f.AddRule(DefaultGroup, DefaultSelector); err != nil {
		panic(err)
	}
	return f
}

// AddRule registers or replaces the selector for group.
func (f *Filter) AddRule(group, selector string) error {
	if group == "" {
		return fmt.Errorf("scope rule: group is required")
	}
	sel, err := labels.Parse(selector)
	if err != nil {
		return fmt.Errorf("scope rule for %q: %w", group, err)
	}
	f.rules[group] = sel
	return nil
}

// Groups returns the groups that have a rule, sorted.
func (f *Filter) Groups() []string {
	out := make([]string, 0, len(f.rules))
	for g := range f.rules {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Selector returns the rule for group.
func (f *Filter) Selector(group string) (labels.Selector, bool) {
	sel, ok := f.rules[group]
	return sel, ok
}

// Active returns the selectors that apply to groups, in group order.
func (f *Filter) Active(groups sets.Set[string]) []labels.Selector {
	var out []labels.Selector
	for _, g := range sets.List(groups) {
		if sel, ok := f.rules[g]; ok {
			out = append(out, sel)
		}
	}
	return out
}

// fields adapts a record to labels.Labels.
type fields struct {
	m query.Matchable
}

func (f fields) Has(key string) bool {
	_, ok := f.m.GetField(key)
	return ok
}

func (f fields) Get(key string) string {
	v, _ := f.m.GetField(key)
	return v
}

// Apply returns the records visible in view. Without an impersonation, or when
// none of the impersonated groups has a rule, items is returned as is. Otherwise
// a record is kept when any active rule matches it.
func Apply[T query.Matchable](f *Filter, view viewctx.Snapshot, items []T) []T {
	if f == nil || !view.Impersonating() {
		return items
	}
	active := f.Active(view.Groups)
	if len(active) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, sel := range active {
			if sel.Matches(fields{it}) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Authorize returns a Forbidden error when rec is hidden from view.
func Authorize(f *Filter, view viewctx.Snapshot, gr schema.GroupResource, name string, rec query.Matchable) error {
	if len(Apply(f, view, []query.Matchable{rec})) == 1 {
		return nil
	}
	return apierrors.NewForbidden(gr, name,
		fmt.Errorf("user %q in groups [%s] is outside the record's scope", view.User, strings.Join(sets.List(view.Groups), ",")))
}
