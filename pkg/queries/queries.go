// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package queries provides named filters for the console's list screens.
//
// Named filters are reusable query expressions that are either:
// - Built-in (shipped with the console)
// - User-defined (the `filters:` section of the config file)
//
// A filter may be restricted to one resource kind, e.g. "running" only makes sense
// for virtual machines.
package queries

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kuklas/acm-user-interface-sub002/pkg/query"
)

// Categories of saved queries.
const (
	CategoryBuiltin = "builtin"
	CategoryUser    = "user"
)

// RefPrefix marks a filter reference in a query input, e.g. "@running".
const RefPrefix = "@"

// SavedQuery is a named, reusable query.
type SavedQuery struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Query       string `yaml:"query" json:"query"`
	Resource    string `yaml:"resource,omitempty" json:"resource,omitempty"` // empty applies to every resource
	Category    string `yaml:"-" json:"category,omitempty"`
}

// AppliesTo reports whether the query is meant for resource.
func (q SavedQuery) AppliesTo(resource string) bool {
	return q.Resource == "" || strings.EqualFold(q.Resource, resource)
}

// BuiltinQueries ship with the console.
var BuiltinQueries = []SavedQuery{
	{
		Name:        "running",
		Description: "Virtual machines that are running",
		Query:       "status=Running",
		Resource:    "vms",
	},
	{
		Name:        "stopped",
		Description: "Virtual machines that are stopped or paused",
		Query:       "status=Stopped,Paused",
		Resource:    "vms",
	},
	{
		Name:        "hub",
		Description: "Records owned by the hub cluster",
		Query:       "cluster=cluster-hub",
	},
	{
		Name:        "dev-teams",
		Description: "Records on the development team clusters",
		Query:       "cluster=dev-team-*",
	},
	{
		Name:        "unhealthy",
		Description: "Clusters that are not ready",
		Query:       "status!=Ready",
		Resource:    "clusters",
	},
	{
		Name:        "cluster-roles",
		Description: "Cluster-scoped roles",
		Query:       "kind=ClusterRole",
		Resource:    "roles",
	},
	{
		Name:        "ldap",
		Description: "Users and groups synced from LDAP",
		Query:       "provider=ldap",
	},
}

// QueryStore holds the built-in and user queries.
type QueryStore struct {
	queries []SavedQuery
}

// NewQueryStore combines the built-in queries with user queries. A user query with
// the same name as a built-in replaces it.
func NewQueryStore(user []SavedQuery) (*QueryStore, error) {
	byName := make(map[string]SavedQuery, len(BuiltinQueries)+len(user))
	for _, q := range BuiltinQueries {
		q.Category = CategoryBuiltin
		byName[q.Name] = q
	}
	for _, q := range user {
		if q.Name == "" {
			return nil, fmt.Errorf("user query %q: missing name", q.Query)
		}
		if _, err := query.Parse(q.Query); err != nil {
			return nil, fmt.Errorf("user query %q: %w", q.Name, err)
		}
		q.Category = CategoryUser
		byName[q.Name] = q
	}

	store := &QueryStore{queries: make([]SavedQuery, 0, len(byName))}
	for _, q := range byName {
		store.queries = append(store.queries, q)
	}
	sort.Slice(store.queries, func(i, j int) bool {
		return store.queries[i].Name < store.queries[j].Name
	})
	return store, nil
}

// List returns all queries sorted by name.
func (s *QueryStore) List() []SavedQuery {
	return append([]SavedQuery(nil), s.queries...)
}

// ListFor returns the queries that apply to resource.
func (s *QueryStore) ListFor(resource string) []SavedQuery {
	var result []SavedQuery
	for _, q := range s.queries {
		if q.AppliesTo(resource) {
			result = append(result, q)
		}
	}
	return result
}

// ListBuiltin returns only built-in queries.
func (s *QueryStore) ListBuiltin() []SavedQuery {
	return s.listCategory(CategoryBuiltin)
}

// ListUser returns only user-defined queries.
func (s *QueryStore) ListUser() []SavedQuery {
	return s.listCategory(CategoryUser)
}

func (s *QueryStore) listCategory(category string) []SavedQuery {
	var result []SavedQuery
	for _, q := range s.queries {
		if q.Category == category {
			result = append(result, q)
		}
	}
	return result
}

// Get returns a query by name.
func (s *QueryStore) Get(name string) (SavedQuery, bool) {
	for _, q := range s.queries {
		if q.Name == name {
			return q, true
		}
	}
	return SavedQuery{}, false
}

// Compile parses input, expanding an "@name" reference to the named query.
func (s *QueryStore) Compile(input string) (*query.Query, error) {
	input = strings.TrimSpace(input)
	if name, ok := strings.CutPrefix(input, RefPrefix); ok {
		saved, found := s.Get(name)
		if !found {
			return nil, fmt.Errorf("saved query %q not found", name)
		}
		input = saved.Query
	}
	return query.Parse(input)
}
