// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinQueriesParse(t *testing.T) {
	store, err := NewQueryStore(nil)
	require.NoError(t, err)

	for _, q := range store.List() {
		t.Run(q.Name, func(t *testing.T) {
			_, err := store.Compile(q.Query)
			assert.NoError(t, err)
			assert.Equal(t, CategoryBuiltin, q.Category)
		})
	}
}

func TestUserQueryOverridesBuiltin(t *testing.T) {
	store, err := NewQueryStore([]SavedQuery{
		{Name: "running", Query: "status=Running AND cluster=cluster-hub"},
		{Name: "qa", Query: "cluster=qa-cluster"},
	})
	require.NoError(t, err)

	running, ok := store.Get("running")
	require.True(t, ok)
	assert.Equal(t, CategoryUser, running.Category)
	assert.Equal(t, "status=Running AND cluster=cluster-hub", running.Query)

	assert.Len(t, store.ListUser(), 2)
	assert.Len(t, store.List(), len(BuiltinQueries)+1)
}

func TestUserQueryValidation(t *testing.T) {
	_, err := NewQueryStore([]SavedQuery{{Name: "bad", Query: "name~=[oops"}})
	assert.Error(t, err)

	_, err = NewQueryStore([]SavedQuery{{Query: "status=Running"}})
	assert.Error(t, err)
}

func TestListFor(t *testing.T) {
	store, err := NewQueryStore(nil)
	require.NoError(t, err)

	names := func(qs []SavedQuery) []string {
		var out []string
		for _, q := range qs {
			out = append(out, q.Name)
		}
		return out
	}

	vms := names(store.ListFor("vms"))
	assert.Contains(t, vms, "running")
	assert.Contains(t, vms, "hub")
	assert.NotContains(t, vms, "unhealthy")

	clusters := names(store.ListFor("clusters"))
	assert.Contains(t, clusters, "unhealthy")
	assert.NotContains(t, clusters, "running")
}

func TestCompileReference(t *testing.T) {
	store, err := NewQueryStore(nil)
	require.NoError(t, err)

	q, err := store.Compile("@running")
	require.NoError(t, err)
	assert.Equal(t, "status=Running", q.String())

	q, err = store.Compile("name=rhel*")
	require.NoError(t, err)
	assert.Equal(t, "name=rhel*", q.String())

	_, err = store.Compile("@missing")
	assert.Error(t, err)
}
