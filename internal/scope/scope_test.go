// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
)

func impersonating(user string, groups ...string) viewctx.Snapshot {
	return viewctx.Snapshot{
		Actor:  viewctx.Actor{Name: "kube:admin"},
		User:   user,
		Groups: sets.New(groups...),
	}
}

func names(items []mockdata.InstanceType) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestDevTeamAlphaSeesOnlyItsClusters(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)

	got := Apply(NewFilter(), impersonating("alice", "dev-team-alpha"), catalog.InstanceTypes)

	require.NotEmpty(t, got)
	for _, it := range got {
		assert.Contains(t, []string{"dev-team-a-cluster", "dev-team-b-cluster"}, it.Cluster)
	}
	assert.Equal(t, []string{"u1.medium", "o1.large", "m1.xlarge", "n1.medium"}, names(got))
}

func TestNoImpersonationReturnsInput(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)

	view := viewctx.Snapshot{Actor: viewctx.Actor{Name: "kube:admin"}}
	got := Apply(NewFilter(), view, catalog.InstanceTypes)

	assert.Equal(t, catalog.InstanceTypes, got)
}

func TestGroupWithoutRuleReturnsInput(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)

	got := Apply(NewFilter(), impersonating("carol", "qa-team"), catalog.VirtualMachines)
	assert.Equal(t, catalog.VirtualMachines, got)

	got = Apply(NewFilter(), impersonating("erin"), catalog.VirtualMachines)
	assert.Equal(t, catalog.VirtualMachines, got)
}

func TestNilFilter(t *testing.T) {
	items := []mockdata.Cluster{{Name: "cluster-hub"}}
	assert.Equal(t, items, Apply(nil, impersonating("alice", "dev-team-alpha"), items))
}

func TestMultipleGroupsKeepUnion(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)

	f := NewFilter()
	require.NoError(t, f.AddRule("qa-team", "cluster=qa-cluster"))

	got := Apply(f, impersonating("bob", "dev-team-alpha", "qa-team"), catalog.Clusters)

	var clusters []string
	for _, c := range got {
		clusters = append(clusters, c.Name)
	}
	assert.Equal(t, []string{"dev-team-a-cluster", "dev-team-b-cluster", "qa-cluster"}, clusters)
}

func TestRulesMatchAnyField(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)

	f := NewFilter()
	require.NoError(t, f.AddRule("operators", "status in (Running,Migrating)"))
	assert.Error(t, f.AddRule("", "cluster=x"))

	got := Apply(f, impersonating("dave", "operators"), catalog.VirtualMachines)
	require.NotEmpty(t, got)
	for _, vm := range got {
		assert.Contains(t, []string{"Running", "Migrating"}, vm.Status)
	}
}

func TestMissingFieldDoesNotMatch(t *testing.T) {
	f := NewFilter()
	require.NoError(t, f.AddRule("ns", "namespace=qa"))

	bindings := []mockdata.RoleBinding{
		{Name: "cluster-wide", Cluster: "qa-cluster"},
		{Name: "qa-only", Cluster: "qa-cluster", Namespace: "qa"},
	}
	got := Apply(f, impersonating("carol", "ns"), bindings)
	require.Len(t, got, 1)
	assert.Equal(t, "qa-only", got[0].Name)
}

func TestAddRuleRejectsBadSelector(t *testing.T) {
	f := NewFilter()
	assert.Error(t, f.AddRule("broken", "cluster in (a"))
	assert.Equal(t, []string{DefaultGroup}, f.Groups())
}

func TestAddRuleReplaces(t *testing.T) {
	f := NewFilter()
	require.NoError(t, f.AddRule(DefaultGroup, "cluster=cluster-hub"))

	sel, ok := f.Selector(DefaultGroup)
	require.True(t, ok)
	assert.Equal(t, "cluster=cluster-hub", sel.String())
}

func TestAuthorize(t *testing.T) {
	catalog, err := mockdata.Load()
	require.NoError(t, err)
	vms, err := mockdata.LookupResource("vms")
	require.NoError(t, err)

	hub, err := catalog.Get(vms, "win2k22-ad")
	require.NoError(t, err)
	devA, err := catalog.Get(vms, "rhel9-web-01")
	require.NoError(t, err)

	alice := impersonating("alice", "dev-team-alpha")
	assert.NoError(t, Authorize(NewFilter(), alice, vms.GroupResource(), "rhel9-web-01", devA))

	err = Authorize(NewFilter(), alice, vms.GroupResource(), "win2k22-ad", hub)
	require.Error(t, err)
	assert.True(t, apierrors.IsForbidden(err))

	admin := viewctx.Snapshot{Actor: viewctx.Actor{Name: "kube:admin"}}
	assert.NoError(t, Authorize(NewFilter(), admin, vms.GroupResource(), "win2k22-ad", hub))
}
