// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package mockdata provides the static records shown by the console. Records are
// loaded from YAML fixtures compiled into the binary. Nothing is persisted; role
// bindings created during a session live only in that session's Catalog.
package mockdata

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// ErrUnknownResource is returned for resource names that are not in the catalog.
var ErrUnknownResource = errors.New("unknown resource")

// Catalog holds one session's mock records.
type Catalog struct {
	Clusters        []Cluster
	InstanceTypes   []InstanceType
	VirtualMachines []VirtualMachine
	Users           []User
	Groups          []Group
	Roles           []Role
	RoleBindings    []RoleBinding
}

// Load decodes the embedded fixtures into a fresh catalog.
func Load() (*Catalog, error) {
	c := &Catalog{}
	targets := []struct {
		file string
		into any
	}{
		{"clusters.yaml", &c.Clusters},
		{"instancetypes.yaml", &c.InstanceTypes},
		{"virtualmachines.yaml", &c.VirtualMachines},
		{"users.yaml", &c.Users},
		{"groups.yaml", &c.Groups},
		{"roles.yaml", &c.Roles},
		{"rolebindings.yaml", &c.RoleBindings},
	}
	for _, t := range targets {
		data, err := fixtures.ReadFile(path.Join("fixtures", t.file))
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", t.file, err)
		}
		if err := yaml.UnmarshalStrict(data, t.into); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", t.file, err)
		}
	}
	return c, nil
}

// Resource describes one list screen's record kind.
type Resource struct {
	Name     string
	Title    string
	APIGroup string
	Aliases  []string
	Columns  []string
	// Scoped resources are narrowed by the impersonated group.
	Scoped  bool
	records func(*Catalog) []Record
}

// GroupResource returns the API group and resource the records stand in for.
func (r Resource) GroupResource() schema.GroupResource {
	return schema.GroupResource{Group: r.APIGroup, Resource: r.Name}
}

func toRecords[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

var resources = []Resource{
	{
		Name:     "clusters",
		APIGroup: "cluster.open-cluster-management.io",
		Title:    "Clusters",
		Aliases:  []string{"cluster", "managedclusters"},
		Columns:  []string{"Name", "Status", "Infrastructure", "Distribution", "Cluster set", "Nodes"},
		Scoped:   true,
		records:  func(c *Catalog) []Record { return toRecords(c.Clusters) },
	},
	{
		Name:     "instancetypes",
		APIGroup: "instancetype.kubevirt.io",
		Title:    "InstanceTypes",
		Aliases:  []string{"instancetype", "it", "instance-types"},
		Columns:  []string{"Name", "Cluster", "Class", "CPU", "Memory"},
		Scoped:   true,
		records:  func(c *Catalog) []Record { return toRecords(c.InstanceTypes) },
	},
	{
		Name:     "vms",
		APIGroup: "kubevirt.io",
		Title:    "Virtual machines",
		Aliases:  []string{"vm", "virtualmachines", "virtual-machines"},
		Columns:  []string{"Name", "Namespace", "Cluster", "Status", "Operating system", "InstanceType"},
		Scoped:   true,
		records:  func(c *Catalog) []Record { return toRecords(c.VirtualMachines) },
	},
	{
		Name:     "users",
		APIGroup: "user.openshift.io",
		Title:    "Users",
		Aliases:  []string{"user"},
		Columns:  []string{"Name", "Full name", "Provider", "Groups"},
		records:  func(c *Catalog) []Record { return toRecords(c.Users) },
	},
	{
		Name:     "groups",
		APIGroup: "user.openshift.io",
		Title:    "Groups",
		Aliases:  []string{"group"},
		Columns:  []string{"Name", "Provider", "Members", "Users"},
		records:  func(c *Catalog) []Record { return toRecords(c.Groups) },
	},
	{
		Name:     "roles",
		APIGroup: "rbac.authorization.k8s.io",
		Title:    "Roles",
		Aliases:  []string{"role", "clusterroles"},
		Columns:  []string{"Name", "Kind", "Description"},
		records:  func(c *Catalog) []Record { return toRecords(c.Roles) },
	},
	{
		Name:     "rolebindings",
		APIGroup: "rbac.authorization.k8s.io",
		Title:    "Role assignments",
		Aliases:  []string{"rolebinding", "role-assignments", "assignments"},
		Columns:  []string{"Name", "Subject", "Role", "Cluster", "Namespace"},
		records:  func(c *Catalog) []Record { return toRecords(c.RoleBindings) },
	},
}

// Resources returns every resource kind in display order.
func Resources() []Resource {
	return append([]Resource(nil), resources...)
}

// ResourceNames returns the canonical resource names.
func ResourceNames() []string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}
	return names
}

// LookupResource finds a resource by name or alias.
func LookupResource(name string) (Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range resources {
		if r.Name == name {
			return r, nil
		}
		for _, a := range r.Aliases {
			if a == name {
				return r, nil
			}
		}
	}
	return Resource{}, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownResource, name, strings.Join(ResourceNames(), ", "))
}

// Records returns the records of r in fixture order.
func (c *Catalog) Records(r Resource) []Record {
	if r.records == nil {
		return nil
	}
	return r.records(c)
}

// Get returns the record of r with the given name.
func (c *Catalog) Get(r Resource, name string) (Record, error) {
	for _, rec := range c.Records(r) {
		if v, _ := rec.GetField("name"); v == name {
			return rec, nil
		}
	}
	return nil, apierrors.NewNotFound(r.GroupResource(), name)
}

// Assign adds a role binding for the session. The name is derived from the
// subject and role and made unique.
func (c *Catalog) Assign(subjectKind, subject, role, cluster, namespace string) (RoleBinding, error) {
	switch {
	case subject == "":
		return RoleBinding{}, errors.New("assign role: subject is required")
	case role == "":
		return RoleBinding{}, errors.New("assign role: role is required")
	case cluster == "":
		return RoleBinding{}, errors.New("assign role: cluster is required")
	}
	if subjectKind != "User" && subjectKind != "Group" {
		return RoleBinding{}, fmt.Errorf("assign role: subject kind %q must be User or Group", subjectKind)
	}
	if !c.hasRole(role) {
		return RoleBinding{}, fmt.Errorf("assign role: %w",
			apierrors.NewNotFound(schema.GroupResource{Group: "rbac.authorization.k8s.io", Resource: "roles"}, role))
	}

	base := strings.NewReplacer(":", "-", ".", "-").Replace(subject + "-" + role)
	name := base
	for i := 2; c.hasBinding(name); i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}

	b := RoleBinding{
		Name:        name,
		SubjectKind: subjectKind,
		Subject:     subject,
		Role:        role,
		Cluster:     cluster,
		Namespace:   namespace,
	}
	c.RoleBindings = append(c.RoleBindings, b)
	return b, nil
}

func (c *Catalog) hasRole(name string) bool {
	for _, r := range c.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (c *Catalog) hasBinding(name string) bool {
	for _, b := range c.RoleBindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// GroupsOf returns the groups user belongs to.
func (c *Catalog) GroupsOf(user string) []string {
	for _, u := range c.Users {
		if u.Name == user {
			return append([]string(nil), u.Groups...)
		}
	}
	return nil
}

// ClusterNames returns the names of all clusters.
func (c *Catalog) ClusterNames() []string {
	names := make([]string, len(c.Clusters))
	for i, cl := range c.Clusters {
		names[i] = cl.Name
	}
	return names
}
