// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package mockdata

import (
	"strconv"
	"strings"
)

// Record is a row shown on a list screen. Records are matched by field name so
// the query language and the scope filter work across kinds.
type Record interface {
	GetField(field string) (string, bool)
	Row() []string
}

// labelField resolves "labels[key]" against labels.
func labelField(field string, labels map[string]string) (string, bool, bool) {
	key, ok := strings.CutPrefix(field, "labels[")
	if !ok || !strings.HasSuffix(key, "]") {
		return "", false, false
	}
	v, found := labels[strings.TrimSuffix(key, "]")]
	return v, found, true
}

// Cluster is a managed cluster.
type Cluster struct {
	Name           string            `json:"name"`
	Status         string            `json:"status"`
	Infrastructure string            `json:"infrastructure"`
	Distribution   string            `json:"distribution"`
	ClusterSet     string            `json:"clusterSet"`
	Nodes          int               `json:"nodes"`
	Labels         map[string]string `json:"labels,omitempty"`
}

// GetField implements query.Matchable. A cluster owns itself, so "cluster" is
// its name.
func (c Cluster) GetField(field string) (string, bool) {
	if v, found, isLabel := labelField(field, c.Labels); isLabel {
		return v, found
	}
	switch field {
	case "kind":
		return "ManagedCluster", true
	case "name", "cluster":
		return c.Name, true
	case "status":
		return c.Status, true
	case "infrastructure":
		return c.Infrastructure, true
	case "distribution":
		return c.Distribution, true
	case "clusterSet":
		return c.ClusterSet, true
	case "nodes":
		return strconv.Itoa(c.Nodes), true
	}
	return "", false
}

// Row implements Record.
func (c Cluster) Row() []string {
	return []string{c.Name, c.Status, c.Infrastructure, c.Distribution, c.ClusterSet, strconv.Itoa(c.Nodes)}
}

// InstanceType is a virtual machine size offered by a cluster.
type InstanceType struct {
	Name    string `json:"name"`
	Cluster string `json:"cluster"`
	Class   string `json:"class"`
	CPU     int    `json:"cpu"`
	Memory  string `json:"memory"`
}

// GetField implements query.Matchable.
func (it InstanceType) GetField(field string) (string, bool) {
	switch field {
	case "kind":
		return "VirtualMachineClusterInstancetype", true
	case "name":
		return it.Name, true
	case "cluster":
		return it.Cluster, true
	case "class":
		return it.Class, true
	case "cpu":
		return strconv.Itoa(it.CPU), true
	case "memory":
		return it.Memory, true
	}
	return "", false
}

// Row implements Record.
func (it InstanceType) Row() []string {
	return []string{it.Name, it.Cluster, it.Class, strconv.Itoa(it.CPU), it.Memory}
}

// VirtualMachine is a VM running on a managed cluster.
type VirtualMachine struct {
	Name         string            `json:"name"`
	Namespace    string            `json:"namespace"`
	Cluster      string            `json:"cluster"`
	Status       string            `json:"status"`
	OS           string            `json:"os"`
	InstanceType string            `json:"instanceType"`
	Labels       map[string]string `json:"labels,omitempty"`
}

// GetField implements query.Matchable.
func (vm VirtualMachine) GetField(field string) (string, bool) {
	if v, found, isLabel := labelField(field, vm.Labels); isLabel {
		return v, found
	}
	switch field {
	case "kind":
		return "VirtualMachine", true
	case "name":
		return vm.Name, true
	case "namespace":
		return vm.Namespace, true
	case "cluster":
		return vm.Cluster, true
	case "status":
		return vm.Status, true
	case "os":
		return vm.OS, true
	case "instanceType":
		return vm.InstanceType, true
	}
	return "", false
}

// Row implements Record.
func (vm VirtualMachine) Row() []string {
	return []string{vm.Name, vm.Namespace, vm.Cluster, vm.Status, vm.OS, vm.InstanceType}
}

// User is an identity known to the hub.
type User struct {
	Name     string   `json:"name"`
	FullName string   `json:"fullName"`
	Provider string   `json:"provider"`
	Groups   []string `json:"groups"`
}

// GetField implements query.Matchable.
func (u User) GetField(field string) (string, bool) {
	switch field {
	case "kind":
		return "User", true
	case "name":
		return u.Name, true
	case "fullName":
		return u.FullName, true
	case "provider":
		return u.Provider, true
	case "groups":
		return strings.Join(u.Groups, ","), true
	}
	return "", false
}

// Row implements Record.
func (u User) Row() []string {
	return []string{u.Name, u.FullName, u.Provider, strings.Join(u.Groups, ", ")}
}

// Group is a set of users.
type Group struct {
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Members  []string `json:"members"`
}

// GetField implements query.Matchable.
func (g Group) GetField(field string) (string, bool) {
	switch field {
	case "kind":
		return "Group", true
	case "name":
		return g.Name, true
	case "provider":
		return g.Provider, true
	case "members":
		return strings.Join(g.Members, ","), true
	}
	return "", false
}

// Row implements Record.
func (g Group) Row() []string {
	return []string{g.Name, g.Provider, strconv.Itoa(len(g.Members)), strings.Join(g.Members, ", ")}
}

// Role is an RBAC role.
type Role struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// GetField implements query.Matchable.
func (r Role) GetField(field string) (string, bool) {
	switch field {
	case "kind":
		return r.Kind, true
	case "name":
		return r.Name, true
	case "description":
		return r.Description, true
	}
	return "", false
}

// Row implements Record.
func (r Role) Row() []string {
	return []string{r.Name, r.Kind, r.Description}
}

// RoleBinding assigns a role to a user or group on a cluster, optionally limited
// to a namespace.
type RoleBinding struct {
	Name        string `json:"name"`
	SubjectKind string `json:"subjectKind"`
	Subject     string `json:"subject"`
	Role        string `json:"role"`
	Cluster     string `json:"cluster"`
	Namespace   string `json:"namespace,omitempty"`
}

// GetField implements query.Matchable.
func (b RoleBinding) GetField(field string) (string, bool) {
	switch field {
	case "kind":
		return "RoleBinding", true
	case "name":
		return b.Name, true
	case "subjectKind":
		return b.SubjectKind, true
	case "subject":
		return b.Subject, true
	case "role":
		return b.Role, true
	case "cluster":
		return b.Cluster, true
	case "namespace":
		return b.Namespace, b.Namespace != ""
	}
	return "", false
}

// Row implements Record.
func (b RoleBinding) Row() []string {
	ns := b.Namespace
	if ns == "" {
		ns = "(all namespaces)"
	}
	return []string{b.Name, b.SubjectKind + "/" + b.Subject, b.Role, b.Cluster, ns}
}
