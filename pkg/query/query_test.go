// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package query

import (
	"testing"
)

// mockRecord implements Matchable for testing
type mockRecord struct {
	data   map[string]string
	labels map[string]string
}

func (m mockRecord) GetField(field string) (string, bool) {
	if len(field) > 7 && field[:7] == "labels[" && field[len(field)-1] == ']' {
		v, ok := m.labels[field[7:len(field)-1]]
		return v, ok
	}
	v, ok := m.data[field]
	return v, ok
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantLen int // number of conditions
	}{
		{name: "empty query", input: "", wantLen: 0},
		{name: "blank query", input: "   ", wantLen: 0},
		{name: "simple equal", input: "cluster=dev-team-a-cluster", wantLen: 1},
		{name: "two conditions with AND", input: "status=Running AND namespace=vm-workloads", wantLen: 2},
		{name: "two conditions with OR", input: "kind=User OR kind=Group", wantLen: 2},
		{name: "implicit AND", input: "status=Running cluster=cluster-hub", wantLen: 2},
		{name: "lowercase operator", input: "kind=User or kind=Group", wantLen: 2},
		{name: "not equal", input: "status!=Stopped", wantLen: 1},
		{name: "regex", input: "name~=^rhel", wantLen: 1},
		{name: "IN list", input: "cluster=dev-team-a-cluster,dev-team-b-cluster", wantLen: 1},
		{name: "labels", input: "labels[env]=dev", wantLen: 1},
		{name: "invalid regex", input: "name~=[invalid", wantErr: true},
		{name: "invalid syntax", input: "cluster", wantErr: true},
		{name: "leading operator", input: "AND kind=User", wantErr: true},
		{name: "double operator", input: "kind=User AND OR kind=Group", wantErr: true},
		{name: "trailing operator", input: "kind=User AND", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if len(q.Conditions) != tt.wantLen {
				t.Errorf("Parse(%q) got %d conditions, want %d", tt.input, len(q.Conditions), tt.wantLen)
			}
			if tt.wantLen > 0 && len(q.Operators) != tt.wantLen-1 {
				t.Errorf("Parse(%q) got %d operators, want %d", tt.input, len(q.Operators), tt.wantLen-1)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	vm := mockRecord{
		data: map[string]string{
			"kind":      "VirtualMachine",
			"namespace": "vm-workloads",
			"name":      "rhel9-web-01",
			"status":    "Running",
			"cluster":   "dev-team-a-cluster",
		},
		labels: map[string]string{
			"env":  "dev",
			"team": "alpha",
		},
	}

	stopped := mockRecord{
		data: map[string]string{
			"kind":      "VirtualMachine",
			"namespace": "vm-workloads",
			"name":      "win2k22-ad",
			"status":    "Stopped",
			"cluster":   "cluster-hub",
		},
	}

	tests := []struct {
		name    string
		query   string
		entry   mockRecord
		matches bool
	}{
		{name: "empty query matches all", query: "", entry: vm, matches: true},
		{name: "exact match", query: "status=Running", entry: vm, matches: true},
		{name: "exact match fails", query: "status=Stopped", entry: vm, matches: false},
		{name: "case insensitive match", query: "status=running", entry: vm, matches: true},
		{name: "AND both true", query: "status=Running AND cluster=dev-team-a-cluster", entry: vm, matches: true},
		{name: "AND one false", query: "status=Running AND cluster=cluster-hub", entry: vm, matches: false},
		{name: "OR first true", query: "cluster=dev-team-a-cluster OR cluster=cluster-hub", entry: vm, matches: true},
		{name: "OR second true", query: "cluster=cluster-hub OR cluster=dev-team-a-cluster", entry: vm, matches: true},
		{name: "OR both false", query: "cluster=cluster-hub OR cluster=qa-cluster", entry: vm, matches: false},
		{name: "not equal matches", query: "status!=Stopped", entry: vm, matches: true},
		{name: "not equal fails", query: "status!=Running", entry: vm, matches: false},
		{name: "not equal missing field", query: "os!=linux", entry: vm, matches: true},
		{name: "regex matches", query: "name~=^rhel", entry: vm, matches: true},
		{name: "regex fails", query: "name~=^win", entry: vm, matches: false},
		{name: "IN list matches", query: "cluster=dev-team-a-cluster,dev-team-b-cluster", entry: vm, matches: true},
		{name: "IN list fails", query: "cluster=dev-team-a-cluster,dev-team-b-cluster", entry: stopped, matches: false},
		{name: "wildcard matches", query: "namespace=vm-*", entry: vm, matches: true},
		{name: "wildcard case insensitive", query: "name=RHEL9-*", entry: vm, matches: true},
		{name: "wildcard fails", query: "namespace=default*", entry: vm, matches: false},
		{name: "label matches", query: "labels[team]=alpha", entry: vm, matches: true},
		{name: "label fails", query: "labels[team]=beta", entry: vm, matches: false},
		{name: "label missing", query: "labels[team]=alpha", entry: stopped, matches: false},
		{name: "complex query matches", query: "kind=VirtualMachine AND status=Running AND cluster!=cluster-hub", entry: vm, matches: true},
		{name: "complex query fails", query: "kind=VirtualMachine AND status=Running AND cluster!=cluster-hub", entry: stopped, matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.query, err)
			}
			got := q.Matches(tt.entry)
			if got != tt.matches {
				t.Errorf("Query(%q).Matches() = %v, want %v", tt.query, got, tt.matches)
			}
		})
	}
}

func TestNilQueryMatches(t *testing.T) {
	var q *Query
	if !q.Matches(mockRecord{}) {
		t.Error("nil query should match everything")
	}
	if q.String() != "" {
		t.Errorf("nil query String() = %q, want empty", q.String())
	}
}

func TestFilter(t *testing.T) {
	records := []mockRecord{
		{data: map[string]string{"name": "a", "cluster": "cluster-hub"}},
		{data: map[string]string{"name": "b", "cluster": "dev-team-a-cluster"}},
		{data: map[string]string{"name": "c", "cluster": "dev-team-b-cluster"}},
	}

	q, err := Parse("cluster=dev-team-*")
	if err != nil {
		t.Fatal(err)
	}
	got := Filter(q, records)
	if len(got) != 2 || got[0].data["name"] != "b" || got[1].data["name"] != "c" {
		t.Errorf("Filter() = %v, want records b and c in order", got)
	}

	all := Filter(&Query{}, records)
	if len(all) != len(records) {
		t.Errorf("empty query filtered %d records, want %d", len(all), len(records))
	}
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"status=Running", "status=Running"},
		{"status=Running AND namespace=vm-workloads", "status=Running AND namespace=vm-workloads"},
		{"status=Running cluster=cluster-hub", "status=Running AND cluster=cluster-hub"},
		{"kind=User or kind=Group", "kind=User OR kind=Group"},
		{"status!=Stopped", "status!=Stopped"},
		{"name~=^rhel", "name~=^rhel"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			got := q.String()
			if got != tt.want {
				t.Errorf("Query.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
