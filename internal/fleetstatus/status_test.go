// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package fleetstatus

import (
	"testing"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
)

func TestDetectStatus(t *testing.T) {
	tests := []struct {
		name     string
		rec      mockdata.Record
		expected string
	}{
		{
			name:     "Ready cluster",
			rec:      mockdata.Cluster{Name: "a", Status: "Ready"},
			expected: StatusReady,
		},
		{
			name:     "NotReady cluster",
			rec:      mockdata.Cluster{Name: "a", Status: "NotReady"},
			expected: StatusNotReady,
		},
		{
			name:     "Importing cluster",
			rec:      mockdata.Cluster{Name: "a", Status: "Importing"},
			expected: StatusPending,
		},
		{
			name:     "Unrecognized cluster status",
			rec:      mockdata.Cluster{Name: "a", Status: "Hibernating"},
			expected: StatusUnknown,
		},
		{
			name:     "Running VM",
			rec:      mockdata.VirtualMachine{Name: "vm", Status: "Running"},
			expected: StatusReady,
		},
		{
			name:     "Paused VM",
			rec:      mockdata.VirtualMachine{Name: "vm", Status: "Paused"},
			expected: StatusNotReady,
		},
		{
			name:     "Migrating VM",
			rec:      mockdata.VirtualMachine{Name: "vm", Status: "Migrating"},
			expected: StatusPending,
		},
		{
			name:     "Error VM",
			rec:      mockdata.VirtualMachine{Name: "vm", Status: "Error"},
			expected: StatusFailed,
		},
		{
			name:     "User has no status",
			rec:      mockdata.User{Name: "alice"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectStatus(tt.rec)
			if got != tt.expected {
				t.Errorf("DetectStatus() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsReady(t *testing.T) {
	if !IsReady(mockdata.VirtualMachine{Status: "Running"}) {
		t.Error("Expected a running VM to be ready")
	}
	if IsReady(mockdata.Cluster{Status: "Unknown"}) {
		t.Error("Expected an unknown cluster not to be ready")
	}
}

func TestCountFixtures(t *testing.T) {
	catalog, err := mockdata.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	clusters := Count(catalog.Clusters)
	if got, want := clusters.Summary(), "3 Ready, 1 NotReady, 1 Unknown"; got != want {
		t.Errorf("cluster summary = %q, want %q", got, want)
	}

	vms := Count(catalog.VirtualMachines)
	if got, want := vms.Summary(), "3 Ready, 1 Pending, 2 NotReady, 1 Failed"; got != want {
		t.Errorf("vm summary = %q, want %q", got, want)
	}
	if vms.Total != 7 {
		t.Errorf("Total = %d, want 7", vms.Total)
	}
	if vms.ByCluster["cluster-hub"] != 2 {
		t.Errorf("ByCluster[cluster-hub] = %d, want 2", vms.ByCluster["cluster-hub"])
	}
}

func TestSummaryEmptyWithoutStatus(t *testing.T) {
	catalog, err := mockdata.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s := Count(catalog.Users).Summary(); s != "" {
		t.Errorf("Summary() = %q, want empty", s)
	}
}
