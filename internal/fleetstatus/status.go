// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package fleetstatus classifies cluster and virtual machine states into a small
// set of health buckets and counts them for summaries.
package fleetstatus

import (
	"fmt"
	"strings"

	"github.com/kuklas/acm-user-interface-sub002/pkg/query"
)

// Status constants for records.
const (
	StatusReady    = "Ready"
	StatusNotReady = "NotReady"
	StatusFailed   = "Failed"
	StatusPending  = "Pending"
	StatusUnknown  = "Unknown"
)

// order is the display order of Summary.
var order = []string{StatusReady, StatusPending, StatusNotReady, StatusFailed, StatusUnknown}

// DetectStatus maps a record's status field to a health bucket. Records without
// a status field, such as users and roles, are reported as not applicable ("").
func DetectStatus(rec query.Matchable) string {
	status, ok := rec.GetField("status")
	if !ok {
		return ""
	}
	kind, _ := rec.GetField("kind")

	switch kind {
	case "VirtualMachine":
		return detectVMStatus(status)
	default:
		return detectClusterStatus(status)
	}
}

// detectClusterStatus follows the ManagedCluster available condition.
func detectClusterStatus(status string) string {
	switch status {
	case "Ready", "Available", "True":
		return StatusReady
	case "NotReady", "Offline", "False":
		return StatusNotReady
	case "Pending", "Importing", "Provisioning":
		return StatusPending
	case "Failed", "ImportFailed", "Destroying":
		return StatusFailed
	}
	return StatusUnknown
}

// detectVMStatus follows the KubeVirt printable status.
func detectVMStatus(status string) string {
	switch status {
	case "Running":
		return StatusReady
	case "Stopped", "Paused", "Stopping", "Terminating":
		return StatusNotReady
	case "Starting", "Provisioning", "Migrating", "WaitingForVolumeBinding":
		return StatusPending
	case "Error", "CrashLoopBackOff", "ErrorUnschedulable", "ErrImagePull", "DataVolumeError":
		return StatusFailed
	}
	return StatusUnknown
}

// IsReady returns true if the record is in a ready state.
func IsReady(rec query.Matchable) bool {
	return DetectStatus(rec) == StatusReady
}

// Stats tracks counts by health bucket and owning cluster.
type Stats struct {
	ByStatus  map[string]int
	ByCluster map[string]int
	Total     int
}

// NewStats creates an initialized Stats.
func NewStats() *Stats {
	return &Stats{
		ByStatus:  make(map[string]int),
		ByCluster: make(map[string]int),
	}
}

// Add records rec in the stats. Records without a status are counted in Total
// only.
func (s *Stats) Add(rec query.Matchable) {
	s.Total++
	if cluster, ok := rec.GetField("cluster"); ok {
		s.ByCluster[cluster]++
	}
	if status := DetectStatus(rec); status != "" {
		s.ByStatus[status]++
	}
}

// Count builds Stats over items.
func Count[T query.Matchable](items []T) *Stats {
	s := NewStats()
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Summary renders the non-zero buckets, e.g. "3 Ready, 1 NotReady". It is empty
// when no record had a status.
func (s *Stats) Summary() string {
	var parts []string
	for _, status := range order {
		if n := s.ByStatus[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	return strings.Join(parts, ", ")
}
