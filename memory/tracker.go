// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"io"
	"log/slog"
)

// AllocationRecord is one live tracked allocation.
type AllocationRecord struct {
	Address uintptr
	Size    int
	Tag     Tag
}

// TrackerStats is a snapshot of the tracker's running totals.
type TrackerStats struct {
	TotalAllocated     uint64 // bytes ever allocated through tracked paths
	TotalAllocations   uint64 // tracked allocations ever made
	TotalFreed         uint64 // bytes ever freed through tracked paths
	TotalFrees         uint64 // tracked frees ever made
	CurrentAllocated   uint64 // bytes currently live
	CurrentAllocations uint64 // allocations currently live
}

type trackerData struct {
	totalAllocated   uint64
	totalAllocations uint64
	totalFreed       uint64
	totalFrees       uint64

	live   map[uintptr]AllocationRecord
	logger *slog.Logger
}

var tracker *trackerData

func initTracker(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tracker = &trackerData{
		live:   make(map[uintptr]AllocationRecord),
		logger: logger,
	}
}

func shutdownTracker() {
	if len(tracker.live) > 0 {
		tracker.logger.Warn("memory tracker shut down with live allocations",
			"count", len(tracker.live),
			"bytes", tracker.totalAllocated-tracker.totalFreed,
		)
		LogUsage()
	}
	tracker = nil
}

// TrackerActive reports whether allocation bookkeeping is running.
func TrackerActive() bool {
	return tracker != nil
}

func trackerRegister(addr uintptr, size int, tag Tag) {
	tracker.totalAllocated += uint64(size)
	tracker.totalAllocations++
	tracker.live[addr] = AllocationRecord{Address: addr, Size: size, Tag: tag}
}

func trackerDeregister(addr uintptr) {
	rec, ok := tracker.live[addr]
	if !ok {
		panic("memory: free of untracked block")
	}
	tracker.totalFreed += uint64(rec.Size)
	tracker.totalFrees++
	delete(tracker.live, addr)
}

// Stats returns the tracker's running totals. Zero value when inactive.
func Stats() TrackerStats {
	if !TrackerActive() {
		return TrackerStats{}
	}
	return TrackerStats{
		TotalAllocated:     tracker.totalAllocated,
		TotalAllocations:   tracker.totalAllocations,
		TotalFreed:         tracker.totalFreed,
		TotalFrees:         tracker.totalFrees,
		CurrentAllocated:   tracker.totalAllocated - tracker.totalFreed,
		CurrentAllocations: tracker.totalAllocations - tracker.totalFrees,
	}
}

// LiveAllocations returns a copy of every live tracked record.
func LiveAllocations() []AllocationRecord {
	if !TrackerActive() {
		return nil
	}
	records := make([]AllocationRecord, 0, len(tracker.live))
	for _, rec := range tracker.live {
		records = append(records, rec)
	}
	return records
}

// LogUsage dumps every live allocation through the tracker's logger.
func LogUsage() {
	if !TrackerActive() {
		return
	}
	for _, rec := range tracker.live {
		tracker.logger.Debug("live allocation",
			"address", rec.Address,
			"bytes", rec.Size,
			"file", rec.Tag.File,
			"function", rec.Tag.Function,
			"line", rec.Tag.Line,
		)
	}
}
