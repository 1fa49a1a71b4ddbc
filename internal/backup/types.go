// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package backup implements the pre-mutation snapshot guard.
//
// Every write path into the event store (playlist ingestion, genre
// enrichment) runs through Guard.Mutate, which snapshots the database file
// before the mutation and verifies the row count afterwards. Snapshots are
// timestamped, never overwritten and never pruned automatically; a snapshot
// taken for a mutation that later failed is exactly the one worth keeping.
package backup

import (
	"fmt"
	"time"
)

// Trigger records which write path requested a snapshot.
type Trigger string

const (
	// TriggerIngest marks snapshots taken before playlist ingestion.
	TriggerIngest Trigger = "ingest"
	// TriggerEnrichment marks snapshots taken before genre enrichment.
	TriggerEnrichment Trigger = "enrichment"
	// TriggerManual marks operator-requested snapshots.
	TriggerManual Trigger = "manual"
)

// SnapshotStatus tracks a snapshot through its lifecycle.
type SnapshotStatus string

const (
	// StatusInProgress means the snapshot file is still being written.
	StatusInProgress SnapshotStatus = "in_progress"
	// StatusCompleted means the snapshot file is complete on disk.
	StatusCompleted SnapshotStatus = "completed"
	// StatusFailed means the snapshot could not be created.
	StatusFailed SnapshotStatus = "failed"
)

// Snapshot describes one point-in-time copy of the database file.
type Snapshot struct {
	ID          string         `json:"id"`
	Trigger     Trigger        `json:"trigger"`
	Status      SnapshotStatus `json:"status"`
	FilePath    string         `json:"file_path"`
	FileSize    int64          `json:"file_size"`
	RowCount    int64          `json:"row_count"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Duration    time.Duration  `json:"duration"`
	Error       string         `json:"error,omitempty"`
}

// ErrBackupFailed is returned by Mutate when the snapshot could not be
// created. The guarded mutation is NOT executed in that case.
var ErrBackupFailed = fmt.Errorf("backup failed")

// IntegrityError reports a guarded mutation that ended with fewer rows than
// it started with. The mutation has already run; the pre-mutation snapshot
// named in SnapshotPath is the recovery point.
type IntegrityError struct {
	SnapshotPath string
	RowsBefore   int64
	RowsAfter    int64
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: row count dropped from %d to %d, restore from snapshot %s",
		e.RowsBefore, e.RowsAfter, e.SnapshotPath)
}
