// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

/*
guard.go - Snapshot Guard

Guarded Mutation Flow:
 1. Count rows in the event store (baseline)
 2. Checkpoint and copy the database file to the snapshot directory
    (snapshot failure aborts here; the mutation never runs)
 3. Run the mutation
 4. Count rows again; fewer rows than the baseline is an IntegrityError
    carrying the snapshot path as the recovery point

The snapshot is kept in every outcome, including full success. Only writes
are guarded; reads never pass through here.

Thread Safety:
mutateMu serializes guarded mutations so two writers cannot interleave their
baseline counts. Metadata operations are protected by sync.RWMutex.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/metrics"
)

// Store is the slice of the event store the guard needs.
type Store interface {
	// DatabasePath returns the path to the database file.
	DatabasePath() string
	// CountRows returns the total number of play events.
	CountRows(ctx context.Context) (int64, error)
	// Checkpoint flushes the WAL so the file copy is consistent.
	Checkpoint(ctx context.Context) error
}

// Guard snapshots the database before mutations and verifies row counts
// after them.
type Guard struct {
	cfg   *config.BackupConfig
	store Store

	mutateMu sync.Mutex

	// Metadata storage
	metadataFile string
	metadata     *MetadataStore
	metadataMu   sync.RWMutex
}

// MetadataStore holds the snapshot ledger persisted as metadata.json in the
// snapshot directory.
type MetadataStore struct {
	Snapshots []*Snapshot `json:"snapshots"`
}

// NewGuard creates a snapshot guard, creating the snapshot directory if
// needed.
func NewGuard(cfg *config.BackupConfig, store Store) (*Guard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backup configuration is required")
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	g := &Guard{
		cfg:          cfg,
		store:        store,
		metadataFile: filepath.Join(cfg.Dir, "metadata.json"),
	}

	// Load existing metadata
	if err := g.loadMetadata(); err != nil {
		g.metadata = &MetadataStore{
			Snapshots: make([]*Snapshot, 0),
		}
	}

	return g, nil
}

// Mutate runs op under the guard. The returned snapshot is non-nil whenever
// a snapshot file was created, even if op or the integrity check failed.
func (g *Guard) Mutate(ctx context.Context, trigger Trigger, op func(ctx context.Context) error) (*Snapshot, error) {
	g.mutateMu.Lock()
	defer g.mutateMu.Unlock()

	before, err := g.store.CountRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows before mutation: %w", err)
	}

	snap, err := g.Snapshot(ctx, trigger)
	if err != nil {
		// No mutation without a snapshot.
		return snap, fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}

	logging.Debug().
		Str("trigger", string(trigger)).
		Str("snapshot", snap.FilePath).
		Int64("rows_before", before).
		Msg("Snapshot created, running guarded mutation")

	if err := op(ctx); err != nil {
		return snap, err
	}

	after, err := g.store.CountRows(ctx)
	if err != nil {
		return snap, fmt.Errorf("failed to count rows after mutation: %w", err)
	}

	if after < before {
		metrics.IntegrityViolations.Inc()
		logging.Error().
			Str("trigger", string(trigger)).
			Int64("rows_before", before).
			Int64("rows_after", after).
			Str("snapshot", snap.FilePath).
			Msg("Row count dropped during guarded mutation")
		return snap, &IntegrityError{
			SnapshotPath: snap.FilePath,
			RowsBefore:   before,
			RowsAfter:    after,
		}
	}

	return snap, nil
}

// Snapshot checkpoints the database and copies its file into the snapshot
// directory under a timestamped name.
func (g *Guard) Snapshot(ctx context.Context, trigger Trigger) (*Snapshot, error) {
	startTime := time.Now()

	snap := &Snapshot{
		ID:        newSnapshotID(),
		Trigger:   trigger,
		Status:    StatusInProgress,
		CreatedAt: startTime,
	}
	snap.FilePath = g.generateSnapshotPath(trigger, startTime, snap.ID)

	rowCount, err := g.store.CountRows(ctx)
	if err != nil {
		return g.handleSnapshotError(snap, startTime, fmt.Errorf("failed to count rows: %w", err))
	}
	snap.RowCount = rowCount

	if err := g.store.Checkpoint(ctx); err != nil {
		return g.handleSnapshotError(snap, startTime, fmt.Errorf("failed to checkpoint database: %w", err))
	}

	if err := copyFile(g.store.DatabasePath(), snap.FilePath); err != nil {
		return g.handleSnapshotError(snap, startTime, fmt.Errorf("failed to copy database file: %w", err))
	}

	fileInfo, err := os.Stat(snap.FilePath)
	if err != nil {
		return g.handleSnapshotError(snap, startTime, fmt.Errorf("failed to stat snapshot file: %w", err))
	}
	snap.FileSize = fileInfo.Size()

	snap.Status = StatusCompleted
	completedAt := time.Now()
	snap.CompletedAt = &completedAt
	snap.Duration = time.Since(startTime)

	g.saveSnapshot(snap)
	metrics.RecordSnapshot(string(trigger), string(StatusCompleted))

	return snap, nil
}

// ListSnapshots returns all recorded snapshots, oldest first.
func (g *Guard) ListSnapshots() []*Snapshot {
	g.metadataMu.RLock()
	defer g.metadataMu.RUnlock()

	if g.metadata == nil {
		return []*Snapshot{}
	}

	out := make([]*Snapshot, len(g.metadata.Snapshots))
	copy(out, g.metadata.Snapshots)
	return out
}

// generateSnapshotPath generates the file path for a snapshot.
func (g *Guard) generateSnapshotPath(trigger Trigger, startTime time.Time, snapshotID string) string {
	timestamp := startTime.Format("20060102-150405")
	filename := fmt.Sprintf("snapshot-%s-%s-%s.duckdb", trigger, timestamp, snapshotID[:8])
	return filepath.Join(g.cfg.Dir, filename)
}

// handleSnapshotError marks a snapshot as failed and records it.
func (g *Guard) handleSnapshotError(snap *Snapshot, startTime time.Time, err error) (*Snapshot, error) {
	snap.Status = StatusFailed
	snap.Error = err.Error()
	completedAt := time.Now()
	snap.CompletedAt = &completedAt
	snap.Duration = time.Since(startTime)
	g.saveSnapshot(snap)
	metrics.RecordSnapshot(string(snap.Trigger), string(StatusFailed))
	return snap, err
}

// saveSnapshot records a snapshot in the metadata ledger.
func (g *Guard) saveSnapshot(snap *Snapshot) {
	g.metadataMu.Lock()
	defer g.metadataMu.Unlock()

	found := false
	for i, s := range g.metadata.Snapshots {
		if s.ID == snap.ID {
			g.metadata.Snapshots[i] = snap
			found = true
			break
		}
	}

	if !found {
		g.metadata.Snapshots = append(g.metadata.Snapshots, snap)
	}

	if err := g.saveMetadataLocked(); err != nil {
		// Best effort - the snapshot file itself is already on disk.
		logging.Warn().Err(err).Msg("Failed to persist snapshot metadata")
	}
}

// loadMetadata loads the snapshot ledger from disk.
func (g *Guard) loadMetadata() error {
	g.metadataMu.Lock()
	defer g.metadataMu.Unlock()

	data, err := os.ReadFile(g.metadataFile)
	if err != nil {
		return err
	}

	var metadata MetadataStore
	if err := json.Unmarshal(data, &metadata); err != nil {
		return err
	}

	g.metadata = &metadata
	return nil
}

// saveMetadataLocked saves the snapshot ledger to disk (lock must be held).
func (g *Guard) saveMetadataLocked() error {
	data, err := json.MarshalIndent(g.metadata, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(g.metadataFile, data, 0o600) //nolint:gosec // Metadata file permissions are intentionally restricted
}
