// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/avierling/airwave/internal/logging"
)

// newSnapshotID returns a fresh snapshot identifier.
func newSnapshotID() string {
	return uuid.New().String()
}

// copyFile copies src to dst, fsyncing before close. dst must not exist;
// snapshots are never overwritten.
func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path comes from validated configuration
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", src).Msg("Failed to close source file")
		}
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // Snapshot directory is operator controlled
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // Copy error takes precedence
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close() //nolint:errcheck,gosec // Sync error takes precedence
		return fmt.Errorf("failed to sync destination: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	return nil
}
