// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/avierling/airwave/internal/models"
)

type mockFetcher struct {
	mu      sync.Mutex
	days    []time.Time
	records map[string][]models.RawPlayRecord
	err     error
}

func (m *mockFetcher) FetchDay(_ context.Context, date time.Time) ([]models.RawPlayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = append(m.days, date)
	if m.err != nil {
		return nil, m.err
	}
	return m.records[date.Format("2006-01-02")], nil
}

func (m *mockFetcher) fetchedDays() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := make([]string, len(m.days))
	for i, d := range m.days {
		days[i] = d.Format("2006-01-02")
	}
	return days
}

type mockIngestor struct {
	mu      sync.Mutex
	batches [][]models.RawPlayRecord
	err     error
}

func (m *mockIngestor) Ingest(_ context.Context, records []models.RawPlayRecord) (*models.IngestionReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.batches = append(m.batches, records)
	return &models.IngestionReport{Received: len(records), Inserted: len(records)}, nil
}

func (m *mockIngestor) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func TestScrapeSchedulerServiceInterface(t *testing.T) {
	var _ suture.Service = (*ScrapeSchedulerService)(nil)
}

func TestSchedulerRunCoversYesterdayAndToday(t *testing.T) {
	fetcher := &mockFetcher{
		records: map[string][]models.RawPlayRecord{
			"2026-08-26": {{Artist: "Altın Gün", Title: "Yali Yali", Timestamp: "2026-08-26 23:40:00"}},
			"2026-08-27": {{Artist: "Sault", Title: "Wildfires", Timestamp: "2026-08-27 00:10:00"}},
		},
	}
	ingestor := &mockIngestor{}

	svc := NewScrapeSchedulerService(fetcher, ingestor, time.Hour)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	}

	svc.run(context.Background())

	days := fetcher.fetchedDays()
	if len(days) != 2 || days[0] != "2026-08-26" || days[1] != "2026-08-27" {
		t.Fatalf("fetched days = %v, want [2026-08-26 2026-08-27]", days)
	}
	if ingestor.batchCount() != 1 {
		t.Fatalf("ingested %d batches, want 1", ingestor.batchCount())
	}
	if got := len(ingestor.batches[0]); got != 2 {
		t.Errorf("batch size = %d, want 2", got)
	}
}

func TestSchedulerRunSkipsIngestWhenEmpty(t *testing.T) {
	fetcher := &mockFetcher{}
	ingestor := &mockIngestor{}

	svc := NewScrapeSchedulerService(fetcher, ingestor, time.Hour)
	svc.run(context.Background())

	if ingestor.batchCount() != 0 {
		t.Errorf("ingested %d batches, want 0 for empty scrape", ingestor.batchCount())
	}
}

func TestSchedulerRunSurvivesFetchErrors(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("station unreachable")}
	ingestor := &mockIngestor{}

	svc := NewScrapeSchedulerService(fetcher, ingestor, time.Hour)
	svc.run(context.Background())

	if ingestor.batchCount() != 0 {
		t.Errorf("ingested %d batches, want 0 when every fetch fails", ingestor.batchCount())
	}
}

func TestSchedulerServeRunsImmediatelyAndStops(t *testing.T) {
	fetcher := &mockFetcher{
		records: map[string][]models.RawPlayRecord{},
	}
	ingestor := &mockIngestor{}

	svc := NewScrapeSchedulerService(fetcher, ingestor, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	// The initial run should fire without waiting for a tick.
	deadline := time.After(2 * time.Second)
	for len(fetcher.fetchedDays()) < 2 {
		select {
		case <-deadline:
			t.Fatal("initial scheduled run did not happen")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestSchedulerDefaultInterval(t *testing.T) {
	svc := NewScrapeSchedulerService(&mockFetcher{}, &mockIngestor{}, 0)
	if svc.interval != 6*time.Hour {
		t.Errorf("interval = %v, want default 6h", svc.interval)
	}
}

func TestSchedulerString(t *testing.T) {
	svc := NewScrapeSchedulerService(&mockFetcher{}, &mockIngestor{}, time.Hour)
	if svc.String() != "scrape-scheduler" {
		t.Errorf("String() = %q, want scrape-scheduler", svc.String())
	}
}
