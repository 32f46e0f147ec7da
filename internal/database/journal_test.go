package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archivedoc/internal/model"
)

// TestOpen tests journal creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates the directory and database file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "journal")
		j, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(j.Path()); err != nil {
			t.Errorf("expected database file at %s: %v", j.Path(), err)
		}
	})

	t.Run("fails when creation is disabled and the file is missing", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error opening missing journal")
		}
	})

	t.Run("reopens an existing journal without creation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		j, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if err := j.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		j2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer j2.Close()
	})
}

// TestRecordPage tests recording and retrieval.
func TestRecordPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round-trips a record", func(t *testing.T) {
		t.Parallel()

		j, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer j.Close()

		rec := &PageRecord{
			URL:         "https://web.archive.org/web/2005/http://example.org/",
			OriginalURL: "http://example.org/",
			Outcome:     model.OutcomeAccepted,
			StatusCode:  200,
			ContentHash: "abc123",
		}
		if err := j.RecordPage(ctx, rec); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		got, err := j.GetPage(ctx, rec.URL)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a record")
		}
		if got.OriginalURL != rec.OriginalURL {
			t.Errorf("expected original URL %q, got %q", rec.OriginalURL, got.OriginalURL)
		}
		if got.Outcome != model.OutcomeAccepted {
			t.Errorf("expected accepted outcome, got %s", got.Outcome)
		}
		if got.StatusCode != 200 {
			t.Errorf("expected status 200, got %d", got.StatusCode)
		}
		if got.ContentHash != "abc123" {
			t.Errorf("expected content hash abc123, got %q", got.ContentHash)
		}
		if got.FetchedAt.IsZero() || time.Since(got.FetchedAt) > time.Hour {
			t.Errorf("expected a recent fetched_at, got %v", got.FetchedAt)
		}
	})

	t.Run("missing URL returns nil without error", func(t *testing.T) {
		t.Parallel()

		j, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer j.Close()

		got, err := j.GetPage(ctx, "https://web.archive.org/web/2005/http://nowhere/")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil record, got %+v", got)
		}
	})

	t.Run("re-recording a URL keeps a single row", func(t *testing.T) {
		t.Parallel()

		j, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer j.Close()

		url := "https://web.archive.org/web/2005/http://example.org/"
		if err := j.RecordPage(ctx, &PageRecord{URL: url, Outcome: model.OutcomeFetchFailed}); err != nil {
			t.Fatalf("first record failed: %v", err)
		}
		if err := j.RecordPage(ctx, &PageRecord{URL: url, Outcome: model.OutcomeAccepted, StatusCode: 200}); err != nil {
			t.Fatalf("second record failed: %v", err)
		}

		count, err := j.PageCount(ctx)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}

		got, err := j.GetPage(ctx, url)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Outcome != model.OutcomeAccepted {
			t.Errorf("expected the latest outcome, got %s", got.Outcome)
		}
	})
}

// TestOutcomeCounts tests outcome aggregation.
func TestOutcomeCounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer j.Close()

	records := []*PageRecord{
		{URL: "https://a/", Outcome: model.OutcomeAccepted},
		{URL: "https://b/", Outcome: model.OutcomeAccepted},
		{URL: "https://c/", Outcome: model.OutcomeDuplicateOriginal},
		{URL: "https://d/", Outcome: model.OutcomeFetchFailed},
	}
	for _, rec := range records {
		if err := j.RecordPage(ctx, rec); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	counts, err := j.OutcomeCounts(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if counts["accepted"] != 2 {
		t.Errorf("expected 2 accepted, got %d", counts["accepted"])
	}
	if counts["duplicate-original"] != 1 {
		t.Errorf("expected 1 duplicate-original, got %d", counts["duplicate-original"])
	}
	if counts["fetch-failed"] != 1 {
		t.Errorf("expected 1 fetch-failed, got %d", counts["fetch-failed"])
	}

	total, err := j.PageCount(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != len(records) {
		t.Errorf("expected %d rows, got %d", len(records), total)
	}
}
