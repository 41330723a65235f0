//go:build integration

package processor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/config"
	"github.com/launchline/concierge/internal/extract"
	"github.com/launchline/concierge/internal/gaps"
	"github.com/launchline/concierge/internal/identity"
	"github.com/launchline/concierge/internal/prompt"
	"github.com/launchline/concierge/internal/store"
)

func setupTestProcessor(t *testing.T) *Processor {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog, err := checklist.Load("")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	priorities, err := gaps.LoadTable("")
	if err != nil {
		t.Fatalf("failed to load priority table: %v", err)
	}

	ctx := context.Background()
	db, err := store.New(ctx, dbURL, catalog.FieldNames())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(
		db,
		extract.New(nil, logger),
		prompt.NewGenerator(catalog),
		nil, // no voice client: script pushes are skipped
		nil, // no event bus
		identity.NewResolver(db, logger),
		catalog,
		priorities,
		config.Config{},
		logger,
	)
}

func TestIntegration_ReportLookupMiss(t *testing.T) {
	p := setupTestProcessor(t)

	report, readiness, err := p.Report(context.Background(), "+19990000000")
	if err != nil {
		t.Fatalf("lookup miss must not error: %v", err)
	}
	if report.CompletedItems != 0 {
		t.Errorf("expected zero completed items, got %d", report.CompletedItems)
	}
	if report.TotalItems == 0 {
		t.Error("zero report must still carry the catalog total")
	}
	if readiness.ReadyForLLCFiling {
		t.Error("empty record must not be filing-ready")
	}
}

func TestIntegration_GapsLookupMiss(t *testing.T) {
	p := setupTestProcessor(t)

	analysis, items, err := p.Gaps(context.Background(), "+19990000000")
	if err != nil {
		t.Fatalf("lookup miss must not error: %v", err)
	}
	if analysis.Stage != 1 {
		t.Errorf("expected stage 1 analysis for unknown customer, got %d", analysis.Stage)
	}
	if len(analysis.Critical) == 0 {
		t.Error("empty record should have critical gaps")
	}
	if len(items) == 0 {
		t.Error("empty record should produce action items")
	}
}
