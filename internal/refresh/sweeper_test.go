package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeLister struct {
	phones []string
	err    error
}

func (f *fakeLister) ListStaleInProgress(context.Context, time.Duration) ([]string, error) {
	return f.phones, f.err
}

type fakeRefresher struct {
	refreshed []string
	failOn    string
}

func (f *fakeRefresher) RefreshPrompt(_ context.Context, phone string) error {
	if phone == f.failOn {
		return errors.New("push failed")
	}
	f.refreshed = append(f.refreshed, phone)
	return nil
}

type fakeMerger struct {
	merged int
	calls  int
	err    error
}

func (f *fakeMerger) MergeDuplicates(context.Context) (int, error) {
	f.calls++
	return f.merged, f.err
}

func newSweeper(l Lister, r Refresher, m Merger) *Sweeper {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(l, r, m, time.Minute, 30*time.Minute, logger)
}

func TestSweepRefreshesStaleCustomers(t *testing.T) {
	lister := &fakeLister{phones: []string{"+1", "+2", "+3"}}
	refresher := &fakeRefresher{}
	merger := &fakeMerger{}

	newSweeper(lister, refresher, merger).Sweep(context.Background())

	assert.Equal(t, []string{"+1", "+2", "+3"}, refresher.refreshed)
	assert.Equal(t, 1, merger.calls)
}

func TestSweepOneFailureDoesNotAbortBatch(t *testing.T) {
	lister := &fakeLister{phones: []string{"+1", "+2", "+3"}}
	refresher := &fakeRefresher{failOn: "+2"}

	newSweeper(lister, refresher, &fakeMerger{}).Sweep(context.Background())

	assert.Equal(t, []string{"+1", "+3"}, refresher.refreshed)
}

func TestSweepListingFailureSkipsPass(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	refresher := &fakeRefresher{}
	merger := &fakeMerger{}

	newSweeper(lister, refresher, merger).Sweep(context.Background())

	assert.Empty(t, refresher.refreshed)
	assert.Zero(t, merger.calls, "merge must not run when listing fails")
}

func TestSweepMergeFailureIsNonFatal(t *testing.T) {
	lister := &fakeLister{phones: []string{"+1"}}
	refresher := &fakeRefresher{}
	merger := &fakeMerger{err: errors.New("merge broke")}

	newSweeper(lister, refresher, merger).Sweep(context.Background())

	assert.Equal(t, []string{"+1"}, refresher.refreshed)
}

func TestSweepWithoutMerger(t *testing.T) {
	lister := &fakeLister{phones: []string{"+1"}}
	refresher := &fakeRefresher{}

	newSweeper(lister, refresher, nil).Sweep(context.Background())

	assert.Equal(t, []string{"+1"}, refresher.refreshed)
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	lister := &fakeLister{phones: []string{"+1", "+2"}}
	refresher := &fakeRefresher{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	newSweeper(lister, refresher, nil).Sweep(ctx)

	assert.Empty(t, refresher.refreshed)
}

func TestRunExitsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(&fakeLister{}, &fakeRefresher{}, nil, time.Millisecond, time.Minute, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after cancel")
	}
}
