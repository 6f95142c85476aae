package alert_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-console/internal/alert"
)

// fakeKV is an in-memory KVStore double.  The fail flags simulate a
// broken backend; the store must keep working from memory regardless.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string]string)} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", errors.New("kv down")
	}
	val, ok := f.data[key]
	if !ok {
		return "", alert.ErrKeyNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("kv down")
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) seed(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func TestResolutionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := alert.NewResolutionStore(ctx, newFakeKV(), "")

	_, ok := store.Get("cap-2025-11-15-DINNER-A")
	require.False(t, ok, "untouched alerts have no record")

	store.Dismiss(ctx, "cap-2025-11-15-DINNER-A", "approved overflow seating")
	res, ok := store.Get("cap-2025-11-15-DINNER-A")
	require.True(t, ok)
	assert.Equal(t, alert.StatusDismissed, res.Status)
	assert.Equal(t, "approved overflow seating", res.Note)
	assert.False(t, res.UpdatedAt.IsZero())

	store.Resolve(ctx, "cap-2025-11-15-DINNER-A", "moved one party to hall B")
	res, _ = store.Get("cap-2025-11-15-DINNER-A")
	assert.Equal(t, alert.StatusResolved, res.Status)
	assert.Equal(t, "moved one party to hall B", res.Note)

	store.Reopen(ctx, "cap-2025-11-15-DINNER-A")
	_, ok = store.Get("cap-2025-11-15-DINNER-A")
	assert.False(t, ok, "reopen removes the record entirely")
}

func TestReopenUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := alert.NewResolutionStore(ctx, newFakeKV(), "")
	store.Reopen(ctx, "never-seen")
	assert.Empty(t, store.Snapshot())
}

func TestResolveKeepsEarlierNote(t *testing.T) {
	ctx := context.Background()
	store := alert.NewResolutionStore(ctx, newFakeKV(), "")

	store.Dismiss(ctx, "high-guests-7", "customer confirmed headcount")
	store.Resolve(ctx, "high-guests-7", "  ") // blank note: keep the old one
	res, ok := store.Get("high-guests-7")
	require.True(t, ok)
	assert.Equal(t, alert.StatusResolved, res.Status)
	assert.Equal(t, "customer confirmed headcount", res.Note)
}

func TestDismissAlwaysReplacesNote(t *testing.T) {
	ctx := context.Background()
	store := alert.NewResolutionStore(ctx, newFakeKV(), "")

	store.Dismiss(ctx, "high-guests-7", "first note")
	store.Dismiss(ctx, "high-guests-7", "")
	res, ok := store.Get("high-guests-7")
	require.True(t, ok)
	assert.Equal(t, "", res.Note, "dismissing without a note clears the note")
}

func TestResolutionsSurviveReload(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()

	first := alert.NewResolutionStore(ctx, kv, "test:resolutions")
	first.Dismiss(ctx, "perf-conflict-2025-11-15-DINNER-A", "band plays acoustic")
	first.Resolve(ctx, "soft-follow-3", "")

	second := alert.NewResolutionStore(ctx, kv, "test:resolutions")
	snap := second.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, alert.StatusDismissed, snap["perf-conflict-2025-11-15-DINNER-A"].Status)
	assert.Equal(t, "band plays acoustic", snap["perf-conflict-2025-11-15-DINNER-A"].Note)
	assert.Equal(t, alert.StatusResolved, snap["soft-follow-3"].Status)
}

func TestLoadAcceptsLegacyShapes(t *testing.T) {
	kv := newFakeKV()
	kv.seed("test:resolutions", `{
		"cap-old": {"status": "dismissed", "reason": "known double booking", "dismissedAt": "2025-06-01T08:00:00Z"},
		"soft-old": {"alertId": "soft-old", "status": "RESOLVED", "resolvedAt": "2025-06-02T09:30:00Z"},
		"active-entry": {"alertId": "active-entry", "status": "ACTIVE"},
		"garbage-entry": "not an object",
		"no-status": {"note": "nothing here"}
	}`)

	store := alert.NewResolutionStore(context.Background(), kv, "test:resolutions")
	snap := store.Snapshot()
	require.Len(t, snap, 2, "only resolved/dismissed entries survive the load")

	old := snap["cap-old"]
	assert.Equal(t, "cap-old", old.AlertID, "map key fills a missing alertId")
	assert.Equal(t, alert.StatusDismissed, old.Status)
	assert.Equal(t, "known double booking", old.Note, "legacy reason maps to note")
	assert.Equal(t, "2025-06-01T08:00:00Z", old.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))

	soft := snap["soft-old"]
	assert.Equal(t, alert.StatusResolved, soft.Status)
	assert.Equal(t, "2025-06-02T09:30:00Z", soft.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
}

func TestLoadCorruptRecordStartsEmpty(t *testing.T) {
	kv := newFakeKV()
	kv.seed("test:resolutions", "{{{not json")

	store := alert.NewResolutionStore(context.Background(), kv, "test:resolutions")
	assert.Empty(t, store.Snapshot())
}

func TestFailingBackendIsTolerated(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.failGet = true
	kv.failSet = true

	// Load failure starts empty; write failures keep the in-memory
	// state authoritative for the session.
	store := alert.NewResolutionStore(ctx, kv, "")
	store.Dismiss(ctx, "past-open-9", "event was held as planned")

	res, ok := store.Get("past-open-9")
	require.True(t, ok)
	assert.Equal(t, alert.StatusDismissed, res.Status)
}

func TestNilBackendIsInMemoryOnly(t *testing.T) {
	ctx := context.Background()
	store := alert.NewResolutionStore(ctx, nil, "")
	store.Resolve(ctx, "missing-contact-2", "phone added")

	res, ok := store.Get("missing-contact-2")
	require.True(t, ok)
	assert.Equal(t, alert.StatusResolved, res.Status)
}
