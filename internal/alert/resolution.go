package alert

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"
)

// DefaultResolutionKey is the storage key holding the full resolution
// map as a single durable record.
const DefaultResolutionKey = "venue:alert-resolutions"

// ResolutionStore tracks manager decisions per alert id.  The in-memory
// map is the source of truth for the running session; every mutation is
// written through to the KVStore on a best-effort basis.  A failed read
// or write never surfaces to callers: durability here is deliberate
// best effort, not a correctness guarantee.
type ResolutionStore struct {
	mu         sync.RWMutex
	entries    map[string]AlertResolution
	kv         KVStore
	storageKey string
	now        func() time.Time
}

// NewResolutionStore loads any persisted resolutions from kv and
// returns a ready store.  kv may be nil, in which case the store is
// purely in-memory.  Entries that fail to parse are dropped one by one;
// a corrupt record never aborts the load.
func NewResolutionStore(ctx context.Context, kv KVStore, storageKey string) *ResolutionStore {
	if storageKey == "" {
		storageKey = DefaultResolutionKey
	}
	s := &ResolutionStore{
		entries:    make(map[string]AlertResolution),
		kv:         kv,
		storageKey: storageKey,
		now:        time.Now,
	}
	s.load(ctx)
	return s
}

// Resolve upserts a RESOLVED record for the alert id.  When note is
// blank the previous note, if any, is preserved: resolving without a
// note must not erase an earlier dismissal note.
func (s *ResolutionStore) Resolve(ctx context.Context, alertID, note string) {
	s.mu.Lock()
	res := AlertResolution{
		AlertID:   alertID,
		Status:    StatusResolved,
		Note:      strings.TrimSpace(note),
		UpdatedAt: s.now().UTC(),
	}
	if res.Note == "" {
		res.Note = s.entries[alertID].Note
	}
	s.entries[alertID] = res
	s.mu.Unlock()
	s.persist(ctx)
}

// Dismiss upserts a DISMISSED record for the alert id.  Unlike Resolve,
// the note is always replaced: dismissing without a note clears any
// note stored earlier.
func (s *ResolutionStore) Dismiss(ctx context.Context, alertID, note string) {
	s.mu.Lock()
	s.entries[alertID] = AlertResolution{
		AlertID:   alertID,
		Status:    StatusDismissed,
		Note:      strings.TrimSpace(note),
		UpdatedAt: s.now().UTC(),
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// Reopen deletes the record entirely; the alert reverts to ACTIVE with
// no resolution metadata.  Reopening an unknown id is a no-op.
func (s *ResolutionStore) Reopen(ctx context.Context, alertID string) {
	s.mu.Lock()
	delete(s.entries, alertID)
	s.mu.Unlock()
	s.persist(ctx)
}

// Get returns the stored resolution for an alert id, if any.
func (s *ResolutionStore) Get(alertID string) (AlertResolution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.entries[alertID]
	return res, ok
}

// Snapshot returns a copy of the current resolution map for merging.
func (s *ResolutionStore) Snapshot() map[string]AlertResolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]AlertResolution, len(s.entries))
	for id, res := range s.entries {
		out[id] = res
	}
	return out
}

// rawResolution is the persisted wire shape.  Older records used
// `reason` instead of `note` and `dismissedAt`/`resolvedAt` instead of
// `updatedAt`; those fields are still accepted on load.
type rawResolution struct {
	AlertID     string     `json:"alertId"`
	Status      string     `json:"status"`
	Note        string     `json:"note"`
	Reason      string     `json:"reason"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	DismissedAt *time.Time `json:"dismissedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

// parseResolution normalizes one persisted entry.  The map key is the
// authoritative alert id when the entry itself carries none.  Entries
// whose status does not resolve to RESOLVED or DISMISSED are rejected:
// ACTIVE is represented by absence, so there is nothing to keep.
func parseResolution(key string, data json.RawMessage) (AlertResolution, bool) {
	var raw rawResolution
	if err := json.Unmarshal(data, &raw); err != nil {
		return AlertResolution{}, false
	}
	id := raw.AlertID
	if id == "" {
		id = key
	}
	if id == "" {
		return AlertResolution{}, false
	}

	var status ResolutionStatus
	switch strings.ToUpper(strings.TrimSpace(raw.Status)) {
	case string(StatusResolved):
		status = StatusResolved
	case string(StatusDismissed):
		status = StatusDismissed
	default:
		return AlertResolution{}, false
	}

	note := raw.Note
	if note == "" {
		note = raw.Reason
	}
	var updated time.Time
	switch {
	case raw.UpdatedAt != nil:
		updated = *raw.UpdatedAt
	case raw.ResolvedAt != nil:
		updated = *raw.ResolvedAt
	case raw.DismissedAt != nil:
		updated = *raw.DismissedAt
	}

	return AlertResolution{AlertID: id, Status: status, Note: note, UpdatedAt: updated}, true
}

func (s *ResolutionStore) load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	val, err := s.kv.Get(ctx, s.storageKey)
	if err != nil {
		if err != ErrKeyNotFound {
			log.Printf("alert: loading resolutions failed: %v", err)
		}
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(val), &raw); err != nil {
		log.Printf("alert: stored resolutions unreadable, starting empty: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, data := range raw {
		if res, ok := parseResolution(key, data); ok {
			s.entries[res.AlertID] = res
		}
	}
}

// persist writes the whole map through to the KV store.  Failures are
// logged and otherwise ignored; the in-memory state stays authoritative
// for the session.
func (s *ResolutionStore) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}
	s.mu.RLock()
	data, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		log.Printf("alert: marshaling resolutions failed: %v", err)
		return
	}
	if err := s.kv.Set(ctx, s.storageKey, string(data)); err != nil {
		log.Printf("alert: persisting resolutions failed: %v", err)
	}
}
