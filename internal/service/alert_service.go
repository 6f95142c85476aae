package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/venue-booking-console/internal/alert"
	"github.com/iliyamo/venue-booking-console/internal/model"
)

// BookingSource supplies the booking set the alert engine evaluates.
// The booking repository satisfies it.
type BookingSource interface {
	ListActive(ctx context.Context) ([]model.Booking, error)
}

// AlertService owns the current alert picture.  Definitions are rebuilt
// from the active booking set on every booking mutation and on a coarse
// periodic tick, so date-relative rules (follow-up window, past
// bookings) age correctly without requiring an edit.  The merge with
// stored resolutions happens on read; resolving or dismissing an alert
// therefore shows up immediately without a rebuild.
type AlertService struct {
	bookings BookingSource
	store    *alert.ResolutionStore

	mu          sync.RWMutex
	definitions []alert.AlertDefinition
	refreshedAt time.Time
}

func NewAlertService(bookings BookingSource, store *alert.ResolutionStore) *AlertService {
	return &AlertService{bookings: bookings, store: store}
}

// Refresh rebuilds the alert definitions from the active booking set
// against the current wall clock.
func (s *AlertService) Refresh(ctx context.Context) error {
	active, err := s.bookings.ListActive(ctx)
	if err != nil {
		return err
	}
	defs := alert.BuildAlerts(active, time.Now())
	s.mu.Lock()
	s.definitions = defs
	s.refreshedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

// Invalidate refreshes after a booking mutation.  A failed refresh is
// logged and the previous snapshot stays in place; the next tick will
// retry.
func (s *AlertService) Invalidate(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("alerts: refresh after booking change failed: %v", err)
	}
}

// Start runs the periodic reference-time refresh until ctx is
// cancelled.  The interval is coarse (a minute by default); the engine
// itself is cheap enough to rerun wholesale.
func (s *AlertService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.Refresh(ctx); err != nil {
					log.Printf("alerts: periodic refresh failed: %v", err)
				}
			}
		}
	}()
}

// Current returns the merged alert list: fresh definitions overlaid
// with any stored resolutions.
func (s *AlertService) Current() []alert.AlertWithResolution {
	s.mu.RLock()
	defs := s.definitions
	s.mu.RUnlock()
	return alert.MergeAlerts(defs, s.store.Snapshot())
}

// ForBooking returns the ACTIVE alerts for one booking, most severe
// first, for the booking-detail panel.
func (s *AlertService) ForBooking(bookingID uint64) []alert.AlertWithResolution {
	out := alert.ActiveForBooking(s.Current(), bookingID)
	alert.SortBySeverity(out)
	return out
}

// ForSlot returns the merged alerts scoped to a candidate date+slot,
// used by the booking form as a live preview while composing a booking.
func (s *AlertService) ForSlot(dateKey string, slot model.Slot) []alert.AlertWithResolution {
	out := make([]alert.AlertWithResolution, 0)
	for _, a := range s.Current() {
		if a.DateKey == dateKey && a.Slot == slot {
			out = append(out, a)
		}
	}
	alert.SortBySeverity(out)
	return out
}

// Resolve, Dismiss and Reopen delegate to the resolution store.  The
// alert id does not have to occur in the current definitions: a stray
// resolution simply sits unused until its id recurs.

func (s *AlertService) Resolve(ctx context.Context, alertID, note string) {
	s.store.Resolve(ctx, alertID, note)
}

func (s *AlertService) Dismiss(ctx context.Context, alertID, note string) {
	s.store.Dismiss(ctx, alertID, note)
}

func (s *AlertService) Reopen(ctx context.Context, alertID string) {
	s.store.Reopen(ctx, alertID)
}

// RefreshedAt reports when definitions were last rebuilt.
func (s *AlertService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
