package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/venue-booking-console/internal/model"
)

// Thresholds for the per-booking volume rules.  Guest counts at or
// above HighGuestThreshold and advances at or above HighAdvanceThreshold
// are flagged for manager attention.
const (
	HighGuestThreshold   = 1500
	HighAdvanceThreshold = 200000
	// FollowUpWindowDays is the inclusive number of days ahead within
	// which open inquiries and tentative bookings need a follow-up.
	FollowUpWindowDays = 15
)

// hallUsage accumulates per (date, slot, hall) capacity data across all
// bookings sharing that key.  Capacity takes the max observed value:
// capacities should be uniform per hall, but the aggregate tolerates
// variance.  The sample booking is the one contributing the largest
// single guests-here figure; the `>=` comparison means the last booking
// seen wins a tie.  It is used only so the alert can deep-link somewhere
// concrete.
type hallUsage struct {
	dateKey      string
	slot         model.Slot
	hallCode     string
	used         int
	capacity     int
	events       int
	sampleID     uint64
	sampleGuests int
}

// bookingIndex is the result of the single indexing pass over the
// booking list.  Key order slices preserve first-seen order so the
// emitted alert array is deterministic for a fixed input.
type bookingIndex struct {
	daySlotKeys []string
	daySlot     map[string][]*model.Booking

	hallKeys   []string
	hallGroups map[string][]*model.Booking
	usage      map[string]*hallUsage
}

func indexBookings(bookings []model.Booking) *bookingIndex {
	idx := &bookingIndex{
		daySlot:    make(map[string][]*model.Booking),
		hallGroups: make(map[string][]*model.Booking),
		usage:      make(map[string]*hallUsage),
	}
	for i := range bookings {
		b := &bookings[i]
		dayKey := b.DateKey() + "|" + string(b.Slot)
		if _, ok := idx.daySlot[dayKey]; !ok {
			idx.daySlotKeys = append(idx.daySlotKeys, dayKey)
		}
		idx.daySlot[dayKey] = append(idx.daySlot[dayKey], b)

		for _, h := range b.Halls {
			hallKey := dayKey + "|" + h.HallCode
			if _, ok := idx.hallGroups[hallKey]; !ok {
				idx.hallKeys = append(idx.hallKeys, hallKey)
				idx.usage[hallKey] = &hallUsage{
					dateKey:  b.DateKey(),
					slot:     b.Slot,
					hallCode: h.HallCode,
				}
			}
			idx.hallGroups[hallKey] = append(idx.hallGroups[hallKey], b)

			u := idx.usage[hallKey]
			u.used += h.GuestsHere
			c := h.Capacity
			if c == 0 {
				c = model.DefaultHallCapacity
			}
			if c > u.capacity {
				u.capacity = c
			}
			u.events++
			if h.GuestsHere >= u.sampleGuests {
				u.sampleGuests = h.GuestsHere
				u.sampleID = b.ID
			}
		}
	}
	return idx
}

// BuildAlerts scans the booking collection against the reference
// instant and returns the complete alert set.  It is a pure function:
// no side effects, no hidden state, safe to call on every recompute.
// Soft-deleted bookings are expected to be filtered out by the caller.
//
// Output order is fixed: capacity overrides, performance conflicts,
// then the per-booking rules in booking order, then complex multi-hall
// findings.  Consumers sort by severity themselves rather than relying
// on this order.
func BuildAlerts(bookings []model.Booking, now time.Time) []AlertDefinition {
	idx := indexBookings(bookings)
	today := dateOnly(now)
	alerts := make([]AlertDefinition, 0)

	// Slot-level aggregate capacity check: fires on cumulative
	// overbooking across every booking in the hall/slot, not just a
	// single oversized event.  The comparison is literally used >
	// capacity, including for a (never normally produced) zero
	// capacity.
	for _, key := range idx.hallKeys {
		u := idx.usage[key]
		if u.used <= u.capacity {
			continue
		}
		sampleID := u.sampleID
		alerts = append(alerts, AlertDefinition{
			ID:       fmt.Sprintf("cap-%s-%s-%s", u.dateKey, u.slot, u.hallCode),
			Type:     TypeCapacityOverride,
			Severity: SeverityCritical,
			Title:    fmt.Sprintf("Hall %s over capacity", u.hallCode),
			Message: fmt.Sprintf("Hall %s on %s (%s) is booked for %d guests against a capacity of %d across %d event(s).",
				u.hallCode, u.dateKey, u.slot, u.used, u.capacity, u.events),
			Sub:       fmt.Sprintf("Largest booking: #%d", u.sampleID),
			BookingID: &sampleID,
			DateKey:   u.dateKey,
			Slot:      u.slot,
		})
	}

	// A performance normally has hall exclusivity; sharing the hall
	// with other events in the same slot is flagged, not blocked.
	for _, key := range idx.hallKeys {
		group := idx.hallGroups[key]
		if len(group) < 2 {
			continue
		}
		var performer *model.Booking
		for _, b := range group {
			if b.HasPerformance {
				performer = b
				break
			}
		}
		if performer == nil {
			continue
		}
		u := idx.usage[key]
		performerID := performer.ID
		alerts = append(alerts, AlertDefinition{
			ID:       fmt.Sprintf("perf-conflict-%s-%s-%s", u.dateKey, u.slot, u.hallCode),
			Type:     TypePerformanceConflict,
			Severity: SeverityWarning,
			Title:    fmt.Sprintf("Performance shares hall %s", u.hallCode),
			Message: fmt.Sprintf("%d bookings share hall %s on %s (%s) and at least one includes a performance. Performances usually need hall exclusivity.",
				len(group), u.hallCode, u.dateKey, u.slot),
			Sub:       fmt.Sprintf("Performance booking: #%d", performer.ID),
			BookingID: &performerID,
			DateKey:   u.dateKey,
			Slot:      u.slot,
		})
	}

	for i := range bookings {
		alerts = appendBookingAlerts(alerts, &bookings[i], today)
	}

	// Slots with enough concurrent multi-hall complexity warrant a
	// manual review even without a capacity breach.  The acceptance
	// condition is deliberately kept as-is: two or more multi-hall
	// bookings, or three or more bookings overall.
	for _, key := range idx.daySlotKeys {
		group := idx.daySlot[key]
		if len(group) < 2 {
			continue
		}
		multiHall := 0
		for _, b := range group {
			if b.UsesMultipleHalls() {
				multiHall++
			}
		}
		if multiHall < 2 && len(group) < 3 {
			continue
		}
		first := group[0]
		alerts = append(alerts, AlertDefinition{
			ID:       fmt.Sprintf("complex-multihall-%s-%s", first.DateKey(), first.Slot),
			Type:     TypeComplexMultiHall,
			Severity: SeverityInfo,
			Title:    "Busy multi-hall slot",
			Message: fmt.Sprintf("%d bookings on %s (%s), %d of them spanning multiple halls. Worth a manual run-through of the floor plan.",
				len(group), first.DateKey(), first.Slot, multiHall),
			DateKey: first.DateKey(),
			Slot:    first.Slot,
		})
	}

	return alerts
}

// appendBookingAlerts runs the six per-booking rules in a fixed order.
// Each rule emits at most one alert; ids embed the booking id so rules
// never collide across bookings.
func appendBookingAlerts(alerts []AlertDefinition, b *model.Booking, today time.Time) []AlertDefinition {
	id := b.ID
	eventDay := dateOnly(b.EventDate)
	daysAhead := int(eventDay.Sub(today).Hours() / 24)
	openStatus := b.Status == model.StatusInquiry || b.Status == model.StatusTentative

	if openStatus && daysAhead >= 0 && daysAhead <= FollowUpWindowDays {
		when := humanDays(daysAhead)
		title := "Follow up on inquiry"
		msg := fmt.Sprintf("Inquiry %s is %s (%s, %s) and has not been progressed.",
			b.Reference, when, b.DateKey(), b.Slot)
		if b.Status == model.StatusTentative {
			title = "Confirm or release tentative booking"
			msg = fmt.Sprintf("Tentative booking %s is %s (%s, %s). Confirm it or release the slot.",
				b.Reference, when, b.DateKey(), b.Slot)
		}
		alerts = append(alerts, AlertDefinition{
			ID:        fmt.Sprintf("soft-follow-%d", id),
			Type:      TypeFollowUpDue,
			Severity:  SeverityWarning,
			Title:     title,
			Message:   msg,
			Sub:       b.CustomerName,
			BookingID: &b.ID,
			DateKey:   b.DateKey(),
			Slot:      b.Slot,
		})
	}

	if eventDay.Before(today) && b.Status != model.StatusCompleted && b.Status != model.StatusCancelled {
		alerts = append(alerts, AlertDefinition{
			ID:       fmt.Sprintf("past-open-%d", id),
			Type:     TypePastNotClosed,
			Severity: SeverityWarning,
			Title:    "Past booking left open",
			Message: fmt.Sprintf("Booking %s on %s (%s) is in the past but still %s. Mark it completed or cancelled.",
				b.Reference, b.DateKey(), b.Slot, b.Status),
			Sub:       b.CustomerName,
			BookingID: &b.ID,
			DateKey:   b.DateKey(),
			Slot:      b.Slot,
		})
	}

	var missing []string
	if strings.TrimSpace(b.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(b.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		alerts = append(alerts, AlertDefinition{
			ID:        fmt.Sprintf("missing-contact-%d", id),
			Type:      TypeMissingContact,
			Severity:  SeverityInfo,
			Title:     "Missing contact details",
			Message:   fmt.Sprintf("Booking %s has no %s on file.", b.Reference, strings.Join(missing, " or ")),
			Sub:       b.CustomerName,
			BookingID: &b.ID,
			DateKey:   b.DateKey(),
			Slot:      b.Slot,
		})
	}

	// Only evaluated when a split was actually entered: with both
	// per-hall counts nil there is nothing to cross-check.
	if b.HallAGuests != nil || b.HallBGuests != nil {
		total := intOrZero(b.TotalGuests)
		split := intOrZero(b.HallAGuests) + intOrZero(b.HallBGuests)
		if total != 0 && split != total {
			alerts = append(alerts, AlertDefinition{
				ID:       fmt.Sprintf("split-mismatch-%d", id),
				Type:     TypeGuestSplitMismatch,
				Severity: SeverityInfo,
				Title:    "Guest split does not add up",
				Message: fmt.Sprintf("Booking %s records %d total guests but the hall split sums to %d.",
					b.Reference, total, split),
				BookingID: &b.ID,
				DateKey:   b.DateKey(),
				Slot:      b.Slot,
			})
		}
	}

	if b.TotalGuests != nil && *b.TotalGuests >= HighGuestThreshold {
		alerts = append(alerts, AlertDefinition{
			ID:        fmt.Sprintf("high-guests-%d", id),
			Type:      TypeHighGuestCount,
			Severity:  SeverityInfo,
			Title:     "Very large event",
			Message:   fmt.Sprintf("Booking %s expects %d guests.", b.Reference, *b.TotalGuests),
			Sub:       b.CustomerName,
			BookingID: &b.ID,
			DateKey:   b.DateKey(),
			Slot:      b.Slot,
		})
	}

	if b.Advance != nil && b.Advance.Amount >= HighAdvanceThreshold {
		alerts = append(alerts, AlertDefinition{
			ID:        fmt.Sprintf("high-advance-%d", id),
			Type:      TypeHighAdvanceValue,
			Severity:  SeverityInfo,
			Title:     "High-value advance received",
			Message:   fmt.Sprintf("Booking %s carries an advance of %d via %s.", b.Reference, b.Advance.Amount, b.Advance.Method),
			Sub:       b.CustomerName,
			BookingID: &b.ID,
			DateKey:   b.DateKey(),
			Slot:      b.Slot,
		})
	}

	return alerts
}

// dateOnly truncates an instant to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func humanDays(n int) string {
	switch n {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", n)
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
