package alert_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-console/internal/alert"
	"github.com/iliyamo/venue-booking-console/internal/model"
)

// The reference instant for every engine test.  Date-relative rules are
// asserted against this frozen clock.
var testNow = time.Date(2025, 11, 1, 10, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// confirmed returns a future CONFIRMED booking with complete contact
// data, i.e. one that triggers none of the per-booking rules on its
// own.  Tests layer the condition under test on top.
func confirmed(id uint64, date string, slot model.Slot) model.Booking {
	return model.Booking{
		ID:           id,
		Reference:    fmt.Sprintf("BK-%03d", id),
		EventDate:    day(date),
		Slot:         slot,
		Status:       model.StatusConfirmed,
		CustomerName: fmt.Sprintf("Customer %d", id),
		Phone:        "555-0101",
		Address:      "12 Canal Road",
	}
}

func withHall(b model.Booking, code string, capacity, guests int) model.Booking {
	b.Halls = append(b.Halls, model.HallAllocation{HallCode: code, Capacity: capacity, GuestsHere: guests})
	return b
}

func ofType(alerts []alert.AlertDefinition, t alert.AlertType) []alert.AlertDefinition {
	out := make([]alert.AlertDefinition, 0)
	for _, a := range alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func byID(alerts []alert.AlertDefinition, id string) (alert.AlertDefinition, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return alert.AlertDefinition{}, false
}

func TestBuildAlertsEmptyInput(t *testing.T) {
	assert.Empty(t, alert.BuildAlerts(nil, testNow))
	assert.Empty(t, alert.BuildAlerts([]model.Booking{}, testNow))
}

func TestBuildAlertsDeterministic(t *testing.T) {
	bookings := []model.Booking{
		withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 700),
		withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 400),
		withHall(withHall(confirmed(3, "2025-11-15", model.SlotDinner), "A", 1000, 100), "B", 1000, 100),
		confirmed(4, "2025-10-20", model.SlotLunch), // past, still CONFIRMED
	}
	bookings[3].Phone = ""

	first := alert.BuildAlerts(bookings, testNow)
	second := alert.BuildAlerts(bookings, testNow)
	require.NotEmpty(t, first)
	// Exact equality including order: construction order is fixed.
	assert.Equal(t, first, second)
}

func TestCapacityAggregateNotPerBooking(t *testing.T) {
	// Three bookings that individually fit but cumulatively overbook
	// hall A for the slot: 400+350+350=1100 against 1000.
	bookings := []model.Booking{
		withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 400),
		withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 350),
		withHall(confirmed(3, "2025-11-15", model.SlotDinner), "A", 1000, 350),
	}
	alerts := alert.BuildAlerts(bookings, testNow)

	caps := ofType(alerts, alert.TypeCapacityOverride)
	require.Len(t, caps, 1)
	a := caps[0]
	assert.Equal(t, "cap-2025-11-15-DINNER-A", a.ID)
	assert.Equal(t, alert.SeverityCritical, a.Severity)
	assert.Contains(t, a.Message, "1100")
	assert.Contains(t, a.Message, "1000")
	assert.Contains(t, a.Message, "3")
	// Sample booking is the largest single contribution.
	require.NotNil(t, a.BookingID)
	assert.Equal(t, uint64(1), *a.BookingID)
	assert.Equal(t, "2025-11-15", a.DateKey)
	assert.Equal(t, model.SlotDinner, a.Slot)
}

func TestCapacitySampleTieBreakLastWins(t *testing.T) {
	bookings := []model.Booking{
		withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 600),
		withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 600),
	}
	alerts := alert.BuildAlerts(bookings, testNow)
	caps := ofType(alerts, alert.TypeCapacityOverride)
	require.Len(t, caps, 1)
	require.NotNil(t, caps[0].BookingID)
	assert.Equal(t, uint64(2), *caps[0].BookingID, "equal contributions: the later booking wins")
}

func TestCapacityAtLimitDoesNotFire(t *testing.T) {
	bookings := []model.Booking{
		withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 600),
		withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 400),
	}
	alerts := alert.BuildAlerts(bookings, testNow)
	assert.Empty(t, ofType(alerts, alert.TypeCapacityOverride))
}

func TestPerformanceConflict(t *testing.T) {
	t.Run("single performance alone does not fire", func(t *testing.T) {
		b := withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 300)
		b.HasPerformance = true
		alerts := alert.BuildAlerts([]model.Booking{b}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypePerformanceConflict))
	})

	t.Run("shared hall without performance does not fire", func(t *testing.T) {
		bookings := []model.Booking{
			withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 300),
			withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 300),
		}
		alerts := alert.BuildAlerts(bookings, testNow)
		assert.Empty(t, ofType(alerts, alert.TypePerformanceConflict))
	})

	t.Run("shared hall with one performance fires once", func(t *testing.T) {
		performer := withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 300)
		performer.HasPerformance = true
		bookings := []model.Booking{
			performer,
			withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 300),
		}
		alerts := alert.BuildAlerts(bookings, testNow)
		conflicts := ofType(alerts, alert.TypePerformanceConflict)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "perf-conflict-2025-11-15-DINNER-A", conflicts[0].ID)
		assert.Equal(t, alert.SeverityWarning, conflicts[0].Severity)
	})
}

func TestFollowUpWindowBoundary(t *testing.T) {
	today := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id uint64, date time.Time, status model.BookingStatus) model.Booking {
		b := confirmed(id, date.Format("2006-01-02"), model.SlotLunch)
		b.Status = status
		return b
	}

	bookings := []model.Booking{
		mk(1, today.AddDate(0, 0, 15), model.StatusTentative), // inclusive edge
		mk(2, today.AddDate(0, 0, 16), model.StatusTentative), // beyond the window
		mk(3, today.AddDate(0, 0, -1), model.StatusTentative), // yesterday
		mk(4, today, model.StatusInquiry),                     // due today
		mk(5, today.AddDate(0, 0, 10), model.StatusConfirmed), // not an open status
	}
	alerts := alert.BuildAlerts(bookings, testNow)

	_, ok := byID(alerts, "soft-follow-1")
	assert.True(t, ok, "today+15 is inside the window")
	_, ok = byID(alerts, "soft-follow-2")
	assert.False(t, ok, "today+16 is outside the window")
	_, ok = byID(alerts, "soft-follow-3")
	assert.False(t, ok, "past bookings are not follow-ups")
	_, ok = byID(alerts, "past-open-3")
	assert.True(t, ok, "open past bookings surface as past-not-closed")
	_, ok = byID(alerts, "soft-follow-5")
	assert.False(t, ok)

	// Title wording differs between inquiry and tentative.
	tentative, _ := byID(alerts, "soft-follow-1")
	inquiry, _ := byID(alerts, "soft-follow-4")
	assert.NotEqual(t, tentative.Title, inquiry.Title)
	assert.Contains(t, tentative.Title, "tentative")
	assert.Contains(t, inquiry.Title, "inquiry")
}

func TestPastNotClosed(t *testing.T) {
	mk := func(id uint64, status model.BookingStatus) model.Booking {
		b := confirmed(id, "2025-10-20", model.SlotDinner)
		b.Status = status
		return b
	}
	alerts := alert.BuildAlerts([]model.Booking{
		mk(1, model.StatusConfirmed),
		mk(2, model.StatusCompleted),
		mk(3, model.StatusCancelled),
	}, testNow)

	past := ofType(alerts, alert.TypePastNotClosed)
	require.Len(t, past, 1)
	assert.Equal(t, "past-open-1", past[0].ID)
}

func TestMissingContact(t *testing.T) {
	b := confirmed(7, "2025-12-01", model.SlotLunch)
	b.Phone = "  " // blank counts as missing
	alerts := alert.BuildAlerts([]model.Booking{b}, testNow)

	missing := ofType(alerts, alert.TypeMissingContact)
	require.Len(t, missing, 1)
	assert.Equal(t, "missing-contact-7", missing[0].ID)
	assert.Contains(t, missing[0].Message, "phone")
	assert.NotContains(t, missing[0].Message, "address")
}

func TestGuestSplitMismatch(t *testing.T) {
	intp := func(n int) *int { return &n }

	t.Run("no split entered means no check", func(t *testing.T) {
		b := confirmed(1, "2025-12-01", model.SlotDinner)
		b.TotalGuests = intp(500)
		alerts := alert.BuildAlerts([]model.Booking{b}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypeGuestSplitMismatch))
	})

	t.Run("partial split that does not add up fires", func(t *testing.T) {
		b := confirmed(2, "2025-12-01", model.SlotDinner)
		b.TotalGuests = intp(500)
		b.HallAGuests = intp(200)
		alerts := alert.BuildAlerts([]model.Booking{b}, testNow)
		mismatches := ofType(alerts, alert.TypeGuestSplitMismatch)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "split-mismatch-2", mismatches[0].ID)
	})

	t.Run("matching split stays quiet", func(t *testing.T) {
		b := confirmed(3, "2025-12-01", model.SlotDinner)
		b.TotalGuests = intp(500)
		b.HallAGuests = intp(300)
		b.HallBGuests = intp(200)
		alerts := alert.BuildAlerts([]model.Booking{b}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypeGuestSplitMismatch))
	})

	t.Run("zero total is not checked", func(t *testing.T) {
		b := confirmed(4, "2025-12-01", model.SlotDinner)
		b.TotalGuests = intp(0)
		b.HallAGuests = intp(200)
		alerts := alert.BuildAlerts([]model.Booking{b}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypeGuestSplitMismatch))
	})
}

func TestVolumeThresholds(t *testing.T) {
	intp := func(n int) *int { return &n }

	big := confirmed(1, "2025-12-01", model.SlotDinner)
	big.TotalGuests = intp(1500)
	almost := confirmed(2, "2025-12-01", model.SlotDinner)
	almost.TotalGuests = intp(1499)
	rich := confirmed(3, "2025-12-02", model.SlotLunch)
	rich.Advance = &model.AdvancePayment{Amount: 200000, Method: "bank transfer"}
	modest := confirmed(4, "2025-12-02", model.SlotLunch)
	modest.Advance = &model.AdvancePayment{Amount: 199999, Method: "cash"}

	alerts := alert.BuildAlerts([]model.Booking{big, almost, rich, modest}, testNow)

	_, ok := byID(alerts, "high-guests-1")
	assert.True(t, ok)
	_, ok = byID(alerts, "high-guests-2")
	assert.False(t, ok)
	_, ok = byID(alerts, "high-advance-3")
	assert.True(t, ok)
	_, ok = byID(alerts, "high-advance-4")
	assert.False(t, ok)
}

func TestComplexMultiHallThreshold(t *testing.T) {
	twoHalls := func(id uint64) model.Booking {
		return withHall(withHall(confirmed(id, "2025-12-05", model.SlotDinner), "A", 1000, 100), "B", 1000, 100)
	}
	oneHall := func(id uint64) model.Booking {
		return withHall(confirmed(id, "2025-12-05", model.SlotDinner), "A", 1000, 100)
	}

	t.Run("two multi-hall bookings fire", func(t *testing.T) {
		alerts := alert.BuildAlerts([]model.Booking{twoHalls(1), twoHalls(2)}, testNow)
		findings := ofType(alerts, alert.TypeComplexMultiHall)
		require.Len(t, findings, 1)
		assert.Equal(t, "complex-multihall-2025-12-05-DINNER", findings[0].ID)
	})

	t.Run("two single-hall bookings stay quiet", func(t *testing.T) {
		alerts := alert.BuildAlerts([]model.Booking{oneHall(1), oneHall(2)}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypeComplexMultiHall))
	})

	t.Run("three bookings fire regardless of halls", func(t *testing.T) {
		alerts := alert.BuildAlerts([]model.Booking{oneHall(1), oneHall(2), oneHall(3)}, testNow)
		assert.Len(t, ofType(alerts, alert.TypeComplexMultiHall), 1)
	})

	t.Run("a lone booking never counts as complex", func(t *testing.T) {
		alerts := alert.BuildAlerts([]model.Booking{twoHalls(1)}, testNow)
		assert.Empty(t, ofType(alerts, alert.TypeComplexMultiHall))
	})
}

func TestAlertIDStableAcrossUnrelatedChanges(t *testing.T) {
	base := []model.Booking{
		withHall(confirmed(1, "2025-11-15", model.SlotDinner), "A", 1000, 700),
		withHall(confirmed(2, "2025-11-15", model.SlotDinner), "A", 1000, 400),
	}
	before := alert.BuildAlerts(base, testNow)
	capBefore, ok := byID(before, "cap-2025-11-15-DINNER-A")
	require.True(t, ok)

	// An unrelated booking on another day must not disturb the id or
	// the alert's content.
	extra := append(append([]model.Booking{}, base...),
		withHall(confirmed(99, "2025-12-24", model.SlotLunch), "B", 1000, 50))
	after := alert.BuildAlerts(extra, testNow)
	capAfter, ok := byID(after, "cap-2025-11-15-DINNER-A")
	require.True(t, ok)
	assert.Equal(t, capBefore, capAfter)
}
