package alert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-console/internal/alert"
)

func def(id string, sev alert.Severity, bookingID uint64) alert.AlertDefinition {
	d := alert.AlertDefinition{ID: id, Type: alert.TypeHighGuestCount, Severity: sev}
	if bookingID != 0 {
		d.BookingID = &bookingID
	}
	return d
}

func TestMergeAlerts(t *testing.T) {
	defs := []alert.AlertDefinition{
		def("a-1", alert.SeverityWarning, 1),
		def("a-2", alert.SeverityInfo, 2),
	}
	resolutions := map[string]alert.AlertResolution{
		"a-2": {AlertID: "a-2", Status: alert.StatusDismissed, Note: "fine", UpdatedAt: time.Now()},
		"a-9": {AlertID: "a-9", Status: alert.StatusResolved}, // no longer occurs
	}

	merged := alert.MergeAlerts(defs, resolutions)
	require.Len(t, merged, 2, "unmatched resolutions never become list entries")

	assert.Equal(t, alert.StatusActive, merged[0].EffectiveStatus)
	assert.Nil(t, merged[0].Resolution)

	assert.Equal(t, alert.StatusDismissed, merged[1].EffectiveStatus)
	require.NotNil(t, merged[1].Resolution)
	assert.Equal(t, "fine", merged[1].Resolution.Note)
}

func TestActiveForBooking(t *testing.T) {
	defs := []alert.AlertDefinition{
		def("mine-active", alert.SeverityWarning, 5),
		def("mine-dismissed", alert.SeverityWarning, 5),
		def("other-booking", alert.SeverityWarning, 6),
		def("slot-level", alert.SeverityInfo, 0), // no booking link
	}
	merged := alert.MergeAlerts(defs, map[string]alert.AlertResolution{
		"mine-dismissed": {AlertID: "mine-dismissed", Status: alert.StatusDismissed},
	})

	out := alert.ActiveForBooking(merged, 5)
	require.Len(t, out, 1)
	assert.Equal(t, "mine-active", out[0].ID)
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 3, alert.SeverityRank("critical"))
	assert.Equal(t, 3, alert.SeverityRank("CRITICAL"))
	assert.Equal(t, 2, alert.SeverityRank("Warning"))
	assert.Equal(t, 1, alert.SeverityRank("info"))
	assert.Equal(t, 0, alert.SeverityRank("unknown"))
	assert.Equal(t, 0, alert.SeverityRank(""))
}

func TestSortBySeverityIsStable(t *testing.T) {
	merged := alert.MergeAlerts([]alert.AlertDefinition{
		def("info-1", alert.SeverityInfo, 0),
		def("warn-1", alert.SeverityWarning, 0),
		def("crit-1", alert.SeverityCritical, 0),
		def("warn-2", alert.SeverityWarning, 0),
	}, nil)

	alert.SortBySeverity(merged)

	ids := make([]string, 0, len(merged))
	for _, a := range merged {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"crit-1", "warn-1", "warn-2", "info-1"}, ids)
}
