package alert

import "sort"

// MergeAlerts joins fresh definitions with the stored resolution map.
// The effective status is the resolution status when one exists and
// ACTIVE otherwise.  Resolutions whose alert id no longer occurs are
// simply not matched; they stay in storage until the id recurs.
func MergeAlerts(defs []AlertDefinition, resolutions map[string]AlertResolution) []AlertWithResolution {
	out := make([]AlertWithResolution, 0, len(defs))
	for _, def := range defs {
		merged := AlertWithResolution{AlertDefinition: def, EffectiveStatus: StatusActive}
		if res, ok := resolutions[def.ID]; ok {
			r := res
			merged.Resolution = &r
			merged.EffectiveStatus = res.Status
		}
		out = append(out, merged)
	}
	return out
}

// ActiveForBooking returns the ACTIVE alerts linked to one booking.
// Resolved and dismissed alerts are hidden here; consumers wanting the
// full history filter the merged list themselves.
func ActiveForBooking(merged []AlertWithResolution, bookingID uint64) []AlertWithResolution {
	out := make([]AlertWithResolution, 0)
	for _, a := range merged {
		if a.BookingID == nil || *a.BookingID != bookingID {
			continue
		}
		if a.EffectiveStatus != StatusActive {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortBySeverity orders alerts most severe first, keeping the engine's
// construction order within a severity band.
func SortBySeverity(alerts []AlertWithResolution) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return SeverityRank(string(alerts[i].Severity)) > SeverityRank(string(alerts[j].Severity))
	})
}
