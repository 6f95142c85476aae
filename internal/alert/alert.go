// Package alert derives operational alerts from the booking collection
// and tracks manager resolutions for them.  Alert definitions are
// ephemeral: they are rebuilt from scratch on every evaluation and carry
// deterministic identifiers so that stored resolutions survive the
// rebuild.  Resolutions live in a small durable key-value record with a
// lifecycle independent of the bookings themselves.
package alert

import (
	"strings"
	"time"

	"github.com/iliyamo/venue-booking-console/internal/model"
)

// AlertType classifies a derived finding.  The nine families below are
// the complete set; every evaluation runs all of them.
type AlertType string

const (
	TypeCapacityOverride    AlertType = "CAPACITY_OVERRIDE"
	TypePerformanceConflict AlertType = "PERFORMANCE_HALL_CONFLICT"
	TypeFollowUpDue         AlertType = "FOLLOW_UP_DUE"
	TypePastNotClosed       AlertType = "PAST_NOT_CLOSED"
	TypeMissingContact      AlertType = "MISSING_CONTACT"
	TypeGuestSplitMismatch  AlertType = "GUEST_SPLIT_MISMATCH"
	TypeHighGuestCount      AlertType = "HIGH_GUEST_COUNT"
	TypeHighAdvanceValue    AlertType = "HIGH_ADVANCE_VALUE"
	TypeComplexMultiHall    AlertType = "COMPLEX_MULTI_HALL"
)

// Severity grades an alert for sorting and display.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeverityRank maps a severity string to a sortable weight:
// critical=3, warning=2, info=1, anything else 0.  The comparison is
// case-insensitive so stored or client-supplied severities sort the
// same way regardless of casing.
func SeverityRank(s string) int {
	switch strings.ToLower(s) {
	case string(SeverityCritical):
		return 3
	case string(SeverityWarning):
		return 2
	case string(SeverityInfo):
		return 1
	}
	return 0
}

// AlertDefinition is one derived finding.  The ID is built from the
// alert type and the grouping key that produced it (booking id, or
// date+slot+hall), so the same underlying condition always yields the
// same ID across rebuilds.  BookingID is nil for slot-level aggregate
// alerts that are not tied to a single booking.
type AlertDefinition struct {
	ID        string     `json:"id"`
	Type      AlertType  `json:"type"`
	Severity  Severity   `json:"severity"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Sub       string     `json:"sub,omitempty"`
	BookingID *uint64    `json:"booking_id,omitempty"`
	DateKey   string     `json:"date_key,omitempty"`
	Slot      model.Slot `json:"slot,omitempty"`
}

// ResolutionStatus is the lifecycle state of an alert as decided by a
// manager.  ACTIVE is represented by the absence of a stored record;
// it never appears in the persisted map.
type ResolutionStatus string

const (
	StatusActive    ResolutionStatus = "ACTIVE"
	StatusResolved  ResolutionStatus = "RESOLVED"
	StatusDismissed ResolutionStatus = "DISMISSED"
)

// AlertResolution is the persisted manager decision for one alert id.
type AlertResolution struct {
	AlertID   string           `json:"alertId"`
	Status    ResolutionStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// AlertWithResolution is the merged shape consumers see: the fresh
// definition, the stored resolution if any, and the effective status
// (resolution status when present, ACTIVE otherwise).
type AlertWithResolution struct {
	AlertDefinition
	Resolution      *AlertResolution `json:"resolution,omitempty"`
	EffectiveStatus ResolutionStatus `json:"effective_status"`
}
