// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingChangedEvent is published whenever a booking is created,
// updated, soft-deleted or restored.  It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type BookingChangedEvent struct {
	BookingID uint64 `json:"booking_id"`
	Reference string `json:"reference"`
	Action    string `json:"action"` // CREATE | UPDATE | DELETE | RESTORE
	Actor     string `json:"actor"`
	EventDate string `json:"event_date"`
	Slot      string `json:"slot"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	ChangedAt string `json:"changed_at"`
}
