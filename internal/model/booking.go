package model

import "time"

// Slot identifies one of the two fixed daily event windows.  Every
// booking occupies exactly one slot on its event date.
type Slot string

// Slot values as stored in the `bookings.slot` column.
const (
    SlotLunch  Slot = "LUNCH"
    SlotDinner Slot = "DINNER"
)

// ValidSlot reports whether s is one of the two known slots.
func ValidSlot(s Slot) bool { return s == SlotLunch || s == SlotDinner }

// BookingStatus is the linear booking workflow.  The system does not
// enforce transitions: any status may be set at any time, and the alert
// engine flags suspicious combinations instead of rejecting them.
type BookingStatus string

// Booking status values as stored in the `bookings.status` column.
const (
    StatusInquiry   BookingStatus = "INQUIRY"
    StatusTentative BookingStatus = "TENTATIVE"
    StatusConfirmed BookingStatus = "CONFIRMED"
    StatusCompleted BookingStatus = "COMPLETED"
    StatusCancelled BookingStatus = "CANCELLED"
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s BookingStatus) bool {
    switch s {
    case StatusInquiry, StatusTentative, StatusConfirmed, StatusCompleted, StatusCancelled:
        return true
    }
    return false
}

// DefaultHallCapacity is assumed for a hall allocation whose capacity
// was never recorded.
const DefaultHallCapacity = 1000

// HallAllocation assigns part of a booking to one physical hall.  A
// booking spanning both halls carries two allocations.  Capacity is the
// hall's guest capacity as known at booking time; GuestsHere is how many
// of the booking's guests sit in this hall.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – owning booking.
//  HallCode    – hall identifier ("A" or "B").
//  Capacity    – hall capacity (DefaultHallCapacity when unset).
//  GuestsHere  – guests of this booking seated in this hall.
type HallAllocation struct {
    ID         uint64 `json:"id"`          // booking_halls.id
    BookingID  uint64 `json:"booking_id"`  // booking_halls.booking_id
    HallCode   string `json:"hall_code"`   // booking_halls.hall_code
    Capacity   int    `json:"capacity"`    // booking_halls.capacity
    GuestsHere int    `json:"guests_here"` // booking_halls.guests_here
}

// AdvancePayment summarizes a received advance for a booking.  Amount is
// in whole currency units; Method and Account are free-form labels.
type AdvancePayment struct {
    Amount  int64  `json:"amount"`  // bookings.advance_amount
    Method  string `json:"method"`  // bookings.advance_method
    Account string `json:"account"` // bookings.advance_account
}

// Booking is a single scheduled event at the venue.  Guest counts and
// contact fields are optional: pointers are nil when the operator never
// entered a value.  The alert engine treats missing values as zero or
// absent and never rejects a booking for incomplete data.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – human booking reference shown in the console.
//  EventDate       – calendar date of the event (UTC midnight, no time of day).
//  Slot            – LUNCH or DINNER.
//  Status          – workflow status (INQUIRY..CANCELLED).
//  TotalGuests     – total expected guests (nullable).
//  HallAGuests     – guests entered for hall A on the booking form (nullable).
//  HallBGuests     – guests entered for hall B on the booking form (nullable).
//  Halls           – hall allocations with per-hall capacity and usage.
//  CustomerName    – customer display name (optional).
//  Phone           – contact phone (optional).
//  WhatsApp        – WhatsApp number (optional).
//  Address         – customer address (optional).
//  ContactRef      – free-form contact reference (optional).
//  HasPerformance  – whether the event includes a stage performance.
//  PerformanceNote – description of the performance (optional).
//  Advance         – advance-payment summary, nil when none recorded.
//  IsDeleted       – soft-delete flag; deleted bookings stay queryable.
//  DeletedAt/By/Reason – soft-delete metadata, set only when IsDeleted.
type Booking struct {
    ID              uint64           `json:"id"`               // bookings.id
    Reference       string           `json:"reference"`        // bookings.reference
    EventDate       time.Time        `json:"event_date"`       // bookings.event_date (DATE)
    Slot            Slot             `json:"slot"`             // bookings.slot
    Status          BookingStatus    `json:"status"`           // bookings.status
    TotalGuests     *int             `json:"total_guests"`     // bookings.total_guests (nullable)
    HallAGuests     *int             `json:"hall_a_guests"`    // bookings.hall_a_guests (nullable)
    HallBGuests     *int             `json:"hall_b_guests"`    // bookings.hall_b_guests (nullable)
    Halls           []HallAllocation `json:"halls"`            // booking_halls rows
    CustomerName    string           `json:"customer_name"`    // bookings.customer_name
    Phone           string           `json:"phone"`            // bookings.phone
    WhatsApp        string           `json:"whatsapp"`         // bookings.whatsapp
    Address         string           `json:"address"`          // bookings.address
    ContactRef      string           `json:"contact_ref"`      // bookings.contact_ref
    HasPerformance  bool             `json:"has_performance"`  // bookings.has_performance
    PerformanceNote string           `json:"performance_note"` // bookings.performance_note
    Advance         *AdvancePayment  `json:"advance,omitempty"` // advance_* columns (nullable)
    IsDeleted       bool             `json:"is_deleted"`       // bookings.is_deleted
    DeletedAt       *time.Time       `json:"deleted_at,omitempty"`     // bookings.deleted_at (nullable)
    DeletedBy       string           `json:"deleted_by,omitempty"`     // bookings.deleted_by
    DeleteReason    string           `json:"delete_reason,omitempty"`  // bookings.delete_reason
    CreatedAt       time.Time        `json:"created_at"`       // bookings.created_at
    UpdatedAt       time.Time        `json:"updated_at"`       // bookings.updated_at
}

// DateKey renders the event date in the canonical YYYY-MM-DD form used
// for grouping keys and alert identifiers.
func (b Booking) DateKey() string { return b.EventDate.UTC().Format("2006-01-02") }

// UsesMultipleHalls reports whether the booking is allocated to more
// than one hall.
func (b Booking) UsesMultipleHalls() bool { return len(b.Halls) > 1 }
