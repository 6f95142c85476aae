package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/venue-booking-console/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their hall
// allocations.  Bookings are never hard-deleted: delete flips the
// is_deleted flag and keeps the row queryable for the audit trail and
// the restore operation.  Every mutation writes an audit_log row in the
// same transaction so the trail cannot drift from the data.  All
// timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, event_date, slot, status, total_guests,
 hall_a_guests, hall_b_guests, customer_name, phone, whatsapp, address, contact_ref,
 has_performance, performance_note, advance_amount, advance_method, advance_account,
 is_deleted, deleted_at, deleted_by, delete_reason, created_at, updated_at`

// Create inserts a booking with its hall allocations and an audit row.
// The generated ID is populated on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, actor string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO bookings
 (reference, event_date, slot, status, total_guests, hall_a_guests, hall_b_guests,
  customer_name, phone, whatsapp, address, contact_ref, has_performance, performance_note,
  advance_amount, advance_method, advance_account)
 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.Reference, b.EventDate.UTC().Format("2006-01-02"), b.Slot, b.Status,
		nullInt(b.TotalGuests), nullInt(b.HallAGuests), nullInt(b.HallBGuests),
		b.CustomerName, b.Phone, b.WhatsApp, b.Address, b.ContactRef,
		b.HasPerformance, b.PerformanceNote,
		advanceAmount(b.Advance), advanceField(b.Advance, func(a *model.AdvancePayment) string { return a.Method }),
		advanceField(b.Advance, func(a *model.AdvancePayment) string { return a.Account }),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := r.insertHallsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := auditTx(ctx, tx, b.ID, actor, "CREATE",
		fmt.Sprintf("booking %s created for %s %s", b.Reference, b.DateKey(), b.Slot)); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites a booking row and replaces its hall allocations.  The
// hall child rows are deleted and re-inserted; the sets are tiny (at
// most two halls) so diffing is not worth the code.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking, actor string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `UPDATE bookings SET
 reference=?, event_date=?, slot=?, status=?, total_guests=?, hall_a_guests=?, hall_b_guests=?,
 customer_name=?, phone=?, whatsapp=?, address=?, contact_ref=?, has_performance=?, performance_note=?,
 advance_amount=?, advance_method=?, advance_account=?
 WHERE id=? AND is_deleted=0`
	res, err := tx.ExecContext(ctx, q,
		b.Reference, b.EventDate.UTC().Format("2006-01-02"), b.Slot, b.Status,
		nullInt(b.TotalGuests), nullInt(b.HallAGuests), nullInt(b.HallBGuests),
		b.CustomerName, b.Phone, b.WhatsApp, b.Address, b.ContactRef,
		b.HasPerformance, b.PerformanceNote,
		advanceAmount(b.Advance), advanceField(b.Advance, func(a *model.AdvancePayment) string { return a.Method }),
		advanceField(b.Advance, func(a *model.AdvancePayment) string { return a.Account }),
		b.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the booking does not exist or it is soft-deleted;
		// distinguish so handlers can answer 404 vs 409.
		var deleted bool
		err := tx.QueryRowContext(ctx, "SELECT is_deleted FROM bookings WHERE id=?", b.ID).Scan(&deleted)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if deleted {
			return ErrConflict
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM booking_halls WHERE booking_id=?", b.ID); err != nil {
		return err
	}
	if err := r.insertHallsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := auditTx(ctx, tx, b.ID, actor, "UPDATE",
		fmt.Sprintf("booking %s updated (%s %s, status %s)", b.Reference, b.DateKey(), b.Slot, b.Status)); err != nil {
		return err
	}
	return tx.Commit()
}

// SoftDelete marks a booking deleted with actor and reason metadata.
// Deleting an already-deleted booking returns ErrConflict.
func (r *BookingRepo) SoftDelete(ctx context.Context, id uint64, actor, reason string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET is_deleted=1, deleted_at=?, deleted_by=?, delete_reason=? WHERE id=? AND is_deleted=0",
		time.Now().UTC(), actor, reason, id)
	if err != nil {
		return err
	}
	if err := requireRow(ctx, tx, res, id); err != nil {
		return err
	}
	if err := auditTx(ctx, tx, id, actor, "DELETE", fmt.Sprintf("booking deleted: %s", reason)); err != nil {
		return err
	}
	return tx.Commit()
}

// Restore clears the soft-delete flag.  Restoring a booking that is not
// deleted returns ErrConflict.
func (r *BookingRepo) Restore(ctx context.Context, id uint64, actor string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET is_deleted=0, deleted_at=NULL, deleted_by='', delete_reason='' WHERE id=? AND is_deleted=1",
		id)
	if err != nil {
		return err
	}
	if err := requireRow(ctx, tx, res, id); err != nil {
		return err
	}
	if err := auditTx(ctx, tx, id, actor, "RESTORE", "booking restored"); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches one booking with its hall allocations, including
// soft-deleted ones so the console can show and restore them.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	halls, err := r.hallsFor(ctx, []uint64{b.ID})
	if err != nil {
		return model.Booking{}, err
	}
	b.Halls = halls[b.ID]
	return b, nil
}

// ListActive returns all non-deleted bookings ordered by event date and
// slot.  This is the input the alert engine expects: soft-deleted
// bookings are filtered out here, before evaluation.
func (r *BookingRepo) ListActive(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "WHERE is_deleted=0")
}

// ListAll returns every booking including soft-deleted ones.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "")
}

func (r *BookingRepo) list(ctx context.Context, where string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings "+where+" ORDER BY event_date, slot, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return bookings, nil
	}

	halls, err := r.hallsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Halls = halls[bookings[i].ID]
	}
	return bookings, nil
}

// insertHallsTx bulk-inserts the hall allocation rows for a booking.
// Passing a booking without halls has no effect and returns nil.
func (r *BookingRepo) insertHallsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if len(b.Halls) == 0 {
		return nil
	}
	query := "INSERT INTO booking_halls (booking_id, hall_code, capacity, guests_here) VALUES "
	args := make([]interface{}, 0, len(b.Halls)*4)
	for i, h := range b.Halls {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		capacity := h.Capacity
		if capacity == 0 {
			capacity = model.DefaultHallCapacity
		}
		args = append(args, b.ID, strings.ToUpper(strings.TrimSpace(h.HallCode)), capacity, h.GuestsHere)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// hallsFor loads hall allocations for the given booking ids, grouped by
// booking.
func (r *BookingRepo) hallsFor(ctx context.Context, ids []uint64) (map[uint64][]model.HallAllocation, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, booking_id, hall_code, capacity, guests_here FROM booking_halls WHERE booking_id IN ("+placeholders+") ORDER BY booking_id, hall_code",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]model.HallAllocation)
	for rows.Next() {
		var h model.HallAllocation
		if err := rows.Scan(&h.ID, &h.BookingID, &h.HallCode, &h.Capacity, &h.GuestsHere); err != nil {
			return nil, err
		}
		out[h.BookingID] = append(out[h.BookingID], h)
	}
	return out, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s scanner) (model.Booking, error) {
	var (
		b            model.Booking
		total        sql.NullInt64
		hallA        sql.NullInt64
		hallB        sql.NullInt64
		advAmount    sql.NullInt64
		advMethod    sql.NullString
		advAccount   sql.NullString
		deletedAt    sql.NullTime
		deletedBy    sql.NullString
		deleteReason sql.NullString
	)
	err := s.Scan(
		&b.ID, &b.Reference, &b.EventDate, &b.Slot, &b.Status, &total,
		&hallA, &hallB, &b.CustomerName, &b.Phone, &b.WhatsApp, &b.Address, &b.ContactRef,
		&b.HasPerformance, &b.PerformanceNote, &advAmount, &advMethod, &advAccount,
		&b.IsDeleted, &deletedAt, &deletedBy, &deleteReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	b.TotalGuests = intPtr(total)
	b.HallAGuests = intPtr(hallA)
	b.HallBGuests = intPtr(hallB)
	if advAmount.Valid {
		b.Advance = &model.AdvancePayment{
			Amount:  advAmount.Int64,
			Method:  advMethod.String,
			Account: advAccount.String,
		}
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		b.DeletedAt = &t
	}
	b.DeletedBy = deletedBy.String
	b.DeleteReason = deleteReason.String
	return b, nil
}

// requireRow converts a zero-rows-affected update into ErrNotFound or
// ErrConflict depending on whether the booking exists at all.
func requireRow(ctx context.Context, tx *sql.Tx, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM bookings WHERE id=?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func advanceAmount(a *model.AdvancePayment) interface{} {
	if a == nil {
		return nil
	}
	return a.Amount
}

func advanceField(a *model.AdvancePayment, f func(*model.AdvancePayment) string) interface{} {
	if a == nil {
		return nil
	}
	return f(a)
}
