package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/venue-booking-console/internal/model"
)

// auditTx appends one audit_log row inside an existing transaction.
// It is called by every mutating BookingRepo method so a change and its
// trail commit or roll back together.
func auditTx(ctx context.Context, tx *sql.Tx, bookingID uint64, actor, action, detail string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO audit_log (booking_id, actor, action, detail) VALUES (?,?,?,?)",
		bookingID, actor, action, detail)
	return err
}

// ListAudit returns the most recent audit entries, newest first.  A
// non-positive limit falls back to 100.
func (r *BookingRepo) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, booking_id, actor, action, detail, created_at FROM audit_log ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Actor, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
