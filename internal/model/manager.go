package model

import "time"

// Manager represents a back-office staff account as stored in the
// `managers` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the manager.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – name of the role (MANAGER or ADMIN).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Manager struct {
    ID           uint64    // managers.id
    Email        string    // managers.email
    PasswordHash string    // managers.password_hash
    Role         string    // managers.role
    IsActive     bool      // managers.is_active
    CreatedAt    time.Time // managers.created_at
    UpdatedAt    time.Time // managers.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a manager and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  ManagerID – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    ManagerID uint64     // refresh_tokens.manager_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

// AuditEntry records one mutation applied to a booking.  Rows are
// written by the booking repository in the same transaction as the
// change itself, so the audit trail never drifts from the data.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the action applied to.
//  Actor     – label of the manager who performed the action.
//  Action    – CREATE, UPDATE, DELETE or RESTORE.
//  Detail    – short human-readable description of the change.
//  CreatedAt – timestamp of the action.
type AuditEntry struct {
    ID        uint64    `json:"id"`         // audit_log.id
    BookingID uint64    `json:"booking_id"` // audit_log.booking_id
    Actor     string    `json:"actor"`      // audit_log.actor
    Action    string    `json:"action"`     // audit_log.action
    Detail    string    `json:"detail"`     // audit_log.detail
    CreatedAt time.Time `json:"created_at"` // audit_log.created_at
}
