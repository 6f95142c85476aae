package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/venue-booking-console/internal/model"
	"github.com/iliyamo/venue-booking-console/internal/utils"
)

// ManagerRepo provides access to the back-office `managers` table.
type ManagerRepo struct{ DB *sql.DB }

func NewManagerRepo(db *sql.DB) *ManagerRepo { return &ManagerRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a manager account and returns its ID.
func (r *ManagerRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO managers (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a manager by normalized email.
func (r *ManagerRepo) GetByEmail(ctx context.Context, email string) (model.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var m model.Manager
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM managers WHERE email=? LIMIT 1",
		email).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetByID fetches a manager by id.
func (r *ManagerRepo) GetByID(ctx context.Context, id uint64) (model.Manager, error) {
	var m model.Manager
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM managers WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}
