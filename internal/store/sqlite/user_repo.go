package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"farmdirect/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (uuid, full_name, email, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, u.UUID, u.FullName, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.E(domain.ErrConflict, "Email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, uuid, full_name, email, password_hash, role FROM users WHERE email = ?`
	return r.scanUser(ctx, query, email)
}

func (r *UserRepo) GetByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	query := `SELECT id, uuid, full_name, email, password_hash, role FROM users WHERE uuid = ?`
	return r.scanUser(ctx, query, uuid)
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.UUID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
