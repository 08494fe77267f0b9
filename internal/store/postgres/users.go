package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/foodorders/internal/user"
)

const userCols = `id, name, email, phone, password_hash, role, is_active, addresses, created_at, updated_at`

func scanUser(r row) (*user.User, error) {
	var (
		u     user.User
		addrs []byte
	)
	if err := r.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.IsActive, &addrs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(addrs, &u.Addresses); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	addrs, err := json.Marshal(u.Addresses)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
    INSERT INTO users (`+userCols+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsActive, string(addrs), u.CreatedAt, u.UpdatedAt)
	if uniqueViolation(err, "users_email_key") {
		return user.ErrAlreadyExist
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	addrs, err := json.Marshal(u.Addresses)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
    UPDATE users
    SET name=$2, phone=$3, password_hash=$4, role=$5, is_active=$6, addresses=$7, updated_at=$8
    WHERE id=$1
  `, u.ID, u.Name, u.Phone, u.PasswordHash, u.Role, u.IsActive, string(addrs), u.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
