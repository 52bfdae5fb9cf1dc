package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(user *User) error
	getUserByEmail(email string) (*User, error)
	getUserByID(id string) (*User, error)
	updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error
	updateHashToken(userID, newHashToken string) error
	setTwoFactor(userID string, enabled bool, secret string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = "id, email, password_hash, two_factor_enabled, two_factor_secret, hash_token, created_at, updated_at"

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.TwoFactorEnabled,
		&user.TwoFactorSecret, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO users (email, password_hash, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, user.Email, user.PasswordHash, user.HashToken).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}

	user.ID = id
	return nil
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = lower($1)"
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error {
	query := `
        UPDATE users
        SET password_hash = $1,
            hash_token = $2,
            updated_at = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(query, newPasswordHash, newHashToken, time.Now(), userID)
	return err
}

func (r *userRepository) updateHashToken(userID, newHashToken string) error {
	_, err := r.db.Exec(
		"UPDATE users SET hash_token = $1, updated_at = NOW() WHERE id = $2",
		newHashToken, userID)
	return err
}

func (r *userRepository) setTwoFactor(userID string, enabled bool, secret string) error {
	_, err := r.db.Exec(
		"UPDATE users SET two_factor_enabled = $1, two_factor_secret = $2, updated_at = NOW() WHERE id = $3",
		enabled, secret, userID)
	return err
}
