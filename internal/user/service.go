package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 254
	minEmailLength = 3
	bcryptCost     = 12

	generatedPasswordLength = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorSecret  string    `json:"-"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CategorySeeder populates the starter category catalog for a new user.
type CategorySeeder interface {
	CreateDefaultCategories(userID string) error
}

type Service interface {
	// Register creates an account for email with a server-generated
	// password and seeds its starter categories. The generated password is
	// returned exactly once.
	Register(email string) (*User, string, error)
	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	UpdateHashToken(userID string) (string, error)
	SetTwoFactor(userID string, enabled bool, secret string) error
}

type service struct {
	repo   Repository
	seeder CategorySeeder
}

func NewUserService(repo Repository, seeder CategorySeeder) Service {
	return &service{
		repo:   repo,
		seeder: seeder,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func DoPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

func randomFrom(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// generatePassword builds a random password that carries at least one digit,
// one uppercase letter and one special character.
func generatePassword() (string, error) {
	const (
		digits   = "0123456789"
		upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		specials = "!@#$%^&*"
		all      = "abcdefghijklmnopqrstuvwxyz" + upper + digits + specials
	)

	password := make([]byte, 0, generatedPasswordLength)
	for _, charset := range []string{digits, upper, specials} {
		c, err := randomFrom(charset)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < generatedPasswordLength {
		c, err := randomFrom(all)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	// Shuffle so the mandatory characters don't sit at fixed positions.
	for i := len(password) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

// NormalizeEmail lowercases and trims the address the same way the store
// indexes it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(email string) (*User, string, error) {
	email = NormalizeEmail(email)
	if err := validateEmailAddress(email); err != nil {
		return nil, "", err
	}

	password, err := generatePassword()
	if err != nil {
		return nil, "", ErrInternalError
	}
	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, "", ErrInternalError
	}
	hashToken, err := generateHashToken()
	if err != nil {
		return nil, "", ErrInternalError
	}

	user := &User{
		Email:        email,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
	}
	if err := s.repo.createUser(user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", ErrInternalError
	}

	// Seed the starter catalog exactly once, before the account is handed
	// back. A failure here surfaces to the caller; the account stays and
	// fallback categories are recreated lazily on first category delete.
	if err := s.seeder.CreateDefaultCategories(user.ID); err != nil {
		return nil, "", fmt.Errorf("could not seed default categories: %w", err)
	}

	return user, password, nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.getUserByEmail(NormalizeEmail(email))
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !DoPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}
	newHashToken, err := generateHashToken()
	if err != nil {
		return err
	}
	return s.repo.updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken)
}

// UpdateHashToken rotates the per-user refresh token key, invalidating every
// outstanding refresh token.
func (s *service) UpdateHashToken(userID string) (string, error) {
	newHashToken, err := generateHashToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.updateHashToken(userID, newHashToken); err != nil {
		return "", err
	}
	return newHashToken, nil
}

func (s *service) SetTwoFactor(userID string, enabled bool, secret string) error {
	return s.repo.setTwoFactor(userID, enabled, secret)
}
