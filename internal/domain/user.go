package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User account validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Password length limits. 72 bytes is the most bcrypt will hash.
const (
	MinPasswordLength = 12
	MaxPasswordLength = 72
)

var emailValidator = validator.New()

// User is an account that owns BMI measurements.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set while registering or updating
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds a validated User with a fresh id. The plaintext password is
// kept on the struct; the store hashes it before persisting.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the user's id, email and password fields.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidateEmail reports whether email is a usable address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the password length limits.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
