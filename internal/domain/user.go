package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID  = NewValidationError("id", "cannot be empty", ErrInvalidID)
	ErrEmptyName    = NewValidationError("name", "cannot be empty", nil)
	ErrEmptyEmail   = NewValidationError("email", "cannot be empty", nil)
	ErrInvalidEmail = NewValidationError("email", "has an invalid format", ErrInvalidFormat)
)

var validate = validator.New()

// User is a person tasks can be assigned to. Email is globally unique.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name and email.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewUser(name, email string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if err := validate.Var(u.Email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
