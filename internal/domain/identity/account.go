// Package identity holds the admin and user accounts managed from the
// back office. Accounts are records only; there is no login flow.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role distinguishes the two account registries
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// StoreKey is the record store key of the registry holding accounts of r
func (r Role) StoreKey() string {
	if r == RoleAdmin {
		return shared.KeyAdmins
	}
	return shared.KeyUsers
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// AccountStatus is the lifecycle state of an account
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// passwordCost is a variable so tests can use bcrypt.MinCost
var passwordCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Account is an admin or user record
type Account struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	PasswordHash string        `json:"passwordHash"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AccountDetails are the editable profile fields
type AccountDetails struct {
	Name  string
	Email string
	Phone string
}

// NewAccount creates an active account with a hashed password
func NewAccount(role Role, d AccountDetails, password string, now time.Time) (*Account, error) {
	if !role.IsValid() {
		return nil, shared.NewValidationError("INVALID_ROLE", "Role must be admin or user")
	}
	a := &Account{
		ID:        uuid.New().String(),
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
	}
	if err := a.Update(d, now); err != nil {
		return nil, err
	}
	if err := a.SetPassword(password, now); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the profile fields
func (a *Account) Update(d AccountDetails, now time.Time) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Name is required")
	}
	email := strings.ToLower(strings.TrimSpace(d.Email))
	if err := validateEmail(email); err != nil {
		return err
	}
	a.Name = name
	a.Email = email
	a.Phone = strings.TrimSpace(d.Phone)
	a.UpdatedAt = now
	return nil
}

// SetPassword replaces the password hash
func (a *Account) SetPassword(password string, now time.Time) error {
	if len(password) < 8 {
		return shared.NewValidationError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.UpdatedAt = now
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetStatus activates or deactivates the account
func (a *Account) SetStatus(status AccountStatus, now time.Time) error {
	if status != StatusActive && status != StatusInactive {
		return shared.NewValidationError("INVALID_STATUS", "Status must be active or inactive")
	}
	a.Status = status
	a.UpdatedAt = now
	return nil
}

// RecordID implements shared.Record
func (a Account) RecordID() string { return a.ID }

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
