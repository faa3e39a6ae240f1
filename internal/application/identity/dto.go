package identity

import (
	"time"

	"github.com/erp/pos/internal/domain/identity"
)

// CreateAccountRequest is the form of the admins and users pages
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateAccountRequest edits an account profile
type UpdateAccountRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,phone"`
}

// ChangePasswordRequest replaces an account password
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// SetStatusRequest activates or deactivates an account
type SetStatusRequest struct {
	Status identity.AccountStatus `json:"status" binding:"required,oneof=active inactive"`
}

// AccountResponse is an account without its password hash
type AccountResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Phone     string                 `json:"phone"`
	Role      identity.Role          `json:"role"`
	Status    identity.AccountStatus `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *identity.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
