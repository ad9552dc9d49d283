package dto

import (
	"time"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OperatorResponse is the operator view without the password hash.
type OperatorResponse struct {
	ID        string              `json:"id"`
	Username  string              `json:"username"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Role      domain.OperatorRole `json:"role"`
	LastLogin *time.Time          `json:"last_login"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewOperatorResponse maps an operator.
func NewOperatorResponse(operator domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:        operator.ID,
		Username:  operator.Username,
		Name:      operator.Name,
		Email:     operator.Email,
		Role:      operator.Role,
		LastLogin: operator.LastLogin,
		CreatedAt: operator.CreatedAt,
	}
}
