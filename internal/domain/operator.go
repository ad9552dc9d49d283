package domain

import "time"

// OperatorRole enumerates access levels for shop operators.
type OperatorRole string

const (
	OperatorRoleAdmin OperatorRole = "admin"
	OperatorRoleUser  OperatorRole = "user"
)

// Operator is a shop employee allowed to use the service.
type Operator struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         OperatorRole
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}
