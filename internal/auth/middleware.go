package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated operator.
type Principal struct {
	Operator *domain.Operator
	Role     domain.OperatorRole
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	operators repository.OperatorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, operators repository.OperatorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, operators: operators}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	operator, err := m.operators.GetByID(c.Context(), claims.OperatorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("operator not found")
		}
		return apperrors.MapError(err)
	}
	if !operator.IsActive {
		return apperrors.NewUnauthorized("operator disabled")
	}

	c.Locals(principalKey, &Principal{Operator: operator, Role: operator.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated operator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.OperatorRole) fiber.Handler {
	allowedSet := make(map[domain.OperatorRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
