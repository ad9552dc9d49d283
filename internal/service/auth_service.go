package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pawn-ledger/internal/auth"
	"github.com/spec-kit/pawn-ledger/internal/config"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

// AuthService coordinates operator registration and login flows.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	clock      func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		clock:      time.Now,
	}
}

// RegisterInput carries a new operator account request.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     domain.OperatorRole
}

// Register creates a new operator account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Operator, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	if _, err := s.operators.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.OperatorRoleUser
	}
	operator := &domain.Operator{
		Username:     username,
		PasswordHash: hash,
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		IsActive:     true,
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		return nil, err
	}
	return operator, nil
}

// EnsureBootstrapAdmin creates the first admin account if it does not
// exist yet. Returns true when an account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	if _, err := s.operators.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if err != pgx.ErrNoRows {
		return false, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	operator := &domain.Operator{
		Username:     username,
		PasswordHash: hash,
		Name:         "Bootstrap Admin",
		Role:         domain.OperatorRoleAdmin,
		IsActive:     true,
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		return false, err
	}
	return true, nil
}

// Login authenticates an operator and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Operator, string, time.Time, error) {
	operator, err := s.operators.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !operator.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("operator disabled")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.clock()
	if err := s.operators.RecordLogin(ctx, operator.ID, now); err == nil {
		operator.LastLogin = &now
	}
	return operator, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
