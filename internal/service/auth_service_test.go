package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pawn-ledger/internal/config"
	"github.com/spec-kit/pawn-ledger/internal/domain"
)

type stubOperatorRepo struct {
	operators map[string]*domain.Operator
	nextID    int
}

func newStubOperatorRepo() *stubOperatorRepo {
	return &stubOperatorRepo{operators: make(map[string]*domain.Operator)}
}

func (r *stubOperatorRepo) Create(_ context.Context, operator *domain.Operator) error {
	r.nextID++
	operator.ID = "operator-" + strconv.Itoa(r.nextID)
	operator.CreatedAt = time.Now()
	copied := *operator
	r.operators[operator.ID] = &copied
	return nil
}

func (r *stubOperatorRepo) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	operator, ok := r.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *operator
	return &copied, nil
}

func (r *stubOperatorRepo) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	for _, operator := range r.operators {
		if operator.Username == username {
			copied := *operator
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubOperatorRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	operator, ok := r.operators[id]
	if !ok {
		return pgx.ErrNoRows
	}
	operator.LastLogin = &at
	return nil
}

func authTestConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(authTestConfig(), repo)

	operator, err := svc.Register(context.Background(), RegisterInput{
		Username: "shopkeeper",
		Password: "correct-horse",
		Name:     "Raju",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OperatorRoleUser, operator.Role)
	assert.True(t, operator.IsActive)
	assert.NotEqual(t, "correct-horse", operator.PasswordHash)

	loggedIn, token, exp, err := svc.Login(context.Background(), "shopkeeper", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))
	require.NotNil(t, loggedIn.LastLogin)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, operator.ID, claims.OperatorID)
	assert.Equal(t, domain.OperatorRoleUser, claims.Role)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(authTestConfig(), repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "shopkeeper", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "shopkeeper", Password: "other-pass"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taken")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(authTestConfig(), repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "shopkeeper", Password: "secret-pass"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "shopkeeper", "wrong")
	require.Error(t, err)

	_, _, _, err = svc.Login(context.Background(), "nobody", "secret-pass")
	require.Error(t, err)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(authTestConfig(), repo)

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "admin", "first-login")
	require.NoError(t, err)
	assert.True(t, created)

	operator, _, _, err := svc.Login(context.Background(), "admin", "first-login")
	require.NoError(t, err)
	assert.Equal(t, domain.OperatorRoleAdmin, operator.Role)

	created, err = svc.EnsureBootstrapAdmin(context.Background(), "admin", "first-login")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureBootstrapAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoginRejectsDisabledOperator(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(authTestConfig(), repo)

	operator, err := svc.Register(context.Background(), RegisterInput{Username: "shopkeeper", Password: "secret-pass"})
	require.NoError(t, err)
	repo.operators[operator.ID].IsActive = false

	_, _, _, err = svc.Login(context.Background(), "shopkeeper", "secret-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}
