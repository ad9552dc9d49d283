package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("operator-1", domain.OperatorRoleAdmin)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.OperatorID)
	assert.Equal(t, domain.OperatorRoleAdmin, claims.Role)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 5)
	verifier := NewTokenManager("secret-b", 5)

	token, _, err := issuer.GenerateToken("operator-1", domain.OperatorRoleUser)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashCompare(t *testing.T) {
	hash, err := HashPassword("pledge-123", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "pledge-123"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
