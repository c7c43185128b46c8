package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 15)
	role := domain.StaffRoleAdmin

	token, expiresAt, err := manager.GenerateToken("s-001", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-001", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeStaff, claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleAdmin, *claims.Role)
}

func TestTokenStudentHasNoRole(t *testing.T) {
	manager := NewTokenManager("test-secret", 15)

	token, _, err := manager.GenerateToken("u-001", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStudent, claims.Subject)
	assert.Nil(t, claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", 15)
	verifier := NewTokenManager("secret-two", 15)

	token, _, err := issuer.GenerateToken("u-001", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 15)

	_, err := manager.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", 15)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "u-001",
		Subject:   domain.SubjectTypeStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = manager.ParseToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
