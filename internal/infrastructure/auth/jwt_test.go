package auth

import (
	"testing"
	"time"

	"github.com/solarmd/backend/internal/domain/identity"
	"github.com/solarmd/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(d time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:              "test-secret-at-least-32-characters!!",
		AccessTokenDuration: d,
		Issuer:              "solarmd-backend",
	})
}

func testStaff(t *testing.T) *identity.Staff {
	t.Helper()
	staff, err := identity.NewStaff("ana@solarmd.md", "parola-sigura", "Ana Munteanu", identity.RoleManager)
	require.NoError(t, err)
	return staff
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testService(15 * time.Minute)
	staff := testStaff(t)

	token, err := svc.Generate(staff)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, time.Minute)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID.String(), claims.StaffID)
	assert.Equal(t, staff.Email, claims.Email)
	assert.Equal(t, identity.RoleManager, claims.Role)

	staffID, err := claims.StaffUUID()
	require.NoError(t, err)
	assert.Equal(t, staff.ID, staffID)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)
	token, err := svc.Generate(testStaff(t))
	require.NoError(t, err)

	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := testService(15 * time.Minute).Generate(testStaff(t))
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:              "a-different-secret-32-characters!!!!",
		AccessTokenDuration: 15 * time.Minute,
		Issuer:              "solarmd-backend",
	})
	_, err = other.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := testService(15 * time.Minute).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
