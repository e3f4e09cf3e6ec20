package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

func testConfig() *models.Config {
	cfg := &models.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 60
	cfg.JWT.Issuer = "fleetd"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testConfig()

	tokenString, expiresAt, err := GenerateToken("U001", "driver@fleet.local", "employee", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := ValidateToken(tokenString, cfg.JWT.Secret)
	require.NoError(t, err)

	assert.Equal(t, "U001", claims["user_id"])
	assert.Equal(t, "driver@fleet.local", claims["email"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, "fleetd", claims["iss"])
}

func TestValidateToken_WrongSecret(t *testing.T) {
	cfg := testConfig()

	tokenString, _, err := GenerateToken("U001", "driver@fleet.local", "employee", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Expiration = -1

	tokenString, _, err := GenerateToken("U001", "driver@fleet.local", "employee", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString, cfg.JWT.Secret)
	assert.Error(t, err)
}
