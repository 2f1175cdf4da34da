package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
)

func newAuth(secret string, ttl time.Duration) *AuthService {
	return NewAuthService(config.JWTConfig{Secret: secret, ExpiresIn: ttl, Issuer: "desk"}, logger.NewNop())
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	s := newAuth("test-secret", time.Hour)

	tok, err := s.IssueToken("cli")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	claims, err := s.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Subject)
}

func TestAuthService_RejectsForeignSecret(t *testing.T) {
	tok, err := newAuth("one", time.Hour).IssueToken("cli")
	require.NoError(t, err)

	_, err = newAuth("two", time.Hour).ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestAuthService_RejectsExpired(t *testing.T) {
	s := newAuth("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := s.IssueToken("cli")
	require.NoError(t, err)

	_, err = s.ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestAuthService_RequiresSecret(t *testing.T) {
	_, err := newAuth("", time.Hour).IssueToken("cli")
	assert.Error(t, err)
}

func TestAuthService_RejectsGarbage(t *testing.T) {
	_, err := newAuth("secret", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}
