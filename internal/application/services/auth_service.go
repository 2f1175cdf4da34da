package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// AuthService issues and checks the bearer tokens guarding the local API
type AuthService struct {
	jwtConfig config.JWTConfig
	logger    *logger.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		jwtConfig: jwtConfig,
		logger:    logger.WithComponent("auth"),
		now:       time.Now,
	}
}

// IssueToken signs an HS256 access token for subject
func (s *AuthService) IssueToken(subject string) (*ports.TokenResponse, error) {
	if s.jwtConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	if subject == "" {
		subject = "desk"
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.jwtConfig.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Infow("API token issued", "subject", subject, "expires_in", s.jwtConfig.ExpiresIn)

	return &ports.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtConfig.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", entities.ErrUnauthorized)
	}

	return &ports.Claims{Subject: claims.Subject}, nil
}
