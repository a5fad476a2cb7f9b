// Package jwt provides a bearer-token authenticator and token issuer for
// HMAC-signed (HS256) JWTs.
//
// The same shared secret signs tokens handed to clients in UserDto and
// verifies them on every request.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/auth"
	"github.com/reactivities/reactivities/pkg/debug"
)

// Config holds the JWT settings shared by Authenticator and TokenService.
type Config struct {
	// Secret is the HMAC signing key. Required, at least 32 bytes.
	Secret string

	// Issuer is set on issued tokens and, if non-empty, required on
	// verified tokens.
	Issuer string

	// Audience works like Issuer for the aud claim.
	Audience string

	// TTL is the lifetime of issued tokens. Default: 7 days.
	TTL time.Duration

	// Now overrides the clock (tests).
	Now func() time.Time
}

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

func (c *Config) applyDefaults() {
	if c.TTL == 0 {
		c.TTL = 7 * 24 * time.Hour
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

func (c *Config) validate() error {
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("jwt: secret must be at least %d bytes", MinSecretLength)
	}
	return nil
}

// Claims is the token payload.
type Claims struct {
	DisplayName string `json:"name,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	Tier        string `json:"tier,omitempty"`
	jwtlib.RegisteredClaims
}

// Authenticator validates HS256 bearer tokens.
type Authenticator struct {
	config Config
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New creates an Authenticator.
func New(cfg Config) (*Authenticator, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Authenticator{config: cfg}, nil
}

// Authenticate votes on the request's Authorization header.
//
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but invalid (expired, wrong issuer, bad signature)
//   - Yes: valid token with a subject
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.AuthResult {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return auth.AuthResult{Decision: auth.Abstain}
	}
	if tokenStr == "" {
		return auth.AuthResult{Decision: auth.No, Err: errors.New("empty bearer token")}
	}

	claims, err := a.Parse(tokenStr)
	if err != nil {
		debug.Log("auth", "jwt rejected", "error", err)
		return auth.AuthResult{Decision: auth.No, Err: err}
	}

	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: &auth.Identity{
			Subject:     claims.Subject,
			DisplayName: claims.DisplayName,
			ServiceTier: claims.Tier,
			TenantID:    claims.TenantID,
		},
	}
}

// Parse verifies tokenStr and returns its claims.
func (a *Authenticator) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (any, error) {
		return []byte(a.config.Secret), nil
	}, a.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("JWT missing sub claim")
	}
	return claims, nil
}

func (a *Authenticator) parserOptions() []jwtlib.ParserOption {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(a.config.Now),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(a.config.Audience))
	}
	return opts
}

// User describes the account a token is issued for.
type User struct {
	Username    string
	DisplayName string
	Image       string
	TenantID    string
	Tier        string
}

// TokenService issues signed tokens for users.
type TokenService struct {
	config Config
}

// NewTokenService creates a TokenService.
func NewTokenService(cfg Config) (*TokenService, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &TokenService{config: cfg}, nil
}

// CreateToken signs a token for u.
func (s *TokenService) CreateToken(u User) (string, error) {
	if u.Username == "" {
		return "", errors.New("jwt: username is required")
	}

	now := s.config.Now()
	claims := Claims{
		DisplayName: u.DisplayName,
		TenantID:    u.TenantID,
		Tier:        u.Tier,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   u.Username,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.config.TTL)),
		},
	}
	if s.config.Audience != "" {
		claims.Audience = jwtlib.ClaimStrings{s.config.Audience}
	}

	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

// IssueUser returns the UserDto sent to a client after login.
func (s *TokenService) IssueUser(u User) (*api.UserDto, error) {
	token, err := s.CreateToken(u)
	if err != nil {
		return nil, err
	}
	return &api.UserDto{
		DisplayName: u.DisplayName,
		Token:       token,
		Username:    u.Username,
		Image:       u.Image,
	}, nil
}
