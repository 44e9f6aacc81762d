// Package token issues and validates the compact signed bearer tokens
// that carry a user's identity between requests.
//
// Tokens are self-contained: validity is purely a function of the HMAC
// signature and the embedded expiry, never a server-side lookup. Parse
// deliberately collapses every signature or structural defect into
// ErrInvalid so callers cannot learn which part of a forged token
// failed; only expiry of an otherwise-valid token is reported
// separately as ErrExpired.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when the token's signature verifies but its
	// expiry has passed.
	ErrExpired = errors.New("token: expired")

	// ErrInvalid is returned for every other defect: bad signature,
	// malformed encoding, wrong algorithm, wrong claims shape.
	ErrInvalid = errors.New("token: invalid")
)

// Claims is the signed payload identifying who a bearer token
// represents. Subject carries the email, mirroring the claim layout the
// platform's clients already decode.
type Claims struct {
	gojwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key. Required, minimum 32 bytes.
	Secret string `mapstructure:"secret"`

	// TTL is the token lifetime (default: 1h).
	TTL time.Duration `mapstructure:"ttl"`

	// Issuer is the optional "iss" claim.
	Issuer string `mapstructure:"issuer"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("token: secret is required")
	}
	if len(c.Secret) < 32 {
		return fmt.Errorf("token: secret must be at least 32 bytes (got: %d)", len(c.Secret))
	}
	return nil
}

// Service signs and validates bearer tokens with a process-lifetime
// symmetric secret using HS512.
type Service struct {
	cfg Config
}

// NewService creates a token service.
func NewService(cfg *Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: *cfg}, nil
}

// Issue signs a token for the given identity using the configured TTL.
func (s *Service) Issue(userID, email, role string) (string, error) {
	return s.IssueWithTTL(userID, email, role, s.cfg.TTL)
}

// IssueWithTTL signs a token with an explicit lifetime. Both issued-at
// and expiry derive from a single wall-clock read.
func (s *Service) IssueWithTTL(userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims. A token is
// valid iff the signature verifies and the expiry has not passed; there
// is no revocation check and no clock-skew grace.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

func (s *Service) keyFunc(t *gojwt.Token) (interface{}, error) {
	if t.Method.Alg() != gojwt.SigningMethodHS512.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", t.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS512.Alg()}),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
