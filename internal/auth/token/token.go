// Package token issues and verifies signed, expiring identity tokens.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
)

// DefaultTTL is the token lifetime applied when a config leaves TTL unset.
const DefaultTTL = 60 * time.Minute

const defaultIssuer = "inkpost"

// ErrInvalidCredentials is the single rejection outcome for every verification
// failure. Bad signature, expired token, malformed payload, and missing subject
// all surface as this one error so callers cannot tell which check failed.
var ErrInvalidCredentials = apperrors.New(apperrors.CodeInvalidCredentials, "could not validate credentials")

// Config defines how identity tokens are signed and verified.
type Config struct {
	// Secret is the symmetric HS256 signing key. Required.
	Secret []byte
	// Issuer stamps and checks the iss claim. Defaults to "inkpost".
	Issuer string
	// TTL is the default token lifetime. Defaults to DefaultTTL.
	TTL time.Duration
	// Now supplies the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

// Service signs and verifies identity tokens with a fixed secret.
// The secret is set at construction and never rotated for the process lifetime.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type identityClaims struct {
	jwt.RegisteredClaims
}

// New creates a token service from the provided config.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		secret: cfg.Secret,
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration {
	if s == nil {
		return 0
	}
	return s.ttl
}

// Issue signs a token for the subject user with the default lifetime.
func (s *Service) Issue(userID int64) (string, error) {
	return s.IssueWithTTL(userID, 0)
}

// IssueWithTTL signs a token for the subject user. A non-positive ttl uses the
// service default.
func (s *Service) IssueWithTTL(userID int64, ttl time.Duration) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", fmt.Errorf("token service is not configured")
	}
	if userID <= 0 {
		return "", fmt.Errorf("subject user id is required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now().UTC()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the subject user id.
// Every failure collapses to ErrInvalidCredentials.
func (s *Service) Verify(tokenString string) (int64, error) {
	if s == nil || len(s.secret) == 0 {
		return 0, fmt.Errorf("token service is not configured")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return 0, ErrInvalidCredentials
	}

	var parsed identityClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return 0, ErrInvalidCredentials
	}

	if parsed.Issuer != s.issuer {
		return 0, ErrInvalidCredentials
	}
	if parsed.ExpiresAt == nil {
		return 0, ErrInvalidCredentials
	}
	now := s.now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return 0, ErrInvalidCredentials
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(parsed.Subject), 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}
