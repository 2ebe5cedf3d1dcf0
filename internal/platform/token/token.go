// Package token issues and verifies the HS256 session tokens that carry the
// caller's active organization context. The boundary verifies a token once
// per request and hands the resulting session to the core, which trusts it.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/platform/id"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
)

// DefaultTTL bounds session lifetime when the environment does not override it.
const DefaultTTL = 12 * time.Hour

type managerEnv struct {
	Secret string        `env:"CAMPOSANTO_SESSION_SECRET"`
	Issuer string        `env:"CAMPOSANTO_SESSION_ISSUER" envDefault:"camposanto"`
	TTL    time.Duration `env:"CAMPOSANTO_SESSION_TTL"`
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// sessionClaims is the wire shape of a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	OrgID      int64  `json:"active_org,omitempty"`
	OrgKind    string `json:"active_org_type,omitempty"`
	ActiveSite int64  `json:"active_site,omitempty"`
	Role       string `json:"role,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// NewManager creates a token manager with an explicit secret.
func NewManager(secret string, issuer string, ttl time.Duration) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if issuer == "" {
		issuer = "camposanto"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// NewManagerFromEnv reads the signing configuration from the environment.
func NewManagerFromEnv() (*Manager, error) {
	var raw managerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse session env: %w", err)
	}
	if strings.TrimSpace(raw.Secret) == "" {
		return nil, fmt.Errorf("CAMPOSANTO_SESSION_SECRET is required")
	}
	return NewManager(raw.Secret, raw.Issuer, raw.TTL)
}

// Issue signs a token for the given session.
func (m *Manager) Issue(session requestctx.Session) (string, error) {
	if m == nil {
		return "", fmt.Errorf("token manager is nil")
	}
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	now := m.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        jti,
		},
		OrgID:      session.OrgID,
		OrgKind:    session.OrgKind,
		ActiveSite: session.ActiveSite,
		Role:       session.Role,
		Locale:     session.Locale,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the session it carries.
func (m *Manager) Verify(tokenString string) (requestctx.Session, error) {
	if m == nil {
		return requestctx.Session{}, apperrors.New(apperrors.CodeUnauthorized, "token manager is nil")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return requestctx.Session{}, apperrors.New(apperrors.CodeUnauthorized, "empty session token")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return requestctx.Session{}, apperrors.Wrap(apperrors.CodeSessionExpired, "session token expired", err)
		}
		return requestctx.Session{}, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid session token", err)
	}
	if !parsed.Valid {
		return requestctx.Session{}, apperrors.New(apperrors.CodeUnauthorized, "invalid session token")
	}

	return requestctx.Session{
		UserID:     claims.Subject,
		OrgID:      claims.OrgID,
		OrgKind:    claims.OrgKind,
		ActiveSite: claims.ActiveSite,
		Role:       claims.Role,
		Locale:     claims.Locale,
	}, nil
}
