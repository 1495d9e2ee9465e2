package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mikrodash/mikrodash/internal/domain"
)

var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims binds a user identity to a tenant identity for the lifetime of a
// session token.
type Claims struct {
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded session tokens.
// The secret is process-wide configuration loaded once at startup; tokens
// are stateless and cannot be revoked before expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(userID, tenantID uuid.UUID) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify returns the identity a token was issued for, or one of
// ErrTokenMalformed, ErrTokenSignature, ErrTokenExpired. Callers at the
// HTTP boundary must collapse all three into a single unauthenticated
// response so the failure cause is not an oracle.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, ErrTokenSignature
		default:
			return domain.Identity{}, ErrTokenMalformed
		}
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return domain.Identity{}, ErrTokenMalformed
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Identity{}, ErrTokenMalformed
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return domain.Identity{}, ErrTokenMalformed
	}

	return domain.Identity{UserID: userID, TenantID: tenantID}, nil
}
