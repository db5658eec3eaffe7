package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

var (
	// ErrTokenInvalid covers bad signature, malformed payload and token
	// type mismatch. Callers must reject on it.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired means the token was well formed and correctly
	// signed but its expiry is in the past. Equally rejecting for
	// access control.
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	jwt.RegisteredClaims
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	TokenType   TokenType `json:"typ"`
}

// Service issues and verifies signed session tokens. All fields are
// fixed at construction, so a single Service is safe for concurrent use.
type Service struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secret []byte, algorithm string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("algorithm %q is not an HMAC method", algorithm)
	}
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	return &Service{
		secret:     secret,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *Service) IssueAccess(userID, email, displayName string) (string, error) {
	return s.IssueAccessTTL(userID, email, displayName, s.accessTTL)
}

func (s *Service) IssueAccessTTL(userID, email, displayName string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		DisplayName: displayName,
		TokenType:   TypeAccess,
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.IssueRefreshTTL(userID, s.refreshTTL)
}

func (s *Service) IssueRefreshTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: TypeRefresh,
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}

// Verify decodes tokenStr, checks its signature, expiry and token type.
// Every failure mode collapses to ErrTokenInvalid, except a correctly
// signed token of the expected type whose expiry has passed, which
// yields ErrTokenExpired.
func (s *Service) Verify(tokenStr string, expected TokenType) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, s.keyFunc, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.TokenType == expected {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.TokenType != expected {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// DecodeUnverified checks signature and structure but skips claim
// validation. It is the sanctioned way to read claims off an already
// expired token; a tampered token still fails.
func (s *Service) DecodeUnverified(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	var claims Claims
	tkn, err := parser.ParseWithClaims(tokenStr, &claims, s.keyFunc)
	if err != nil || !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

func (s *Service) Expiry(tokenStr string) (time.Time, bool) {
	claims, err := s.DecodeUnverified(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsExpired is fail-closed: anything that cannot be decoded counts as
// expired.
func (s *Service) IsExpired(tokenStr string) bool {
	exp, ok := s.Expiry(tokenStr)
	if !ok {
		return true
	}
	return time.Now().After(exp)
}
