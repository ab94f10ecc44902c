package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrNoSigningKey   = errors.New("token signing key not configured")
)

type Claims struct {
	Email string    `json:"email,omitempty"`
	Role  string    `json:"role,omitempty"`
	Type  TokenType `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64 // access token lifetime in seconds
	RefreshJTI       string
	RefreshExpiresAt time.Time
}

// TokenManager issues HS256 access/refresh pairs and verifies bearer tokens.
// When a JWKS provider is attached, RS256 tokens from that issuer are accepted
// as access tokens too.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	jwks       *Provider
	now        func() time.Time
}

func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) WithJWKS(p *Provider) *TokenManager {
	m.jwks = p
	return m
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *TokenManager) IssuePair(userID, email, role string) (*TokenPair, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSigningKey
	}
	now := m.now()

	access, _, err := m.sign(userID, email, role, TokenTypeAccess, now, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := m.sign(userID, email, role, TokenTypeRefresh, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        int64(m.accessTTL.Seconds()),
		RefreshJTI:       jti,
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}, nil
}

func (m *TokenManager) sign(userID, email, role string, typ TokenType, now time.Time, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	claims := Claims{
		Email: email,
		Role:  role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, jti, nil
}

// ParseRefresh verifies a locally issued refresh token.
func (m *TokenManager) ParseRefresh(tokenString string) (*Claims, error) {
	claims, _, err := m.parse(tokenString, false)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ParseAccess verifies a bearer token: local HS256 access tokens, or RS256
// tokens from the configured JWKS issuer.
func (m *TokenManager) ParseAccess(tokenString string) (*Claims, error) {
	claims, external, err := m.parse(tokenString, m.jwks != nil)
	if err != nil {
		return nil, err
	}
	if !external && claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// parse verifies tokenString. external is true for RS256 tokens verified
// through JWKS; their typ claim is cleared since the issuer is not ours.
func (m *TokenManager) parse(tokenString string, allowRSA bool) (claims *Claims, external bool, err error) {
	claims = &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(m.secret) == 0 {
				return nil, ErrNoSigningKey
			}
			return m.secret, nil
		case *jwt.SigningMethodRSA:
			if !allowRSA {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwks.KeyFunc(t)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, false, ErrTokenExpired
		}
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, false, ErrInvalidToken
	}

	// HS256 tokens must be ours; RS256 issuers are trusted through their keys.
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok && m.issuer != "" && claims.Issuer != m.issuer {
		return nil, false, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, false, ErrInvalidToken
	}
	if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
		claims.Type = ""
		external = true
	}
	return claims, external, nil
}
