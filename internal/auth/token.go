package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quill-blog/quill/internal/shared"
)

// Claims is the signed payload. It carries the user identifier under
// "user.id".
type Claims struct {
	jwt.RegisteredClaims
	User ClaimsUser `json:"user"`
}

// ClaimsUser identifies the token owner.
type ClaimsUser struct {
	ID string `json:"id"`
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds a TokenIssuer. A zero ttl issues tokens without an
// expiry claim.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue mints a token for userID.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   t.issuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		User: ClaimsUser{ID: userID},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of raw and returns the
// embedded user identifier. Every failure wraps shared.ErrInvalidToken.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired: %w", shared.ErrInvalidToken)
		}
		return "", fmt.Errorf("auth: %v: %w", err, shared.ErrInvalidToken)
	}
	if !token.Valid || claims.User.ID == "" {
		return "", shared.ErrInvalidToken
	}
	return claims.User.ID, nil
}
