package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tags a session token with the identity universe it belongs to.
// Admin and user sessions share the signing mechanism but are distinct
// capability types: a verifier for one kind rejects tokens of the other even
// when both were signed with the same secret.
type TokenKind string

const (
	KindAdmin TokenKind = "admin"
	KindUser  TokenKind = "user"
)

// ErrInvalidToken is returned for every verification failure: malformed
// token, bad signature, expiry, or kind mismatch. The cause is deliberately
// not distinguished so callers cannot leak which case occurred.
var ErrInvalidToken = errors.New("invalid session token")

// ErrNoSecret is returned when the codec was built without a signing secret.
// Both issue and verify fail closed in that state.
var ErrNoSecret = errors.New("session signing secret not configured")

// Claims is the verified payload of a session token.
type Claims struct {
	SubjectID int64
	Email     string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type wireClaims struct {
	AdminID int64  `json:"adminId,omitempty"`
	UserID  int64  `json:"userId,omitempty"`
	Email   string `json:"email"`
	Kind    string `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens of one kind using a
// symmetric secret (HMAC-SHA256).
type TokenCodec struct {
	secret []byte
	kind   TokenKind
}

// NewTokenCodec builds a codec for the given kind. An empty secret is
// accepted here but every Issue and Verify call will fail.
func NewTokenCodec(secret string, kind TokenKind) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), kind: kind}
}

// Issue signs a token for the given subject with expiry now + ttl.
func (c *TokenCodec) Issue(subjectID int64, email string, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := wireClaims{
		Email: email,
		Kind:  string(c.kind),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "wojp-backoffice",
		},
	}
	switch c.kind {
	case KindAdmin:
		claims.AdminID = subjectID
	case KindUser:
		claims.UserID = subjectID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature, expiry, and kind tag of a token. Every
// failure mode returns ErrInvalidToken (or ErrNoSecret when misconfigured);
// the codec never panics on malformed input.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	if len(c.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &wireClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != string(c.kind) {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		Email: claims.Email,
		Kind:  c.kind,
	}
	switch c.kind {
	case KindAdmin:
		out.SubjectID = claims.AdminID
	case KindUser:
		out.SubjectID = claims.UserID
	}
	if out.SubjectID == 0 {
		return nil, ErrInvalidToken
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
