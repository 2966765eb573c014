package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrWrongPassword   = errors.New("wrong password")
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Tokens issues and verifies self-contained HS256 bearer tokens. Verification
// is a pure function of the token, the secret and the clock; resolving the
// embedded identity to a live account is the caller's job.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token issuer. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewTokensAt pins the clock, for verification tests.
func NewTokensAt(secret string, ttl time.Duration, now func() time.Time) *Tokens {
	t := NewTokens(secret, ttl)
	t.now = now
	return t
}

func (t *Tokens) Issue(identity string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		ExpiresAt: jwt.NewNumericDate(t.now().Add(t.ttl)),
		IssuedAt:  jwt.NewNumericDate(t.now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the identity embedded in the token. Malformed tokens, bad
// signatures and expired tokens all come back as ErrInvalidToken.
func (t *Tokens) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(plain, hashed string) error {
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) != nil {
		return ErrWrongPassword
	}
	return nil
}
