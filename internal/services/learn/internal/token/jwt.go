package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

type secretProvider interface {
	Get() []byte
}

// SecretString is a signing secret held in memory.
type SecretString struct {
	secret []byte
}

func NewSecretString(secret string) *SecretString {
	return &SecretString{
		secret: []byte(secret),
	}
}

func (s *SecretString) Get() []byte {
	return s.secret
}

// Claims is the validated content of a bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type JwtConfig struct {
	Secret    secretProvider
	Algorithm string
	TTL       time.Duration
	Now       func() time.Time
}

// JwtIssuer signs and validates HMAC JWTs carrying the username as subject.
type JwtIssuer struct {
	secret secretProvider
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(cfg JwtConfig) (*JwtIssuer, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.Algorithm)
	}

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not supported, use an HMAC algorithm", cfg.Algorithm)
	}

	if cfg.Secret == nil || len(cfg.Secret.Get()) == 0 {
		return nil, errors.New("signing secret is empty")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &JwtIssuer{
		secret: cfg.Secret,
		method: method,
		ttl:    cfg.TTL,
		now:    now,
	}, nil
}

// Issue signs a token for subject that expires after the configured TTL.
func (ti *JwtIssuer) Issue(subject string) (string, error) {
	now := ti.now()
	tk, err := jwt.NewWithClaims(ti.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}).SignedString(ti.secret.Get())

	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

// Validate checks signature, algorithm and expiry. Expired tokens yield ErrExpired,
// anything else unusable yields ErrInvalid.
func (ti *JwtIssuer) Validate(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		return ti.secret.Get(), nil
	},
		jwt.WithValidMethods([]string{ti.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %w", ErrExpired, err)
		}

		return Claims{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if rc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalid)
	}

	c := Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}

	return c, nil
}
