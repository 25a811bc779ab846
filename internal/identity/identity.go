package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken means no credential was supplied at all.
	ErrMissingToken = errors.New("identity: missing token")
	// ErrInvalidToken covers malformed, expired and badly signed credentials.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrUnknownUser means the credential was valid but its subject has no profile.
	ErrUnknownUser = errors.New("identity: unknown user")
)

// UserDirectory resolves user IDs to profiles. Absence is reported as
// (nil, nil) rather than an error.
type UserDirectory interface {
	GetUserByID(id string) (*models.User, error)
}

// Provider verifies bearer credentials and resolves their subject to a profile.
type Provider interface {
	Verify(token string) (string, error)
	ResolveProfile(userID string) (*models.User, error)
}

// JWTProvider verifies HS256 tokens and resolves profiles through a UserDirectory.
type JWTProvider struct {
	secret []byte
	issuer string
	users  UserDirectory
}

func NewJWTProvider(secret []byte, issuer string, users UserDirectory) *JWTProvider {
	return &JWTProvider{secret: secret, issuer: issuer, users: users}
}

// Verify checks the token's signature, expiry and issuer and returns its
// subject. Every verification failure collapses to ErrInvalidToken; callers
// must not leak the underlying reason to the client.
func (p *JWTProvider) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// ResolveProfile loads the profile for a verified subject.
func (p *JWTProvider) ResolveProfile(userID string) (*models.User, error) {
	user, err := p.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}

// SignToken mints an HS256 credential for userID. Token issuance lives in the
// account service; this helper exists for tests and operator tooling.
func SignToken(secret []byte, issuer, userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iss": issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
