package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDClaim     = "user_id"
	devUserHeader   = "X-User-Id"
	devDefaultUser  = config.LocalUserID
	tokenTTLDefault = 24 * time.Hour
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator validates HS256 bearer tokens whose claims carry the user id.
type Authenticator struct {
	secret   []byte
	disabled bool
	logger   *logger_i.Logger
}

func NewAuthenticator(secret string, disabled bool) *Authenticator {
	a := &Authenticator{secret: []byte(secret), disabled: disabled, logger: logger_i.NewLogger("auth")}
	if disabled {
		a.logger.Warn("authentication is disabled, the X-User-Id header is trusted")
	} else if secret == "" {
		a.logger.Error("JWT secret is empty, every request will be rejected")
	}
	return a
}

func (a *Authenticator) UserFromRequest(r *http.Request) (string, error) {
	if a.disabled {
		if user := r.Header.Get(devUserHeader); user != "" {
			return user, nil
		}
		return devDefaultUser, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingToken
	}
	return a.ParseToken(strings.TrimPrefix(header, "Bearer "))
}

// ParseToken returns the user id of a valid token. "sub" is accepted when "user_id" is absent.
func (a *Authenticator) ParseToken(tokenString string) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if user, ok := claims[userIDClaim].(string); ok && user != "" {
		return user, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("%w: no user claim", ErrInvalidToken)
}

// IssueToken signs a token for userID. Used by tooling and tests.
func (a *Authenticator) IssueToken(userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = tokenTTLDefault
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIDClaim: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
	return token.SignedString(a.secret)
}
