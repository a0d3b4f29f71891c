// ABOUTME: Double-submit CSRF protection with signed, expiring tokens
// ABOUTME: Tokens are HS256 JWTs stored in a cookie and echoed in every form

package webui

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "taskboard_csrf"

	// CSRFFormField is the form field carrying the token
	CSRFFormField = "csrf_token"

	// CSRFHeader is accepted in place of the form field
	CSRFHeader = "X-CSRF-Token"

	csrfSubject = "csrf"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid csrf token")
	ErrExpiredToken = errors.New("csrf token expired")
)

// tokenSigner issues and checks CSRF tokens.
type tokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// newTokenSigner uses secret when set and 32 random bytes otherwise.
func newTokenSigner(secret string, ttl time.Duration) (*tokenSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating csrf secret: %w", err)
		}
	}
	return &tokenSigner{secret: key, ttl: ttl}, nil
}

// Generate creates a token that expires after the signer's ttl.
func (s *tokenSigner) Generate() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   csrfSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature, expiry and subject of a token.
func (s *tokenSigner) Verify(tokenString string) error {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject != csrfSubject {
		return ErrInvalidToken
	}
	return nil
}

// ensureCSRFToken reuses a valid cookie token or issues a new one.
func (u *UI) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		if u.csrf.Verify(cookie.Value) == nil {
			return cookie.Value
		}
	}

	token, err := u.csrf.Generate()
	if err != nil {
		u.logger.Error("failed to generate CSRF token", "error", err)
		token = ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(u.csrf.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return token
}

// validateCSRF checks the submitted token against the cookie. The form
// must already be parsed.
func (u *UI) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	submitted := r.FormValue(CSRFFormField)
	if submitted == "" {
		submitted = r.Header.Get(CSRFHeader)
	}
	if submitted == "" || submitted != cookie.Value {
		return false
	}

	if err := u.csrf.Verify(submitted); err != nil {
		u.logger.Debug("csrf token rejected", "error", err)
		return false
	}
	return true
}
