// Package token signs the short-lived values the bot hands to browsers, such as
// the OAuth state kept in the clientState cookie.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// StateClaims carries an OAuth state value between redirects
type StateClaims struct {
	State string `json:"state"`
	jwt.RegisteredClaims
}

// HMACSigner signs and verifies StateClaims with HMAC-SHA256
type HMACSigner struct {
	secret  []byte
	nowFunc func() time.Time
}

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret []byte) *HMACSigner {
	return &HMACSigner{
		secret:  secret,
		nowFunc: time.Now,
	}
}

// SignState returns a token holding state that expires after ttl.
func (h *HMACSigner) SignState(state string, ttl time.Duration) (string, error) {
	now := h.nowFunc()
	claims := StateClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign state with HMAC")
	}
	return signedToken, nil
}

// VerifyState checks the signature and expiry of rawToken and returns the
// state it carries.
func (h *HMACSigner) VerifyState(rawToken string) (string, error) {
	var claims StateClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, h.verificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.nowFunc),
	)
	if err != nil {
		return "", errors.Wrap(err, "invalid state token")
	}
	if claims.State == "" {
		return "", errors.New("state token has no state")
	}
	return claims.State, nil
}

func (h *HMACSigner) verificationKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
