package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/fitbit-discord-bot/token"
	"github.com/stretchr/testify/require"
)

func TestHMACSigner(t *testing.T) {
	signer := token.NewHMACSigner([]byte("cookie-secret"))

	t.Run("round trip", func(t *testing.T) {
		raw, err := signer.SignState("abc-123", time.Minute)
		require.NoError(t, err)

		state, err := signer.VerifyState(raw)
		require.NoError(t, err)
		require.Equal(t, "abc-123", state)
	})

	t.Run("other secret", func(t *testing.T) {
		raw, err := token.NewHMACSigner([]byte("other")).SignState("abc-123", time.Minute)
		require.NoError(t, err)

		_, err = signer.VerifyState(raw)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := signer.SignState("abc-123", -time.Second)
		require.NoError(t, err)

		_, err = signer.VerifyState(raw)
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		raw, err := signer.SignState("abc-123", time.Minute)
		require.NoError(t, err)

		_, err = signer.VerifyState(raw + "x")
		require.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, token.StateClaims{State: "abc-123"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.VerifyState(raw)
		require.Error(t, err)
	})
}
