package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	apperrors "github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequester_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("json body and response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/things", r.URL.Path)
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var in map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "b", in["a"])
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		r := &apiclient.Requester{Provider: "test", BaseURL: srv.URL + "/", HTTPClient: srv.Client()}
		var out struct {
			OK bool `json:"ok"`
		}
		err := r.Do(ctx, apiclient.Request{
			Method:        http.MethodPut,
			Path:          "/things",
			Authorization: apiclient.Bearer("abc"),
			JSON:          map[string]string{"a": "b"},
		}, &out)
		require.NoError(t, err)
		require.True(t, out.OK)
	})

	t.Run("form body with basic auth", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client", user)
			assert.Equal(t, "secret", pass)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "tok", r.PostForm.Get("token"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		r := &apiclient.Requester{Provider: "test", BaseURL: srv.URL, HTTPClient: srv.Client()}
		err := r.Do(ctx, apiclient.Request{
			Method:        http.MethodPost,
			Path:          "/revoke",
			BasicUser:     "client",
			BasicPassword: "secret",
			Form:          url.Values{"token": {"tok"}},
		}, nil)
		require.NoError(t, err)
	})

	t.Run("non 2xx is an auth error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"401: Unauthorized"}`))
		}))
		defer srv.Close()

		r := &apiclient.Requester{Provider: "discord", BaseURL: srv.URL, HTTPClient: srv.Client()}
		err := r.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/x"}, nil)

		var authErr *apperrors.AuthError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, http.StatusUnauthorized, authErr.Status)
		require.Contains(t, authErr.Body, "Unauthorized")
	})
}
