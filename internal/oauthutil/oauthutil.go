// Package oauthutil holds the token handling shared by the Discord and Fitbit
// clients: converting x/oauth2 tokens into stored records, the expiry check
// every API call goes through, and collapsing concurrent refreshes.
package oauthutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// TokenResult is the outcome of a code exchange or refresh.
type TokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch milliseconds
	Scope        string
	UserID       string // set by providers that return the account id with the token
}

// FromToken converts an oauth2 token received at now. ExpiresAt is
// now + expires_in, falling back to the expiry x/oauth2 computed.
func FromToken(tok *oauth2.Token, now time.Time) TokenResult {
	res := TokenResult{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if seconds, ok := expiresIn(tok); ok {
		res.ExpiresAt = now.UnixMilli() + seconds*1000
	} else if !tok.Expiry.IsZero() {
		res.ExpiresAt = tok.Expiry.UnixMilli()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		res.Scope = scope
	}
	if userID, ok := tok.Extra("user_id").(string); ok {
		res.UserID = userID
	}
	return res
}

func expiresIn(tok *oauth2.Token) (int64, bool) {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Expired reports whether a token expiring at expiresAt (epoch ms) can no longer be used at now.
func Expired(now time.Time, expiresAt int64) bool {
	return now.UnixMilli() >= expiresAt
}

// AsAuthError converts a non-2xx token endpoint response into an AuthError.
// Other errors are returned unchanged.
func AsAuthError(provider string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return apperrors.NewAuthError(provider, re.Response.StatusCode, re.Body)
	}
	return err
}

// WithHTTPClient makes x/oauth2 use client for token endpoint calls.
func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

// Refresher collapses concurrent refreshes for the same user into a single
// refresh-token grant. Callers waiting on an in-flight refresh share its result.
type Refresher struct {
	group singleflight.Group
}

func (r *Refresher) Do(userID string, refresh func() (TokenResult, error)) (TokenResult, error) {
	v, err, _ := r.group.Do(userID, func() (interface{}, error) {
		return refresh()
	})
	if err != nil {
		return TokenResult{}, err
	}
	return v.(TokenResult), nil
}
