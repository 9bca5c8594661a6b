// Package apiclient is the small JSON-over-HTTP helper the provider clients
// use for their REST endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/fitbit-discord-bot/internal/errors"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	DefaultTimeout = 30 * time.Second
)

// NewHTTPClient returns the client used for every outbound provider call.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Requester sends requests to one provider's API.
type Requester struct {
	Provider   string
	BaseURL    string
	HTTPClient *http.Client
}

// Request describes a single API call. At most one of Form and JSON is sent as
// the body.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	BasicUser     string
	BasicPassword string
	Form          url.Values
	JSON          any
}

// Do sends req and decodes a JSON response into out when out is non nil.
// Non-2xx responses are returned as *errors.AuthError carrying status and body.
func (r *Requester) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = contentTypeForm
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return fmt.Errorf("marshal %s request body: %w", r.Provider, err)
		}
		body = bytes.NewReader(data)
		contentType = contentTypeJSON
	}

	target := strings.TrimSuffix(r.BaseURL, "/") + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", r.Provider, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if req.BasicUser != "" {
		httpReq.SetBasicAuth(req.BasicUser, req.BasicPassword)
	}

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", r.Provider, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.NewAuthError(r.Provider, resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Provider, err)
	}
	return nil
}

// Bearer formats a user access token for the Authorization header.
func Bearer(token string) string {
	return "Bearer " + token
}
