// Package client talks to the recommendation server's JSON API.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/atinyakov/restofinder/internal/models"
)

const (
	apiSignup          = "/api/signup"
	apiLogin           = "/api/login"
	apiLogout          = "/api/logout"
	apiRecommendations = "/api/recommendations"
)

var (
	// ErrUnauthorized is returned for bad credentials or a missing session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken is returned by Signup when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// APIError is a non-success response the client has no sentinel for.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// User is the account returned by signup and login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client keeps the session cookie between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL. When caFile is set, the server
// certificate must chain to that CA.
func New(baseURL, caFile string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: caPool, MinVersion: tls.VersionTLS12}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport, Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, apiSignup, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, apiLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, apiLogout, nil, nil)
}

// Search returns recommendations for query in the given mode.
func (c *Client) Search(ctx context.Context, query, mode string) ([]models.Recommendation, error) {
	q := url.Values{"query": {query}, "search_by": {mode}}
	var resp struct {
		Results []models.Recommendation `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, apiRecommendations+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return ErrEmailTaken
	case resp.StatusCode >= 300:
		data, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
