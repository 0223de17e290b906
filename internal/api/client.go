// Package api implements the HTTP gateway to the todo server. It owns
// the CSRF double-submit header, the cookie-based session transport and
// the mapping of responses onto the client error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	// SessionCookie is the cookie carrying the session credential. The
	// server sets it on login; the transport forwards it automatically.
	SessionCookie = "access_token_cookie"

	// CSRFCookie is the cookie carrying the anti-forgery token.
	CSRFCookie = "csrf_access_token"

	// CSRFHeader is the request header the server matches against
	// CSRFCookie (double-submit pattern).
	CSRFHeader = "X-CSRF-TOKEN"

	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 10 * time.Second
)

// CredentialSource provides the persisted bearer values attached to
// outgoing requests. Both values are opaque.
type CredentialSource interface {
	SessionToken() (string, bool)
	CSRFToken() (string, bool)
}

// Client is the single HTTP gateway. All server communication in the
// program goes through Do.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	creds   CredentialSource
	log     *log.Logger

	// onSessionExpired is invoked whenever the server answers 401, so a
	// top-level controller can force re-authentication. It runs before
	// Do returns.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSessionExpiredFunc registers the session-invalidated signal.
func WithSessionExpiredFunc(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New creates a Client for the given base URL. Persisted credentials
// from creds are seeded into the cookie jar so an earlier login carries
// over; cookies set by the server during this client's lifetime replace
// them.
func New(baseURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: DefaultTimeout},
		creds:   creds,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.seedJar()
	return c, nil
}

// seedJar copies persisted bearer values into the cookie jar.
func (c *Client) seedJar() {
	if c.creds == nil {
		return
	}
	var cookies []*http.Cookie
	if tok, ok := c.creds.SessionToken(); ok {
		cookies = append(cookies, &http.Cookie{Name: SessionCookie, Value: tok})
	}
	if tok, ok := c.creds.CSRFToken(); ok {
		cookies = append(cookies, &http.Cookie{Name: CSRFCookie, Value: tok})
	}
	if len(cookies) > 0 {
		c.http.Jar.SetCookies(c.baseURL, cookies)
	}
}

// BearerCookies returns the current session and CSRF cookie values from
// the jar, typically right after a successful login.
func (c *Client) BearerCookies() (session, csrf string) {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		switch ck.Name {
		case SessionCookie:
			session = ck.Value
		case CSRFCookie:
			csrf = ck.Value
		}
	}
	return session, csrf
}

// mutating reports whether a method changes server state and therefore
// needs the CSRF header.
func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Do performs one request. body is JSON-encoded when non-nil; a 2xx
// response is decoded into out when out is non-nil. Mutating methods
// carry the CSRF token header when the credential store has one; a
// missing token is not an error (the server may still reject).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutating(method) && c.creds != nil {
		if tok, ok := c.creds.CSRFToken(); ok {
			req.Header.Set(CSRFHeader, tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return &Error{Message: "transport failure", cause: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		"method", method, "path", path,
		"status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return &Error{Status: resp.StatusCode, Message: serverMessage(resp), cause: ErrSessionExpired}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(resp)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts a human-readable message from an error
// response. The server answers JSON with a msg or message field; plain
// bodies fall back to the status text.
func serverMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(data) > 0 {
		var payload struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil {
			if payload.Msg != "" {
				return payload.Msg
			}
			if payload.Message != "" {
				return payload.Message
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
