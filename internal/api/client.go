package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/tarjama/internal"
	"codeberg.org/snonux/tarjama/internal/errs"
)

// Config holds the settings of the backend client
type Config struct {
	BaseURL string        // e.g. "http://192.168.1.7:8080/translation-service/api/"
	Timeout time.Duration // Per-request timeout, 0 means none

	// Consecutive transport or 5xx failures before the breaker opens
	BreakerFailures uint32
	// How long the breaker stays open before letting a probe through
	BreakerCooldown time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:8080/translation-service/api/",
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Client talks to the translation backend over its REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	breakers   map[string]*gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// response is a fully read HTTP response
type response struct {
	status int
	body   []byte
	err    error // Set when the caller's context ended; not counted by the breaker
}

// serverError marks a 5xx reply so the breaker counts it
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server returned %d %s", e.status, http.StatusText(e.status))
}

// NewClient creates a backend client
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	base := strings.TrimSpace(config.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL: %q", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = DefaultConfig().BreakerFailures
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, len(breakerGroups))
	for _, group := range breakerGroups {
		breakers[group] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "translation-api-" + group,
			Timeout: config.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		breakers:   breakers,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint groups with their own breaker. A failing group never blocks
// requests to another.
const (
	groupAccount   = "account"
	groupTranslate = "translate"
	groupHistory   = "history"
)

var breakerGroups = []string{groupAccount, groupTranslate, groupHistory}

// breakerGroup maps a request path to its endpoint group
func breakerGroup(path string) string {
	switch {
	case path == "translate":
		return groupTranslate
	case strings.HasPrefix(path, "translate/"):
		return groupHistory
	default:
		return groupAccount
	}
}

// userPath returns "auth/user/{username}" with the username escaped
func userPath(username string, rest ...string) string {
	parts := append([]string{"auth", "user", url.PathEscape(username)}, rest...)
	return strings.Join(parts, "/")
}

// do sends a request and reads the whole response. Transport failures, an
// open breaker and 5xx replies come back as NetworkError; any other status
// is returned to the caller to interpret.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body interface{}) (*response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
	}

	requestID := internal.NewRequestID()
	start := time.Now()

	result, err := c.breakers[breakerGroup(path)].Execute(func() (interface{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return &response{err: err}, nil
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", internal.UserAgent)
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json; charset=utf-8")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return &response{err: ctx.Err()}, nil
			}
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if ctx.Err() != nil {
				return &response{err: ctx.Err()}, nil
			}
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, &serverError{status: resp.StatusCode}
		}
		return &response{status: resp.StatusCode, body: data}, nil
	})

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	}

	if err != nil {
		c.logger.Debug("request failed", append(fields, zap.Error(err))...)
		var se *serverError
		if errors.As(err, &se) {
			return nil, &errs.Error{Kind: errs.ErrNetwork, Op: op, Msg: "the translation service is unavailable", Err: err}
		}
		return nil, errs.Network(op, err)
	}

	resp := result.(*response)
	if resp.err != nil {
		c.logger.Debug("request abandoned", append(fields, zap.Error(resp.err))...)
		return nil, errs.Network(op, resp.err)
	}

	c.logger.Debug("request done", append(fields, zap.Int("status", resp.status))...)
	return resp, nil
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// rejection turns a non-2xx reply into an AuthorizationError carrying the
// server's reason when it gave one
func rejection(op string, r *response, fallback string) error {
	msg := serverReason(r.body)
	if msg == "" {
		msg = fallback
	}
	return errs.Authorization(op, msg)
}

// maxReasonLength caps a plain-text server reason, in runes
const maxReasonLength = 200

func serverReason(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
		return ""
	}
	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > maxReasonLength {
		text = string(runes[:maxReasonLength])
	}
	return text
}

// Login checks credentials. The success body is opaque and returned as-is.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	const op = "login"
	resp, err := c.do(ctx, op, http.MethodPost, "auth/login", nil, creds)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", rejection(op, resp, "login failed")
	}
	return strings.TrimSpace(string(resp.body)), nil
}

// Signup registers a new account and returns the server's message
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	const op = "signup"
	resp, err := c.do(ctx, op, http.MethodPost, "auth/signup", nil, req)
	if err != nil {
		return "", err
	}

	var sr signupResponse
	parseErr := json.Unmarshal(resp.body, &sr)

	if !resp.ok() {
		if parseErr == nil && sr.Error != "" {
			return "", errs.Authorization(op, sr.Error)
		}
		return "", rejection(op, resp, "signup failed")
	}
	if parseErr != nil || sr.Message == "" {
		return "Signup successful", nil
	}
	return sr.Message, nil
}

// GetProfile fetches the account's email and phone
func (c *Client) GetProfile(ctx context.Context, username string) (Profile, error) {
	const op = "profile.load"
	resp, err := c.do(ctx, op, http.MethodGet, userPath(username), nil, nil)
	if err != nil {
		return Profile{}, err
	}
	if !resp.ok() {
		return Profile{}, rejection(op, resp, "could not load profile")
	}

	var pr profileResponse
	if err := json.Unmarshal(resp.body, &pr); err != nil {
		return Profile{}, errs.Decode(op, err)
	}

	var p Profile
	if pr.Email != nil {
		p.Email = *pr.Email
	}
	if pr.Phone != nil {
		p.Phone = *pr.Phone
	}
	return p, nil
}

// UpdateProfile sends the non-empty fields of update
func (c *Client) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error {
	const op = "profile.update"
	resp, err := c.do(ctx, op, http.MethodPut, userPath(username), nil, update)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return rejection(op, resp, "update failed")
	}
	return nil
}

// ChangePassword replaces the account password
func (c *Client) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	const op = "password.change"
	body := passwordChange{OldPassword: oldPassword, NewPassword: newPassword}
	resp, err := c.do(ctx, op, http.MethodPut, userPath(username, "password"), nil, body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return rejection(op, resp, "password change failed: check current password")
	}
	return nil
}

// DeleteAccount permanently deletes the account
func (c *Client) DeleteAccount(ctx context.Context, username, password string) error {
	const op = "account.delete"
	query := url.Values{"password": {password}}
	resp, err := c.do(ctx, op, http.MethodDelete, userPath(username), query, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return rejection(op, resp, "delete failed: check password")
	}
	return nil
}

// Translate requests a translation, optionally with base64 audio
func (c *Client) Translate(ctx context.Context, req TranslateRequest) (TranslateResponse, error) {
	const op = "translate"
	query := url.Values{}
	query.Set("text", req.Text)
	query.Set("to", req.To)
	if req.IncludeAudio {
		query.Set("includeAudio", "true")
	}
	if req.Username != "" {
		query.Set("username", req.Username)
	}

	resp, err := c.do(ctx, op, http.MethodGet, "translate", query, nil)
	if err != nil {
		return TranslateResponse{}, err
	}
	if !resp.ok() {
		return TranslateResponse{}, rejection(op, resp, "translation failed")
	}

	var tr TranslateResponse
	if err := json.Unmarshal(resp.body, &tr); err != nil {
		return TranslateResponse{}, errs.Decode(op, err)
	}
	if tr.Translation == nil {
		return TranslateResponse{}, errs.Decode(op, fmt.Errorf("response has no translation"))
	}
	return tr, nil
}

// History returns the user's stored translations in server order
func (c *Client) History(ctx context.Context, username string) ([]HistoryItem, error) {
	const op = "history.fetch"
	query := url.Values{"username": {username}}
	resp, err := c.do(ctx, op, http.MethodGet, "translate/history", query, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, rejection(op, resp, "could not load history")
	}

	var hr historyResponse
	if err := json.Unmarshal(resp.body, &hr); err != nil {
		return nil, errs.Decode(op, err)
	}
	return hr.History, nil
}

// ClearHistory deletes all stored translations of the user
func (c *Client) ClearHistory(ctx context.Context, username string) error {
	const op = "history.clear"
	query := url.Values{"username": {username}}
	resp, err := c.do(ctx, op, http.MethodGet, "translate/clear-history", query, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return rejection(op, resp, "could not clear history")
	}
	return nil
}
