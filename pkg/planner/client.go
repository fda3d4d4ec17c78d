package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	bperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/httputil"
	"github.com/matzehuels/blueprint/pkg/observability"
)

// Backend endpoints.
const (
	pathHealth     = "/health"
	pathIdea       = "/api/idea"
	pathUnderstand = "/api/idea/understand"
	pathBlueprint  = "/api/planning/generate-blueprint"
)

// Defaults for [NewClient].
const (
	DefaultTimeout    = 120 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second

	// DefaultMaxRetryDelay bounds backoff and the backend's Retry-After.
	DefaultMaxRetryDelay = 30 * time.Second
)

var (
	// ErrUnavailable is returned when the backend answers success=false.
	ErrUnavailable = errors.New("planning backend unavailable")

	// ErrNetwork is returned for transport failures, 429 and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// Client calls the planning backend.
type Client struct {
	http     *http.Client
	baseURL  string
	headers  map[string]string
	retry    httputil.Policy
	logger   *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.retry.Attempts, c.retry.Delay = attempts, delay }
}

// WithMaxRetryDelay caps the wait between attempts, including a
// Retry-After sent by the backend.
func WithMaxRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retry.MaxDelay = d }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := bperrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		headers:  map[string]string{"Accept": "application/json"},
		retry: httputil.Policy{
			Attempts: DefaultRetries,
			Delay:    DefaultRetryDelay,
			MaxDelay: DefaultMaxRetryDelay,
		},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// Operations
// =============================================================================

// Result is a generated blueprint and the model provider that produced it.
type Result struct {
	Blueprint blueprint.Blueprint `json:"blueprint"`
	Provider  string              `json:"provider_used,omitempty"`
}

// GenerateBlueprint generates a complete blueprint for idea. In interactive
// mode idea is the refined idea composed by a [Dialogue].
func (c *Client) GenerateBlueprint(ctx context.Context, idea string, mode blueprint.Mode) (Result, error) {
	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, string(mode))
	start := time.Now()
	res, err := c.generate(ctx, idea, mode)
	hooks.OnPlanComplete(ctx, string(mode), res.Provider, time.Since(start), err)
	return res, err
}

func (c *Client) generate(ctx context.Context, idea string, mode blueprint.Mode) (Result, error) {
	var err error
	if mode == blueprint.ModeInteractive {
		idea, err = ValidateRefined(idea)
	} else {
		idea, err = bperrors.ValidateIdea(idea)
	}
	if err != nil {
		return Result{}, err
	}

	req := struct {
		Idea string         `json:"idea"`
		Mode blueprint.Mode `json:"mode"`
	}{idea, mode}
	var data struct {
		Blueprint json.RawMessage `json:"blueprint"`
		Provider  string          `json:"provider_used"`
	}
	if err := c.call(ctx, http.MethodPost, pathBlueprint, req, &data); err != nil {
		return Result{}, err
	}
	if len(data.Blueprint) == 0 || string(data.Blueprint) == "null" {
		return Result{}, bperrors.Wrap(bperrors.ErrCodeBackendUnavailable, ErrUnavailable, "response has no blueprint")
	}
	bp, err := blueprint.Decode(data.Blueprint)
	if err != nil {
		return Result{}, bperrors.Wrap(bperrors.ErrCodeBackendUnavailable, fmt.Errorf("%w: %v", ErrUnavailable, err), "malformed blueprint")
	}
	return Result{Blueprint: bp, Provider: data.Provider}, nil
}

// Question is a clarifying question about an idea.
type Question struct {
	ID      string   `json:"question_id"`
	Text    string   `json:"question_text"`
	Context string   `json:"context,omitempty"`
	Options []string `json:"options,omitempty"`
}

// ClarifyingQuestions asks the backend which questions would refine idea.
func (c *Client) ClarifyingQuestions(ctx context.Context, idea string) ([]Question, error) {
	idea, err := bperrors.ValidateIdea(idea)
	if err != nil {
		return nil, err
	}
	req := ideaRequest{RawIdea: idea, Mode: "interactive"}
	var data struct {
		Questions []Question `json:"questions"`
	}
	if err := c.call(ctx, http.MethodPost, pathIdea, req, &data); err != nil {
		return nil, err
	}
	out := data.Questions[:0]
	for i, q := range data.Questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		out = append(out, q)
	}
	return out, nil
}

// Expanded is the structured understanding of an idea.
type Expanded struct {
	ProblemStatement string   `json:"problem_statement"`
	TargetUsers      []string `json:"target_users"`
	Objectives       []string `json:"objectives"`
	Scope            string   `json:"scope"`
	WhatThisMeans    string   `json:"what_this_means,omitempty"`
	WhyThisMatters   string   `json:"why_this_matters,omitempty"`
}

// ExpandIdea asks the backend to restate idea as a problem statement,
// target users, objectives and scope.
func (c *Client) ExpandIdea(ctx context.Context, idea string) (Expanded, error) {
	idea, err := bperrors.ValidateIdea(idea)
	if err != nil {
		return Expanded{}, err
	}
	var data struct {
		Expanded Expanded `json:"expanded"`
	}
	err = c.call(ctx, http.MethodPost, pathUnderstand, ideaRequest{RawIdea: idea, Mode: "ai_only"}, &data)
	return data.Expanded, err
}

// Health reports whether the backend is reachable. Health does not retry.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, pathHealth, nil)
	if err != nil {
		return translate(err)
	}
	resp.Body.Close()
	return nil
}

type ideaRequest struct {
	RawIdea string `json:"raw_idea"`
	Mode    string `json:"mode"`
}

// =============================================================================
// Transport
// =============================================================================

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// call performs a request with retries and decodes the envelope's data
// into out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}

	var env envelope
	start := time.Now()
	policy := c.retry
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.logger.Debug("retrying backend request", "path", path, "attempt", attempt, "wait", wait, "error", err)
	}
	err := httputil.Retry(ctx, policy, func() error {
		resp, err := c.do(ctx, method, path, body)
		if err != nil {
			c.logger.Debug("backend request failed", "path", path, "error", err)
			return err
		}
		defer resp.Body.Close()
		env = envelope{}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	c.logger.Debug("backend request", "path", path, "success", env.Success, "took", time.Since(start))

	if !env.Success {
		ue := &UnavailableError{Message: env.Message, Details: env.Errors}
		return bperrors.Wrap(bperrors.ErrCodeBackendUnavailable, ue, "planning backend refused the request")
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return translate(fmt.Errorf("%w: decode data: %v", ErrUnavailable, err))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			hooks.OnError(ctx, method, path, ctx.Err())
			return nil, ctx.Err()
		}
		hooks.OnError(ctx, method, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, method, path, resp.StatusCode, time.Since(start))
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// checkStatus maps retryable statuses to ErrNetwork and the rest to
// ErrUnavailable, keeping any Retry-After wait.
func checkStatus(resp *http.Response) error {
	err := httputil.CheckResponse(resp)
	if err == nil {
		return nil
	}
	var re *httputil.RetryableError
	if errors.As(err, &re) {
		re.Err = fmt.Errorf("%w: %v", ErrNetwork, re.Err)
		return re
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// translate attaches error codes to transport failures.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return bperrors.Wrap(bperrors.ErrCodeTimeout, err, "planning backend timed out")
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrNetwork):
		return bperrors.Wrap(bperrors.ErrCodeNetwork, err, "planning backend unreachable")
	default:
		return bperrors.Wrap(bperrors.ErrCodeBackendUnavailable, err, "planning backend error")
	}
}

// UnavailableError is a success=false answer from the backend.
type UnavailableError struct {
	Message string
	Details []string
}

func (e *UnavailableError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = ErrUnavailable.Error()
	}
	if len(e.Details) > 0 {
		return msg + ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

// Is makes errors.Is(err, ErrUnavailable) hold.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }
