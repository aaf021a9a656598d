// Package wordpress talks to the WordPress REST API.
//
// Client is a thin JSON transport over net/http that knows the API root,
// authentication mode and default headers. Routes are given relative to the
// API root ("wp/v2/pages/12"). Resolver builds on it to translate local
// references (parent document keys, tag names) into remote ids.
package wordpress

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

	"go.uber.org/zap"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// AuthMode selects how credentials are sent.
type AuthMode string

const (
	// AuthBasic sends HTTP basic auth with the user and application password.
	AuthBasic AuthMode = "basic"
	// AuthToken sends the key as a bearer token.
	AuthToken AuthMode = "token"
)

// API is the set of calls the sync engine makes. *Client implements it.
type API interface {
	Get(ctx context.Context, route string, query url.Values, out any) error
	Post(ctx context.Context, route string, body, out any) error
	Delete(ctx context.Context, route string, out any) error
}

// Options configures a Client.
type Options struct {
	APIRoot    string        // base URL, e.g. https://example.com/wp-json/
	User       string        // basic auth user
	Key        string        // application password or bearer token
	Mode       AuthMode      // defaults to AuthBasic
	Timeout    time.Duration // defaults to DefaultTimeout
	UserAgent  string        // defaults to "d2cms"
	HTTPClient *http.Client  // overrides Timeout when set
	Logger     *zap.Logger   // remote calls are logged at debug level
}

// Client is a WordPress REST client. It is safe for concurrent use.
type Client struct {
	root       *url.URL
	user       string
	key        string
	mode       AuthMode
	userAgent  string
	httpClient *http.Client
	log        *zap.Logger
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	root, err := url.Parse(NormalizeAPIRoot(opts.APIRoot))
	if err != nil {
		return nil, fmt.Errorf("%w: api root: %w", ErrInvalidOptions, err)
	}
	if root.Scheme != "http" && root.Scheme != "https" {
		return nil, fmt.Errorf("%w: api root %q must be an http(s) URL", ErrInvalidOptions, opts.APIRoot)
	}

	mode := opts.Mode
	switch mode {
	case "":
		mode = AuthBasic
	case AuthBasic, AuthToken:
	default:
		return nil, fmt.Errorf("%w: unknown auth mode %q", ErrInvalidOptions, mode)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "d2cms"
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		root:       root,
		user:       opts.User,
		key:        opts.Key,
		mode:       mode,
		userAgent:  ua,
		httpClient: hc,
		log:        logger,
	}, nil
}

// NormalizeAPIRoot trims whitespace and guarantees a trailing slash so that
// relative routes resolve below the root rather than replacing its last
// segment.
func NormalizeAPIRoot(root string) string {
	root = strings.TrimSpace(root)
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// Get issues a GET and decodes the JSON response into out (if non-nil).
func (c *Client) Get(ctx context.Context, route string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, route, query, nil, out)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, route string, out any) error {
	return c.do(ctx, http.MethodDelete, route, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, route string, query url.Values, body, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(route, "/"))
	if err != nil {
		return fmt.Errorf("%s %s: invalid route: %w", method, route, err)
	}
	u := c.root.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encoding body: %w", method, route, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch c.mode {
	case AuthToken:
		req.Header.Set("Authorization", "Bearer "+c.key)
	default:
		req.SetBasicAuth(c.user, c.key)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", method, route, err)
	}

	c.log.Debug("wordpress request",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := truncateBody(string(data))
		return &APIError{Method: method, Route: route, StatusCode: resp.StatusCode, Body: text}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, route, err)
	}
	return nil
}
