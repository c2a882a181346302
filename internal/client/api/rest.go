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

	"github.com/dmitrijs2005/userconsole/internal/buildinfo"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-ID"
	APIKeyHeader        = "x-api-key"
	AuthorizationHeader = "Authorization"

	maxErrorBody = 64 << 10
)

// ErrMalformedResponse reports a 2xx response whose body could not be used.
var ErrMalformedResponse = errors.New("malformed response")

// Options configures a RESTClient.
type Options struct {
	// BaseURL is the service root, e.g. https://reqres.in/api.
	BaseURL string
	// APIKey, when set, is sent in the x-api-key header.
	APIKey string
	// Timeout bounds a whole request. Zero keeps the transport default.
	Timeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// RESTClient implements Client over HTTP/JSON.
type RESTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tokens     TokenSource
	log        logging.Logger
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(opts Options) (*RESTClient, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &RESTClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: hc,
		log:        log.With("component", "api"),
	}, nil
}

// SetTokenSource installs the source of the bearer token. It must be called
// before the client is shared between goroutines.
func (c *RESTClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return "", mapLoginError(err)
	}
	if resp.Token == "" {
		return "", mapError("login", fmt.Errorf("%w: empty token", ErrMalformedResponse))
	}
	return resp.Token, nil
}

func (c *RESTClient) ListUsers(ctx context.Context, page int) (*models.UserPage, error) {
	var resp models.UserPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users?page=%d", page), nil, &resp); err != nil {
		return nil, mapError("list users", err)
	}
	return &resp, nil
}

func (c *RESTClient) GetUser(ctx context.Context, id int) (*models.User, error) {
	var resp struct {
		Data *models.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &resp); err != nil {
		return nil, mapError("get user", err)
	}
	if resp.Data == nil {
		return nil, mapError("get user", fmt.Errorf("%w: missing data", ErrMalformedResponse))
	}
	return resp.Data, nil
}

func (c *RESTClient) UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.UpdateAck, error) {
	var ack models.UpdateAck
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), upd, &ack); err != nil {
		return nil, mapError("update user", err)
	}
	return &ack, nil
}

func (c *RESTClient) DeleteUser(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return mapError("delete user", err)
	}
	return nil
}

// do sends one request and runs the response through normalize.
func (c *RESTClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(AuthorizationHeader, "Bearer "+tok)
		}
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	log.Debug(ctx, "api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "api request failed", "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := normalize(resp, out); err != nil {
		log.Warn(ctx, "api error response", "status", resp.StatusCode, "error", err)
		return err
	}
	log.Debug(ctx, "api response", "status", resp.StatusCode)
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// normalize applies the one response rule shared by every operation: check
// the status first; on failure surface the server's error message or a
// generic one keyed on the status; on 204 return an empty result without
// touching the body.
func normalize(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
			return &statusError{status: resp.StatusCode, message: eb.Error, fromBody: true}
		}
		return &statusError{status: resp.StatusCode, message: fmt.Sprintf("API error: %d", resp.StatusCode)}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
