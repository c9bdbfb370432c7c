// Package restsvc implements the resource.Backend contract over HTTP: it
// resolves paths against the configured backend base URL, attaches the
// session's bearer token and JSON headers to every request, and normalizes
// transport failures into the core error taxonomy. It does not retry and
// does not cache.
package restsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

type Client struct {
	baseURL string
	client  *http.Client
	session core.Session
	log     core.Logger
}

var _ resource.Backend = (*Client)(nil)

func NewClient(conf core.APIConfig, session core.Session, log core.Logger) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxConnsPerHost:     50,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		session: session,
		log:     log,
	}
}

func (c *Client) List(ctx context.Context, path string, query url.Values) ([]resource.Resource, error) {
	data, err := c.do(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return nil, err
	}
	items, err := resource.DecodeCollection(data)
	if err != nil {
		// a 2xx with an unparseable body is a proxy or crashing backend,
		// not a business response
		return nil, errors.WithMessage(core.ErrUnavailable, "decoding response")
	}
	return items, nil
}

func (c *Client) Create(ctx context.Context, path string, body map[string]interface{}) (resource.Resource, error) {
	data, err := c.do(ctx, http.MethodPost, c.url(path, nil), body)
	if err != nil {
		return resource.Resource{}, err
	}
	return c.decodeItem(data)
}

func (c *Client) Update(ctx context.Context, path, id string, body map[string]interface{}) (resource.Resource, error) {
	data, err := c.do(ctx, http.MethodPut, c.url(path+"/"+url.PathEscape(id), nil), body)
	if err != nil {
		return resource.Resource{}, err
	}
	return c.decodeItem(data)
}

func (c *Client) decodeItem(data []byte) (resource.Resource, error) {
	item, err := resource.DecodeItem(data)
	if err != nil {
		return resource.Resource{}, errors.WithMessage(core.ErrUnavailable, "decoding response")
	}
	return item, nil
}

func (c *Client) Delete(ctx context.Context, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.url(path+"/"+url.PathEscape(id), nil), nil)
	return err
}

// Login exchanges credentials for a bearer token and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	data, err := c.do(ctx, http.MethodPost, c.url("/api/login", nil), map[string]interface{}{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	var body struct {
		Token string `json:"token"`
		Data  struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return errors.WithMessage(core.ErrUnavailable, "decoding login response")
	}
	token := body.Token
	if token == "" {
		token = body.Data.Token
	}
	if token == "" {
		return core.NewAPIError(http.StatusOK, "login response carried no token")
	}
	return c.session.SetToken(token)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do executes one request and classifies the outcome: transport failures map
// to core.ErrUnavailable, 401/403 expires the session and maps to
// core.ErrUnauthenticated, other non-2xx statuses surface the backend's own
// error message verbatim as a core.APIError.
func (c *Client) do(ctx context.Context, method, reqURL string, body map[string]interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.log != nil {
			c.log.Debug("request failed", method, reqURL, err)
		}
		return nil, errors.WithMessagef(core.ErrUnavailable, "%s %s", method, reqURL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessage(core.ErrUnavailable, "reading response body")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.session.Expire()
		return nil, core.ErrUnauthenticated
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	default:
		return nil, c.apiError(resp.StatusCode, data)
	}
}

// apiError extracts the backend-supplied error message from a rejection body.
// A non-JSON body (a proxy error page, say) counts as the backend being
// unavailable rather than a business-rule rejection.
func (c *Client) apiError(status int, data []byte) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return errors.WithMessagef(core.ErrUnavailable, "unexpected response (status %d)", status)
	}
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	return core.NewAPIError(status, msg)
}
