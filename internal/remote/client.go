// Package remote holds the HTTP clients for the five backend microservices
// (users, products, cart, orders, payments). Each client satisfies the
// matching services port so it can replace the local SQLite repository.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// StatusError is a non-2xx answer from a backend service.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Client is the shared HTTP plumbing for one service base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenKey struct{}

// WithToken attaches a bearer token that outgoing calls will forward.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// do sends one request and returns the decoded body. A 404 is reported as
// domain.ErrNotFound, any other non-2xx status as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, in any) (gjson.Result, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t := tokenFrom(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, url, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return decodeBody(raw), nil
}

// decodeBody accepts whatever the services send back. Empty bodies become
// {}, JSON strings and plain text become {"message": text}, and anything
// that does not parse as JSON is wrapped the same way.
func decodeBody(raw []byte) gjson.Result {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "":
		return gjson.Parse("{}")
	case strings.HasPrefix(s, `"`):
		if r := gjson.Parse(s); gjson.Valid(s) && r.Type == gjson.String {
			return message(r.String())
		}
		return message(s)
	case !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "["):
		return message(s)
	case !gjson.Valid(s):
		return message(s)
	}
	return gjson.Parse(s)
}

func message(text string) gjson.Result {
	b, _ := json.Marshal(map[string]string{"message": text})
	return gjson.ParseBytes(b)
}

// numID sends numeric ids as JSON numbers, which the services expect.
func numID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// list returns the elements of an array body. Some services wrap lists in
// an object; a "data" or "content" array is unwrapped.
func list(r gjson.Result) []gjson.Result {
	if r.IsArray() {
		return r.Array()
	}
	for _, k := range []string{"data", "content", "items"} {
		if v := r.Get(k); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// firstString returns the first non-empty field among keys.
func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
