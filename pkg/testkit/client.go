package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Client fires requests at an http.Handler in-process. Like a browser, it
// stores cookies set by responses and sends them on later requests.
type Client struct {
	t       testing.TB
	handler http.Handler
	cookies map[string]*http.Cookie
	headers http.Header
}

// NewClient builds a Client with an empty cookie jar.
func NewClient(t testing.TB, handler http.Handler) *Client {
	return &Client{
		t:       t,
		handler: handler,
		cookies: make(map[string]*http.Cookie),
		headers: make(http.Header),
	}
}

// SetHeader sends key: value on every later request.
func (c *Client) SetHeader(key, value string) *Client {
	c.headers.Set(key, value)
	return c
}

// Bearer authenticates later requests with an Authorization header.
func (c *Client) Bearer(token string) *Client {
	return c.SetHeader("Authorization", "Bearer "+token)
}

// Cookie returns the stored cookie value, or "".
func (c *Client) Cookie(name string) string {
	if ck, ok := c.cookies[name]; ok {
		return ck.Value
	}
	return ""
}

// ClearCookies empties the jar.
func (c *Client) ClearCookies() {
	clear(c.cookies)
}

// Do sends method path with body encoded as JSON. A []byte or string body
// is sent verbatim; nil sends no body.
func (c *Client) Do(method, path string, body any, headers ...map[string]string) *Response {
	c.t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err, "testkit: encode request body")
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	res := rec.Result()
	for _, ck := range res.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}

	return &Response{
		Code:    rec.Code,
		Header:  rec.Header(),
		Cookies: res.Cookies(),
		Body:    rec.Body.Bytes(),
	}
}

func (c *Client) Get(path string) *Response { return c.Do(http.MethodGet, path, nil) }

func (c *Client) Post(path string, body any) *Response { return c.Do(http.MethodPost, path, body) }

func (c *Client) Put(path string, body any) *Response { return c.Do(http.MethodPut, path, body) }

func (c *Client) Patch(path string, body any) *Response { return c.Do(http.MethodPatch, path, body) }

func (c *Client) Delete(path string) *Response { return c.Do(http.MethodDelete, path, nil) }

// Response is a recorded reply.
type Response struct {
	Code    int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// JSON queries the body with a gjson path, e.g. "data.items.#".
func (r *Response) JSON(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Cookie returns the named cookie set by this response, or nil.
func (r *Response) Cookie(name string) *http.Cookie {
	for _, ck := range r.Cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func (r *Response) String() string { return string(r.Body) }
