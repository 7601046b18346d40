package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// BodyKind classifies a response body by its content type.
type BodyKind int

const (
	KindBinary BodyKind = iota
	KindText
	KindJSON
)

func (k BodyKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "binary"
	}
}

// Request is the transport-agnostic request descriptor the decorator
// consumes.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the decorated result: the raw body tagged with the
// request fingerprint and a content classification.
type Response struct {
	RequestHash string
	StatusCode  int
	Header      http.Header
	Kind        BodyKind
	Body        []byte
}

// JSON returns the body as a raw JSON message. It is only meaningful
// when Kind is KindJSON.
func (r *Response) JSON() json.RawMessage { return json.RawMessage(r.Body) }

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("response is %s, not json", r.Kind)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode json response: %w", err)
	}
	return nil
}

// Decorator wraps the raw HTTP client with fingerprinting, retry and
// body classification. It performs no caching itself; callers compose
// the cache around it keyed by Response.RequestHash.
type Decorator struct {
	client     *http.Client
	maxRetries int
}

// NewDecorator creates a decorator over client. A nil client gets the
// default transport configuration.
func NewDecorator(client *http.Client, maxRetries int) *Decorator {
	if client == nil {
		client = NewHTTPClient(nil)
	}
	return &Decorator{client: client, maxRetries: maxRetries}
}

// Hash computes the fingerprint for req without sending it, so callers
// can consult a cache before paying for the network round trip.
func (d *Decorator) Hash(req Request) string {
	return Fingerprint(req.Method, req.URL, req.Header, req.Body)
}

// Do sends the request and returns the decorated response. Non-2xx
// statuses surface as *HTTPError, transport failures as *NetworkError.
func (d *Decorator) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", req.URL, err)
	}
	for k, vals := range req.Header {
		httpReq.Header[k] = vals
	}

	resp, err := DoWithRetry(d.client, httpReq, d.maxRetries)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: req.URL}
	}

	return &Response{
		RequestHash: Fingerprint(method, req.URL, req.Header, req.Body),
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		Kind:        classify(resp.Header.Get("Content-Type"), body),
		Body:        body,
	}, nil
}

// classify maps a content type to a body kind, sniffing the payload
// when upstream lies or omits the header.
func classify(contentType string, body []byte) BodyKind {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.Contains(mt, "json"):
		return KindJSON
	case strings.HasPrefix(mt, "text/"), strings.Contains(mt, "xml"),
		strings.Contains(mt, "javascript"), strings.Contains(mt, "x-www-form-urlencoded"):
		return KindText
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return KindJSON
	}
	return KindBinary
}
