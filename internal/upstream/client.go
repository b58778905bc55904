package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"parliament-interests/internal/metrics"
)

// MaxResponseSize caps a single page body (10MB).
const MaxResponseSize = 10 * 1024 * 1024

var (
	ErrStatus      = errors.New("upstream returned non-success status")
	ErrInvalidJSON = errors.New("upstream returned invalid json")
)

type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Response is the subset of an HTTP response the paginator needs.
type Response interface {
	StatusCode() int
	JSON() (gjson.Result, error)
	RaiseForStatus() error
}

// Client issues GET requests relative to a fixed base URL.
type Client interface {
	Get(ctx context.Context, path string, params Params) (Response, error)
}

// Params are query parameters. Nil values (including nil pointers) are
// dropped; booleans are sent as "true"/"false".
type Params map[string]any

func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := formatParam(p[key])
		if !ok {
			continue
		}
		values.Set(key, value)
	}
	return values
}

func formatParam(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		value = rv.Elem().Interface()
	}

	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.Format(time.RFC3339), true
	case []int:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, strconv.Itoa(item))
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(v), true
	}
}

type HTTPClient struct {
	source  string
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a client for one upstream API. A zero timeout means
// requests are bounded only by the caller's context.
func NewHTTPClient(source, baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		source:  source,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Get(ctx context.Context, path string, params Params) (Response, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if query := params.Values().Encode(); query != "" {
		reqURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(c.source, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("get %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	metrics.RecordUpstreamRequest(c.source, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", reqURL, err)
	}

	return &httpResponse{status: resp.StatusCode, body: body, url: reqURL}, nil
}

type httpResponse struct {
	status int
	body   []byte
	url    string
}

func (r *httpResponse) StatusCode() int {
	return r.status
}

func (r *httpResponse) JSON() (gjson.Result, error) {
	if !gjson.ValidBytes(r.body) {
		return gjson.Result{}, fmt.Errorf("%s: %w", r.url, ErrInvalidJSON)
	}
	return gjson.ParseBytes(r.body), nil
}

func (r *httpResponse) RaiseForStatus() error {
	if r.status < 200 || r.status >= 300 {
		return &StatusError{StatusCode: r.status, URL: r.url}
	}
	return nil
}
