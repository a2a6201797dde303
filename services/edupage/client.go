package edupage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const (
	viewerPath  = "/timetable/server/ttviewer.js?__func=getTTViewerData"
	regularPath = "/timetable/server/regulartt.js?__func=regularttGetData"
	sessionPath = "/timetable/"

	// gsh is the anonymous session hash the public viewer sends
	gsh = "00000000"

	userAgent      = "Mozilla/5.0"
	defaultTimeout = 20 * time.Second
	maxErrorBody   = 64 << 10
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("edupage responded with status %d", e.StatusCode)
}

// Details returns the upstream body, decoded when it is JSON.
func (e *StatusError) Details() any {
	var v any
	if err := json.Unmarshal(e.Body, &v); err == nil {
		return v
	}
	return string(e.Body)
}

// Client talks to the public EduPage timetable viewer of one school.
// It keeps the anonymous session cookie in its jar and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type rpcRequest struct {
	Args []any  `json:"__args"`
	GSH  string `json:"__gsh"`
}

// NewClient creates a client for baseURL (e.g. https://finki.edupage.org).
// Each outbound call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTP(baseURL, &http.Client{Jar: jar, Timeout: timeout}), nil
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the upstream origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EnsureSession loads the timetable page so the upstream issues a session cookie.
func (c *Client) EnsureSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sessionPath, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchViewerData returns the timetable viewer payload for a school year.
func (c *Client) FetchViewerData(ctx context.Context, year int) (any, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish edupage session: %w", err)
	}
	return c.post(ctx, viewerPath, rpcRequest{Args: []any{nil, year}, GSH: gsh})
}

// FetchRegularData returns the regular timetable export for a timetable number.
func (c *Client) FetchRegularData(ctx context.Context, ttNum string) (any, error) {
	return c.post(ctx, regularPath, rpcRequest{Args: []any{nil, ttNum}, GSH: gsh})
}

func (c *Client) post(ctx context.Context, path string, payload rpcRequest) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read edupage response: %w", err)
	}

	// A 2xx body that is not JSON carries no timetable; callers treat nil as empty.
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":   req.URL.Path,
			"status": resp.StatusCode,
			"bytes":  len(raw),
		}).Warn("EduPage returned a non-JSON body")
		return nil, nil
	}
	return out, nil
}

// do sends the request and turns non-2xx answers into a StatusError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("url", req.URL.String()).Warn("EduPage request failed")
		return nil, fmt.Errorf("edupage request failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("EduPage request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: b}
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+sessionPath)
	if req.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}
}
