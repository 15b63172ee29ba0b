// Package drive fetches dataset files from a file-hosting service by stable
// file identifier and parses them into domain tables.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// confirmRe extracts the confirmation token from the host's "file too large
// to scan" interstitial page.
var confirmRe = regexp.MustCompile(`confirm=([0-9A-Za-z_\-]+)`)

// RetryPolicy bounds retries on transport errors, 429 and 5xx responses.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns the retry policy used for dataset downloads.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		MinWait:    500 * time.Millisecond,
		MaxWait:    8 * time.Second,
	}
}

// Client downloads files by ID from a Google Drive style endpoint
// (<base>?export=download&id=<id>).
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	retry      RetryPolicy
	sleep      func(context.Context, time.Duration) bool
	logger     *slog.Logger
}

// NewClient creates a download client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker(),
		retry:      DefaultRetryPolicy(),
		sleep:      sleepWithContext,
		logger:     logger,
	}
}

func newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "drive",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			var inter *errInterstitial
			return err == nil || errors.As(err, &inter)
		},
	})
}

// statusError is a non-200 response from the host.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("drive returned status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// errInterstitial marks an HTML confirmation page in place of file content.
type errInterstitial struct {
	token string
}

func (e *errInterstitial) Error() string { return "drive returned a confirmation page" }

// Fetch downloads the file with the given ID into memory.
func (c *Client) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	confirm := ""
	backoff := c.retry.MinWait

	for attempt := 0; ; attempt++ {
		u := c.fileURL(fileID, confirm)
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.get(ctx, u)
		})
		if err == nil {
			return body, nil
		}

		var inter *errInterstitial
		if errors.As(err, &inter) {
			if confirm != "" {
				return nil, fmt.Errorf("fetch %s: confirmation not accepted", fileID)
			}
			confirm = inter.token
			c.logger.Debug("drive confirmation required", "file_id", fileID)
			attempt--
			continue
		}

		if !c.retryable(ctx, err) || attempt >= c.retry.MaxRetries {
			return nil, fmt.Errorf("fetch %s: %w", fileID, err)
		}

		c.logger.Warn("drive fetch failed, retrying",
			"file_id", fileID,
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)
		if !c.sleep(ctx, backoff) {
			return nil, fmt.Errorf("fetch %s: %w", fileID, ctx.Err())
		}
		backoff = nextBackoff(backoff, c.retry.MaxWait)
	}
}

// Download writes the file with the given ID to a new temporary file and
// returns its path. The caller owns the file and must remove it; nothing
// guarantees it outlives the process.
func (c *Client) Download(ctx context.Context, fileID, suffix string) (string, error) {
	body, err := c.Fetch(ctx, fileID)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "hazard-dataset-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func (c *Client) fileURL(fileID, confirm string) string {
	params := url.Values{
		"export": {"download"},
		"id":     {fileID},
	}
	if confirm != "" {
		params.Set("confirm", confirm)
	}
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snip := body
		if len(snip) > 200 {
			snip = snip[:200]
		}
		return nil, &statusError{code: resp.StatusCode, body: string(snip)}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		token := "t"
		if m := confirmRe.FindSubmatch(body); len(m) == 2 {
			token = string(m[1])
		}
		return nil, &errInterstitial{token: token}
	}
	return body, nil
}

func (c *Client) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
