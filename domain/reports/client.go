package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// retryableError marks failures worth another attempt (network errors, 5xx).
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Client fetches report descriptors from the backend listing endpoint.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Attempts int
	Delay    time.Duration
	Logger   *slog.Logger
}

// NewClient returns a client with three attempts and a 500ms initial backoff.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		Logger:   logger,
	}
}

// List returns the descriptors in the order the backend sent them.
func (c *Client) List(ctx context.Context) ([]Descriptor, error) {
	if c == nil || c.BaseURL == "" {
		return nil, errors.New("reports: no base URL configured")
	}
	var out []Descriptor
	err := retry(ctx, c.Attempts, c.Delay, func() error {
		ds, err := c.fetch(ctx)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Debug("reports list attempt failed", "error", err)
			}
			return err
		}
		out = ds
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context) ([]Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/reports", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &retryableError{err: fmt.Errorf("server error: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	var ds []Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return ds, nil
}

// retry runs fn up to attempts times, doubling delay after each retryable failure.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*retryableError)) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
