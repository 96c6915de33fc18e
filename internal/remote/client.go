package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Sentinel errors surfaced to callers so the UI can map them to
// messages without string matching.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrScoreNotFound = errors.New("score not found")
	ErrUnavailable   = errors.New("leaderboard service unavailable")
)

const (
	connectTimeout = 10 * time.Second
	// requestTimeout bounds every normal exchange so a stalled fetch
	// fails fast; bulkTimeout is reserved for replacing a whole document,
	// which uploads the full score table in one request.
	requestTimeout = 10 * time.Second
	bulkTimeout    = 120 * time.Second
	maxRetries     = 3
)

// Client talks to the hosted JSON document store that backs the shared
// leaderboard. Each bin is a single document fetched and replaced
// whole; writes are last-writer-wins.
type Client struct {
	baseURL    string
	masterKey  string
	scoreBinID string
	userBinID  string
	http       *http.Client

	timeout    time.Duration
	bulkBudget time.Duration
}

func NewClient(baseURL, masterKey, scoreBinID, userBinID string) *Client {
	return &Client{
		baseURL:    baseURL,
		masterKey:  masterKey,
		scoreBinID: scoreBinID,
		userBinID:  userBinID,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		timeout:    requestTimeout,
		bulkBudget: bulkTimeout,
	}
}

// request performs one HTTP exchange with up to maxRetries retries on
// network errors and 5xx responses, backing off 1s, 2s, 4s between
// attempts. The timeout applies per attempt. 4xx responses are not
// retried. The context cancels both the in-flight request and the
// backoff sleep.
func (c *Client) request(ctx context.Context, method, url string, body []byte, timeout time.Duration) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, retryable, err := c.doOnce(ctx, method, url, body, timeout)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte, timeout time.Duration) (data []byte, retryable bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("X-Master-Key", c.masterKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server returned %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("server returned %d", resp.StatusCode)
	}
}

// fetchBin reads the latest version of a bin and decodes its record
// into dst.
func (c *Client) fetchBin(ctx context.Context, binID string, dst any) error {
	url := fmt.Sprintf("%s/%s/latest", c.baseURL, binID)
	data, err := c.request(ctx, http.MethodGet, url, nil, c.timeout)
	if err != nil {
		return err
	}
	var envelope struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decoding bin envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Record, dst); err != nil {
		return fmt.Errorf("decoding bin record: %w", err)
	}
	return nil
}

// putBin replaces the bin document. The upload carries the whole
// document, so it runs on the bulk budget instead of the normal
// request timeout.
func (c *Client) putBin(ctx context.Context, binID string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding bin record: %w", err)
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, binID)
	if _, err := c.request(ctx, http.MethodPut, url, body, c.bulkBudget); err != nil {
		return err
	}
	return nil
}
