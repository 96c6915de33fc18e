package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RemoteConfig is the published game configuration document.
type RemoteConfig struct {
	Version string          `json:"version"`
	Raw     json.RawMessage `json:"-"`
}

// FetchConfig downloads the published configuration from the given URL.
// The URL is independent of the bin endpoints so the document can be
// served from plain static hosting.
func (c *Client) FetchConfig(ctx context.Context, url string) (RemoteConfig, error) {
	data, err := c.request(ctx, http.MethodGet, url, nil, c.timeout)
	if err != nil {
		return RemoteConfig{}, fmt.Errorf("fetching remote config: %w", err)
	}
	var cfg RemoteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RemoteConfig{}, fmt.Errorf("decoding remote config: %w", err)
	}
	cfg.Raw = data
	return cfg, nil
}
