package core

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type authRequestBody struct {
	RefreshKey    string `json:"refresh_key"`
	PluginVersion string `json:"plugin_version"`
}

// cachedAuthPayload builds the refresh payload exactly once. The refresh
// key is immutable after construction, so the cached bytes stay valid for
// the client lifetime.
func (c *Client) cachedAuthPayload() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authPayload != nil {
		return c.authPayload
	}
	// Use the same trimmed key the operation gate checks, so a key
	// configured with stray whitespace still authenticates.
	payload, err := json.Marshal(authRequestBody{
		RefreshKey:    c.refreshKey(),
		PluginVersion: c.config.PluginVersion,
	})
	if err != nil {
		// Two string fields cannot fail to marshal; keep the loop alive
		// regardless.
		return nil
	}
	c.authPayload = payload
	return payload
}

// refreshAccessToken exchanges the long-lived refresh key for a short-lived
// access token. Every failure keeps the previous token and the fixed retry
// cadence; only a 201 carrying an access_key field overwrites the token.
func (c *Client) refreshAccessToken(ctx context.Context) time.Duration {
	startedAt := c.nowFn()

	if c.refreshKey() == "" {
		// Defensive: the loop only ever starts when a key exists. A
		// negative delay tells the scheduler to cancel further runs.
		c.logError(ctx, "no refresh key configured, cannot authenticate", nil)
		return -1
	}

	res, err := c.transport.Do(ctx, TransportRequest{
		Method:  http.MethodPost,
		URL:     c.config.baseURL() + "/servers/key",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    c.cachedAuthPayload(),
	})
	if err != nil {
		c.observeOperation(ctx, startedAt, "auth_refresh", err, map[string]any{
			"status_code": StatusTransportFailure,
		})
		return c.config.AuthInterval
	}

	switch res.StatusCode {
	case http.StatusCreated:
		var shaped struct {
			AccessKey string `json:"access_key"`
		}
		if len(res.Body) == 0 || json.Unmarshal(res.Body, &shaped) != nil || shaped.AccessKey == "" {
			c.logError(ctx, "access token response has unexpected shape", map[string]any{
				"status_code": res.StatusCode,
			})
			break
		}
		c.setAccessToken(shaped.AccessKey)
		c.observeOperation(ctx, startedAt, "auth_refresh", nil, map[string]any{
			"status_code": res.StatusCode,
		})
	default:
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		fields := map[string]any{"status_code": res.StatusCode}
		if len(apiErr.Details) > 0 {
			fields["details"] = apiErr.Details
		}
		c.observeOperation(ctx, startedAt, "auth_refresh", apiErr, fields)
	}

	return c.config.AuthInterval
}
