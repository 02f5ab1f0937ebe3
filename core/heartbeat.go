package core

import (
	"context"
	"net/http"
	"time"
)

// heartbeat probes the API root endpoint and folds the outcome into the
// health flag. Health reflects exactly the most recent probe: only a 200
// with a body counts as healthy. The first healthy probe starts the token
// refresh loop, at most once per client and only when a refresh key is
// configured.
func (c *Client) heartbeat(ctx context.Context) time.Duration {
	startedAt := c.nowFn()

	res, err := c.transport.Do(ctx, TransportRequest{
		Method: http.MethodGet,
		URL:    c.config.baseURL(),
	})
	if err != nil {
		c.setHealthy(false, StatusTransportFailure)
		c.observeOperation(ctx, startedAt, "heartbeat", err, map[string]any{
			"status_code": StatusTransportFailure,
		})
		return c.config.HeartbeatInterval
	}

	switch res.StatusCode {
	case http.StatusOK:
		if len(res.Body) == 0 {
			c.setHealthy(false, res.StatusCode)
			c.logError(ctx, "healthcheck response has no body", nil)
			break
		}
		c.setHealthy(true, res.StatusCode)
		c.logInfo(ctx, "tracking api is healthy", map[string]any{
			"status_code": res.StatusCode,
		})
		c.maybeStartAuthLoop(ctx)
	default:
		c.setHealthy(false, res.StatusCode)
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		c.observeOperation(ctx, startedAt, "heartbeat", apiErr, map[string]any{
			"status_code": res.StatusCode,
		})
	}

	return c.config.HeartbeatInterval
}

func (c *Client) maybeStartAuthLoop(ctx context.Context) {
	if !c.config.Authenticates() {
		return
	}

	c.mu.Lock()
	alreadyStarted := c.authLoopStarted
	if !alreadyStarted {
		c.authLoopStarted = true
	}
	c.mu.Unlock()

	if alreadyStarted {
		return
	}

	c.logInfo(ctx, "starting token refresh loop", nil)
	c.scheduler.Schedule(ctx, "tracking.auth", c.refreshAccessToken)
}
