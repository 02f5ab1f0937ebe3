package core

import "context"

// gate enforces the preconditions of every data operation: the API must be
// healthy, and write operations additionally require an access token. Gate
// failures are synthesized locally; the transport is never touched.
func (c *Client) gate(ctx context.Context, operation string, needsAuth bool) *APIError {
	if !c.Healthy() {
		c.logError(ctx, "cannot reach tracking api", map[string]any{
			"operation": operation,
		})
		return &APIError{Status: 503, Message: "unreachable"}
	}
	if needsAuth && c.currentToken() == "" {
		c.logError(ctx, "not authenticated with tracking api", map[string]any{
			"operation": operation,
		})
		return &APIError{Status: 401, Message: "server is not global"}
	}
	return nil
}
