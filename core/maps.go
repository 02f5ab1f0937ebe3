package core

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// FetchMapByName looks a map up by name.
func (c *Client) FetchMapByName(ctx context.Context, name string) (MapResolution, error) {
	return c.fetchMap(ctx, name)
}

// FetchMapByID looks a map up by numeric identifier.
func (c *Client) FetchMapByID(ctx context.Context, id uint16) (MapResolution, error) {
	return c.fetchMap(ctx, strconv.FormatUint(uint64(id), 10))
}

// RefreshCurrentMap fetches a map by name and stores it as the cached
// current map when found. Hosts call this on map change.
func (c *Client) RefreshCurrentMap(ctx context.Context, name string) (MapResolution, error) {
	resolution, err := c.fetchMap(ctx, name)
	if err != nil {
		return MapResolution{}, err
	}
	if resolution.Outcome == LookupFound {
		c.SetCurrentMap(resolution.Map)
	}
	return resolution, nil
}

func (c *Client) fetchMap(ctx context.Context, key string) (MapResolution, error) {
	startedAt := c.nowFn()
	if gateErr := c.gate(ctx, "fetch_map", false); gateErr != nil {
		return MapResolution{}, gateErr
	}

	requestID := uuid.NewString()
	res, err := c.transport.Do(ctx, TransportRequest{
		Method:   http.MethodGet,
		URL:      c.config.baseURL() + "/maps/" + url.PathEscape(key),
		Metadata: map[string]any{"request_id": requestID},
	})
	if err != nil {
		apiErr := transportFailure(err)
		c.observeOperation(ctx, startedAt, "fetch_map", apiErr, map[string]any{
			"resource":   key,
			"request_id": requestID,
		})
		return MapResolution{}, apiErr
	}

	fields := map[string]any{
		"resource":    key,
		"request_id":  requestID,
		"status_code": res.StatusCode,
	}
	switch res.StatusCode {
	case http.StatusOK:
		if len(res.Body) == 0 {
			protoErr := protocolError("map response has no body")
			c.observeOperation(ctx, startedAt, "fetch_map", protoErr, fields)
			return MapResolution{}, protoErr
		}
		gameMap, decodeErr := DecodeMap(res.Body)
		if decodeErr != nil {
			protoErr := protocolWrapError(decodeErr, "map response failed to decode")
			c.observeOperation(ctx, startedAt, "fetch_map", protoErr, fields)
			return MapResolution{}, protoErr
		}
		c.observeOperation(ctx, startedAt, "fetch_map", nil, fields)
		return MapResolution{Outcome: LookupFound, Map: gameMap}, nil
	case http.StatusNotFound:
		c.observeOperation(ctx, startedAt, "fetch_map", nil, fields)
		return MapResolution{Outcome: LookupNotFound}, nil
	default:
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		c.observeOperation(ctx, startedAt, "fetch_map", apiErr, fields)
		return MapResolution{}, apiErr
	}
}
