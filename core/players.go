package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// FetchPlayerByName looks a player up by display name. Absence is reported
// through the resolution outcome, never as an error.
func (c *Client) FetchPlayerByName(ctx context.Context, name string) (PlayerResolution, error) {
	return c.fetchPlayer(ctx, name)
}

// FetchPlayerBySteamID looks a player up by 64-bit steam id.
func (c *Client) FetchPlayerBySteamID(ctx context.Context, steamID uint64) (PlayerResolution, error) {
	return c.fetchPlayer(ctx, strconv.FormatUint(steamID, 10))
}

func (c *Client) fetchPlayer(ctx context.Context, key string) (PlayerResolution, error) {
	startedAt := c.nowFn()
	if gateErr := c.gate(ctx, "fetch_player", false); gateErr != nil {
		return PlayerResolution{}, gateErr
	}

	requestID := uuid.NewString()
	res, err := c.transport.Do(ctx, TransportRequest{
		Method:   http.MethodGet,
		URL:      c.config.baseURL() + "/players/" + url.PathEscape(key),
		Metadata: map[string]any{"request_id": requestID},
	})
	if err != nil {
		apiErr := transportFailure(err)
		c.observeOperation(ctx, startedAt, "fetch_player", apiErr, map[string]any{
			"resource":   key,
			"request_id": requestID,
		})
		return PlayerResolution{}, apiErr
	}

	fields := map[string]any{
		"resource":    key,
		"request_id":  requestID,
		"status_code": res.StatusCode,
	}
	switch res.StatusCode {
	case http.StatusOK:
		if len(res.Body) == 0 {
			protoErr := protocolError("player response has no body")
			c.observeOperation(ctx, startedAt, "fetch_player", protoErr, fields)
			return PlayerResolution{}, protoErr
		}
		player, decodeErr := DecodePlayer(res.Body)
		if decodeErr != nil {
			protoErr := protocolWrapError(decodeErr, "player response failed to decode")
			c.observeOperation(ctx, startedAt, "fetch_player", protoErr, fields)
			return PlayerResolution{}, protoErr
		}
		c.observeOperation(ctx, startedAt, "fetch_player", nil, fields)
		return PlayerResolution{Outcome: LookupFound, Player: player}, nil
	case http.StatusNotFound:
		c.observeOperation(ctx, startedAt, "fetch_player", nil, fields)
		return PlayerResolution{Outcome: LookupNotFound}, nil
	default:
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		c.observeOperation(ctx, startedAt, "fetch_player", apiErr, fields)
		return PlayerResolution{}, apiErr
	}
}

// RegisterPlayer creates the player remotely and, on success, runs a
// follow-up fetch to hydrate the full resource. The hydration outcome is
// part of the result and is also reported through the notifier. A non-nil
// error means the registration call itself failed; hydration failures do
// not fail the registration.
func (c *Client) RegisterPlayer(ctx context.Context, player NewPlayer) (RegistrationResult, error) {
	startedAt := c.nowFn()
	if err := player.Validate(); err != nil {
		return RegistrationResult{}, c.errorMapper(err)
	}
	if gateErr := c.gate(ctx, "register_player", true); gateErr != nil {
		return RegistrationResult{}, gateErr
	}

	body, err := json.Marshal(player)
	if err != nil {
		return RegistrationResult{}, c.errorMapper(err)
	}

	requestID := uuid.NewString()
	res, err := c.transport.Do(ctx, TransportRequest{
		Method: http.MethodPost,
		URL:    c.config.baseURL() + "/players",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.currentToken(),
			"Content-Type":  "application/json",
		},
		Body:        body,
		Metadata:    map[string]any{"request_id": requestID},
		Idempotency: requestID,
	})
	fields := map[string]any{
		"steam_id":   player.SteamID,
		"request_id": requestID,
	}
	if err != nil {
		apiErr := transportFailure(err)
		c.observeOperation(ctx, startedAt, "register_player", apiErr, fields)
		return RegistrationResult{}, apiErr
	}

	fields["status_code"] = res.StatusCode
	switch res.StatusCode {
	case http.StatusCreated:
		c.observeOperation(ctx, startedAt, "register_player", nil, fields)
		return c.hydrateRegistration(ctx, player.SteamID), nil
	default:
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		c.observeOperation(ctx, startedAt, "register_player", apiErr, fields)
		return RegistrationResult{}, apiErr
	}
}

func (c *Client) hydrateRegistration(ctx context.Context, steamID uint64) RegistrationResult {
	resolution, err := c.FetchPlayerBySteamID(ctx, steamID)
	if err != nil {
		c.notifier.RegistrationFailed(ctx, notificationError(err))
		return RegistrationResult{Status: RegistrationHydrationFailed, HydrationErr: err}
	}
	if resolution.Outcome == LookupNotFound {
		c.notifier.PlayerMissingAfterRegistration(ctx, steamID)
		return RegistrationResult{Status: RegistrationHydrationMissed}
	}
	c.notifier.PlayerRegistered(ctx, resolution.Player)
	return RegistrationResult{Status: RegistrationHydrated, Player: resolution.Player}
}

// UpdatePlayer patches the remote player record with current session data.
// A nil return means the remote accepted the update with no payload.
func (c *Client) UpdatePlayer(ctx context.Context, steamID uint64, update PlayerUpdate) error {
	startedAt := c.nowFn()
	if err := update.Validate(); err != nil {
		return c.errorMapper(err)
	}
	if gateErr := c.gate(ctx, "update_player", true); gateErr != nil {
		return gateErr
	}

	if update.Preferences == nil {
		update.Preferences = map[string]any{}
	}
	body, err := json.Marshal(update)
	if err != nil {
		return c.errorMapper(err)
	}

	requestID := uuid.NewString()
	res, err := c.transport.Do(ctx, TransportRequest{
		Method: http.MethodPatch,
		URL:    c.config.baseURL() + "/players/" + strconv.FormatUint(steamID, 10),
		Headers: map[string]string{
			"Authorization": "Bearer " + c.currentToken(),
			"Content-Type":  "application/json",
		},
		Body:        body,
		Metadata:    map[string]any{"request_id": requestID},
		Idempotency: requestID,
	})
	fields := map[string]any{
		"steam_id":   steamID,
		"request_id": requestID,
	}
	if err != nil {
		apiErr := transportFailure(err)
		c.observeOperation(ctx, startedAt, "update_player", apiErr, fields)
		return apiErr
	}

	fields["status_code"] = res.StatusCode
	switch res.StatusCode {
	case http.StatusNoContent:
		c.observeOperation(ctx, startedAt, "update_player", nil, fields)
		return nil
	default:
		apiErr := DecodeAPIError(res.StatusCode, res.Body)
		c.observeOperation(ctx, startedAt, "update_player", apiErr, fields)
		return apiErr
	}
}

func transportFailure(err error) *APIError {
	apiErr := &APIError{Status: StatusTransportFailure, Message: "failed to reach tracking api"}
	if err != nil {
		apiErr.Details = map[string]any{"cause": err.Error()}
	}
	return apiErr
}

func protocolError(message string) error {
	return goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(TrackingErrorProtocol)
}

func protocolWrapError(source error, message string) error {
	if source == nil {
		return protocolError(message)
	}
	return goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(TrackingErrorProtocol)
}

func notificationError(err error) *APIError {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr
	}
	return &APIError{Status: StatusTransportFailure, Message: err.Error()}
}
