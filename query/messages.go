package query

import "strings"

const (
	TypeFetchPlayer = "tracking.query.player.fetch"
	TypeFetchMap    = "tracking.query.map.fetch"
	TypeCurrentMap  = "tracking.query.map.current"
	TypeHealth      = "tracking.query.health"
)

// FetchPlayerMessage looks a player up by steam id or by name. Exactly one
// selector must be set; steam id wins when both are present.
type FetchPlayerMessage struct {
	SteamID uint64
	Name    string
}

func (FetchPlayerMessage) Type() string { return TypeFetchPlayer }

func (m FetchPlayerMessage) Validate() error {
	if m.SteamID == 0 && strings.TrimSpace(m.Name) == "" {
		return queryValidationError("selector", "a steam id or a name is required")
	}
	return nil
}

// FetchMapMessage looks a map up by numeric id or by name. Exactly one
// selector must be set; the id wins when both are present.
type FetchMapMessage struct {
	ID   uint16
	Name string
}

func (FetchMapMessage) Type() string { return TypeFetchMap }

func (m FetchMapMessage) Validate() error {
	if m.ID == 0 && strings.TrimSpace(m.Name) == "" {
		return queryValidationError("selector", "a map id or a name is required")
	}
	return nil
}

type CurrentMapMessage struct{}

func (CurrentMapMessage) Type() string { return TypeCurrentMap }

func (CurrentMapMessage) Validate() error { return nil }

type HealthMessage struct{}

func (HealthMessage) Type() string { return TypeHealth }

func (HealthMessage) Validate() error { return nil }
