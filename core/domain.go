package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Player is the remote tracking record for one player. The field schema is
// owned by the remote API.
type Player struct {
	SteamID  uint64 `json:"steam_id"`
	Name     string `json:"name"`
	IsBanned bool   `json:"is_banned"`
}

// Map is the remote tracking record for one map.
type Map struct {
	ID           uint16 `json:"id"`
	Name         string `json:"name"`
	GlobalStatus string `json:"global_status"`
}

// Session carries the playtime breakdown reported on player updates.
type Session struct {
	TimeActive     int64 `json:"time_active"`
	TimeSpectating int64 `json:"time_spectating"`
	TimeAFK        int64 `json:"time_afk"`
}

// NewPlayer is the write-side record sent when registering a player. It is
// serialized to the request body and never read back.
type NewPlayer struct {
	Name      string `json:"name"`
	SteamID   uint64 `json:"steam_id"`
	IPAddress string `json:"ip_address"`
}

func (p NewPlayer) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("core: player name is required")
	}
	if p.SteamID == 0 {
		return fmt.Errorf("core: steam id is required")
	}
	return nil
}

// PlayerUpdate is the write-side record sent on session updates.
// Preferences is an extensible object the remote API stores opaquely; it
// serializes as an empty object when unset.
type PlayerUpdate struct {
	Name        string         `json:"name"`
	IPAddress   string         `json:"ip_address"`
	Preferences map[string]any `json:"preferences"`
	Session     Session        `json:"session"`
}

func (u PlayerUpdate) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("core: player name is required")
	}
	return nil
}

// DecodePlayer strictly decodes a player resource from a response body.
func DecodePlayer(body []byte) (Player, error) {
	var player Player
	if err := json.Unmarshal(body, &player); err != nil {
		return Player{}, fmt.Errorf("core: decode player: %w", err)
	}
	if strings.TrimSpace(player.Name) == "" {
		return Player{}, fmt.Errorf("core: player payload is missing a name")
	}
	if player.SteamID == 0 {
		return Player{}, fmt.Errorf("core: player payload is missing a steam id")
	}
	return player, nil
}

// DecodeMap strictly decodes a map resource from a response body.
func DecodeMap(body []byte) (Map, error) {
	var gameMap Map
	if err := json.Unmarshal(body, &gameMap); err != nil {
		return Map{}, fmt.Errorf("core: decode map: %w", err)
	}
	if strings.TrimSpace(gameMap.Name) == "" {
		return Map{}, fmt.Errorf("core: map payload is missing a name")
	}
	return gameMap, nil
}

// LookupOutcome classifies a fetch: the resource was found, or it does not
// exist remotely. Absence is a successful outcome, never an error.
type LookupOutcome string

const (
	LookupFound    LookupOutcome = "found"
	LookupNotFound LookupOutcome = "not_found"
)

type PlayerResolution struct {
	Outcome LookupOutcome
	Player  Player
}

type MapResolution struct {
	Outcome LookupOutcome
	Map     Map
}

// RegistrationStatus is the terminal state of the registration workflow.
// Registration is always followed by a hydration fetch; its outcome is part
// of the result rather than a nested callback chain.
type RegistrationStatus string

const (
	// RegistrationHydrated: the player was created and the follow-up fetch
	// returned the full resource.
	RegistrationHydrated RegistrationStatus = "hydrated"
	// RegistrationHydrationMissed: the player was created but the follow-up
	// fetch reported absence.
	RegistrationHydrationMissed RegistrationStatus = "hydration_missed"
	// RegistrationHydrationFailed: the player was created but the follow-up
	// fetch failed.
	RegistrationHydrationFailed RegistrationStatus = "hydration_failed"
)

type RegistrationResult struct {
	Status RegistrationStatus
	Player Player
	// HydrationErr is set only for RegistrationHydrationFailed.
	HydrationErr error
}
