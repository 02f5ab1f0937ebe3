package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tracking/core"
)

const (
	TypeRegisterPlayer    = "tracking.command.player.register"
	TypeUpdatePlayer      = "tracking.command.player.update"
	TypeSyncSession       = "tracking.command.session.sync"
	TypeRefreshCurrentMap = "tracking.command.map.refresh"
)

type RegisterPlayerMessage struct {
	Player core.NewPlayer
}

func (RegisterPlayerMessage) Type() string { return TypeRegisterPlayer }

func (m RegisterPlayerMessage) Validate() error {
	return m.Player.Validate()
}

type UpdatePlayerMessage struct {
	SteamID uint64
	Update  core.PlayerUpdate
}

func (UpdatePlayerMessage) Type() string { return TypeUpdatePlayer }

func (m UpdatePlayerMessage) Validate() error {
	if m.SteamID == 0 {
		return fmt.Errorf("command: steam id is required")
	}
	return m.Update.Validate()
}

type SyncSessionMessage struct {
	SteamID uint64
	Update  core.PlayerUpdate
}

func (SyncSessionMessage) Type() string { return TypeSyncSession }

func (m SyncSessionMessage) Validate() error {
	if m.SteamID == 0 {
		return fmt.Errorf("command: steam id is required")
	}
	return m.Update.Validate()
}

type RefreshCurrentMapMessage struct {
	Name string
}

func (RefreshCurrentMapMessage) Type() string { return TypeRefreshCurrentMap }

func (m RefreshCurrentMapMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("command: map name is required")
	}
	return nil
}
