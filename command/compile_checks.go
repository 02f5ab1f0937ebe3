package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RegisterPlayerMessage]    = (*RegisterPlayerCommand)(nil)
	_ gocmd.Commander[UpdatePlayerMessage]      = (*UpdatePlayerCommand)(nil)
	_ gocmd.Commander[SyncSessionMessage]       = (*SyncSessionCommand)(nil)
	_ gocmd.Commander[RefreshCurrentMapMessage] = (*RefreshCurrentMapCommand)(nil)
)
