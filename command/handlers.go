package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/core"
)

// MutatingClient is the write-side surface of the tracking client.
type MutatingClient interface {
	RegisterPlayer(ctx context.Context, player core.NewPlayer) (core.RegistrationResult, error)
	UpdatePlayer(ctx context.Context, steamID uint64, update core.PlayerUpdate) error
	RefreshCurrentMap(ctx context.Context, name string) (core.MapResolution, error)
}

// SessionEnqueuer queues session updates for background delivery.
type SessionEnqueuer interface {
	EnqueueUpdate(ctx context.Context, steamID uint64, update core.PlayerUpdate) error
}

type RegisterPlayerCommand struct {
	client MutatingClient
}

func NewRegisterPlayerCommand(client MutatingClient) *RegisterPlayerCommand {
	return &RegisterPlayerCommand{client: client}
}

func (c *RegisterPlayerCommand) Execute(ctx context.Context, msg RegisterPlayerMessage) error {
	if c == nil || c.client == nil {
		return commandDependencyError("command: tracking client is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: register player rejected")
	}
	out, err := c.client.RegisterPlayer(ctx, msg.Player)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdatePlayerCommand struct {
	client MutatingClient
}

func NewUpdatePlayerCommand(client MutatingClient) *UpdatePlayerCommand {
	return &UpdatePlayerCommand{client: client}
}

func (c *UpdatePlayerCommand) Execute(ctx context.Context, msg UpdatePlayerMessage) error {
	if c == nil || c.client == nil {
		return commandDependencyError("command: tracking client is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: update player rejected")
	}
	return c.client.UpdatePlayer(ctx, msg.SteamID, msg.Update)
}

// SyncSessionCommand queues the update instead of patching inline, keeping
// the caller off the network path.
type SyncSessionCommand struct {
	enqueuer SessionEnqueuer
}

func NewSyncSessionCommand(enqueuer SessionEnqueuer) *SyncSessionCommand {
	return &SyncSessionCommand{enqueuer: enqueuer}
}

func (c *SyncSessionCommand) Execute(ctx context.Context, msg SyncSessionMessage) error {
	if c == nil || c.enqueuer == nil {
		return commandDependencyError("command: session enqueuer is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: session sync rejected")
	}
	return c.enqueuer.EnqueueUpdate(ctx, msg.SteamID, msg.Update)
}

type RefreshCurrentMapCommand struct {
	client MutatingClient
}

func NewRefreshCurrentMapCommand(client MutatingClient) *RefreshCurrentMapCommand {
	return &RefreshCurrentMapCommand{client: client}
}

func (c *RefreshCurrentMapCommand) Execute(ctx context.Context, msg RefreshCurrentMapMessage) error {
	if c == nil || c.client == nil {
		return commandDependencyError("command: tracking client is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: map refresh rejected")
	}
	out, err := c.client.RefreshCurrentMap(ctx, msg.Name)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
