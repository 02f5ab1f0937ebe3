package tracking

import (
	"fmt"

	trackingcommand "github.com/goliatone/go-tracking/command"
	"github.com/goliatone/go-tracking/core"
	trackingquery "github.com/goliatone/go-tracking/query"
)

// CommandQueryClient is the full surface the facade wires handlers around.
// *core.Client implements it.
type CommandQueryClient interface {
	trackingcommand.MutatingClient
	trackingquery.PlayerReader
	trackingquery.MapReader
	trackingquery.HealthReader
}

type Commands struct {
	RegisterPlayer    *trackingcommand.RegisterPlayerCommand
	UpdatePlayer      *trackingcommand.UpdatePlayerCommand
	SyncSession       *trackingcommand.SyncSessionCommand
	RefreshCurrentMap *trackingcommand.RefreshCurrentMapCommand
}

type Queries struct {
	FetchPlayer *trackingquery.FetchPlayerQuery
	FetchMap    *trackingquery.FetchMapQuery
	CurrentMap  *trackingquery.CurrentMapQuery
	Health      *trackingquery.HealthQuery
}

type Facade struct {
	client   CommandQueryClient
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	sessionEnqueuer trackingcommand.SessionEnqueuer
}

// WithSessionEnqueuer routes SyncSession commands through the given
// enqueuer instead of one resolved from the client.
func WithSessionEnqueuer(enqueuer trackingcommand.SessionEnqueuer) FacadeOption {
	return func(options *facadeOptions) {
		options.sessionEnqueuer = enqueuer
	}
}

func NewFacade(client CommandQueryClient, opts ...FacadeOption) (*Facade, error) {
	if client == nil {
		return nil, fmt.Errorf("tracking: command/query client is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	enqueuer := cfg.sessionEnqueuer
	if enqueuer == nil {
		enqueuer = resolveSessionEnqueuer(client)
	}

	facade := &Facade{client: client}
	facade.commands = Commands{
		RegisterPlayer:    trackingcommand.NewRegisterPlayerCommand(client),
		UpdatePlayer:      trackingcommand.NewUpdatePlayerCommand(client),
		SyncSession:       trackingcommand.NewSyncSessionCommand(enqueuer),
		RefreshCurrentMap: trackingcommand.NewRefreshCurrentMapCommand(client),
	}
	facade.queries = Queries{
		FetchPlayer: trackingquery.NewFetchPlayerQuery(client),
		FetchMap:    trackingquery.NewFetchMapQuery(client),
		CurrentMap:  trackingquery.NewCurrentMapQuery(client),
		Health:      trackingquery.NewHealthQuery(client),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Client() CommandQueryClient {
	if f == nil {
		return nil
	}
	return f.client
}

// resolveSessionEnqueuer finds a queue path for SyncSession commands: the
// client itself when it enqueues, or a dispatcher built from a *core.Client
// that carries a job enqueuer. SyncSession fails with a dependency error
// when neither is available.
func resolveSessionEnqueuer(client CommandQueryClient) trackingcommand.SessionEnqueuer {
	if enqueuer, ok := client.(trackingcommand.SessionEnqueuer); ok {
		return enqueuer
	}
	coreClient, ok := client.(*core.Client)
	if !ok {
		return nil
	}
	dispatcher, err := core.NewSessionSyncDispatcher(coreClient, nil)
	if err != nil {
		return nil
	}
	return dispatcher
}

var _ CommandQueryClient = (*core.Client)(nil)
