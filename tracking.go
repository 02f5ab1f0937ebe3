// Package tracking keeps a game server authenticated and synchronized with
// a remote player tracking API: a heartbeat loop tracks reachability, a lazy
// refresh loop exchanges the configured refresh key for short-lived access
// tokens, and every operation is gated on the connection state so callers
// get a normalized {status, message, details} error instead of a timeout.
package tracking

import (
	"github.com/goliatone/go-tracking/core"
	"github.com/goliatone/go-tracking/transport"
)

type Config = core.Config

type Option = core.Option

type Client = core.Client

type Player = core.Player
type Map = core.Map
type Session = core.Session
type NewPlayer = core.NewPlayer
type PlayerUpdate = core.PlayerUpdate

type PlayerResolution = core.PlayerResolution
type MapResolution = core.MapResolution
type LookupOutcome = core.LookupOutcome
type RegistrationResult = core.RegistrationResult
type RegistrationStatus = core.RegistrationStatus
type HealthSnapshot = core.HealthSnapshot

type APIError = core.APIError

type TransportAdapter = core.TransportAdapter
type TransportRequest = core.TransportRequest
type TransportResponse = core.TransportResponse
type Scheduler = core.Scheduler
type MetricsRecorder = core.MetricsRecorder
type Notifier = core.Notifier

type SessionSyncDispatcher = core.SessionSyncDispatcher

const (
	LookupFound    = core.LookupFound
	LookupNotFound = core.LookupNotFound

	RegistrationHydrated        = core.RegistrationHydrated
	RegistrationHydrationMissed = core.RegistrationHydrationMissed
	RegistrationHydrationFailed = core.RegistrationHydrationFailed
)

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithErrorMapper      = core.WithErrorMapper
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithTransportAdapter = core.WithTransportAdapter
	WithScheduler        = core.WithScheduler
	WithNotifier         = core.WithNotifier
	WithJobEnqueuer      = core.WithJobEnqueuer
)

// AsAPIError extracts the normalized error shape from an operation error.
func AsAPIError(err error) (*APIError, bool) {
	return core.AsAPIError(err)
}

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client from explicit options. A transport adapter must
// be supplied.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	return core.NewClient(cfg, opts...)
}

// New builds a client with the REST transport preinstalled. Options run
// after the default, so WithTransportAdapter still overrides it.
func New(cfg Config, opts ...Option) (*Client, error) {
	options := append([]Option{
		WithTransportAdapter(transport.NewRESTAdapter(nil)),
	}, opts...)
	return core.NewClient(cfg, options...)
}

// NewSessionSyncDispatcher exposes the background session update queue for
// hosts that deliver updates through go-job workers.
func NewSessionSyncDispatcher(client *Client, enqueuer core.JobEnqueuer) (*SessionSyncDispatcher, error) {
	return core.NewSessionSyncDispatcher(client, enqueuer)
}
