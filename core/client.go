package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Client keeps a host process authenticated and synchronized with the
// remote tracking API. All mutable connection state lives behind one mutex,
// so the client is safe for concurrent use.
type Client struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper
	transport       TransportAdapter
	scheduler       Scheduler
	notifier        Notifier
	enqueuer        JobEnqueuer
	nowFn           func() time.Time

	mu                  sync.Mutex
	healthy             bool
	lastHeartbeatStatus int
	authPayload         []byte
	accessToken         string
	authLoopStarted     bool
	currentMap          *Map
	started             bool
}

func NewClient(cfg Config, options ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("tracking", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("tracking"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = trackingErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.scheduler == nil {
		builder.scheduler = NewTimerScheduler()
	}
	if builder.notifier == nil {
		builder.notifier = NopNotifier{}
	}
	if builder.nowFn == nil {
		builder.nowFn = func() time.Time { return time.Now().UTC() }
	}
	if builder.transport == nil {
		return nil, fmt.Errorf("core: a transport adapter is required")
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Client{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		transport:       builder.transport,
		scheduler:       builder.scheduler,
		notifier:        builder.notifier,
		enqueuer:        builder.enqueuer,
		nowFn:           builder.nowFn,
	}, nil
}

// Start begins the heartbeat loop. The token refresh loop starts lazily on
// the first healthy heartbeat, and only when a refresh key is configured.
// Start is idempotent; the loops stop when ctx is canceled.
func (c *Client) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("core: client is nil")
	}
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	c.logInfo(ctx, "initializing tracking api connection", map[string]any{
		"api_url": c.config.APIURL,
	})
	if !c.config.Authenticates() {
		c.logInfo(ctx, "no refresh key configured, will not authenticate", nil)
	}

	c.scheduler.Schedule(ctx, "tracking.heartbeat", c.heartbeat)
	return nil
}

// Config returns the resolved client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Logger exposes the client's resolved logger so background workers can
// report through the same sink.
func (c *Client) Logger() Logger {
	return c.logger
}

// LoggerProvider exposes the provider the client was built with, or nil.
func (c *Client) LoggerProvider() LoggerProvider {
	return c.loggerProvider
}

// Healthy reports the outcome of the most recent heartbeat.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

// Authenticated reports whether an access token is currently held.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// HealthSnapshot is a point-in-time view of the connection state for host
// diagnostics.
type HealthSnapshot struct {
	Healthy             bool
	Authenticated       bool
	AuthLoopStarted     bool
	LastHeartbeatStatus int
}

func (c *Client) Health() HealthSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HealthSnapshot{
		Healthy:             c.healthy,
		Authenticated:       c.accessToken != "",
		AuthLoopStarted:     c.authLoopStarted,
		LastHeartbeatStatus: c.lastHeartbeatStatus,
	}
}

// CurrentMap returns the cached current map, if one has been stored. The
// cache is not invalidated by the client; hosts refresh it on map change.
func (c *Client) CurrentMap() (Map, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentMap == nil {
		return Map{}, false
	}
	return *c.currentMap, true
}

func (c *Client) SetCurrentMap(gameMap Map) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentMap = &gameMap
}

func (c *Client) setHealthy(healthy bool, status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = healthy
	c.lastHeartbeatStatus = status
}

func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) refreshKey() string {
	return strings.TrimSpace(c.config.APIKey)
}
