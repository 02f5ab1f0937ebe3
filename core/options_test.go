package core

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCfgxConfigProvider_MergesRawOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"api_url": "https://staging.gametrack.dev",
		"api_key": "raw-key",
	}})

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://staging.gametrack.dev" {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.APIKey != "raw-key" {
		t.Fatalf("unexpected api key %q", cfg.APIKey)
	}
	if cfg.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Fatalf("defaults must survive merge, got %s", cfg.HeartbeatInterval)
	}
}

func TestCfgxConfigProvider_EmptyLoaderKeepsDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(nil)
	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestCfgxConfigProvider_InvalidMergedConfigFails(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"api_url": "ftp://nope",
	}})
	if _, err := provider.Load(context.Background(), DefaultConfig()); err == nil {
		t.Fatalf("expected validation failure for ftp scheme")
	}
}

func TestGoOptionsResolver_RuntimeWinsOverLoadedConfig(t *testing.T) {
	loaded := DefaultConfig()
	loaded.APIKey = "loaded-key"
	loaded.HeartbeatInterval = time.Minute

	runtime := Config{APIKey: "runtime-key"}

	resolved, err := GoOptionsResolver{}.Resolve(DefaultConfig(), loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.APIKey != "runtime-key" {
		t.Fatalf("runtime layer must win, got %q", resolved.APIKey)
	}
	if resolved.HeartbeatInterval != time.Minute {
		t.Fatalf("loaded layer must win over defaults, got %s", resolved.HeartbeatInterval)
	}
	if resolved.APIURL != DefaultAPIURL {
		t.Fatalf("defaults must backfill untouched keys, got %q", resolved.APIURL)
	}
}

func TestGoOptionsResolver_ZeroRuntimeValuesDoNotMask(t *testing.T) {
	loaded := DefaultConfig()
	loaded.APIKey = "loaded-key"

	resolved, err := GoOptionsResolver{}.Resolve(DefaultConfig(), loaded, Config{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.APIKey != "loaded-key" {
		t.Fatalf("empty runtime values must not override, got %q", resolved.APIKey)
	}
}

func TestGoOptionsResolver_RejectsInvalidResolution(t *testing.T) {
	defaults := DefaultConfig()
	defaults.PluginVersion = ""
	if _, err := (GoOptionsResolver{}).Resolve(defaults, Config{}, Config{}); err == nil {
		t.Fatalf("expected validation failure for missing plugin version")
	}
}

func TestNewClient_RequiresTransportAdapter(t *testing.T) {
	_, err := NewClient(Config{})
	if err == nil {
		t.Fatalf("expected error without a transport adapter")
	}
	if !strings.Contains(err.Error(), "transport adapter is required") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewClient_RuntimeConfigOverridesProvider(t *testing.T) {
	client := newTestClient(t,
		Config{APIURL: "https://runtime.gametrack.dev"},
		WithTransportAdapter(&scriptedTransport{}),
		WithScheduler(&manualScheduler{}),
		WithConfigProvider(NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
			"api_url": "https://loaded.gametrack.dev",
			"api_key": "loaded-key",
		}})),
	)

	cfg := client.Config()
	if cfg.APIURL != "https://runtime.gametrack.dev" {
		t.Fatalf("runtime config must win, got %q", cfg.APIURL)
	}
	if cfg.APIKey != "loaded-key" {
		t.Fatalf("provider values must survive where runtime is silent, got %q", cfg.APIKey)
	}
}
