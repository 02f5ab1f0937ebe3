package core

import (
	"context"
	"testing"
)

func TestHeartbeat_HealthTracksLatestOutcome(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(200, `{"status":"healthy"}`),
		failTransport(),
		respond(200, ""),
		respond(500, "internal error"),
		respond(200, `{"status":"healthy"}`),
	}}
	client := newTestClient(t, Config{}, WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))

	steps := []struct {
		name    string
		healthy bool
	}{
		{"200 with body", true},
		{"transport failure", false},
		{"200 without body", false},
		{"500", false},
		{"healthy again", true},
	}
	for _, step := range steps {
		delay := client.heartbeat(ctx)
		if delay != client.config.HeartbeatInterval {
			t.Fatalf("%s: expected heartbeat interval %s, got %s", step.name, client.config.HeartbeatInterval, delay)
		}
		if client.Healthy() != step.healthy {
			t.Fatalf("%s: expected healthy=%t", step.name, step.healthy)
		}
	}
}

func TestHeartbeat_ProbesAPIRoot(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(200, "ok"),
	}}
	client := newTestClient(t, Config{APIURL: "https://tracking.example.com/"},
		WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))

	client.heartbeat(context.Background())

	if len(transport.calls) != 1 {
		t.Fatalf("expected one probe, got %d", len(transport.calls))
	}
	if transport.calls[0].Method != "GET" {
		t.Fatalf("expected GET probe, got %q", transport.calls[0].Method)
	}
	if transport.calls[0].URL != "https://tracking.example.com" {
		t.Fatalf("expected probe against api root, got %q", transport.calls[0].URL)
	}
}

func TestHeartbeat_StartsAuthLoopOnceAfterFirstHealthyProbe(t *testing.T) {
	ctx := context.Background()
	scheduler := &manualScheduler{}
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(503, "unavailable"),
		respond(200, "ok"),
		respond(200, "ok"),
	}}
	client := newTestClient(t, Config{APIKey: "refresh-key"},
		WithTransportAdapter(transport), WithScheduler(scheduler))

	client.heartbeat(ctx)
	if _, ok := scheduler.taskNamed("tracking.auth"); ok {
		t.Fatalf("auth loop must not start before the first healthy heartbeat")
	}

	client.heartbeat(ctx)
	client.heartbeat(ctx)

	count := 0
	for _, scheduled := range scheduler.tasks {
		if scheduled.name == "tracking.auth" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one auth loop, got %d", count)
	}
	if !client.Health().AuthLoopStarted {
		t.Fatalf("expected auth loop marked as started")
	}
}

func TestHeartbeat_NoKeyNeverStartsAuthLoop(t *testing.T) {
	ctx := context.Background()
	scheduler := &manualScheduler{}
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(200, "ok"),
		respond(200, "ok"),
		respond(200, "ok"),
	}}
	client := newTestClient(t, Config{},
		WithTransportAdapter(transport), WithScheduler(scheduler))

	for i := 0; i < 3; i++ {
		client.heartbeat(ctx)
	}
	if _, ok := scheduler.taskNamed("tracking.auth"); ok {
		t.Fatalf("auth loop must never start without a refresh key")
	}
}

func TestHeartbeat_FailureGatesSubsequentFetches(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		failTransport(),
	}}
	client := newTestClient(t, Config{}, WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))

	client.heartbeat(ctx)
	calls := len(transport.calls)

	_, err := client.FetchPlayerByName(ctx, "zer0k")
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.Status != 503 || apiErr.Message != "unreachable" {
		t.Fatalf("expected {503 unreachable}, got {%d %s}", apiErr.Status, apiErr.Message)
	}
	if len(transport.calls) != calls {
		t.Fatalf("gate failure must not touch the transport")
	}
}

func TestStart_SchedulesHeartbeatOnce(t *testing.T) {
	ctx := context.Background()
	scheduler := &manualScheduler{}
	transport := &scriptedTransport{}
	client := newTestClient(t, Config{}, WithTransportAdapter(transport), WithScheduler(scheduler))

	if err := client.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := client.Start(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}

	count := 0
	for _, scheduled := range scheduler.tasks {
		if scheduled.name == "tracking.heartbeat" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one heartbeat loop, got %d", count)
	}
}
