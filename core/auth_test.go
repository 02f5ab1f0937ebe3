package core

import (
	"context"
	"encoding/json"
	"testing"
)

func authedClient(t *testing.T, transport *scriptedTransport) *Client {
	t.Helper()
	return newTestClient(t, Config{APIKey: "refresh-key", PluginVersion: "1.2.3"},
		WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))
}

func TestRefreshAccessToken_SetsTokenFromCreatedResponse(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(201, `{"access_key":"tok123"}`),
	}}
	client := authedClient(t, transport)

	delay := client.refreshAccessToken(ctx)
	if delay != client.config.AuthInterval {
		t.Fatalf("expected auth interval %s, got %s", client.config.AuthInterval, delay)
	}
	if !client.Authenticated() {
		t.Fatalf("expected client to hold an access token")
	}
	if token := client.currentToken(); token != "tok123" {
		t.Fatalf("expected token tok123, got %q", token)
	}

	req := transport.calls[0]
	if req.Method != "POST" {
		t.Fatalf("expected POST, got %q", req.Method)
	}
	if req.URL != client.config.baseURL()+"/servers/key" {
		t.Fatalf("unexpected auth url %q", req.URL)
	}
	var payload map[string]string
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		t.Fatalf("decode auth payload: %v", err)
	}
	if payload["refresh_key"] != "refresh-key" {
		t.Fatalf("expected refresh_key in payload, got %#v", payload)
	}
	if payload["plugin_version"] != "1.2.3" {
		t.Fatalf("expected plugin_version in payload, got %#v", payload)
	}
}

func TestRefreshAccessToken_FailuresKeepPreviousToken(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(201, `{"access_key":"tok123"}`),
		failTransport(),
		respond(500, `{"message":"boom"}`),
		respond(201, `{"unexpected":"shape"}`),
		respond(201, ""),
	}}
	client := authedClient(t, transport)

	for i := 0; i < 5; i++ {
		delay := client.refreshAccessToken(ctx)
		if delay != client.config.AuthInterval {
			t.Fatalf("run %d: cadence must not change on failure", i)
		}
	}
	if token := client.currentToken(); token != "tok123" {
		t.Fatalf("expected previous token kept, got %q", token)
	}
}

func TestRefreshAccessToken_OverwritesTokenOnEachSuccess(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(201, `{"access_key":"tok1"}`),
		respond(201, `{"access_key":"tok2"}`),
	}}
	client := authedClient(t, transport)

	client.refreshAccessToken(ctx)
	client.refreshAccessToken(ctx)
	if token := client.currentToken(); token != "tok2" {
		t.Fatalf("expected latest token tok2, got %q", token)
	}
}

func TestRefreshAccessToken_NoKeyCancelsLoop(t *testing.T) {
	transport := &scriptedTransport{}
	client := newTestClient(t, Config{},
		WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))

	delay := client.refreshAccessToken(context.Background())
	if delay >= 0 {
		t.Fatalf("expected negative delay to cancel the loop, got %s", delay)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected no request without a refresh key")
	}
}

func TestCachedAuthPayload_TrimsRefreshKey(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(201, `{"access_key":"tok123"}`),
	}}
	client := newTestClient(t, Config{APIKey: "  refresh-key \n", PluginVersion: "1.2.3"},
		WithTransportAdapter(transport), WithScheduler(&manualScheduler{}))

	client.refreshAccessToken(ctx)

	var payload map[string]string
	if err := json.Unmarshal(transport.calls[0].Body, &payload); err != nil {
		t.Fatalf("decode auth payload: %v", err)
	}
	if payload["refresh_key"] != "refresh-key" {
		t.Fatalf("expected trimmed refresh key, got %q", payload["refresh_key"])
	}
}

func TestCachedAuthPayload_BuiltOnce(t *testing.T) {
	ctx := context.Background()
	transport := &scriptedTransport{responses: []scriptedResponse{
		respond(500, ""),
		respond(500, ""),
	}}
	client := authedClient(t, transport)

	client.refreshAccessToken(ctx)
	client.refreshAccessToken(ctx)

	if string(transport.calls[0].Body) != string(transport.calls[1].Body) {
		t.Fatalf("expected identical cached payload across runs")
	}
}
