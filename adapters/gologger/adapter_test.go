package gologger

import (
	"context"
	"errors"
	"testing"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-tracking/core"
)

func TestResolveWorkerPrecedence(t *testing.T) {
	loggerOnly := &capturingLogger{id: "logger"}
	providerLogger := &capturingLogger{id: "provider"}
	provider := &capturingProvider{logger: providerLogger}

	logging := ResolveWorker(provider, loggerOnly)
	got := logging.Logger.(*capturingLogger)
	if got.id != "provider" {
		t.Fatalf("expected provider logger precedence, got %q", got.id)
	}
	if logging.JobProvider == nil || logging.JobLogger == nil {
		t.Fatalf("expected go-job bridges for resolved logging")
	}

	logging = ResolveWorker(nil, loggerOnly)
	got = logging.Logger.(*capturingLogger)
	if got.id != "logger" {
		t.Fatalf("expected direct logger when provider is nil, got %q", got.id)
	}

	logging = ResolveWorker(nil, nil)
	if logging.Logger == nil || logging.JobLogger == nil {
		t.Fatalf("expected nop fallback, got %+v", logging)
	}
}

func TestForClientReusesClientSink(t *testing.T) {
	sink := &capturingLogger{id: "client"}
	client, err := core.NewClient(core.Config{APIURL: "https://api.example.com"},
		core.WithTransportAdapter(noopTransport{}),
		core.WithLogger(sink),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	logging := ForClient(client)
	bridged := logging.JobProvider.GetLogger(WorkerLoggerName)
	bridged.Info("session update queued", "steam_id", "76561198000000001")

	captured := sink.last["info"]
	if captured.msg != "session update queued" {
		t.Fatalf("expected bridged message, got %q", captured.msg)
	}
	if captured.args[0] != "steam_id" || captured.args[1] != "76561198000000001" {
		t.Fatalf("expected bridged args, got %#v", captured.args)
	}
}

func TestSyncLogHookLifecycle(t *testing.T) {
	sink := &capturingLogger{id: "worker"}
	hook := NewSyncLogHook(WorkerLogging{Logger: sink})

	event := core.JobWorkerEvent{
		Message: &core.JobExecutionMessage{
			JobID:      core.JobIDPlayerSync,
			Parameters: map[string]any{"steam_id": "76561198000000001"},
		},
		Attempt: 2,
		Delay:   5 * time.Second,
		Err:     errors.New("update failed: 503"),
	}

	hook.OnFailure(context.Background(), event)
	failure := sink.last["error"]
	if failure.msg != "session sync failed" {
		t.Fatalf("expected failure log, got %q", failure.msg)
	}
	if !hasPair(failure.args, "job_id", core.JobIDPlayerSync) {
		t.Fatalf("expected job_id field, got %#v", failure.args)
	}
	if !hasPair(failure.args, "steam_id", "76561198000000001") {
		t.Fatalf("expected steam_id field, got %#v", failure.args)
	}
	if !hasPair(failure.args, "error", "update failed: 503") {
		t.Fatalf("expected error field, got %#v", failure.args)
	}

	hook.OnRetry(context.Background(), event)
	retry := sink.last["warn"]
	if retry.msg != "session sync retry scheduled" {
		t.Fatalf("expected retry log, got %q", retry.msg)
	}
	if !hasPair(retry.args, "delay_ms", int64(5000)) {
		t.Fatalf("expected delay field, got %#v", retry.args)
	}

	hook.OnSuccess(context.Background(), core.JobWorkerEvent{})
	if sink.last["info"].msg != "session sync delivered" {
		t.Fatalf("expected success log, got %q", sink.last["info"].msg)
	}
}

func hasPair(args []any, key string, value any) bool {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}

type noopTransport struct{}

func (noopTransport) Kind() string { return "noop" }

func (noopTransport) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	return core.TransportResponse{StatusCode: 200, Body: []byte("{}")}, nil
}

var (
	_ glog.Logger         = (*capturingLogger)(nil)
	_ glog.LoggerProvider = (*capturingProvider)(nil)
)

type capturingProvider struct {
	logger *capturingLogger
}

func (p *capturingProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type logCall struct {
	msg  string
	args []any
}

type capturingLogger struct {
	id   string
	last map[string]logCall
}

func (l *capturingLogger) record(level string, msg string, args []any) {
	if l.last == nil {
		l.last = map[string]logCall{}
	}
	l.last[level] = logCall{msg: msg, args: append([]any(nil), args...)}
}

func (l *capturingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *capturingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *capturingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *capturingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *capturingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *capturingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *capturingLogger) WithContext(context.Context) glog.Logger {
	return l
}
