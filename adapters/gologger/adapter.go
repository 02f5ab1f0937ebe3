// Package gologger resolves logging for background session-sync workers.
// It bridges the tracking client's glog sink into the go-job logger
// contracts and ships a lifecycle hook so queued player updates report
// through the same sink as the client's own operations.
package gologger

import (
	"context"
	"fmt"
	"strings"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-tracking/core"
)

// WorkerLoggerName separates queue worker output from the client's own
// operation logs.
const WorkerLoggerName = "tracking.worker"

// WorkerLogging carries one resolved logging setup in both the glog and
// go-job shapes a queue worker needs.
type WorkerLogging struct {
	Provider    glog.LoggerProvider
	Logger      glog.Logger
	JobProvider job.LoggerProvider
	JobLogger   job.Logger
}

// ResolveWorker resolves worker logging with precedence provider > logger
// > nop, then bridges the result into the go-job contracts.
func ResolveWorker(provider glog.LoggerProvider, logger glog.Logger) WorkerLogging {
	resolvedProvider, resolvedLogger := glog.Resolve(WorkerLoggerName, provider, logger)
	resolvedLogger = glog.Ensure(resolvedLogger)
	return WorkerLogging{
		Provider:    resolvedProvider,
		Logger:      resolvedLogger,
		JobProvider: job.GoLoggerProvider(resolvedProvider),
		JobLogger:   job.GoLogger(resolvedLogger),
	}
}

// ForClient derives worker logging from the sink the client was built
// with, so queued session updates land next to the client's operation
// logs.
func ForClient(client *core.Client) WorkerLogging {
	if client == nil {
		return ResolveWorker(nil, nil)
	}
	return ResolveWorker(client.LoggerProvider(), client.Logger())
}

// SyncLogHook reports session-sync worker lifecycle through the resolved
// worker logger.
type SyncLogHook struct {
	logger glog.Logger
}

func NewSyncLogHook(logging WorkerLogging) *SyncLogHook {
	return &SyncLogHook{logger: glog.Ensure(logging.Logger)}
}

func (h *SyncLogHook) OnStart(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "debug", "session sync started", event)
}

func (h *SyncLogHook) OnSuccess(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "info", "session sync delivered", event)
}

func (h *SyncLogHook) OnFailure(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "error", "session sync failed", event)
}

func (h *SyncLogHook) OnRetry(ctx context.Context, event core.JobWorkerEvent) {
	h.log(ctx, "warn", "session sync retry scheduled", event)
}

func (h *SyncLogHook) log(ctx context.Context, level string, message string, event core.JobWorkerEvent) {
	if h == nil || h.logger == nil {
		return
	}
	logger := h.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}

	args := []any{"attempt", event.Attempt}
	if event.Message != nil {
		args = append(args, "job_id", event.Message.JobID)
		if steamID := strings.TrimSpace(fmt.Sprint(event.Message.Parameters["steam_id"])); steamID != "" && steamID != "<nil>" {
			args = append(args, "steam_id", steamID)
		}
	}
	if event.Delay > 0 {
		args = append(args, "delay_ms", event.Delay.Milliseconds())
	}
	if event.Duration > 0 {
		args = append(args, "duration_ms", event.Duration.Milliseconds())
	}
	if event.Err != nil {
		args = append(args, "error", event.Err.Error())
	}

	switch level {
	case "debug":
		logger.Debug(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

var _ core.JobWorkerHook = (*SyncLogHook)(nil)
