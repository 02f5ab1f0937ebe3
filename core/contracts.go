package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// TransportRequest describes one outbound HTTP exchange. Callers never build
// these directly; operations assemble them from the client configuration.
type TransportRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Query       map[string]string
	Body        []byte
	Metadata    map[string]any
	Timeout     time.Duration
	Idempotency string
}

// TransportResponse carries the raw result of one exchange. A transport
// failure (no response obtained) is reported as an error from Do, never as
// a response with a zero status code.
type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Task is one run of a periodic loop. The return value is the delay before
// the next run; a negative delay cancels the loop.
type Task func(ctx context.Context) time.Duration

// Scheduler drives self-rescheduling periodic tasks. Implementations must
// run the task once immediately and then honor the returned delays.
type Scheduler interface {
	Schedule(ctx context.Context, name string, task Task)
}

// Notifier receives user-facing outcomes of the registration workflow. The
// host wires this to its chat or console output.
type Notifier interface {
	PlayerRegistered(ctx context.Context, player Player)
	PlayerMissingAfterRegistration(ctx context.Context, steamID uint64)
	RegistrationFailed(ctx context.Context, apiErr *APIError)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) PlayerRegistered(context.Context, Player) {}

func (NopNotifier) PlayerMissingAfterRegistration(context.Context, uint64) {}

func (NopNotifier) RegistrationFailed(context.Context, *APIError) {}

// JobExecutionMessage is the queue payload contract for background work.
// Adapters map it onto concrete queue implementations.
type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}
