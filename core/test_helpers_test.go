package core

import (
	"context"
	"fmt"
	"testing"
)

type scriptedResponse struct {
	res TransportResponse
	err error
}

type scriptedTransport struct {
	responses []scriptedResponse
	calls     []TransportRequest
}

func (t *scriptedTransport) Kind() string { return "scripted" }

func (t *scriptedTransport) Do(_ context.Context, req TransportRequest) (TransportResponse, error) {
	t.calls = append(t.calls, req)
	if len(t.responses) == 0 {
		return TransportResponse{}, fmt.Errorf("scripted transport exhausted")
	}
	next := t.responses[0]
	t.responses = t.responses[1:]
	return next.res, next.err
}

func respond(status int, body string) scriptedResponse {
	return scriptedResponse{res: TransportResponse{StatusCode: status, Body: []byte(body)}}
}

func failTransport() scriptedResponse {
	return scriptedResponse{err: fmt.Errorf("connection refused")}
}

type scheduledTask struct {
	name string
	task Task
}

type manualScheduler struct {
	tasks []scheduledTask
}

func (s *manualScheduler) Schedule(_ context.Context, name string, task Task) {
	s.tasks = append(s.tasks, scheduledTask{name: name, task: task})
}

func (s *manualScheduler) taskNamed(name string) (Task, bool) {
	for _, scheduled := range s.tasks {
		if scheduled.name == name {
			return scheduled.task, true
		}
	}
	return nil, false
}

type recordingNotifier struct {
	registered []Player
	missing    []uint64
	failures   []*APIError
}

func (n *recordingNotifier) PlayerRegistered(_ context.Context, player Player) {
	n.registered = append(n.registered, player)
}

func (n *recordingNotifier) PlayerMissingAfterRegistration(_ context.Context, steamID uint64) {
	n.missing = append(n.missing, steamID)
}

func (n *recordingNotifier) RegistrationFailed(_ context.Context, apiErr *APIError) {
	n.failures = append(n.failures, apiErr)
}

type memoryEnqueuer struct {
	messages []*JobExecutionMessage
	err      error
}

func (e *memoryEnqueuer) Enqueue(_ context.Context, msg *JobExecutionMessage) error {
	if e.err != nil {
		return e.err
	}
	e.messages = append(e.messages, msg)
	return nil
}

type recordedDelivery struct {
	msg    *JobExecutionMessage
	acked  bool
	nacked bool
	opts   JobNackOptions
}

func (d *recordedDelivery) Message() *JobExecutionMessage { return d.msg }

func (d *recordedDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *recordedDelivery) Nack(_ context.Context, opts JobNackOptions) error {
	d.nacked = true
	d.opts = opts
	return nil
}

func newTestClient(t *testing.T, cfg Config, options ...Option) *Client {
	t.Helper()
	client, err := NewClient(cfg, options...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}
