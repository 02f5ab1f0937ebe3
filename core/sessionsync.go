package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobIDPlayerSync identifies queued background player session updates.
const JobIDPlayerSync = "tracking.player.sync"

const defaultSyncRetryDelay = 5 * time.Second

// SessionSyncDispatcher queues player session updates for background
// delivery instead of patching inline on the host's hot path. Deliveries
// are handled by calling UpdatePlayer and acked on success; failures are
// nacked with a requeue delay so the queue retries them.
type SessionSyncDispatcher struct {
	client     *Client
	enqueuer   JobEnqueuer
	retryDelay time.Duration
}

func NewSessionSyncDispatcher(client *Client, enqueuer JobEnqueuer) (*SessionSyncDispatcher, error) {
	if client == nil {
		return nil, fmt.Errorf("core: client is required")
	}
	if enqueuer == nil {
		enqueuer = client.enqueuer
	}
	if enqueuer == nil {
		return nil, fmt.Errorf("core: job enqueuer is required")
	}
	return &SessionSyncDispatcher{
		client:     client,
		enqueuer:   enqueuer,
		retryDelay: defaultSyncRetryDelay,
	}, nil
}

// EnqueueUpdate queues one session update. The steam id travels as a
// decimal string so it survives JSON round trips without float truncation.
func (d *SessionSyncDispatcher) EnqueueUpdate(ctx context.Context, steamID uint64, update PlayerUpdate) error {
	if d == nil || d.enqueuer == nil {
		return fmt.Errorf("core: session sync dispatcher is not configured")
	}
	if steamID == 0 {
		return fmt.Errorf("core: steam id is required")
	}
	if err := update.Validate(); err != nil {
		return err
	}

	msg := &JobExecutionMessage{
		JobID: JobIDPlayerSync,
		Parameters: map[string]any{
			"steam_id":        strconv.FormatUint(steamID, 10),
			"name":            update.Name,
			"ip_address":      update.IPAddress,
			"time_active":     update.Session.TimeActive,
			"time_spectating": update.Session.TimeSpectating,
			"time_afk":        update.Session.TimeAFK,
		},
		IdempotencyKey: uuid.NewString(),
		DedupPolicy:    "drop",
	}
	return d.enqueuer.Enqueue(ctx, msg)
}

// HandleDelivery processes one dequeued session update.
func (d *SessionSyncDispatcher) HandleDelivery(ctx context.Context, delivery JobDelivery) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("core: session sync dispatcher is not configured")
	}
	if delivery == nil {
		return fmt.Errorf("core: delivery is required")
	}
	msg := delivery.Message()
	if msg == nil || msg.JobID != JobIDPlayerSync {
		return delivery.Nack(ctx, JobNackOptions{
			DeadLetter: true,
			Reason:     "unexpected job id",
		})
	}

	steamID, update, err := decodeSyncParameters(msg.Parameters)
	if err != nil {
		return delivery.Nack(ctx, JobNackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		})
	}

	if updateErr := d.client.UpdatePlayer(ctx, steamID, update); updateErr != nil {
		return delivery.Nack(ctx, JobNackOptions{
			Delay:   d.retryDelay,
			Requeue: true,
			Reason:  updateErr.Error(),
		})
	}
	return delivery.Ack(ctx)
}

func decodeSyncParameters(params map[string]any) (uint64, PlayerUpdate, error) {
	raw := strings.TrimSpace(fmt.Sprint(params["steam_id"]))
	steamID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || steamID == 0 {
		return 0, PlayerUpdate{}, fmt.Errorf("core: invalid steam id in sync parameters: %q", raw)
	}

	update := PlayerUpdate{
		Name:      strings.TrimSpace(fmt.Sprint(params["name"])),
		IPAddress: stringParam(params, "ip_address"),
		Session: Session{
			TimeActive:     intParam(params, "time_active"),
			TimeSpectating: intParam(params, "time_spectating"),
			TimeAFK:        intParam(params, "time_afk"),
		},
	}
	if update.Name == "" || update.Name == "<nil>" {
		return 0, PlayerUpdate{}, fmt.Errorf("core: player name missing from sync parameters")
	}
	return steamID, update, nil
}

func stringParam(params map[string]any, key string) string {
	value, ok := params[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func intParam(params map[string]any, key string) int64 {
	switch value := params[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case float64:
		return int64(value)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
