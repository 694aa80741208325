package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeOrderSync is the asynq task type for pushing one order upstream.
const TaskTypeOrderSync = "order:sync"

// QueueName is the asynq queue carrying sync work.
const QueueName = "sync"

type orderSyncPayload struct {
	OrderID string `json:"orderId"`
}

// NewOrderSyncTask builds the asynq task for an order.
func NewOrderSyncTask(orderID string) (*asynq.Task, error) {
	payload, err := json.Marshal(orderSyncPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrderSync, payload), nil
}

// ParseOrderSyncTask extracts the order ID from a task payload.
func ParseOrderSyncTask(t *asynq.Task) (string, error) {
	var payload orderSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return "", err
	}
	if payload.OrderID == "" {
		return "", errors.New("sync: task payload missing order id")
	}
	return payload.OrderID, nil
}

// Enqueuer schedules order sync tasks. It satisfies the order service's
// Enqueuer interface.
type Enqueuer struct {
	Client     *asynq.Client
	MaxRetries int
}

// EnqueueOrderSync queues a push for the given order.
func (e Enqueuer) EnqueueOrderSync(ctx context.Context, orderID string) error {
	if e.Client == nil {
		return errors.New("sync: task client not configured")
	}
	task, err := NewOrderSyncTask(orderID)
	if err != nil {
		return err
	}
	maxRetry := e.MaxRetries
	if maxRetry <= 0 {
		maxRetry = 10
	}
	_, err = e.Client.EnqueueContext(ctx, task,
		asynq.Queue(QueueName),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(time.Minute),
	)
	return err
}
