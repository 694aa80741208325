package sync

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/lock"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/order"
)

// Worker processes order sync tasks.
type Worker struct {
	Orders  *order.Service
	Pusher  Pusher
	Locker  lock.Locker
	LockTTL time.Duration
	Log     zerolog.Logger
}

func (w *Worker) lockTTL() time.Duration {
	if w.LockTTL > 0 {
		return w.LockTTL
	}
	return 30 * time.Second
}

// HandleOrderSync pushes one queued order upstream. The per-order lock
// serialises concurrent deliveries of the same order across workers.
func (w *Worker) HandleOrderSync(ctx context.Context, t *asynq.Task) error {
	orderID, err := ParseOrderSyncTask(t)
	if err != nil {
		// A malformed payload never becomes valid; drop it.
		w.Log.Error().Err(err).Msg("order sync task malformed")
		return nil
	}
	return w.Locker.WithLock(ctx, "sync:order:"+orderID, w.lockTTL(), func(ctx context.Context) error {
		return w.syncOne(ctx, orderID)
	})
}

func (w *Worker) syncOne(ctx context.Context, orderID string) error {
	o, err := w.Orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			w.Log.Warn().Str("order_id", orderID).Msg("order sync task for unknown order")
			return nil
		}
		return err
	}
	if o.Status != order.StatusQueued {
		return nil
	}

	start := time.Now()
	err = w.Pusher.Push(ctx, o)
	result := "ok"
	if err != nil {
		result = "error"
	}
	if obs.OrderSyncTotal != nil {
		obs.OrderSyncTotal.WithLabelValues(result).Inc()
	}
	if obs.OrderSyncLatency != nil {
		obs.OrderSyncLatency.WithLabelValues(result).Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			// Standalone mode: keep orders queued until an endpoint exists.
			return nil
		}
		w.Log.Warn().Err(err).Str("order_id", orderID).Msg("order sync push failed")
		return err
	}
	if err := w.Orders.MarkSynced(ctx, orderID); err != nil && !errors.Is(err, order.ErrNotFound) {
		return err
	}
	w.Log.Info().Str("order_id", orderID).Msg("order synced")
	return nil
}

// Sweep re-enqueues queued orders that missed their submit-time enqueue, for
// example after a network outage or a crashed worker.
func (w *Worker) Sweep(ctx context.Context, enqueuer Enqueuer, batch int) error {
	queued, err := w.Orders.Store.ListQueued(ctx, batch)
	if err != nil {
		return err
	}
	for _, o := range queued {
		if err := enqueuer.EnqueueOrderSync(ctx, o.ID); err != nil {
			w.Log.Warn().Err(err).Str("order_id", o.ID).Msg("sweep enqueue failed")
		}
	}
	return nil
}

// Mux returns the asynq handler mux for this worker.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeOrderSync, w.HandleOrderSync)
	return mux
}

// NewServer builds the asynq server consuming the sync queue.
func NewServer(redisOpt asynq.RedisClientOpt, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
	})
}
