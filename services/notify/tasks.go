package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"soothe/config"

	"github.com/hibiken/asynq"
)

// TypeBookingNotify is the queued task emitted for every new booking.
const TypeBookingNotify = "booking:notify"

// BookingNotifyPayload identifies the booking the worker should announce.
type BookingNotifyPayload struct {
	BookingID string `json:"bookingId"`
}

// NotifyQueue enqueues notification tasks onto the Redis-backed queue. The
// worker consuming them lives in the cron package.
type NotifyQueue struct {
	client *asynq.Client
}

func NewNotifyQueue() *NotifyQueue {
	return &NotifyQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// EnqueueBookingNotify schedules a best-effort therapist notification.
func (q *NotifyQueue) EnqueueBookingNotify(ctx context.Context, bookingID string) error {
	b, err := json.Marshal(BookingNotifyPayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingNotify, b)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeBookingNotify, err)
	}
	return nil
}

// Close releases the queue connection.
func (q *NotifyQueue) Close() error {
	return q.client.Close()
}
