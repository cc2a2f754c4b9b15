package cron

import (
	"context"
	"encoding/json"
	"time"

	"servicehub/config"
	bookingRepo "servicehub/database/repository/booking"
	"servicehub/models"
	"servicehub/services/events"
	"servicehub/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the asynq connection settings for the reminder queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReminderWorker runs the async worker in background and returns the
// server so the caller can shut it down.
func InitReminderWorker(ctx context.Context, bookings bookingRepo.BookingRepository, publisher events.Publisher, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, HandleReminderTask(bookings, publisher, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Warn("Reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up, reminders will not be delivered")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleReminderTask publishes a booking.reminder event when the booking is
// still confirmed at fire time. Reminders for bookings that moved on are
// dropped without error so asynq does not retry them.
func HandleReminderTask(bookings bookingRepo.BookingRepository, publisher events.Publisher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return errors.Annotatef(asynq.SkipRetry, "decoding reminder payload: %v", err)
		}

		booking, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				logger.Info("Reminder for missing booking dropped", zap.String("bookingId", p.BookingID))
				return nil
			}
			return errors.Trace(err)
		}
		if booking.Status != models.BookingConfirmed {
			logger.Info("Reminder skipped",
				zap.String("bookingId", p.BookingID), zap.String("status", string(booking.Status)))
			return nil
		}

		if err := publisher.Publish(ctx, models.EventBookingReminder, p); err != nil {
			logger.Warn("Failed to publish reminder", zap.String("bookingId", p.BookingID), zap.Error(err))
			return errors.Trace(err)
		}
		logger.Info("Reminder published", zap.String("bookingId", p.BookingID))
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to surface
// failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Reminder queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
