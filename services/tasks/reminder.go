package tasks

import (
	"context"
	"encoding/json"
	"time"

	"servicehub/models"

	"github.com/hibiken/asynq"
	"github.com/juju/errors"
)

const TypeBookingReminder = "booking:reminder"

// Scheduler queues work that must run later.
type Scheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// AsynqScheduler enqueues reminders on the Redis-backed asynq queue.
type AsynqScheduler struct {
	Client    *asynq.Client
	LeadTime  time.Duration
	TimeNowFn func() time.Time
}

func NewAsynqScheduler(client *asynq.Client, lead time.Duration) *AsynqScheduler {
	return &AsynqScheduler{Client: client, LeadTime: lead, TimeNowFn: time.Now}
}

// ReminderTime is when the reminder for a booking on date should fire. It is
// false when the booking date has already passed.
func ReminderTime(date, now time.Time, lead time.Duration) (time.Time, bool) {
	if !date.After(now) {
		return time.Time{}, false
	}
	fireAt := date.Add(-lead)
	if fireAt.Before(now) {
		fireAt = now
	}
	return fireAt, true
}

func (s *AsynqScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	fireAt, ok := ReminderTime(booking.BookingDate, s.TimeNowFn(), s.LeadTime)
	if !ok {
		return nil
	}
	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		ProviderID:  booking.ProviderID,
		BookingDate: booking.BookingDate,
		BookingTime: booking.BookingTime,
	}, fireAt)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return errors.Annotatef(err, "enqueue reminder for booking %s", booking.ID)
	}
	return nil
}

// NopScheduler discards reminders.
type NopScheduler struct{}

func (NopScheduler) ScheduleReminder(context.Context, *models.Booking) error { return nil }
