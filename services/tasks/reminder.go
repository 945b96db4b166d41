package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"slotbook/models"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the asynq task for an appointment reminder. The
// task id equals the appointment id so a cancellation can delete it.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(payload.AppointmentID),
	}
	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminder tasks ahead of each confirmed
// appointment. Implements the ledger's ReminderScheduler seam.
type AsynqReminderScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	LeadTime  time.Duration
}

func (s *AsynqReminderScheduler) ScheduleReminder(_ context.Context, appt models.Appointment) error {
	fireAt := appt.Interval.Start.Add(-s.LeadTime)
	if fireAt.Before(time.Now()) {
		// Appointment is closer than the lead time; nothing to remind about.
		return nil
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CalendarID:    appt.CalendarID,
		OwnerID:       appt.OwnerID,
		StartsAt:      appt.Interval.Start,
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.Enqueue(task, opts...)
	return err
}

func (s *AsynqReminderScheduler) CancelReminder(_ context.Context, apptID string) error {
	err := s.Inspector.DeleteTask("default", apptID)
	if err == asynq.ErrTaskNotFound {
		return nil
	}
	return err
}
