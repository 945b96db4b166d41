package cron

import (
	"context"

	"go.uber.org/zap"

	"slotbook/models"
)

// LogNotifier is the default Notifier: it records the reminder and leaves
// actual delivery to whichever collaborator tails the log. Chat and push
// transports plug in by replacing it.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(_ context.Context, p models.ReminderPayload) error {
	n.Logger.Info("appointment reminder due",
		zap.String("appointmentID", p.AppointmentID),
		zap.String("ownerID", p.OwnerID),
		zap.Time("startsAt", p.StartsAt))
	return nil
}
