// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"slotbook/database"
	"slotbook/models"
	"slotbook/utils"
)

// AppointmentRepository is the durable-storage collaborator for the booking
// ledger. Every ledger state transition is written through here so the
// ledger can be rebuilt after a crash. Cancellation is a status flip;
// records are never hard-deleted.
type AppointmentRepository interface {
	Insert(ctx context.Context, appt *models.Appointment) error
	UpdateStatus(ctx context.Context, apptID string, status models.AppointmentStatus) error
	UpdateInterval(ctx context.Context, apptID string, interval models.TimeInterval) error
	SetExternalEventRef(ctx context.Context, apptID, eventRef string) error
	GetByID(ctx context.Context, apptID string) (*models.Appointment, error)
	ListByCalendar(ctx context.Context, calendarID string) ([]models.Appointment, error)
	ListByOwner(ctx context.Context, calendarID, ownerID string) ([]models.Appointment, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("slotbook")
	repo := &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Error("failed to ensure appointment indexes", zap.Error(err))
	}
	return repo
}
