// File: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
func (r *mongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on appointment ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: all appointments for a calendar, by start
		{
			Keys:    bson.D{{Key: "calendar_id", Value: 1}, {Key: "interval.start", Value: 1}},
			Options: options.Index().SetName("calendar_start_idx"),
		},
		// Owner lookups for "my bookings"
		{
			Keys:    bson.D{{Key: "calendar_id", Value: 1}, {Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("calendar_owner_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
