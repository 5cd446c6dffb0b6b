package appointments

import (
	"context"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

func (r *AppointmentMongoRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) (string, error) {
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	result, err := r.Collection.InsertOne(ctx, appointment)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var appointment models.Appointment
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.Collection.FindOne(ctx, bson.M{"checkoutSessionId": sessionID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.findMany(ctx, bson.M{"patientId": patientID})
}

func (r *AppointmentMongoRepository) FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.findMany(ctx, bson.M{"doctorId": doctorID})
}

func (r *AppointmentMongoRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *AppointmentMongoRepository) FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"status":    models.AppointmentPending,
		"createdAt": bson.M{"$lt": createdBefore},
	}
	return r.findMany(ctx, filter)
}

func (r *AppointmentMongoRepository) findMany(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return appointments, nil
}

// UpdateIf builds one conditional UpdateOne from the predicate and patch.
// Confirm-only-if-pending, cancel-only-if-pending and every other
// state-sensitive transition shares this path, so the mutual-exclusion
// argument lives in one place.
func (r *AppointmentMongoRepository) UpdateIf(ctx context.Context, appointmentID string, predicate contracts.AppointmentPredicate, patch contracts.AppointmentPatch) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{"_id": objectID}
	if predicate.Status != nil {
		filter["status"] = *predicate.Status
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.CheckoutSessionID != nil {
		set["checkoutSessionId"] = *patch.CheckoutSessionID
	}
	if patch.PaymentIntentID != nil {
		set["paymentIntentId"] = *patch.PaymentIntentID
	}
	if patch.PaidAt != nil {
		set["paidAt"] = *patch.PaidAt
	}
	if patch.RefundID != nil {
		set["refundId"] = *patch.RefundID
	}
	if patch.RefundedAt != nil {
		set["refundedAt"] = *patch.RefundedAt
	}
	if patch.IsCompleted != nil {
		set["isCompleted"] = *patch.IsCompleted
	}

	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}
