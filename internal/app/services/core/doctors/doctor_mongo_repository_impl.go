package doctors

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

type DoctorMongoRepository struct {
	Collection *mongo.Collection
}

func NewDoctorMongoRepository(db *mongo.Client, dbName string) contracts.DoctorRepository {
	return &DoctorMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDoctors),
	}
}

func (r *DoctorMongoRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error) {
	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	if doctor.SlotsBooked == nil {
		doctor.SlotsBooked = map[string][]string{}
	}

	result, err := r.Collection.InsertOne(ctx, doctor)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *DoctorMongoRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var doctor models.Doctor
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &doctor, nil
}

func (r *DoctorMongoRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &doctor, nil
}

func (r *DoctorMongoRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	findOptions := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := r.Collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return doctors, nil
}

func (r *DoctorMongoRepository) UpdateProfile(ctx context.Context, doctorID string, patch contracts.DoctorProfilePatch) error {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{
		"fees":      patch.Fees,
		"about":     patch.About,
		"address":   patch.Address,
		"available": patch.Available,
		"updatedAt": time.Now(),
	}}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrDoctorNotFound(nil)
	}
	return nil
}

func (r *DoctorMongoRepository) ToggleAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	// Pipeline update so the flip happens server side in one write.
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"available": bson.M{"$not": "$available"},
			"updatedAt": "$$NOW",
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doctor models.Doctor
	err = r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, pipeline, opts).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrDoctorNotFound(err)
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &doctor, nil
}

// ReserveSlot makes "check slot free AND reserve it" a single conditional
// write. The filter only matches an available doctor whose slot set for the
// date does not yet contain the time; the update appends it. Under
// contention exactly one caller matches, everyone else gets
// ErrSlotUnavailable.
func (r *DoctorMongoRepository) ReserveSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.Doctor, error) {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{
		"_id":       objectID,
		"available": true,
		"slots_booked." + slotDate: bson.M{"$ne": slotTime},
	}
	update := bson.M{
		"$push": bson.M{"slots_booked." + slotDate: slotTime},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doctor models.Doctor
	err = r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrSlotUnavailable(err)
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &doctor, nil
}

func (r *DoctorMongoRepository) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime string) error {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	// $pull on an absent entry modifies nothing, which keeps release
	// idempotent when cancellation races reconciliation.
	update := bson.M{
		"$pull": bson.M{"slots_booked." + slotDate: slotTime},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
