package rentalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ RentalRepository = (*MongoRentalRepo)(nil)

// MongoRentalRepo implements RentalRepository using MongoDB.
type MongoRentalRepo struct {
	client      *mongo.Client
	carColl     *mongo.Collection
	bookingColl *mongo.Collection
	eventColl   *mongo.Collection
	userColl    *mongo.Collection
}

// NewMongoRentalRepo constructs a repository over the given database.
func NewMongoRentalRepo(client *mongo.Client, dbName string) *MongoRentalRepo {
	db := client.Database(dbName)
	return &MongoRentalRepo{
		client:      client,
		carColl:     db.Collection("cars"),
		bookingColl: db.Collection("bookings"),
		eventColl:   db.Collection("notification_events"),
		userColl:    db.Collection("users"),
	}
}

// EnsureIndexes creates the indexes the booking engine relies on.
func (repo *MongoRentalRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Overlap queries filter by car and status, then range over the window.
		{
			Keys:    bson.D{{Key: "car_id", Value: 1}, {Key: "status", Value: 1}, {Key: "pickup_at", Value: 1}, {Key: "return_at", Value: 1}},
			Options: options.Index().SetName("car_status_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_idx"),
		},
	}
	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	eventIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_type_unique"),
		},
	}
	if _, err := repo.eventColl.Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("failed to create notification event indexes: %w", err)
	}

	carIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
	}
	if _, err := repo.carColl.Indexes().CreateMany(ctx, carIndexes); err != nil {
		return fmt.Errorf("failed to create car indexes: %w", err)
	}
	return nil
}

func (repo *MongoRentalRepo) Ping(ctx context.Context) error {
	return repo.client.Ping(ctx, nil)
}

// GetCarByID retrieves a car document by ID.
func (repo *MongoRentalRepo) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := repo.carColl.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching car with id %s: %w", id, err)
	}
	return &car, nil
}

// GetBookingByID retrieves a booking document by ID.
func (repo *MongoRentalRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// ListBookingsByUser returns a user's bookings, newest first.
func (repo *MongoRentalRepo) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// QueryOverlapping checks for a calendar-occupying booking intersecting [pickup, ret).
func (repo *MongoRentalRepo) QueryOverlapping(ctx context.Context, carID string, pickup, ret time.Time) (bool, error) {
	count, err := repo.bookingColl.CountDocuments(ctx, overlapFilter(carID, pickup, ret), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	return count > 0, nil
}

// overlapFilter matches bookings of carID that occupy the calendar and start before ret
// and end after pickup.
func overlapFilter(carID string, pickup, ret time.Time) bson.M {
	return bson.M{
		"car_id":    carID,
		"status":    bson.M{"$in": bson.A{models.StatusActive, models.StatusOverdue}},
		"pickup_at": bson.M{"$lt": ret},
		"return_at": bson.M{"$gt": pickup},
	}
}

// InsertBooking writes the booking and its events in one transaction.
func (repo *MongoRentalRepo) InsertBooking(ctx context.Context, booking *models.Booking, events []models.NotificationEvent) error {
	sess, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		docs := make([]interface{}, 0, len(events))
		for _, ev := range events {
			docs = append(docs, ev)
		}
		if _, err := repo.eventColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert notification events failed: %w", err)
		}
		return nil
	}

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (repo *MongoRentalRepo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, updatedAt time.Time) error {
	return repo.setBookingFields(ctx, id, bson.M{"status": status, "updated_at": updatedAt})
}

func (repo *MongoRentalRepo) UpdateBookingReview(ctx context.Context, id string, review models.BookingStatus, updatedAt time.Time) error {
	return repo.setBookingFields(ctx, id, bson.M{"review": review, "updated_at": updatedAt})
}

func (repo *MongoRentalRepo) setBookingFields(ctx context.Context, id string, fields bson.M) error {
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

// ListNotificationEvents returns the events of a booking ordered by schedule.
func (repo *MongoRentalRepo) ListNotificationEvents(ctx context.Context, bookingID string) ([]models.NotificationEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	cursor, err := repo.eventColl.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding notification events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.NotificationEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding notification events: %w", err)
	}
	return events, nil
}

func (repo *MongoRentalRepo) MarkNotificationEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType, firedAt time.Time) (bool, error) {
	filter := bson.M{
		"booking_id": bookingID,
		"type":       eventType,
		"is_fired":   false,
		"cancelled":  false,
	}
	update := bson.M{"$set": bson.M{"is_fired": true, "fired_at": firedAt}}
	res, err := repo.eventColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark event fired: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// CancelNotificationEventsForBooking marks every unfired event of the booking as cancelled.
func (repo *MongoRentalRepo) CancelNotificationEventsForBooking(ctx context.Context, bookingID string) error {
	filter := bson.M{"booking_id": bookingID, "is_fired": false}
	if _, err := repo.eventColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"cancelled": true}}); err != nil {
		return fmt.Errorf("failed to cancel notification events: %w", err)
	}
	return nil
}

// UpsertCars inserts or replaces cars by ID. Used by the development seeder.
func (repo *MongoRentalRepo) UpsertCars(ctx context.Context, cars []models.Car) error {
	if len(cars) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(cars))
	for _, car := range cars {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": car.ID}).
			SetReplacement(car).
			SetUpsert(true))
	}
	if _, err := repo.carColl.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert cars: %w", err)
	}
	return nil
}

// GetUserDeviceToken returns the push token registered for the user, or "".
func (repo *MongoRentalRepo) GetUserDeviceToken(ctx context.Context, userID string) (string, error) {
	var doc struct {
		FCMToken string `bson:"fcmToken"`
	}
	opts := options.FindOne().SetProjection(bson.M{"fcmToken": 1})
	if err := repo.userColl.FindOne(ctx, bson.M{"id": userID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("error fetching user %s: %w", userID, err)
	}
	return doc.FCMToken, nil
}
