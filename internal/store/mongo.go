package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// MongoStore persists orders and slots in MongoDB. Per-order atomicity
// comes from multi-document transactions; per-slot booking atomicity from
// a single $inc update.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) orders() *mongo.Collection {
	return s.db.Collection("orders")
}

func (s *MongoStore) slots() *mongo.Collection {
	return s.db.Collection("slots")
}

func (s *MongoStore) PlaceOrder(ctx context.Context, order models.Order) error {
	_, err := s.orders().InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return DuplicateOrderError{OrderID: order.ID}
	}
	return err
}

func (s *MongoStore) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := s.orders().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, NotFoundError{Kind: "order", ID: orderID}
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoStore) OrdersFor(ctx context.Context, shopperID string) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders().Find(ctx, bson.M{"shopperId": shopperID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) AllOrders(ctx context.Context) ([]models.Order, error) {
	cursor, err := s.orders().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// mutateOrder runs read-mutate-write on one order inside a transaction.
// Mongo retries transient transaction conflicts on the same document
// internally; precondition failures from mutate abort and surface as-is.
func (s *MongoStore) mutateOrder(ctx context.Context, orderID string, mutate func(models.Order) (models.Order, error)) (models.Order, error) {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var order models.Order
		err := s.orders().FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&order)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundError{Kind: "order", ID: orderID}
		}
		if err != nil {
			return nil, err
		}

		updated, err := mutate(order)
		if err != nil {
			return nil, err
		}

		if _, err := s.orders().ReplaceOne(sessCtx, bson.M{"_id": orderID}, updated); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return result.(models.Order), nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus, actor, reason string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(order models.Order) (models.Order, error) {
		return applyTransition(order, next, actor, reason, time.Now())
	})
}

func (s *MongoStore) ClaimOrder(ctx context.Context, orderID, delivererID string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(order models.Order) (models.Order, error) {
		return applyClaim(order, delivererID)
	})
}

func (s *MongoStore) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus, delivererID, note string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(order models.Order) (models.Order, error) {
		claimed, err := applyClaim(order, delivererID)
		if err != nil {
			return models.Order{}, err
		}
		return applyTransition(claimed, next, delivererID, note, time.Now())
	})
}

func (s *MongoStore) EnsureSlots(ctx context.Context, slots []models.DeliverySlot) error {
	if len(slots) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(slots))
	for _, slot := range slots {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": slot.ID}).
			SetUpdate(bson.M{"$setOnInsert": slot}).
			SetUpsert(true))
	}
	_, err := s.slots().BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *MongoStore) SlotsBetween(ctx context.Context, fromDate, toDate string) ([]models.DeliverySlot, error) {
	filter := bson.M{"date": bson.M{"$gte": fromDate, "$lt": toDate}}
	cursor, err := s.slots().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slots := []models.DeliverySlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *MongoStore) GetSlot(ctx context.Context, slotID string) (models.DeliverySlot, error) {
	var slot models.DeliverySlot
	err := s.slots().FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DeliverySlot{}, NotFoundError{Kind: "slot", ID: slotID}
	}
	if err != nil {
		return models.DeliverySlot{}, err
	}
	return slot, nil
}

func (s *MongoStore) BookSlot(ctx context.Context, slotID string) (models.DeliverySlot, error) {
	after := options.After
	findOptions := options.FindOneAndUpdate().SetReturnDocument(after)

	var slot models.DeliverySlot
	err := s.slots().FindOneAndUpdate(
		ctx,
		bson.M{"_id": slotID},
		bson.M{"$inc": bson.M{"bookedCount": 1}},
		findOptions,
	).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DeliverySlot{}, NotFoundError{Kind: "slot", ID: slotID}
	}
	if err != nil {
		return models.DeliverySlot{}, err
	}
	return slot, nil
}
