package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureAccountIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("accounts").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureAccountIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureAccountIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureAccountIndexes: email_unique index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	orderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "shopperId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("shopperId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "delivererId", Value: 1}},
			Options: options.Index().SetName("delivererId_index"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, orderIndexes)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}

func EnsureSlotIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("slots").Indexes()

	dateIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("date_index"),
	}

	log.Println("EnsureSlotIndexes: creating date_index index")
	_, err := indexes.CreateOne(ctx, dateIndex)
	if err != nil {
		log.Println("EnsureSlotIndexes: slot date index error:", err)
		return err
	}
	log.Println("EnsureSlotIndexes: date_index index created")
	return nil
}
