package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUserIndexes creates the unique email index. Concurrent signups with
// the same email race on this index; the loser sees a duplicate-key error.
func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("[DB] [ERROR] user email index:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes creates the unique order-number index plus the owner
// index backing per-user listings.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().
				SetName("orderNumber_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
	}

	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("[DB] [ERROR] order indexes:", err)
		return err
	}
	return nil
}
