package database

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/models"
)

// EnsureAdmin guarantees one elevated account exists. It is safe to call on
// every process start: an existing account with the given email is left
// untouched except for promoting its admin flag if missing.
func EnsureAdmin(db *mongo.Database, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users := db.Collection("users")

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		if existing.IsAdmin {
			return nil
		}
		_, err = users.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{"isAdmin": true}})
		return err
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		FirstName:    "Admin",
		LastName:     "Valencire",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}

	if _, err := users.InsertOne(ctx, admin); err != nil {
		// Another instance may have won the insert race.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}

	log.Println("[DB] [INFO] admin account provisioned:", email)
	return nil
}
