package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted account document. PasswordHash and the reset fields
// never leave the server; json tags hide them from every response.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	PasswordHash     string             `bson:"passwordHash" json:"-"`
	IsAdmin          bool               `bson:"isAdmin" json:"isAdmin"`
	ResetTokenHash   *string            `bson:"resetTokenHash,omitempty" json:"-"`
	ResetTokenExpiry *time.Time         `bson:"resetTokenExpiry,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// AdminUserView is the shape returned by the admin users listing. It carries
// the per-user order count the dashboard shows and nothing sensitive.
type AdminUserView struct {
	ID         primitive.ObjectID `json:"id"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email"`
	IsAdmin    bool               `json:"isAdmin"`
	CreatedAt  time.Time          `json:"createdAt"`
	OrderCount int64              `json:"orderCount"`
}
