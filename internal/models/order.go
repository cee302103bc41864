package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a single line entry within an order.
type OrderItem struct {
	Name     string  `bson:"name" json:"name"`
	Size     string  `bson:"size" json:"size"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

// ShippingAddress holds the structured delivery address stored with an order.
type ShippingAddress struct {
	Line1   string `bson:"line1" json:"line1"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
	Country string `bson:"country" json:"country"`
}

// Order defines the persisted order document. The monetary fields are stored
// as provided by the writer, not derived at read time.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Email           string             `bson:"email" json:"email"`
	CustomerName    string             `bson:"customerName" json:"customerName"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Discount        float64            `bson:"discount" json:"discount"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Total           float64            `bson:"total" json:"total"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
