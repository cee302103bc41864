package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/mail"
	"github.com/valencire/backend/internal/middleware"
	"github.com/valencire/backend/internal/models"
)

// Item fields are validated in buildOrder; binding tags on the elements
// would be inert without a dive tag on Items anyway.
type orderItemRequest struct {
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items"`
	CustomerName    string                 `json:"customerName"`
	Subtotal        float64                `json:"subtotal"`
	Discount        float64                `json:"discount"`
	Shipping        float64                `json:"shipping"`
	Total           float64                `json:"total"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

var errEmptyCart = errors.New("cart is empty")

// buildOrder assembles the order document from the request and the verified
// claims. Identity always comes from the claims, never from the body.
func buildOrder(req createOrderRequest, claims *auth.Claims, now time.Time) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errEmptyCart
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return models.Order{}, errors.New("item name is required")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{
			Name:     strings.TrimSpace(item.Name),
			Size:     strings.TrimSpace(item.Size),
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Order{}, errors.New("invalid user id")
	}

	return models.Order{
		UserID:          userID,
		Email:           claims.Email,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		OrderNumber:     newOrderNumber(now),
		Items:           items,
		Subtotal:        req.Subtotal,
		Discount:        req.Discount,
		Shipping:        req.Shipping,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		Status:          "confirmed",
		CreatedAt:       now,
	}, nil
}

// newOrderNumber derives the human-facing identifier from the creation
// instant.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("VLC%d", now.UnixMilli())
}

func CreateOrder(db *mongo.Database, sender mail.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		order, err := buildOrder(req, claims, time.Now())
		if err != nil {
			if errors.Is(err, errEmptyCart) {
				respondError(c, http.StatusBadRequest, "Cart is empty")
				return
			}
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Two orders created in the same millisecond collide on the unique
		// order-number index; retry with a fresh timestamp.
		var res *mongo.InsertOneResult
		for attempt := 0; ; attempt++ {
			res, err = db.Collection("orders").InsertOne(ctx, order)
			if err == nil {
				break
			}
			if mongo.IsDuplicateKeyError(err) && attempt < 3 {
				time.Sleep(time.Millisecond)
				order.OrderNumber = newOrderNumber(time.Now())
				continue
			}
			respondServerError(c, "ORDER", err)
			return
		}
		order.ID = res.InsertedID.(primitive.ObjectID)

		go func(o models.Order) {
			subject := fmt.Sprintf("Order Confirmation #%s", o.OrderNumber)
			if err := sender.Send(o.Email, subject, mail.OrderConfirmationBody(o)); err != nil {
				log.Println("[MAIL] [ERROR] order confirmation failed:", err)
			}
		}(order)

		log.Println("[ORDER] [INFO] order created:", order.OrderNumber, "for", order.Email)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"orderNumber": order.OrderNumber,
			"orderId":     order.ID.Hex(),
		})
	}
}

// GetOrders lists the caller's orders, most recent first. Ownership is
// scoped by the verified claims; one user never sees another's orders.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			respondServerError(c, "ORDER", err)
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondServerError(c, "ORDER", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}
