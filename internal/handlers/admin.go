package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valencire/backend/internal/middleware"
	"github.com/valencire/backend/internal/models"
)

// GetAdminUsers lists every account with its order count, newest first.
func GetAdminUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		views := make([]models.AdminUserView, 0, len(users))
		for _, u := range users {
			count, err := db.Collection("orders").CountDocuments(ctx, bson.M{"userId": u.ID})
			if err != nil {
				respondServerError(c, "ADMIN", err)
				return
			}
			views = append(views, models.AdminUserView{
				ID:         u.ID,
				FirstName:  u.FirstName,
				LastName:   u.LastName,
				Email:      u.Email,
				IsAdmin:    u.IsAdmin,
				CreatedAt:  u.CreatedAt,
				OrderCount: count,
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "users": views})
	}
}

// GetAdminOrders lists every order across all owners, most recent first.
func GetAdminOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := findAllOrders(ctx, db)
		if err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// productStat is one row of the top-products board.
type productStat struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// topProducts accumulates per-product units and revenue across every order's
// line items and returns the top n by units sold.
func topProducts(orders []models.Order, n int) []productStat {
	byName := map[string]*productStat{}
	names := []string{}
	for _, order := range orders {
		for _, item := range order.Items {
			stat, ok := byName[item.Name]
			if !ok {
				stat = &productStat{Name: item.Name}
				byName[item.Name] = stat
				names = append(names, item.Name)
			}
			stat.Count += item.Quantity
			stat.Revenue += item.Price * float64(item.Quantity)
		}
	}

	stats := make([]productStat, 0, len(names))
	for _, name := range names {
		stats = append(stats, *byName[name])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// sumRevenue totals the stored order totals.
func sumRevenue(orders []models.Order) float64 {
	var total float64
	for _, order := range orders {
		total += order.Total
	}
	return total
}

// GetAdminStats assembles the dashboard aggregate: account and order counts,
// summed revenue, the five most recent orders and accounts, and the top five
// products by units sold. The reads are independent of each other.
func GetAdminStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		totalUsers, err := db.Collection("users").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		orders, err := findAllOrders(ctx, db)
		if err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		recentOrders := orders
		if len(recentOrders) > 5 {
			recentOrders = recentOrders[:5]
		}

		userOpts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(5)
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, userOpts)
		if err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}
		defer cursor.Close(ctx)

		var recentUsers []models.User
		if err := cursor.All(ctx, &recentUsers); err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		recentUserViews := make([]userResponse, 0, len(recentUsers))
		for _, u := range recentUsers {
			recentUserViews = append(recentUserViews, toUserResponse(u))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats": gin.H{
				"totalUsers":   totalUsers,
				"totalOrders":  len(orders),
				"totalRevenue": sumRevenue(orders),
				"recentOrders": recentOrders,
				"recentUsers":  recentUserViews,
				"topProducts":  topProducts(orders, 5),
			},
		})
	}
}

// DeleteUser removes the target account and every order it owns. An admin
// cannot delete themself.
func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid user id")
			return
		}

		if targetID.Hex() == claims.UserID {
			respondError(c, http.StatusBadRequest, "You cannot delete your own account")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var target models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": targetID}).Decode(&target); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			respondServerError(c, "ADMIN", err)
			return
		}

		// Orders first, so a failure never leaves orphaned orders behind a
		// deleted account.
		if _, err := db.Collection("orders").DeleteMany(ctx, bson.M{"userId": targetID}); err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}
		if _, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": targetID}); err != nil {
			respondServerError(c, "ADMIN", err)
			return
		}

		log.Println("[ADMIN] [INFO] user deleted:", target.Email)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
	}
}

func findAllOrders(ctx context.Context, db *mongo.Database) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.Collection("orders").Find(ctx, bson.M{}, opts)
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
