package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/models"
)

// ClaimsKey is the context key under which RequireAuth stores the verified
// session claims.
const ClaimsKey = "claims"

// RequireAuth rejects requests without a valid bearer token and attaches the
// verified claims to the context. A missing header is unauthenticated (401);
// a present but invalid or expired token is forbidden (403).
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] malformed authorization header")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Invalid token",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				log.Println("[AUTH] [ERROR] token expired")
			} else {
				log.Println("[AUTH] [ERROR] token rejected:", err)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Invalid token",
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin re-reads the claimed subject's stored role and rejects unless
// it is elevated. The store is the authority; the token's admin claim is a
// hint only, so a demoted admin loses access on their next request. Runs
// after RequireAuth.
func RequireAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden",
			})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			// A vanished subject is forbidden; a store failure is not.
			if err == mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] admin gate subject no longer exists")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Forbidden",
				})
				return
			}
			log.Println("[AUTH] [ERROR] admin gate subject lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Something went wrong",
			})
			return
		}

		if !user.IsAdmin {
			log.Println("[AUTH] [ERROR] admin gate rejected non-admin:", user.Email)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden",
			})
			return
		}

		c.Next()
	}
}

// ClaimsFrom returns the verified claims RequireAuth attached, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
