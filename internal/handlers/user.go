package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/middleware"
	"github.com/valencire/backend/internal/models"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword re-verifies the current secret against the store before
// accepting the new one.
func ChangePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "currentPassword and newPassword are required")
			return
		}

		if len(req.NewPassword) < auth.MinPasswordLength {
			respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			respondServerError(c, "AUTH", err)
			return
		}

		if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		// A password change supersedes any outstanding reset token.
		if _, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set":   bson.M{"passwordHash": hash},
			"$unset": bson.M{"resetTokenHash": "", "resetTokenExpiry": ""},
		}); err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		log.Println("[AUTH] [INFO] password changed:", user.Email)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	}
}
