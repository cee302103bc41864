package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/mail"
	"github.com/valencire/backend/internal/middleware"
	"github.com/valencire/backend/internal/models"
)

type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// userResponse is the public account shape embedded in auth responses.
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}

func Signup(db *mongo.Database, sender mail.Sender, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "firstName, lastName, email and password are required")
			return
		}

		if len(req.Password) < auth.MinPasswordLength {
			respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		user := models.User{
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        req.Email,
			PasswordHash: hash,
			IsAdmin:      false,
			CreatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The unique email index is the arbiter for concurrent signups;
		// the losing insert surfaces here as a duplicate key.
		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "Email already registered")
				return
			}
			respondServerError(c, "AUTH", err)
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		token, err := auth.IssueToken(user.ID.Hex(), user.Email, false, jwtSecret, tokenTTL)
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		go func(to, firstName string) {
			if err := sender.Send(to, "Welcome to VALENCIRE", mail.WelcomeBody(firstName)); err != nil {
				log.Println("[MAIL] [ERROR] welcome mail failed:", err)
			}
		}(user.Email, user.FirstName)

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"user":    toUserResponse(user),
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "email and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Unknown email and wrong password share one message so login does
		// not confirm which emails are registered.
		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusBadRequest, "Invalid email or password")
			return
		}
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		if !auth.CheckPassword(req.Password, user.PasswordHash) {
			log.Println("[AUTH] [ERROR] login failed for:", user.Email)
			respondError(c, http.StatusBadRequest, "Invalid email or password")
			return
		}

		token, err := auth.IssueToken(user.ID.Hex(), user.Email, user.IsAdmin, jwtSecret, tokenTTL)
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"user":    toUserResponse(user),
		})
	}
}

func ForgotPassword(db *mongo.Database, sender mail.Sender, resetTTL time.Duration, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "email is required")
			return
		}

		// The response never varies with account existence.
		uniform := func() {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "If an account exists for that email, a reset link has been sent",
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			uniform()
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] forgot-password lookup failed:", err)
			uniform()
			return
		}

		token, err := auth.NewResetToken()
		if err != nil {
			log.Println("[AUTH] [ERROR] reset token generation failed:", err)
			uniform()
			return
		}

		digest := auth.HashResetToken(token)
		expiry := time.Now().Add(resetTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"resetTokenHash":   digest,
				"resetTokenExpiry": expiry,
			},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] reset token store failed:", err)
			uniform()
			return
		}

		resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
		go func(to, firstName, link string) {
			if err := sender.Send(to, "Reset your VALENCIRE password", mail.ResetBody(firstName, link)); err != nil {
				log.Println("[MAIL] [ERROR] reset mail failed:", err)
			}
		}(user.Email, user.FirstName, resetLink)

		uniform()
	}
}

func ResetPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "token and newPassword are required")
			return
		}

		if len(req.NewPassword) < auth.MinPasswordLength {
			respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Expiry is enforced at lookup time; stale tokens are never purged.
		// Wrong token and expired token fail identically.
		res, err := db.Collection("users").UpdateOne(ctx, bson.M{
			"resetTokenHash":   auth.HashResetToken(req.Token),
			"resetTokenExpiry": bson.M{"$gt": time.Now()},
		}, bson.M{
			"$set":   bson.M{"passwordHash": hash},
			"$unset": bson.M{"resetTokenHash": "", "resetTokenExpiry": ""},
		})
		if err != nil {
			respondServerError(c, "AUTH", err)
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}

		log.Println("[AUTH] [INFO] password reset completed")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
	}
}

func Me(db *mongo.Database) gin.HandlerFunc {
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

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			respondServerError(c, "AUTH", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
	}
}
