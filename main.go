package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/valencire/backend/internal/config"
	"github.com/valencire/backend/internal/database"
	"github.com/valencire/backend/internal/handlers"
	"github.com/valencire/backend/internal/mail"
	"github.com/valencire/backend/internal/middleware"
)

func main() {
	config.Load()

	if config.AppEnv.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("[DB] [WARN] user index:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("[DB] [WARN] order index:", err)
	}
	if err := database.EnsureAdmin(db, config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
		log.Println("[DB] [WARN] admin bootstrap:", err)
	}

	sender := mail.NewSMTPSender(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.EmailUser,
		config.AppEnv.EmailPass,
	)

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/api/health", handlers.Health())

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", handlers.Signup(db, sender, config.AppEnv.JWTSecret, config.AppEnv.TokenTTL))
		authGroup.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.TokenTTL))
		authGroup.POST("/forgot-password", handlers.ForgotPassword(db, sender, config.AppEnv.ResetTokenTTL, config.AppEnv.AppBaseURL))
		authGroup.POST("/reset-password", handlers.ResetPassword(db))
		authGroup.GET("/me", middleware.RequireAuth(config.AppEnv.JWTSecret), handlers.Me(db))
	}

	user := r.Group("/api/users")
	user.Use(middleware.RequireAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/change-password", handlers.ChangePassword(db))
	}

	order := r.Group("/api")
	order.Use(middleware.RequireAuth(config.AppEnv.JWTSecret))
	{
		order.POST("/order/create", handlers.CreateOrder(db, sender))
		order.GET("/orders", handlers.GetOrders(db))
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(config.AppEnv.JWTSecret), middleware.RequireAdmin(db))
	{
		admin.GET("/users", handlers.GetAdminUsers(db))
		admin.GET("/orders", handlers.GetAdminOrders(db))
		admin.GET("/stats", handlers.GetAdminStats(db))
		admin.DELETE("/users/:id", handlers.DeleteUser(db))
	}

	r.Run(":" + config.AppEnv.Port)
}
