package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	SMTPHost      string
	SMTPPort      string
	EmailUser     string
	EmailPass     string
	AdminEmail    string
	AdminPassword string
	AppBaseURL    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:          getEnvOrDefault("PORT", "3000"),
		MongoURI:      getEnvOrDefault("MONGO_URI", ""),
		DBName:        getEnvOrDefault("DB_NAME", "valencire"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:      getDurationEnv("TOKEN_TTL", 24, time.Hour),
		ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", 60, time.Minute),
		SMTPHost:      getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvOrDefault("SMTP_PORT", "465"),
		EmailUser:     getEnvOrDefault("EMAIL_USER", ""),
		EmailPass:     getEnvOrDefault("EMAIL_PASS", ""),
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@valencire.com"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", ""),
		AppBaseURL:    getEnvOrDefault("APP_BASE_URL", "http://localhost:5173"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
