// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Fayda national-ID OIDC
	FaydaAuthorizeURL string
	FaydaTokenURL     string
	FaydaUserinfoURL  string
	FaydaClientID     string
	FaydaPrivateKey   string
	FaydaRedirectURI  string

	// Gemini advisory
	GeminiAPIURL string
	GeminiAPIKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "santim"),
		DBPassword: getEnv("DB_PASSWORD", "santim"),
		DBName:     getEnv("DB_NAME", "santimsentry"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Fayda eSignet endpoints
		FaydaAuthorizeURL: getEnv("FAYDA_AUTHORIZE_URL", "https://esignet.ida.fayda.et/authorize"),
		FaydaTokenURL:     getEnv("FAYDA_TOKEN_URL", "https://esignet.ida.fayda.et/v1/esignet/oauth/v2/token"),
		FaydaUserinfoURL:  getEnv("FAYDA_USERINFO_URL", "https://esignet.ida.fayda.et/v1/esignet/oidc/userinfo"),
		FaydaClientID:     getEnv("FAYDA_CLIENT_ID", ""),
		FaydaPrivateKey:   getEnv("FAYDA_PRIVATE_KEY", ""),
		FaydaRedirectURI:  getEnv("FAYDA_REDIRECT_URI", "http://localhost:8080/callback"),

		// Gemini
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
