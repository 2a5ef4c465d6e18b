package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string // Application port
	DBUser          string // Database user
	DBPassword      string // Database password
	DBHost          string // Database host
	DBPort          string // Database port
	DBName          string // Database name
	JWTSecret       string // JWT secret key
	RedisAddr       string // Redis server address, empty disables Redis
	RedisPass       string // Redis password
	RedisDB         int    // Redis database number
	SMTPAddr        string // SMTP relay host:port
	SMTPFrom        string // Notification sender address
	SMTPUser        string // SMTP auth username
	SMTPPassword    string // SMTP auth password
	NotifyQueueSize int    // Notification queue capacity
	IsProd          bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	queueSize, _ := strconv.Atoi(os.Getenv("NOTIFY_QUEUE_SIZE"))
	return &Config{
		AppPort:         os.Getenv("APP_PORT"),          // Application port
		DBUser:          os.Getenv("DB_USER"),           // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:          os.Getenv("DB_HOST"),           // Database host
		DBPort:          os.Getenv("DB_PORT"),           // Database port
		DBName:          os.Getenv("DB_NAME"),           // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:         redisDB,                        // Redis database number
		SMTPAddr:        os.Getenv("SMTP_ADDR"),         // SMTP relay address
		SMTPFrom:        os.Getenv("SMTP_FROM"),         // Notification sender
		SMTPUser:        os.Getenv("SMTP_USER"),         // SMTP username
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),     // SMTP password
		NotifyQueueSize: queueSize,                      // Notification queue capacity
		IsProd:          os.Getenv("IS_PROD") == "true", // Is production environment
	}
}
