package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Env         string
	ServerAddr  string
	LogLevel    string

	DatabaseURL string

	JWTSecret    []byte
	JWTAlgorithm string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	BcryptCost int

	CORSOrigins []string

	KafkaBrokers []string
	KafkaTopic   string
}

// devSecret is only ever used outside production so the service can
// boot without a .env during local development.
const devSecret = "dev-secret-change-me"

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment")
	}

	cfg := &Config{
		ServiceName: getenv("SERVICE_NAME", "auth-service"),
		Env:         getenv("APP_ENV", "development"),
		ServerAddr:  getenv("SERVER_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTAlgorithm: getenv("JWT_ALGORITHM", "HS256"),
		AccessTTL:    time.Duration(envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTTL:   time.Duration(envInt("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,

		BcryptCost: envInt("BCRYPT_COST", 0),

		CORSOrigins: csv(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_USER_TOPIC", "user_events"),
	}

	if len(cfg.JWTSecret) == 0 {
		if cfg.Env == "production" {
			log.Fatalf("missing required env JWT_SECRET")
		}
		cfg.JWTSecret = []byte(devSecret)
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
