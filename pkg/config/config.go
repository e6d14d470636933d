package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string
	JWTSecret               string
	BcryptCost              int
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
	ClientOrigins           []string
}

// Load reads .env (if present) and the environment. Every missing required
// variable is reported in a single error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	var missing []string
	required := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                required("MONGO_URI"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "chirp"),
		PostgresConnStr:         required("POSTGRES_CONN_STR"),
		JWTSecret:               required("JWT_SECRET"),
		FirebaseCredentialsPath: required("FIREBASE_CREDENTIALS_PATH"),
		FirebaseStorageBucket:   required("FIREBASE_STORAGE_BUCKET"),
		ClientOrigins:           splitList(getEnv("CLIENT_ORIGINS", "http://localhost:5173")),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	cfg.BcryptCost = cost

	return cfg, nil
}

// IsProduction reports whether cookies must be cross-site and secure
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
