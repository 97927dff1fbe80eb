package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/models"
)

type Config struct {
	Port       string
	LogLevel   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret     string
	JWTTTL        time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaAddress string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		// Development fallbacks only; production sets real secrets.
		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		JWTTTL:        getEnvDuration("JWT_EXPIRES_IN", time.Hour),
		RefreshSecret: getEnv("REFRESH_SECRET", "refreshsupersecretkey"),
		RefreshTTL:    getEnvDuration("REFRESH_EXPIRES_IN", 7*24*time.Hour),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
	}

	return config, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration in %s: %v. Using default %s", key, err, def)
		return def
	}
	return d
}

// InitDB opens the shared connection pool and migrates the schema. The
// returned handle is the process-wide store resource; the caller owns
// its shutdown.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.BlacklistToken{},
		&models.Book{},
		&models.UserFavorite{},
	)
}
