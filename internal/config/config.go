package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	RabbitMQURL string
	BcryptCost  int
	SeedDemo    bool
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func Load() Config {
	// .env is optional; real env vars win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil || cost < 4 || cost > 31 {
		cost = 12
	}
	seed, err := strconv.ParseBool(getEnv("SEED_DEMO", "true"))
	if err != nil {
		seed = true
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DBDSN:       getEnv("DB_DSN", "electrostore.db"), // sqlite file in project root
		LogFile:     getEnv("LOG_FILE", "./electrostore.log"),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
		BcryptCost:  cost,
		SeedDemo:    seed,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s RABBITMQ=%t SEED_DEMO=%t",
		cfg.Port, redactDSN(cfg.DBDSN), cfg.LogFile, cfg.RabbitMQURL != "", cfg.SeedDemo)
	return cfg
}

// redactDSN hides credentials in postgres URLs before they reach the log.
func redactDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres://***"
	}
	return dsn
}
