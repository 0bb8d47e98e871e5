package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"marmot/utils/log"
)

const defaultEnvFile = ".env"

// Config : everything marmot reads from the environment.
type Config struct {
	MongoURI        string
	MongoDBName     string
	MongoCollection string

	BinanceBaseURL string
	Symbols        []string
	KlineInterval  string
	ETLInterval    time.Duration
	ETLKlineLimit  int

	APIPort        string
	ChartPort      string
	APITokenSecret string
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	if _, err := os.Stat(defaultEnvFile); err == nil {
		if err := godotenv.Load(defaultEnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
		}
		log.Infof("[SETUP] loaded environment from %s", defaultEnvFile)
	}

	cfg := Config{
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGODB_DB_NAME", "binance"),
		MongoCollection: getEnv("MONGODB_COLLECTION_NAME", "kline_with_aggtrades"),
		BinanceBaseURL:  getEnv("BINANCE_BASE_URL", "https://api.binance.com"),
		KlineInterval:   getEnv("KLINE_INTERVAL", "1m"),
		APIPort:         getEnv("API_PORT", "8000"),
		ChartPort:       getEnv("CHART_PORT", "8501"),
		APITokenSecret:  os.Getenv("API_TOKEN_SECRET"),
	}

	symbols := strings.Split(getEnv("SYMBOLS", "BTCUSDT"), ",")
	cfg.Symbols = lo.FilterMap(symbols, func(s string, _ int) (string, bool) {
		trimmed := strings.ToUpper(strings.TrimSpace(s))
		return trimmed, trimmed != ""
	})
	if len(cfg.Symbols) == 0 {
		return Config{}, fmt.Errorf("SYMBOLS resolves to an empty list")
	}

	interval, err := time.ParseDuration(getEnv("ETL_INTERVAL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ETL_INTERVAL: %w", err)
	}
	cfg.ETLInterval = interval

	limit, err := strconv.Atoi(getEnv("ETL_KLINE_LIMIT", "60"))
	if err != nil || limit <= 0 || limit > 1000 {
		return Config{}, fmt.Errorf("ETL_KLINE_LIMIT must be an integer in 1..1000")
	}
	cfg.ETLKlineLimit = limit

	if cfg.APITokenSecret == "" {
		log.Warn("[SETUP] API_TOKEN_SECRET not set, mutating endpoints are disabled")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
