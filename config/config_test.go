package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "binance", cfg.MongoDBName)
	assert.Equal(t, "kline_with_aggtrades", cfg.MongoCollection)
	assert.Equal(t, "https://api.binance.com", cfg.BinanceBaseURL)
	assert.Equal(t, []string{"BTCUSDT"}, cfg.Symbols)
	assert.Equal(t, "1m", cfg.KlineInterval)
	assert.Equal(t, time.Hour, cfg.ETLInterval)
	assert.Equal(t, 60, cfg.ETLKlineLimit)
	assert.Equal(t, "8000", cfg.APIPort)
	assert.Equal(t, "8501", cfg.ChartPort)
}

func TestLoad_SymbolListIsNormalized(t *testing.T) {
	t.Setenv("SYMBOLS", " btcusdt, ETHUSDT ,,bnbusdt ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}, cfg.Symbols)
}

func TestLoad_EmptySymbolListFails(t *testing.T) {
	t.Setenv("SYMBOLS", " , ,")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadETLInterval(t *testing.T) {
	t.Setenv("ETL_INTERVAL", "hourly")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_KlineLimitBounds(t *testing.T) {
	t.Setenv("ETL_KLINE_LIMIT", "1001")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ETL_KLINE_LIMIT", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("ETL_KLINE_LIMIT", "250")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.ETLKlineLimit)
}
