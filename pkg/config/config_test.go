package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "INV", cfg.Sales.InvoicePrefix)
	assert.Equal(t, 5, cfg.Sales.InvoiceMaxAttempts)
	assert.Equal(t, 3, cfg.Sales.ConflictMaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Sales.LockTimeout)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALES_INVOICE_PREFIX", "POS")
	t.Setenv("SALES_INVOICE_MAX_ATTEMPTS", "8")
	t.Setenv("SALES_LOCK_TIMEOUT", "750ms")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_STATS_TTL", "30s")
	t.Setenv("APP_TIMEZONE", "America/Bogota")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "POS", cfg.Sales.InvoicePrefix)
	assert.Equal(t, 8, cfg.Sales.InvoiceMaxAttempts)
	assert.Equal(t, 750*time.Millisecond, cfg.Sales.LockTimeout)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.StatsTTL)
	assert.Equal(t, "America/Bogota", cfg.App.Location().String())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:word", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aword@db:5432/pos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
