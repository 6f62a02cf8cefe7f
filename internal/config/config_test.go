package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8080",
		Env:                      "development",
		DBDriver:                 DriverPostgres,
		DBHost:                   "localhost",
		DBName:                   "cinemate",
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		DBConnMaxLifetimeMinutes: 5,
		PopularDefaultLimit:      10,
		TracingSamplerRatio:      1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid postgres", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite needs path", func(c *Config) { c.DBDriver = DriverSQLite; c.DBPath = "" }, true},
		{"sqlite with path", func(c *Config) { c.DBDriver = DriverSQLite; c.DBPath = "film.db" }, false},
		{"zero popular limit", func(c *Config) { c.PopularDefaultLimit = 0 }, true},
		{"negative write rate limit", func(c *Config) { c.WriteRateLimit = -1 }, true},
		{"sampler out of range", func(c *Config) { c.TracingSamplerRatio = 1.5 }, true},
		{"otlp without endpoint", func(c *Config) {
			c.TracingEnabled = true
			c.TracingExporter = "otlp"
			c.OTLPEndpoint = ""
		}, true},
		{"production default password", func(c *Config) { c.Env = "production"; c.DBPassword = "password" }, true},
		{"production ssl disabled", func(c *Config) { c.Env = "prod"; c.DBSSLMode = "disable" }, true},
		{"production ok", func(c *Config) { c.Env = "production" }, false},
		{"production sqlite skips db secrets", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverSQLite
			c.DBPath = "/data/cinemate.db"
			c.DBPassword = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_PATH", "file::memory:")
	t.Setenv("POPULAR_DEFAULT_LIMIT", "25")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "file::memory:", c.DBPath)
	assert.Equal(t, 25, c.PopularDefaultLimit)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "test", c.Env)
}

func TestLoadConfig_MissingProfileFile(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "staging-nonexistent")

	_, err := LoadConfig()
	assert.Error(t, err)
}
