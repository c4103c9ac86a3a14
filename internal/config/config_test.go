package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "ALLOW_ORIGINS", "MAX_UPLOAD_MB", "DB_DRIVER", "GEMINI_API_KEY", "SEMANTIC_TIMEOUT_SEC"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 32, cfg.MaxUploadMB)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 20*time.Second, cfg.SemanticTimeout)
	assert.False(t, cfg.SemanticEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/menu")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.SemanticEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{Port: 8082, MaxUploadMB: 32, DBDriver: "sqlite", SQLitePath: "x.db"}
	require.NoError(t, base.Validate())

	bad := base
	bad.DBDriver = "mysql"
	assert.ErrorContains(t, bad.Validate(), "unknown DB_DRIVER")

	bad = base
	bad.DBDriver = "postgres"
	assert.ErrorContains(t, bad.Validate(), "DATABASE_URL")

	bad = base
	bad.Port = 0
	assert.Error(t, bad.Validate())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
