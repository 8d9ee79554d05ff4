package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
api:
  environment: production
  port: "9000"
  jwt_signing_key: secret
  token_ttl: 2h
  allowed_cors_domains:
    - https://orti.example.com
gin:
  mode: release
database:
  driver: sqlite
sqlite:
  path: /tmp/orti.db
redis:
  addr: localhost:6379
  ttl: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "production", conf.API.Environment)
	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, 2*time.Hour, conf.API.TokenTTL)
	assert.Equal(t, []string{"https://orti.example.com"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "it", conf.API.DefaultLanguage)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, "/tmp/orti.db", conf.SQLite.Path)
	assert.Equal(t, "localhost:6379", conf.Redis.Addr)
	assert.Equal(t, 30*time.Second, conf.Redis.TTL)
	assert.Equal(t, "5432", conf.Postgres.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("POSTGRES_HOST", "db.internal")

	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "db.internal", conf.Postgres.Host)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Empty(t, conf.Redis.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api: [unterminated"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, testYAML)

	changed := make(chan *AppConfig, 16)
	require.NoError(t, Watch(path, func(conf *AppConfig) {
		select {
		case changed <- conf:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("api:\n  log_level: debug\n"), 0o600))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case conf := <-changed:
			if conf.API.LogLevel == "debug" {
				return
			}
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}
