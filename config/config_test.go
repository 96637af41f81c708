package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "config_test_secret_that_is_long_enough"

func validConfig() *Config {
	cfg := &Config{
		Storage: &StorageConfig{Driver: StorageDriverMemory},
		Token:   &TokenConfig{Secret: testSecret},
	}
	cfg.applyDefaults()

	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "HS256", cfg.Token.Algorithm)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, HasherBcrypt, cfg.Auth.Hasher)
	assert.Equal(t, defaultPasswordMinLength, cfg.PasswordPolicy.MinLength)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "short secret", mutate: func(cfg *Config) { cfg.Token.Secret = "short" }, wantErr: "token.secret"},
		{name: "asymmetric algorithm", mutate: func(cfg *Config) { cfg.Token.Algorithm = "RS256" }, wantErr: "token.algorithm"},
		{name: "none algorithm", mutate: func(cfg *Config) { cfg.Token.Algorithm = "none" }, wantErr: "token.algorithm"},
		{name: "negative ttl", mutate: func(cfg *Config) { cfg.Token.TTL = -time.Second }, wantErr: "token.ttl"},
		{name: "unknown hasher", mutate: func(cfg *Config) { cfg.Auth.Hasher = "md5" }, wantErr: "auth.hasher"},
		{name: "inverted policy", mutate: func(cfg *Config) {
			cfg.PasswordPolicy.MinLength = 10
			cfg.PasswordPolicy.MaxLength = 9
		}, wantErr: "passwordPolicy"},
		{name: "unknown driver", mutate: func(cfg *Config) { cfg.Storage.Driver = "mongo" }, wantErr: "storage.driver"},
		{name: "postgres without section", mutate: func(cfg *Config) { cfg.Storage.Driver = StorageDriverPostgres }, wantErr: "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, err.Error(), testSecret)
		})
	}
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"storage:",
		"  driver: memory",
		"token:",
		"  secret: file-secret",
		"  ttl: 1h",
		"passwordPolicy:",
		"  minLength: 10",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "authcore_test.yaml"), []byte(content), 0o600))

	t.Chdir(dir)
	t.Setenv("TOKEN_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := LoadWithEnv[Config]("authcore_test")
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, testSecret, cfg.Token.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Token.TTL)
	assert.Equal(t, 10, cfg.PasswordPolicy.MinLength)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("does_not_exist")
	assert.ErrorContains(t, err, "not found")
}
