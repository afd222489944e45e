package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_DefaultsToLocal(t *testing.T) {
	cfg := FromEnv(env(nil))
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "localbase.db", cfg.StorePath)
}

func TestFromEnv_RemoteNeedsBothParameters(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		EnvBackendURL: "https://api.rihla.example",
	}))
	assert.Equal(t, ModeLocal, cfg.Mode, "URL without key must stay local")

	cfg = FromEnv(env(map[string]string{
		EnvBackendKey: "anon-key",
	}))
	assert.Equal(t, ModeLocal, cfg.Mode, "key without URL must stay local")

	cfg = FromEnv(env(map[string]string{
		EnvBackendURL: "https://api.rihla.example",
		EnvBackendKey: "anon-key",
	}))
	assert.Equal(t, ModeRemote, cfg.Mode)
	assert.Equal(t, "https://api.rihla.example", cfg.BackendURL)
}

func TestFromEnv_StorePathOverride(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		EnvStorePath: "/tmp/demo.db",
	}))
	assert.Equal(t, "/tmp/demo.db", cfg.StorePath)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "local", ModeLocal.String())
	assert.Equal(t, "remote", ModeRemote.String())
}
