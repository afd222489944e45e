// Package config decides, once at startup, whether the application talks to
// the real hosted backend or to the local emulator. Remote connection
// parameters come from the environment; both must be present for remote
// mode. The decision is never re-evaluated mid-session.
package config

import "os"

// Environment variable names for the remote backend connection.
const (
	EnvBackendURL = "RIHLA_BACKEND_URL"
	EnvBackendKey = "RIHLA_BACKEND_KEY"

	// EnvStorePath overrides where the local emulator stores its data.
	EnvStorePath = "RIHLA_STORE_PATH"

	defaultStorePath = "localbase.db"
)

// Mode selects between the hosted backend and the local emulator.
type Mode int

const (
	// ModeLocal routes all data operations through the emulator.
	ModeLocal Mode = iota
	// ModeRemote means the emulator is never constructed; the application
	// uses its network client instead.
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// Config is the startup decision plus the parameters it was made from.
type Config struct {
	Mode       Mode
	BackendURL string
	BackendKey string

	// StorePath is the sqlite file for local mode. Unused in remote mode.
	StorePath string
}

// Load reads the process environment. Call it once at startup.
func Load() Config {
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an environment lookup function. Remote mode
// requires both the URL and the key; a partial pair falls back to local so
// a half-configured environment cannot produce a client with no credentials.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		BackendURL: getenv(EnvBackendURL),
		BackendKey: getenv(EnvBackendKey),
		StorePath:  getenv(EnvStorePath),
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath
	}
	if cfg.BackendURL != "" && cfg.BackendKey != "" {
		cfg.Mode = ModeRemote
	}
	return cfg
}
