package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Inspector InspectorConfig
}

type AppConfig struct {
	Name     string
	Env      string // local | production | testing
	Debug    bool
	LogLevel string
}

type ContainerConfig struct {
	// InjectTag is the struct tag marking injectable fields.
	InjectTag string
}

type InspectorConfig struct {
	Enabled bool
	Addr    string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:     env("SYRINGE_APP_NAME", "syringe"),
			Env:      env("SYRINGE_ENV", "local"),
			Debug:    envBool("SYRINGE_DEBUG", true),
			LogLevel: env("SYRINGE_LOG_LEVEL", "info"),
		},
		Container: ContainerConfig{
			InjectTag: env("SYRINGE_INJECT_TAG", "inject"),
		},
		Inspector: InspectorConfig{
			Enabled: envBool("SYRINGE_INSPECTOR", true),
			Addr:    env("SYRINGE_INSPECTOR_ADDR", ":8000"),
		},
	}
}

// IsProduction reports whether SYRINGE_ENV is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
