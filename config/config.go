// Package config resolves runtime settings from the environment, an optional
// .env file and an optional gtd.yaml. Environment variables win over the
// file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gtdagent/services"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"

	defaultAddr   = ":8080"
	defaultDBPath = "~/.gtd-agent/gtd.db"
)

type Config struct {
	AIProvider string
	AIAPIKey   string
	AIBaseURL  string
	AIModel    string

	Store             string
	DBPath            string
	FirebaseProjectID string
	Credentials       string

	Addr         string
	JWTSecret    string
	PasswordHash string
	GinMode      string
}

// key -> environment variable
var envBindings = map[string]string{
	"ai.provider":          "AI_PROVIDER",
	"ai.api_key":           "AI_API_KEY",
	"ai.base_url":          "AI_BASE_URL",
	"ai.model":             "AI_MODEL",
	"store.backend":        "GTD_STORE",
	"store.db_path":        "GTD_DB_PATH",
	"firebase.project_id":  "FIREBASE_PROJECT_ID",
	"firebase.credentials": "GOOGLE_APPLICATION_CREDENTIALS",
	"server.addr":          "GTD_ADDR",
	"server.port":          "PORT",
	"auth.jwt_secret":      "JWT_SECRET_KEY",
	"auth.password_hash":   "GTD_PASSWORD_HASH",
	"server.gin_mode":      "GIN_MODE",
}

// Load reads .env, then gtd.yaml from the first of searchPaths that has one
// (the working directory and ~/.gtd-agent when none are given).
func Load(searchPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or failed to load")
	}

	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
		if home, err := os.UserHomeDir(); err == nil {
			searchPaths = append(searchPaths, filepath.Join(home, ".gtd-agent"))
		}
	}

	v := viper.New()
	v.SetConfigName("gtd")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("ai.provider", string(services.ProviderQwen))
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.db_path", defaultDBPath)
	v.SetDefault("server.gin_mode", "release")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.Printf("Using config file %s", v.ConfigFileUsed())
	}

	cfg := &Config{
		AIProvider:        v.GetString("ai.provider"),
		AIAPIKey:          v.GetString("ai.api_key"),
		AIBaseURL:         v.GetString("ai.base_url"),
		AIModel:           v.GetString("ai.model"),
		Store:             v.GetString("store.backend"),
		DBPath:            v.GetString("store.db_path"),
		FirebaseProjectID: v.GetString("firebase.project_id"),
		Credentials:       v.GetString("firebase.credentials"),
		Addr:              v.GetString("server.addr"),
		JWTSecret:         v.GetString("auth.jwt_secret"),
		PasswordHash:      v.GetString("auth.password_hash"),
		GinMode:           v.GetString("server.gin_mode"),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
		if port := v.GetString("server.port"); port != "" {
			cfg.Addr = ":" + port
		}
	}

	if cfg.Store != BackendSQLite && cfg.Store != BackendFirestore {
		return nil, fmt.Errorf("unsupported store backend %q (want %s or %s)", cfg.Store, BackendSQLite, BackendFirestore)
	}
	return cfg, nil
}

func (c *Config) AI() services.AIConfig {
	return services.AIConfig{
		Provider: services.Provider(c.AIProvider),
		APIKey:   c.AIAPIKey,
		BaseURL:  c.AIBaseURL,
		Model:    c.AIModel,
	}
}

// AuthEnabled reports whether the API requires access tokens.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.PasswordHash != ""
}
