package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	WAAPIBaseURL  string
	WAVerifyToken string
	AccountsFile  string

	// ReadOnReply: "best_effort" (default), "off" or "strict".
	ReadOnReply string

	// SessionBackend: "memory" (default), "bolt" or "redis".
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	Port    string
	DataDir string
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:            os.Getenv("APP_ENV"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		WAAPIBaseURL:   os.Getenv("WA_API_BASE_URL"),
		WAVerifyToken:  os.Getenv("WA_VERIFY_TOKEN"),
		AccountsFile:   os.Getenv("WA_ACCOUNTS_FILE"),
		ReadOnReply:    os.Getenv("WA_READ_ON_REPLY"),
		SessionBackend: os.Getenv("SESSION_BACKEND"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        parseIntEnv("REDIS_DB"),
		Port:           os.Getenv("PORT"),
		DataDir:        os.Getenv("DATA_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	if cfg.SessionBackend == "" {
		cfg.SessionBackend = "memory"
	}

	if cfg.SessionBackend == "redis" && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_ADDR")
	}

	if cfg.WAVerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.WAVerifyToken = token
	}

	for _, req := range []struct {
		name, val string
	}{
		{"WA_ACCOUNTS_FILE", cfg.AccountsFile},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

func parseIntEnv(key string) int {
	v, _ := strconv.Atoi(os.Getenv(key))
	return v
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
