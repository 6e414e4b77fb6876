package config

import "os"

type Config struct {
	Port        string
	JWTSecret   string
	DataDir     string
	DatabaseURL string
}

// Load reads the configuration from the environment. When DATABASE_URL
// is empty the server runs in local mode and persists to DataDir.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
