package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerAddr string
	StatusURL  string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: getEnvOrDefault("RELAYCHAT_SERVER", "localhost:12345"),
		StatusURL:  getEnvOrDefault("RELAYCHAT_STATUS_URL", "http://localhost:8080"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
