package realtime

import "os"

// Config holds the settings for the standalone realtime service.
type Config struct {
	NatsURL      string
	RealtimePort string
}

func LoadConfig() Config {
	return Config{
		NatsURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		RealtimePort: getEnv("REALTIME_PORT", ":8081"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
