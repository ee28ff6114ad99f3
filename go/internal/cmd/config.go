package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's runtime configuration: where the backend and push
// channel live, which topics to follow, and how hard to poll each of them.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`

	// Push transport: "websocket", "nats" or "none" (polling only).
	PushTransport string `yaml:"push_transport"`
	PushURL       string `yaml:"push_url"`
	NATSURL       string `yaml:"nats_url"`

	DiagPort int `yaml:"diag_port"`

	// Identity of the signed-in user/NGO this instance syncs for.
	NGOID    string `yaml:"ngo_id"`
	NGOEmail string `yaml:"ngo_email"`

	// Auctions to follow live.
	AuctionIDs []string `yaml:"auction_ids"`

	Poll PollConfig `yaml:"poll"`
}

// PollConfig holds the per-topic poll cadence. Auction state is the most
// latency-sensitive topic; withdrawal lists move slowly.
type PollConfig struct {
	Auction     time.Duration `yaml:"auction"`
	Wallet      time.Duration `yaml:"wallet"`
	Withdrawals time.Duration `yaml:"withdrawals"`
}

// defaultConfig mirrors the cadences the product actually ran with: 2s
// auction polling, 10s wallet, 30s withdrawal list.
func defaultConfig() Config {
	return Config{
		APIBaseURL:    "http://localhost:5000/api",
		PushTransport: "websocket",
		PushURL:       "ws://localhost:5000/socket",
		NATSURL:       "nats://localhost:4222",
		DiagPort:      8081,
		Poll: PollConfig{
			Auction:     2 * time.Second,
			Wallet:      10 * time.Second,
			Withdrawals: 30 * time.Second,
		},
	}
}

// loadConfig builds the config from defaults, an optional YAML file, and
// environment variable overrides, in that order.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.APIBaseURL = getEnv("API_BASE_URL", config.APIBaseURL)
	config.PushTransport = getEnv("PUSH_TRANSPORT", config.PushTransport)
	config.PushURL = getEnv("PUSH_URL", config.PushURL)
	config.NATSURL = getEnv("NATS_URL", config.NATSURL)
	config.DiagPort = getEnvAsInt("DIAG_PORT", config.DiagPort)
	config.NGOID = getEnv("NGO_ID", config.NGOID)
	config.NGOEmail = getEnv("NGO_EMAIL", config.NGOEmail)

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
