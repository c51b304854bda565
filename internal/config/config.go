package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. Required credentials are validated
// up front so a misconfigured deployment fails at startup instead of
// degrading silently mid-pipeline.
type Config struct {
	// Riot API
	RiotAPIKey string
	Platform   string // platform routing value, e.g. eun1
	GameName   string // tracked player's Riot ID game name
	TagLine    string // tracked player's Riot ID tag line

	// Notion persistence
	NotionToken      string
	GamesDatabaseID  string
	SessionsDatabase string

	// Optional integrations
	RedisURL          string // networked cache backend; empty selects the in-process fallback
	WebhookSecret     string // shared secret for inbound webhook verification
	DiscordWebhookURL string // outgoing coaching alerts; empty disables dispatch

	Port string
}

// Load reads configuration from the environment, loading a .env file first
// if one is present in any of the usual locations.
func Load() (*Config, error) {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg := &Config{
		RiotAPIKey:        strings.Trim(os.Getenv("RIOT_API_KEY"), "\""),
		Platform:          envOr("RIOT_PLATFORM", "eun1"),
		GameName:          envOr("TRACKED_GAME_NAME", "Feraxin"),
		TagLine:           envOr("TRACKED_TAG_LINE", "EUNE"),
		NotionToken:       os.Getenv("NOTION_TOKEN"),
		GamesDatabaseID:   os.Getenv("NOTION_GAMES_DB"),
		SessionsDatabase:  os.Getenv("NOTION_SESSIONS_DB"),
		RedisURL:          os.Getenv("REDIS_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		Port:              envOr("PORT", "8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate collects every missing required variable into one error so a bad
// deployment reports the full list in a single pass.
func (c *Config) validate() error {
	var missing []string
	if c.RiotAPIKey == "" {
		missing = append(missing, "RIOT_API_KEY")
	}
	if c.NotionToken == "" {
		missing = append(missing, "NOTION_TOKEN")
	}
	if c.GamesDatabaseID == "" {
		missing = append(missing, "NOTION_GAMES_DB")
	}
	if c.SessionsDatabase == "" {
		missing = append(missing, "NOTION_SESSIONS_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RiotID returns the tracked player's identity as "GameName#TagLine".
func (c *Config) RiotID() string {
	return c.GameName + "#" + c.TagLine
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
