package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr" env:"HTTP_ADDR"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path" env:"DB_PATH"`
	} `yaml:"database"`

	// Discord is optional; the bot front end starts only when a token
	// is configured.
	Discord struct {
		Token    string `yaml:"token" env:"DISCORD_TOKEN"`
		ClientID string `yaml:"client_id" env:"DISCORD_CLIENT_ID"`
	} `yaml:"discord"`

	OpenAI struct {
		APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
		Model   string `yaml:"model" env:"OPENAI_MODEL"`
		BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	} `yaml:"openai"`
}

func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile("config.yaml")
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err == nil {
		// Replace environment variables in the YAML content
		content := string(data)
		for _, env := range os.Environ() {
			pair := strings.SplitN(env, "=", 2)
			if len(pair) != 2 {
				continue
			}
			placeholder := "${" + pair[0] + "}"
			content = strings.ReplaceAll(content, placeholder, pair[1])
		}

		if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config: %w", err)
		}
	}

	// Environment variables win over file values
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_CLIENT_ID"); v != "" {
		cfg.Discord.ClientID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "punchclock.db"
	}

	return &cfg, nil
}
