package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/config"

	"github.com/sa-bots/workthread/logger"
	"github.com/sa-bots/workthread/store"
)

// TokenEnvVar is consulted when the token file is missing or blank.
const TokenEnvVar = "DISCORD_TOKEN"

// GuildConfig mirrors the guild settings file. The key spellings
// (including "Commitees") match the historical JSON layout and must not
// change.
type GuildConfig struct {
	ServerID             string   `yaml:"ServerID"`
	WorkThreadCategoryID string   `yaml:"WorkThreadCategoryID"`
	SARoleID             string   `yaml:"SARoleID"`
	Commitees            []string `yaml:"Commitees"`
	Places               []string `yaml:"Places"`
	EventTypes           []string `yaml:"event_types"`
}

// Validate checks that every required guild key is present. SARoleID is
// optional; without it the staff-guarded commands refuse everyone.
func (g GuildConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(g.ServerID) == "" {
		missing = append(missing, "ServerID")
	}
	if strings.TrimSpace(g.WorkThreadCategoryID) == "" {
		missing = append(missing, "WorkThreadCategoryID")
	}
	if len(g.Commitees) == 0 {
		missing = append(missing, "Commitees")
	}
	if len(g.Places) == 0 {
		missing = append(missing, "Places")
	}
	if len(g.EventTypes) == 0 {
		missing = append(missing, "event_types")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AppConfig holds all application configuration. The guild settings sit at
// the top level of the document; logger and store sections are optional.
type AppConfig struct {
	Logger logger.Config `yaml:"logger"`
	Store  store.Config  `yaml:"store"`
	Guild  GuildConfig   `yaml:",inline"`
}

// Load reads configuration from the given files. Files are merged in
// order, later files overriding earlier ones; missing files are skipped.
// The guild settings file is JSON, which the YAML provider accepts as-is.
func Load(files ...string) (*AppConfig, error) {
	opts := make([]config.YAMLOption, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			opts = append(opts, config.File(f))
		}
	}

	if len(opts) == 0 {
		return nil, fmt.Errorf("config: none of %s exist", strings.Join(files, ", "))
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and fills in defaults for the
// optional sections.
func LoadWithDefaults(files ...string) (*AppConfig, error) {
	cfg, err := Load(files...)
	if err != nil {
		return nil, err
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if len(cfg.Logger.OutputPaths) == 0 {
		cfg.Logger.OutputPaths = []string{"stdout"}
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/workthread.db"
	}

	return cfg, nil
}

// ResolveToken returns the bot token: the first non-blank line of the
// token file when it exists, otherwise the DISCORD_TOKEN environment
// variable.
func ResolveToken(path string) (string, error) {
	if path != "" {
		if token, err := tokenFromFile(path); err == nil && token != "" {
			return token, nil
		}
	}
	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no token in %q and %s is not set", path, TokenEnvVar)
}

func tokenFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}
