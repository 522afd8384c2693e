package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type StorageBackend string

const (
	StorageMemory StorageBackend = "memory"
	StorageSQLite StorageBackend = "sqlite"
)

const minDayWidth = 2

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Chart   ChartConfig   `toml:"chart"`
	Tasks   TasksConfig   `toml:"tasks"`
	Confirm ConfirmConfig `toml:"confirm"`
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`
}

type StorageConfig struct {
	Backend StorageBackend `toml:"backend"`
	Path    string         `toml:"path"`
}

type ChartConfig struct {
	DayWidth     int  `toml:"day_width"`
	ShowWeekends bool `toml:"show_weekends"`
	ShowToday    bool `toml:"show_today"`
	SidebarWidth int  `toml:"sidebar_width"`
}

type TasksConfig struct {
	SeedSample          bool     `toml:"seed_sample"`
	DefaultCategory     string   `toml:"default_category"`
	DefaultDurationDays int      `toml:"default_duration_days"`
	SuggestedCategories []string `toml:"suggested_categories"`
}

type ConfirmConfig struct {
	Delete bool `toml:"delete"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"` // debug | info | warn | error | fatal
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

func Default(dbPath string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: StorageMemory,
			Path:    dbPath,
		},
		Chart: ChartConfig{
			DayWidth:     4,
			ShowWeekends: true,
			ShowToday:    true,
			SidebarWidth: 36,
		},
		Tasks: TasksConfig{
			SeedSample:          true,
			DefaultCategory:     "Development",
			DefaultDurationDays: 5,
			SuggestedCategories: []string{"Development", "Design", "Marketing"},
		},
		Confirm: ConfirmConfig{
			Delete: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".gengantt/log",
			},
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	if c.Chart.DayWidth < minDayWidth {
		return fmt.Errorf("chart.day_width must be >= %d", minDayWidth)
	}
	if c.Chart.SidebarWidth < 0 {
		return errors.New("chart.sidebar_width must be >= 0")
	}

	if c.Tasks.DefaultDurationDays < 0 {
		return errors.New("tasks.default_duration_days must be >= 0")
	}
	for i, category := range c.Tasks.SuggestedCategories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("tasks.suggested_categories[%d] is empty", i)
		}
	}

	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if level != "" && !slices.Contains(logLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if bind := strings.TrimSpace(c.Server.HTTPBind); bind != "" && !strings.Contains(bind, ":") {
		return fmt.Errorf("server.http_bind must be host:port, got %q", c.Server.HTTPBind)
	}
	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" && !strings.HasPrefix(endpoint, "/") {
			return fmt.Errorf("%s must start with '/', got %q", name, endpoint)
		}
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
