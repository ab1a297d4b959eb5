package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mshel/gridsnake/internal/grid"
)

const (
	GameTickDuration    = 16 * time.Millisecond
	DefaultMoveSpeed    = 10.0 // cells per second
	DebugGrowAmount     = 10
	inputChannelSize    = 256
	updateChannelSize   = 256
	defaultHighScoreDB  = "highscores.db"
	defaultSSHHost      = "0.0.0.0"
	defaultSSHPort      = "6996"
	defaultHostKeyPath  = ".ssh/gridsnake_ed25519"
	maxConnectionsPerIP = 2
	ConfigEnvVar        = "GRIDSNAKE_CONFIG"
)

type SSHConfig struct {
	Host                string `yaml:"host"`
	Port                string `yaml:"port"`
	HostKeyPath         string `yaml:"hostKeyPath"`
	MaxConnectionsPerIP int    `yaml:"maxConnectionsPerIP"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type BotConfig struct {
	Name       string     `yaml:"name"`
	Spawn      grid.Point `yaml:"spawn"`
	Script     string     `yaml:"script"`
	ScriptFile string     `yaml:"scriptFile"`
}

type Config struct {
	GridWidth     int           `yaml:"gridWidth"`
	Holes         []grid.Point  `yaml:"holes"`
	Spawn         grid.Point    `yaml:"spawn"`
	FrameDuration time.Duration `yaml:"frameDuration"`
	MoveSpeed     float64       `yaml:"moveSpeed"`

	DebugKeys       bool `yaml:"debugKeys"`
	DebugGrowAmount int  `yaml:"debugGrowAmount"`
	GrowEveryTicks  int  `yaml:"growEveryTicks"`

	WallIsFatal        bool `yaml:"wallIsFatal"`
	SelfCollisionFatal bool `yaml:"selfCollisionFatal"`

	HighScoreDBPath string      `yaml:"highScoreDBPath"`
	SSH             SSHConfig   `yaml:"ssh"`
	WebsocketAddr   string      `yaml:"websocketAddr"`
	Log             LogConfig   `yaml:"log"`
	Bots            []BotConfig `yaml:"bots"`
}

func DefaultConfig() Config {
	return Config{
		GridWidth:          grid.DefaultWidth,
		FrameDuration:      GameTickDuration,
		MoveSpeed:          DefaultMoveSpeed,
		DebugKeys:          true,
		DebugGrowAmount:    DebugGrowAmount,
		SelfCollisionFatal: true,
		HighScoreDBPath:    defaultHighScoreDB,
		SSH: SSHConfig{
			Host:                defaultSSHHost,
			Port:                defaultSSHPort,
			HostKeyPath:         defaultHostKeyPath,
			MaxConnectionsPerIP: maxConnectionsPerIP,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path, or a path that
// does not exist, yields the defaults.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()
	if filePath == "" {
		return &config, nil
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	for i, bot := range config.Bots {
		if bot.Script != "" || bot.ScriptFile == "" {
			continue
		}
		script, err := os.ReadFile(bot.ScriptFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read script for bot %q: %w", bot.Name, err)
		}
		config.Bots[i].Script = string(script)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func validateConfig(config *Config) error {
	if config.GridWidth < 1 || config.GridWidth > grid.MaxWidth {
		return fmt.Errorf("gridWidth must be between 1 and %d, got %d", grid.MaxWidth, config.GridWidth)
	}
	if !inLattice(config.Spawn, config.GridWidth) {
		return fmt.Errorf("spawn (%d,%d) is outside the grid", config.Spawn.X, config.Spawn.Y)
	}
	for _, hole := range config.Holes {
		if hole == config.Spawn {
			return fmt.Errorf("spawn (%d,%d) is a hole", hole.X, hole.Y)
		}
	}
	if config.FrameDuration <= 0 {
		return fmt.Errorf("frameDuration must be positive, got %s", config.FrameDuration)
	}
	if config.MoveSpeed < 0 {
		return fmt.Errorf("moveSpeed cannot be negative, got %v", config.MoveSpeed)
	}
	if config.DebugGrowAmount < 0 || config.GrowEveryTicks < 0 {
		return fmt.Errorf("growth settings cannot be negative")
	}
	for _, bot := range config.Bots {
		if bot.Name == "" {
			return fmt.Errorf("bot name cannot be empty")
		}
		if !inLattice(bot.Spawn, config.GridWidth) {
			return fmt.Errorf("bot %q spawn is outside the grid", bot.Name)
		}
	}
	return nil
}

func inLattice(p grid.Point, width int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < width
}
