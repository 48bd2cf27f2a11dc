package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "MEMORY_"

// DefaultFile is read when no config path is given.
const DefaultFile = "memory.hcl"

// Config represents the complete game configuration.
type Config struct {
	Game     GameSettings
	Storage  StorageSettings
	Log      LogSettings
	Spectate SpectateSettings
}

// GameSettings controls new games and the view timings.
type GameSettings struct {
	PlayerOne        string `hcl:"player_one,optional" env:"PLAYER_ONE"`
	PlayerTwo        string `hcl:"player_two,optional" env:"PLAYER_TWO"`
	Seed             int64  `hcl:"seed,optional" env:"SEED"`
	CheatMode        bool   `hcl:"cheat_mode,optional" env:"CHEAT_MODE"`
	RevealDelayMS    int    `hcl:"reveal_delay_ms,optional" env:"REVEAL_DELAY_MS"`
	HideDelayMS      int    `hcl:"hide_delay_ms,optional" env:"HIDE_DELAY_MS"`
	HighlightDelayMS int    `hcl:"highlight_delay_ms,optional" env:"HIGHLIGHT_DELAY_MS"`
}

// StorageSettings locates save files and the scoreboard database.
type StorageSettings struct {
	SaveDir        string `hcl:"save_dir,optional" env:"SAVE_DIR"`
	ScoreboardPath string `hcl:"scoreboard_path,optional" env:"SCOREBOARD_PATH"`
}

// LogSettings configures the log file written while the terminal UI runs.
type LogSettings struct {
	Level string `hcl:"level,optional" env:"LOG_LEVEL"`
	File  string `hcl:"file,optional" env:"LOG_FILE"`
}

// SpectateSettings configures the optional spectator feed.
type SpectateSettings struct {
	Address string `hcl:"address,optional" env:"SPECTATE_ADDR"`
}

// fileConfig mirrors Config for HCL decoding, where every block is optional.
type fileConfig struct {
	Game     *GameSettings     `hcl:"game,block"`
	Storage  *StorageSettings  `hcl:"storage,block"`
	Log      *LogSettings      `hcl:"log,block"`
	Spectate *SpectateSettings `hcl:"spectate,block"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			PlayerOne:        "Player 1",
			PlayerTwo:        "Player 2",
			RevealDelayMS:    250,
			HideDelayMS:      750,
			HighlightDelayMS: 1000,
		},
		Storage: StorageSettings{
			SaveDir:        "saves",
			ScoreboardPath: "memory.db",
		},
		Log: LogSettings{
			Level: "info",
			File:  "memory.log",
		},
	}
}

// Load reads the HCL file at path over the defaults, then applies MEMORY_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply file values over defaults
	if g := fc.Game; g != nil {
		setString(&c.Game.PlayerOne, g.PlayerOne)
		setString(&c.Game.PlayerTwo, g.PlayerTwo)
		if g.Seed != 0 {
			c.Game.Seed = g.Seed
		}
		c.Game.CheatMode = g.CheatMode
		setInt(&c.Game.RevealDelayMS, g.RevealDelayMS)
		setInt(&c.Game.HideDelayMS, g.HideDelayMS)
		setInt(&c.Game.HighlightDelayMS, g.HighlightDelayMS)
	}
	if s := fc.Storage; s != nil {
		setString(&c.Storage.SaveDir, s.SaveDir)
		setString(&c.Storage.ScoreboardPath, s.ScoreboardPath)
	}
	if l := fc.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.File, l.File)
	}
	if s := fc.Spectate; s != nil {
		setString(&c.Spectate.Address, s.Address)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Game.PlayerOne) == "" || strings.TrimSpace(c.Game.PlayerTwo) == "" {
		return errors.New("player names must not be empty")
	}
	if c.Game.RevealDelayMS < 0 || c.Game.HideDelayMS < 0 || c.Game.HighlightDelayMS < 0 {
		return errors.New("delays must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Storage.SaveDir == "" {
		return errors.New("save directory must be set")
	}
	return nil
}

// RevealDelay is how long a revealed card stays face up before it joins
// the selection.
func (c *Config) RevealDelay() time.Duration {
	return time.Duration(c.Game.RevealDelayMS) * time.Millisecond
}

// HideDelay is how long an evaluated pair stays visible.
func (c *Config) HideDelay() time.Duration {
	return time.Duration(c.Game.HideDelayMS) * time.Millisecond
}

// HighlightDelay is the pause before the next player is highlighted.
func (c *Config) HighlightDelay() time.Duration {
	return time.Duration(c.Game.HighlightDelayMS) * time.Millisecond
}

// LogLevel returns the parsed log level. Validate has already checked it.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SavePath resolves name inside the save directory unless it is already a
// path.
func (c *Config) SavePath(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.Storage.SaveDir, name)
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
