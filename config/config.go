// Package config reads server settings from the environment and
// match set-ups from YAML files.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is how the web server is set up
type Config struct {
	Port           int           `env:"PORT,default=8000"`
	StaticDir      string        `env:"STATIC_DIR,default=./build"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogDevelopment bool          `env:"LOG_DEVELOPMENT,default=false"`
	RobotLevel     string        `env:"ROBOT_LEVEL,default=greedy"`
	RobotDelay     time.Duration `env:"ROBOT_DELAY,default=0s"`
	// 0 waits for players forever
	PromptTimeout time.Duration `env:"PROMPT_TIMEOUT,default=0s"`
}

// Load reads the environment, falling back to defaults.
// A value that does not parse is an error.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NewLogger builds a JSON logger, or a console one for development
func NewLogger(level string, development bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	zc := zap.NewProductionConfig()
	if development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
