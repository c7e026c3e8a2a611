// Package config loads the scorecard CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported evaluator engines.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Supported output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config holds CLI configuration.
type Config struct {
	Editor EditorConfig `mapstructure:"editor"`
	Output OutputConfig `mapstructure:"output"`
}

// EditorConfig holds the options passed to every editor the CLI builds.
type EditorConfig struct {
	Engine   string `mapstructure:"engine"`
	Channel  string `mapstructure:"channel"`
	ActorID  string `mapstructure:"actor_id"`
	TenantID string `mapstructure:"tenant_id"`
	// ActivityLog prints change events to stderr.
	ActivityLog bool `mapstructure:"activity_log"`
	// JSTimeout bounds one JS binding run; zero disables the limit.
	JSTimeout time.Duration `mapstructure:"js_timeout"`
}

// OutputConfig controls how settings are written back.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// SCORECARD_, e.g. SCORECARD_EDITOR_ENGINE=cel. An empty path falls back to
// $SCORECARD_CONFIG and then to ~/.config/scorecard/config.yaml.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("editor.engine", EngineExpr)
	v.SetDefault("editor.channel", "cli")
	v.SetDefault("editor.actor_id", "")
	v.SetDefault("editor.tenant_id", "")
	v.SetDefault("editor.activity_log", false)
	v.SetDefault("editor.js_timeout", "1s")
	v.SetDefault("output.format", "")

	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("SCORECARD_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "scorecard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SCORECARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports unsupported engine, timeout or format values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Editor.Engine) {
	case EngineExpr, EngineCEL, EngineJS:
	default:
		return fmt.Errorf("config: unknown engine %q", c.Editor.Engine)
	}
	if c.Editor.JSTimeout < 0 {
		return fmt.Errorf("config: negative js_timeout %s", c.Editor.JSTimeout)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	return nil
}
