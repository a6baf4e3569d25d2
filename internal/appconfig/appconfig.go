// Package appconfig loads the builderkit application configuration from YAML,
// applies BUILDERKIT_* environment overrides and validates the result.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUILDERKIT_"

// ErrInvalidConfig wraps parse and validation failures.
var ErrInvalidConfig = errors.New("appconfig: invalid configuration")

// Config is the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Presets PresetsConfig `yaml:"presets"`
	Themes  ThemesConfig  `yaml:"themes"`
}

// LogConfig drives internal/logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Human bool   `yaml:"human"`
}

// ServerConfig configures the web shell.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	SanitizePreview bool          `yaml:"sanitize_preview"`
	WatchDebounce   time.Duration `yaml:"watch_debounce" validate:"gte=0"`
}

// ExportConfig configures download sinks.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// PresetsConfig points at preset documents.
type PresetsConfig struct {
	Dir string `yaml:"dir"`
}

// ThemesConfig points at extra theme manifests.
type ThemesConfig struct {
	Files []string `yaml:"files" validate:"dive,required"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
			WatchDebounce:   200 * time.Millisecond,
		},
		Export: ExportConfig{Dir: "."},
	}
}

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides from lookup (os.LookupEnv when nil) and validates.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("appconfig: read %s: %w", path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document does not set.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if line := extractLine(err); line > 0 {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidConfig, line, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, target *string) {
		if value, ok := lookup(EnvPrefix + key); ok {
			*target = strings.TrimSpace(value)
		}
	}
	boolean := func(key string, target *bool) error {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalidConfig, EnvPrefix, key, value)
		}
		*target = parsed
		return nil
	}
	duration := func(key string, target *time.Duration) error {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a duration", ErrInvalidConfig, EnvPrefix, key, value)
		}
		*target = parsed
		return nil
	}

	str("LOG_LEVEL", &cfg.Log.Level)
	str("SERVER_ADDR", &cfg.Server.Addr)
	str("EXPORT_DIR", &cfg.Export.Dir)
	str("PRESETS_DIR", &cfg.Presets.Dir)
	if value, ok := lookup(EnvPrefix + "THEMES_FILES"); ok {
		cfg.Themes.Files = splitList(value)
	}
	return errors.Join(
		boolean("LOG_HUMAN", &cfg.Log.Human),
		boolean("SERVER_SANITIZE_PREVIEW", &cfg.Server.SanitizePreview),
		duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout),
		duration("SERVER_WATCH_DEBOUNCE", &cfg.Server.WatchDebounce),
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
