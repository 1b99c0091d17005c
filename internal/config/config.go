package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tempo/backend/internal/model"
)

type TimerConfig struct {
	FocusMinutes           int  `mapstructure:"focus_minutes"`
	BreakMinutes           int  `mapstructure:"break_minutes"`
	LongBreakMinutes       int  `mapstructure:"long_break_minutes"`
	SessionsUntilLongBreak int  `mapstructure:"sessions_until_long_break"`
	AutoContinue           bool `mapstructure:"auto_continue"`
}

type Config struct {
	Port          string      `mapstructure:"port"`
	DBPath        string      `mapstructure:"db_path"`
	MigrationsDir string      `mapstructure:"migrations_dir"` // empty uses the embedded migrations
	JWTSecret     string      `mapstructure:"jwt_secret"`
	TokenTTLHours int         `mapstructure:"token_ttl_hours"`
	CORSOrigins   []string    `mapstructure:"cors_origins"`
	PasscodeHash  string      `mapstructure:"passcode_hash"` // bcrypt; empty disables auth
	Timezone      string      `mapstructure:"timezone"`
	ReviewPolicy  string      `mapstructure:"review_policy"` // "retire" or "clamp"
	Timer         TimerConfig `mapstructure:"timer"`
}

// Load reads configuration from defaults, an optional yaml file and TEMPO_*
// environment variables, in increasing precedence. With an empty path the file
// is looked up as tempo.yaml in the working directory and $HOME/.config/tempo.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tempo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tempo")
	}

	v.SetEnvPrefix("TEMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./data/tempo.db")
	v.SetDefault("migrations_dir", "")
	v.SetDefault("jwt_secret", "change-this-secret")
	v.SetDefault("token_ttl_hours", 72)
	v.SetDefault("cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("passcode_hash", "")
	v.SetDefault("timezone", "")
	v.SetDefault("review_policy", "retire")
	v.SetDefault("timer.focus_minutes", model.DefaultFocusMinutes)
	v.SetDefault("timer.break_minutes", model.DefaultBreakMinutes)
	v.SetDefault("timer.long_break_minutes", model.DefaultLongBreakMinutes)
	v.SetDefault("timer.sessions_until_long_break", model.DefaultSessionsUntilLongBreak)
	v.SetDefault("timer.auto_continue", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("Config file not found, using defaults and environment.")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)

	if cfg.TokenTTLHours < 1 {
		log.Printf("Warning: token_ttl_hours %d too low, setting to 1", cfg.TokenTTLHours)
		cfg.TokenTTLHours = 1
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Location resolves Timezone. Empty means the host's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (t TimerConfig) Settings() model.TimerSettings {
	return model.TimerSettings{
		FocusMinutes:           t.FocusMinutes,
		BreakMinutes:           t.BreakMinutes,
		LongBreakMinutes:       t.LongBreakMinutes,
		SessionsUntilLongBreak: t.SessionsUntilLongBreak,
		AutoContinue:           t.AutoContinue,
	}
}

func cleanList(values []string) []string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}
