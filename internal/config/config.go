package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type NotifyConfig struct {
	OffsetMinutes int `mapstructure:"offset_minutes"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type PushoverConfig struct {
	Token    string `mapstructure:"token"`
	User     string `mapstructure:"user"`
	Priority int    `mapstructure:"priority"`
	Sound    string `mapstructure:"sound"`
}

type MailConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

type StorageConfig struct {
	FilePath string `mapstructure:"file_path"`
}

type DaemonConfig struct {
	Cron string `mapstructure:"cron"`
}

type Config struct {
	Timezone        string         `mapstructure:"timezone"`
	TimetableDir    string         `mapstructure:"timetable_dir"`
	ActiveTimetable string         `mapstructure:"active_timetable"`
	Notify          NotifyConfig   `mapstructure:"notify"`
	Pushover        PushoverConfig `mapstructure:"pushover"`
	Mail            MailConfig     `mapstructure:"mail"`
	Storage         StorageConfig  `mapstructure:"storage"`
	Daemon          DaemonConfig   `mapstructure:"daemon"`
}

// TimetablePath resolves the file selected by active_timetable. One
// file per term; switching terms is a config change, not a code change.
func (c *Config) TimetablePath() string {
	return filepath.Join(c.TimetableDir, c.ActiveTimetable+".json")
}

// LoadConfig reads the YAML config at path. Environment variables with
// the TTN_ prefix override file values (e.g. TTN_PUSHOVER_TOKEN), so
// channel secrets can stay out of the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("timezone", "Local")
	v.SetDefault("timetable_dir", "configs/timetables")
	v.SetDefault("active_timetable", "")
	v.SetDefault("notify.offset_minutes", 10)
	v.SetDefault("notify.window_minutes", 5)
	v.SetDefault("pushover.priority", 0)
	v.SetDefault("pushover.sound", "pushover")
	// Secrets default to empty so env overrides are visible to Unmarshal.
	v.SetDefault("pushover.token", "")
	v.SetDefault("pushover.user", "")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.endpoint", "https://api.resend.com/emails")
	v.SetDefault("storage.file_path", "data/notified.json")
	v.SetDefault("daemon.cron", "* * * * *")

	v.SetEnvPrefix("TTN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config once at the load boundary; downstream code
// relies on these holding and does not re-check.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.ActiveTimetable == "" {
		return fmt.Errorf("active_timetable is not set")
	}
	if c.Notify.OffsetMinutes < 0 {
		return fmt.Errorf("notify.offset_minutes must be >= 0, got %d", c.Notify.OffsetMinutes)
	}
	if c.Notify.WindowMinutes < 1 {
		return fmt.Errorf("notify.window_minutes must be >= 1, got %d", c.Notify.WindowMinutes)
	}
	if c.Pushover.Token == "" || c.Pushover.User == "" {
		return fmt.Errorf("pushover token and user are required")
	}
	if c.Mail.APIKey == "" || c.Mail.From == "" || c.Mail.To == "" {
		return fmt.Errorf("mail api_key, from and to are required")
	}
	return nil
}
