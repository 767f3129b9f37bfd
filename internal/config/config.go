package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/logger"

	"github.com/spf13/viper"
)

// Config is the typed view of configs/config.yml.
type Config struct {
	Port        string            `mapstructure:"port"`
	LogLevel    string            `mapstructure:"log_level"`
	DB          DBConfig          `mapstructure:"db"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Control     ControlConfig     `mapstructure:"control"`
	Session     SessionConfig     `mapstructure:"session"`
	SmartThings SmartThingsConfig `mapstructure:"smartthings"`
	MQTT        MQTTConfig        `mapstructure:"mqtt"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// ControlConfig mirrors control.Params.
type ControlConfig struct {
	TargetDI       float64 `mapstructure:"target_di"`
	StartDI        float64 `mapstructure:"start_di"`
	MinSetpointC   float64 `mapstructure:"min_setpoint_c"`
	DryRatePerHour float64 `mapstructure:"dry_rate_rh_per_hour"`
}

type SessionConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type SmartThingsConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	DeviceID string        `mapstructure:"device_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a real device is configured.
func (c SmartThingsConfig) Enabled() bool {
	return c.Token != "" && c.DeviceID != ""
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// envPrefix namespaces environment overrides, e.g. AIRCON_DB_PATH.
const envPrefix = "AIRCON"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "aircon.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("control.target_di", control.DefaultTargetDI)
	v.SetDefault("control.start_di", control.DefaultStartDI)
	v.SetDefault("control.min_setpoint_c", control.DefaultMinSetpointC)
	v.SetDefault("control.dry_rate_rh_per_hour", control.DefaultDryRatePerHour)
	v.SetDefault("session.tick", time.Second)
	v.SetDefault("smartthings.base_url", "https://api.smartthings.com/v1")
	v.SetDefault("smartthings.token", "")
	v.SetDefault("smartthings.device_id", "")
	v.SetDefault("smartthings.timeout", 10*time.Second)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", "sensors/readings")
	v.SetDefault("mqtt.client_id", "aircon-control")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "aircon-events")
}

// Load reads config.yml from dir (configs/ when empty), applies AIRCON_*
// environment overrides and defaults. A missing file is not an error.
func Load(dir string) (Config, error) {
	if dir == "" {
		dir = "configs"
	}
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		return Config{}, fmt.Errorf("log_level %q: want debug, info, warn or error", cfg.LogLevel)
	}
	if err := cfg.ControlParams().Validate(); err != nil {
		return Config{}, fmt.Errorf("control section: %w", err)
	}
	return cfg, nil
}

// ControlParams converts the control section for control.Decide.
func (c Config) ControlParams() control.Params {
	return control.Params{
		TargetDI:       c.Control.TargetDI,
		StartDI:        c.Control.StartDI,
		MinSetpointC:   c.Control.MinSetpointC,
		DryRatePerHour: c.Control.DryRatePerHour,
	}
}
