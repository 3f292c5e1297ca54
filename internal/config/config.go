// internal/config/config.go

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds server, store, cache, otp and delivery configurations
type Config struct {
	Server struct {
		Host    string `mapstructure:"host"`
		Port    string `mapstructure:"port"`
		Mode    string `mapstructure:"mode"`
		Timeout struct {
			Read  int `mapstructure:"read"`
			Write int `mapstructure:"write"`
			Idle  int `mapstructure:"idle"`
		} `mapstructure:"timeout"`
	} `mapstructure:"server"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Timeout  int    `mapstructure:"timeout"`
	} `mapstructure:"redis"`

	Postgres struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"postgres"`

	Cache struct {
		Backend      string `mapstructure:"backend"` // "redis" or "memory"
		Prefix       string `mapstructure:"prefix"`
		DegradeReads bool   `mapstructure:"degrade_reads"`
	} `mapstructure:"cache"`

	OTP struct {
		CodeLength      int    `mapstructure:"code_length"`
		Expiry          string `mapstructure:"expiry"`
		CleanupInterval string `mapstructure:"cleanup_interval"`
	} `mapstructure:"otp"`

	SMS struct {
		GatewayURL string `mapstructure:"gateway_url"`
		APIKey     string `mapstructure:"api_key"`
		Sender     string `mapstructure:"sender"`
		Timeout    int    `mapstructure:"timeout"`
	} `mapstructure:"sms"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`
}

// LoadConfig reads the configuration from the config file and environment variables
func LoadConfig(paths ...string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	viper.AutomaticEnv()

	// Bind environment variables to specific keys in the config
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.timeout.read", "SERVER_TIMEOUT_READ")
	viper.BindEnv("server.timeout.write", "SERVER_TIMEOUT_WRITE")
	viper.BindEnv("server.timeout.idle", "SERVER_TIMEOUT_IDLE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.timeout", "REDIS_TIMEOUT")

	viper.BindEnv("postgres.dsn", "POSTGRES_DSN")

	viper.BindEnv("cache.backend", "CACHE_BACKEND")
	viper.BindEnv("cache.prefix", "CACHE_PREFIX")
	viper.BindEnv("cache.degrade_reads", "CACHE_DEGRADE_READS")

	viper.BindEnv("otp.code_length", "OTP_CODE_LENGTH")
	viper.BindEnv("otp.expiry", "OTP_EXPIRY")
	viper.BindEnv("otp.cleanup_interval", "OTP_CLEANUP_INTERVAL")

	viper.BindEnv("sms.gateway_url", "SMS_GATEWAY_URL")
	viper.BindEnv("sms.api_key", "SMS_API_KEY")
	viper.BindEnv("sms.sender", "SMS_SENDER")
	viper.BindEnv("sms.timeout", "SMS_TIMEOUT")

	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.port", "SMTP_PORT")
	viper.BindEnv("smtp.username", "SMTP_USERNAME")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("smtp.from", "SMTP_FROM")

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// OTPWindow returns the validity window for issued passcodes, defaulting to
// five minutes when unset or malformed.
func (c *Config) OTPWindow() time.Duration {
	return parseDuration(c.OTP.Expiry, 5*time.Minute)
}

// CleanupInterval returns the reaper schedule, defaulting to one minute.
func (c *Config) CleanupInterval() time.Duration {
	return parseDuration(c.OTP.CleanupInterval, time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
