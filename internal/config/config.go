package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig contains the settings for verifying access tokens issued by
// the identity provider.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer        string `mapstructure:"issuer"`
	LeewaySeconds int    `mapstructure:"leeway_seconds" validate:"gte=0,lte=300"`
}

// SchedulerConfig contains the settings that govern scheduling and the
// periodic backlog sweep.
type SchedulerConfig struct {
	// Timezone is the IANA zone that defines calendar days for due dates,
	// daily stats, and streaks.
	Timezone             string `mapstructure:"timezone" validate:"required,timezone"`
	SweepIntervalMinutes int    `mapstructure:"sweep_interval_minutes" validate:"gt=0"`
}

// Location returns the configured time zone, or UTC when it cannot be loaded.
func (c SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
