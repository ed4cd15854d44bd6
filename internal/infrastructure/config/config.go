// Package config provides application configuration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	WebSocket    WebSocketConfig    `mapstructure:"websocket"`
	EventBus     EventBusConfig     `mapstructure:"event_bus"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Alerting     AlertingConfig     `mapstructure:"alerting"`
	Escalation   EscalationConfig   `mapstructure:"escalation"`
	SelfHealing  SelfHealingConfig  `mapstructure:"self_healing"`
}

// AppConfig manage environment the app
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// ServerConfig manage the timing API rest
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig manage the features of database
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig manage the features of cache
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LoggingConfig manage level the logs
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WebSocketConfig manage buffers the app
type WebSocketConfig struct {
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
}

// TracingConfig controls the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// NotificationsConfig holds the Teams/Email transport settings consumed
// by the Notification Router's notifiers.
type NotificationsConfig struct {
	Teams TeamsConfig `mapstructure:"teams"`
	Email EmailConfig `mapstructure:"email"`
}

// TeamsConfig configures the Teams webhook transport.
type TeamsConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// EmailConfig configures the SMTP transport.
type EmailConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AlertingConfig holds the Correlator's and Router's policy knobs.
type AlertingConfig struct {
	CorrelationWindowSeconds int `mapstructure:"correlation_window_seconds"`
	GroupTTLSeconds          int `mapstructure:"group_ttl_seconds"`
	RateLimitCount           int `mapstructure:"rate_limit_count"`
	RateLimitSeconds         int `mapstructure:"rate_limit_seconds"`
	MaxConcurrentAlerts      int `mapstructure:"max_concurrent_alerts"`
}

// EscalationConfig holds the Escalation Manager's worker interval.
type EscalationConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// SelfHealingConfig holds the Confidence Scorer / Impact Analyzer /
// Approval Manager / Resolution Selector policy knobs.
type SelfHealingConfig struct {
	Mode                       string  `mapstructure:"mode"`
	ConfidenceThreshold        float64 `mapstructure:"confidence_threshold"`
	MinHistorySamples          int     `mapstructure:"min_history_samples"`
	AutomaticRiskThreshold     float64 `mapstructure:"automatic_risk_threshold"`
	SemiAutomaticRiskThreshold float64 `mapstructure:"semi_automatic_risk_threshold"`
	BusinessHoursRequireApproval bool  `mapstructure:"business_hours_require_approval"`
	ApprovalTTL                time.Duration `mapstructure:"approval_ttl"`
	MaxAttempts                int     `mapstructure:"max_attempts"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Address returns the Redis connection address
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Address returns the server address
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction returns true if running in production
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// IsDevelopment returns true if running in development
func (a *AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// EventBusConfig holds event bus configuration.
type EventBusConfig struct {
	ConsumerID     string        `mapstructure:"consumer_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	Multiplier     float64       `mapstructure:"multiplier"`
}
