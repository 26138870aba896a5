package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// ErrInvalidConfig возвращается, когда конфигурация непригодна для запуска
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Auth       AuthConfig       `toml:"auth"`
	MailRelay  MailRelayConfig  `toml:"mail_relay"`
	Cache      CacheConfig      `toml:"cache"`
	ChangeFeed ChangeFeedConfig `toml:"change_feed"`
	Booking    BookingConfig    `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки access-токенов провайдера идентификации
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`   // пусто - не проверяется
	Audience  string `toml:"audience"` // пусто - не проверяется
}

// MailRelayConfig настройки сервиса отправки писем
type MailRelayConfig struct {
	URL                   string  `toml:"url"`
	Timeout               int     `toml:"timeout"` // секунды
	SlotCancelledTemplate string  `toml:"slot_cancelled_template"`
	ReplyTemplate         string  `toml:"reply_template"`
	RatePerSecond         float64 `toml:"rate_per_second"`
	Burst                 int     `toml:"burst"`
}

// CacheConfig настройки redis кэша списка слотов
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// ChangeFeedConfig настройки подписки на LISTEN/NOTIFY
type ChangeFeedConfig struct {
	Enabled              bool `toml:"enabled"`
	MinReconnectInterval int  `toml:"min_reconnect_interval"` // секунды
	MaxReconnectInterval int  `toml:"max_reconnect_interval"` // секунды
	PingInterval         int  `toml:"ping_interval"`          // секунды
}

// BookingConfig правила трассы
type BookingConfig struct {
	Timezone         string `toml:"timezone"`
	SessionStartHour int    `toml:"session_start_hour"`
	SessionEndHour   int    `toml:"session_end_hour"`
	ShortNoticeDays  int    `toml:"short_notice_days"`
	DefaultCapacity  int    `toml:"default_capacity"`
}

// Rules переводит настройки в domain.BookingRules
func (c BookingConfig) Rules() (domain.BookingRules, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.BookingRules{}, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return domain.BookingRules{
		Location:         loc,
		SessionStartHour: c.SessionStartHour,
		SessionEndHour:   c.SessionEndHour,
		ShortNoticeDays:  c.ShortNoticeDays,
	}, nil
}

// Load читает TOML файл. Ссылки вида ${VAR} подставляются из окружения.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(raw))
}

// Parse разбирает конфигурацию из строки, применяет значения по умолчанию и валидирует
func Parse(data string) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(os.ExpandEnv(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.applyDefaults(meta)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults заполняет только ключи, отсутствующие в файле:
// явно заданный 0 остается нулем и проверяется в Validate
func (c *Config) applyDefaults(meta toml.MetaData) {
	setDefault := func(v *int, def int, key ...string) {
		if !meta.IsDefined(key...) {
			*v = def
		}
	}

	setDefault(&c.Server.HTTPPort, 8080, "server", "http_port")
	setDefault(&c.Server.ReadTimeout, 15, "server", "read_timeout")
	setDefault(&c.Server.WriteTimeout, 15, "server", "write_timeout")
	setDefault(&c.Server.IdleTimeout, 60, "server", "idle_timeout")
	setDefault(&c.Server.ShutdownTimeout, 10, "server", "shutdown_timeout")

	setDefault(&c.Database.Port, 5432, "database", "port")
	setDefault(&c.Database.MaxOpenConns, 25, "database", "max_open_conns")
	setDefault(&c.Database.MaxIdleConns, 5, "database", "max_idle_conns")
	setDefault(&c.Database.ConnMaxLifetime, 300, "database", "conn_max_lifetime")
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "circuit-booking"
	}

	setDefault(&c.MailRelay.Timeout, 10, "mail_relay", "timeout")
	setDefault(&c.MailRelay.Burst, 1, "mail_relay", "burst")
	if !meta.IsDefined("mail_relay", "rate_per_second") {
		c.MailRelay.RatePerSecond = 5
	}
	if c.MailRelay.ReplyTemplate == "" {
		c.MailRelay.ReplyTemplate = "d-836eba9453584f04a390bfadc624ea8b"
	}

	setDefault(&c.Cache.TTLSeconds, 60, "cache", "ttl_seconds")

	setDefault(&c.ChangeFeed.MinReconnectInterval, 10, "change_feed", "min_reconnect_interval")
	setDefault(&c.ChangeFeed.MaxReconnectInterval, 60, "change_feed", "max_reconnect_interval")
	setDefault(&c.ChangeFeed.PingInterval, 90, "change_feed", "ping_interval")

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = domain.DefaultTimezone
	}
	setDefault(&c.Booking.SessionStartHour, domain.DefaultSessionStartHour, "booking", "session_start_hour")
	setDefault(&c.Booking.SessionEndHour, domain.DefaultSessionEndHour, "booking", "session_end_hour")
	setDefault(&c.Booking.ShortNoticeDays, domain.DefaultShortNoticeDays, "booking", "short_notice_days")
	setDefault(&c.Booking.DefaultCapacity, domain.DefaultCircuitCapacity, "booking", "default_capacity")
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host, user and dbname are required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.MailRelay.URL == "" {
		return fmt.Errorf("%w: mail_relay.url is required", ErrInvalidConfig)
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr is required when cache is enabled", ErrInvalidConfig)
	}
	if c.Booking.SessionStartHour < 0 || c.Booking.SessionStartHour > 23 ||
		c.Booking.SessionEndHour <= c.Booking.SessionStartHour || c.Booking.SessionEndHour > 24 {
		return fmt.Errorf("%w: session hours must satisfy 0 <= start < end <= 24", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 ||
		c.Server.IdleTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server port and timeouts must be positive", ErrInvalidConfig)
	}
	if c.MailRelay.Timeout <= 0 || c.MailRelay.RatePerSecond <= 0 || c.MailRelay.Burst <= 0 {
		return fmt.Errorf("%w: mail_relay timeout, rate_per_second and burst must be positive", ErrInvalidConfig)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.ChangeFeed.MinReconnectInterval <= 0 || c.ChangeFeed.PingInterval <= 0 ||
		c.ChangeFeed.MaxReconnectInterval < c.ChangeFeed.MinReconnectInterval {
		return fmt.Errorf("%w: change_feed intervals must be positive and max >= min", ErrInvalidConfig)
	}
	if c.Booking.ShortNoticeDays < 0 {
		return fmt.Errorf("%w: booking.short_notice_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.DefaultCapacity < 0 || c.Booking.DefaultCapacity > domain.MaxCircuitCapacity {
		return fmt.Errorf("%w: booking.default_capacity must be between 0 and %d", ErrInvalidConfig, domain.MaxCircuitCapacity)
	}
	if _, err := c.Booking.Rules(); err != nil {
		return err
	}
	return nil
}

