package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Mailer        MailerConfig        `mapstructure:"mailer"`
	Calendar      CalendarConfig      `mapstructure:"calendar"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	ResetTokenSecret     string        `mapstructure:"reset_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	ResetTokenDuration   time.Duration `mapstructure:"reset_token_duration"`
	ResetURLBase         string        `mapstructure:"reset_url_base"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

type MailerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	SourceAddress string `mapstructure:"source_address"`
	MaxWorkers    int    `mapstructure:"max_workers"`
	QueueSize     int    `mapstructure:"queue_size"`
}

// CalendarConfig bounds the precomputed dim_date horizon written by the
// seed command.
type CalendarConfig struct {
	HorizonStart string `mapstructure:"horizon_start"`
	HorizonEnd   string `mapstructure:"horizon_end"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a config entirely from environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			ResetTokenSecret:     getEnv("RESET_TOKEN_SECRET", ""),
			ResetURLBase:         getEnv("RESET_URL_BASE", "http://localhost:3000/reset-password"),
			AccessTokenDuration:  30 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
			ResetTokenDuration:   time.Hour,
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		Mailer: MailerConfig{
			Enabled:       getEnv("MAILER_ENABLED", "true") == "true",
			Region:        getEnv("AWS_REGION", "us-east-1"),
			SourceAddress: getEnv("MAIL_SOURCE_ADDRESS", "contact@timechronos.local"),
			MaxWorkers:    getEnvAsInt("MAILER_MAX_WORKERS", 4),
			QueueSize:     getEnvAsInt("MAILER_QUEUE_SIZE", 256),
		},
		Calendar: CalendarConfig{
			HorizonStart: getEnv("CALENDAR_HORIZON_START", "2020-01-01"),
			HorizonEnd:   getEnv("CALENDAR_HORIZON_END", "2030-12-31"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Mailer.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mailer config: %v", err))
	}

	if err := c.Calendar.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("calendar config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("database source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access token secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh token secret must be at least 32 characters")
	}
	if len(c.ResetTokenSecret) < 32 {
		return errors.New("reset token secret must be at least 32 characters")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt cost must be between 10 and 15")
	}
	return nil
}

func (c *MailerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SourceAddress == "" {
		return errors.New("source_address is required when mailer is enabled")
	}
	if c.Region == "" {
		return errors.New("region is required when mailer is enabled")
	}
	return nil
}

func (c *CalendarConfig) Validate() error {
	start, err := time.Parse("2006-01-02", c.HorizonStart)
	if err != nil {
		return fmt.Errorf("invalid horizon_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.HorizonEnd)
	if err != nil {
		return fmt.Errorf("invalid horizon_end: %w", err)
	}
	if !end.After(start) {
		return errors.New("horizon_end must be after horizon_start")
	}
	return nil
}
