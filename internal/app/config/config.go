package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	LogLevel    string   `mapstructure:"log_level"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	DSN     string
	Session SessionConfig
	Redis   RedisConfig
	Storage StorageConfig
	SMTP    SMTPConfig
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool // cookie только по https
}

type RedisConfig struct {
	Host         string
	Password     string
	Port         int
	User         string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	EventChannel string `mapstructure:"event_channel"`
}

// StorageConfig фото заявок. Без MinIO endpoint файлы пишутся в LocalDir
type StorageConfig struct {
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool `mapstructure:"use_ssl"`
}

// SMTPConfig пустой Host отключает почтовые уведомления
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	ManagerEmail string `mapstructure:"manager_email"`
}

const (
	envDSN          = "DB_DSN"
	envRedisHost    = "REDIS_HOST"
	envRedisPort    = "REDIS_PORT"
	envRedisUser    = "REDIS_USER"
	envRedisPass    = "REDIS_PASSWORD"
	envSessionKey   = "SESSION_SECRET"
	envMinioHost    = "MINIO_ENDPOINT"
	envMinioAccess  = "MINIO_ACCESS_KEY"
	envMinioSecret  = "MINIO_SECRET_KEY"
	envSMTPHost     = "SMTP_HOST"
	envSMTPPort     = "SMTP_PORT"
	envSMTPUser     = "SMTP_USER"
	envSMTPPassword = "SMTP_PASSWORD"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	setDefaults()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("config parsed")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 8080)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("Session.TTL", 24*time.Hour)
	viper.SetDefault("Redis.DialTimeout", 10*time.Second)
	viper.SetDefault("Redis.ReadTimeout", 10*time.Second)
	viper.SetDefault("Redis.event_channel", "service_request_events")
	viper.SetDefault("Storage.local_dir", "uploads")
	viper.SetDefault("Storage.public_base_url", "/uploads")
	viper.SetDefault("Storage.Bucket", "request-photos")
	viper.SetDefault("SMTP.Port", 587)
}

// секреты и адреса инфраструктуры берутся из env, если заданы
func (c *Config) applyEnv() error {
	if v := os.Getenv(envDSN); v != "" {
		c.DSN = v
	}
	if v := os.Getenv(envSessionKey); v != "" {
		c.Session.Secret = v
	}

	if v := os.Getenv(envRedisHost); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv(envRedisPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("redis port must be int value: %w", err)
		}
		c.Redis.Port = port
	}
	if v := os.Getenv(envRedisPass); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(envRedisUser); v != "" {
		c.Redis.User = v
	}

	if v := os.Getenv(envMinioHost); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv(envMinioAccess); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv(envMinioSecret); v != "" {
		c.Storage.SecretKey = v
	}

	if v := os.Getenv(envSMTPHost); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(envSMTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("smtp port must be int value: %w", err)
		}
		c.SMTP.Port = port
	}
	if v := os.Getenv(envSMTPUser); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv(envSMTPPassword); v != "" {
		c.SMTP.Password = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ServicePort <= 0 {
		return fmt.Errorf("service port must be positive, got %d", c.ServicePort)
	}
	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("session secret is empty, set %s", envSessionKey)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is empty, set %s", envRedisHost)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// SetupLogger настраивает logrus: уровень из конфига, полные метки времени
func (c *Config) SetupLogger() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
