package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Synergy  SynergyConfig  `yaml:"synergy"`
	Cache    CacheConfig    `yaml:"cache"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool_size"`
	RefreshQueue string `yaml:"refresh_queue"`
	DLQSuffix    string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// SynergyConfig describes the upstream school information system.
// DistrictURL is the per-district base; endpoints are relative to it.
type SynergyConfig struct {
	DistrictURL        string        `yaml:"district_url"`
	AuthEndpoint       string        `yaml:"auth_endpoint"`
	GradebookEndpoint  string        `yaml:"gradebook_endpoint"`
	AttendanceEndpoint string        `yaml:"attendance_endpoint"`
	StudentEndpoint    string        `yaml:"student_endpoint"`
	TokenExpires       time.Duration `yaml:"token_expires"`
	Timeout            time.Duration `yaml:"timeout"`
	RetryAttempts      int           `yaml:"retry_attempts"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
}

type CacheConfig struct {
	// RefreshWindow is how stale a snapshot may get before a background
	// refresh is considered, provided credentials are available.
	RefreshWindow time.Duration `yaml:"refresh_window"`
	// FallbackPath is the on-disk location of the single-slot local store.
	FallbackPath string `yaml:"fallback_path"`
}

type WorkersConfig struct {
	Refresh RefreshWorkerConfig `yaml:"refresh"`
}

type RefreshWorkerConfig struct {
	Count int `yaml:"count"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.RefreshWindow == 0 {
		c.Cache.RefreshWindow = 5 * time.Minute
	}
	if c.Cache.FallbackPath == "" {
		c.Cache.FallbackPath = "gradely_fallback_cache.json"
	}
	if c.Redis.RefreshQueue == "" {
		c.Redis.RefreshQueue = "gradely:refresh"
	}
	if c.Redis.DLQSuffix == "" {
		c.Redis.DLQSuffix = ":dlq"
	}
	if c.Workers.Refresh.Count == 0 {
		c.Workers.Refresh.Count = 2
	}
	if c.Synergy.RetryAttempts == 0 {
		c.Synergy.RetryAttempts = 3
	}
	if c.Synergy.RetryDelay == 0 {
		c.Synergy.RetryDelay = 2 * time.Second
	}
	if c.Synergy.Timeout == 0 {
		c.Synergy.Timeout = 60 * time.Second
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
