package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 存储后端
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// 变更事件后端
const (
	EventsNone  = "none"
	EventsRedis = "redis"
	EventsMQTT  = "mqtt"
)

// Config smarthealth-state 配置
// 优先级：环境变量 > CONFIG_FILE(YAML) > 默认值
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	SQLite   struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Events EventsConfig `yaml:"events"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// StoreConfig 持久化槽位配置
type StoreConfig struct {
	Backend   string `yaml:"backend"`    // memory | redis | postgres | sqlite
	KeyPrefix string `yaml:"key_prefix"` // 多实例共用一个后端时区分槽位
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig PostgreSQL 配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MaxIdle  int    `yaml:"max_idle"`
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// EventsConfig 变更事件配置
type EventsConfig struct {
	Backend string `yaml:"backend"` // none | redis | mqtt
	Stream  string `yaml:"stream"`  // Redis Streams 名称
	MQTT    struct {
		Broker   string `yaml:"broker"`
		ClientID string `yaml:"client_id"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topic    string `yaml:"topic"`
		QoS      byte   `yaml:"qos"`
	} `yaml:"mqtt"`
}

// Default 默认配置（本地开发：内存槽位，无事件）
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"

	cfg.Store.Backend = BackendMemory
	cfg.Store.KeyPrefix = ""

	cfg.Redis.Addr = "localhost:6379"

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "smarthealth"
	cfg.Database.SSLMode = "disable"

	cfg.SQLite.Path = "smarthealth.db"

	cfg.Events.Backend = EventsNone
	cfg.Events.Stream = "smarthealth:userdata:events"
	cfg.Events.MQTT.Broker = "tcp://localhost:1883"
	cfg.Events.MQTT.ClientID = "smarthealth-state"
	cfg.Events.MQTT.Topic = "smarthealth/userdata/events"

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load 加载配置
func Load() (*Config, error) {
	// .env 可选；ENV_FILE 可指定路径
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", cfg.Store.Backend))
	cfg.Store.KeyPrefix = getEnv("STORE_KEY_PREFIX", cfg.Store.KeyPrefix)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", ""), cfg.Redis.DB)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = parseInt(getEnv("DB_PORT", ""), cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.SQLite.Path = getEnv("SQLITE_PATH", cfg.SQLite.Path)

	cfg.Events.Backend = strings.ToLower(getEnv("EVENTS_BACKEND", cfg.Events.Backend))
	cfg.Events.Stream = getEnv("EVENTS_STREAM", cfg.Events.Stream)
	cfg.Events.MQTT.Broker = getEnv("MQTT_BROKER", cfg.Events.MQTT.Broker)
	cfg.Events.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.Events.MQTT.ClientID)
	cfg.Events.MQTT.Username = getEnv("MQTT_USERNAME", cfg.Events.MQTT.Username)
	cfg.Events.MQTT.Password = getEnv("MQTT_PASSWORD", cfg.Events.MQTT.Password)
	cfg.Events.MQTT.Topic = getEnv("EVENTS_MQTT_TOPIC", cfg.Events.MQTT.Topic)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查枚举类配置
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Events.Backend {
	case EventsNone, EventsRedis, EventsMQTT:
	default:
		return fmt.Errorf("unsupported EVENTS_BACKEND %q", c.Events.Backend)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
