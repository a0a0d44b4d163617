package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Restaurant RestaurantConfig
	Worker     WorkerConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RestaurantConfig は店舗の営業設定
// 営業時間・定休日・タイムゾーンは予約ルールの判定に使われる
type RestaurantConfig struct {
	Timezone      string
	OpenTime      string // HH:MM 形式（最初に予約を受け付ける時刻）
	LastSeating   string // HH:MM 形式（最終の予約受付時刻）
	ClosedWeekday string // 定休日（英語の曜日名）
	CacheTTL      time.Duration
}

// WorkerConfig はバックグラウンドワーカー設定
type WorkerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "restaurant_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Restaurant: RestaurantConfig{
			Timezone:      getEnv("RESTAURANT_TZ", "UTC"),
			OpenTime:      getEnv("RESTAURANT_OPEN", "10:30"),
			LastSeating:   getEnv("RESTAURANT_LAST_SEATING", "21:30"),
			ClosedWeekday: getEnv("RESTAURANT_CLOSED_WEEKDAY", "Tuesday"),
			CacheTTL:      getDurationEnv("RESERVATION_CACHE_TTL", 30*time.Second),
		},
		Worker: WorkerConfig{
			Enabled:  getBoolEnv("WORKER_ENABLED", true),
			Interval: getDurationEnv("WORKER_INTERVAL", 10*time.Minute),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
