package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RentalConfig controls the volume rental policy. Duration applies to every
// rental created through the rent workflow; pricing comes from each volume.
type RentalConfig struct {
	DurationHours int `mapstructure:"duration_hours"`
}

func (r *RentalConfig) Duration() time.Duration {
	return time.Duration(r.DurationHours) * time.Hour
}

type CacheConfig struct {
	SlugCacheSize       int `mapstructure:"slug_cache_size"`
	SlugCacheTTLMinutes int `mapstructure:"slug_cache_ttl_minutes"`
	ChapterTTLMinutes   int `mapstructure:"chapter_ttl_minutes"`
}

func (c *CacheConfig) SlugTTL() time.Duration {
	return time.Duration(c.SlugCacheTTLMinutes) * time.Minute
}

func (c *CacheConfig) ChapterTTL() time.Duration {
	return time.Duration(c.ChapterTTLMinutes) * time.Minute
}

// UnlockConfig bounds the retry policy around auto-unlock batches.
type UnlockConfig struct {
	MaxAttempts       int `mapstructure:"max_attempts"`
	InitialBackoffMs  int `mapstructure:"initial_backoff_ms"`
	MaxBackoffSeconds int `mapstructure:"max_backoff_seconds"`
}
