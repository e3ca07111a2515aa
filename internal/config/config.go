// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// 実行モード
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config はプロセス起動時に一度だけ読み込まれる設定です。
type Config struct {
	AppEnv       string
	Port         string
	DatabaseURL  string
	LogLevel     logrus.Level
	AllowOrigins []string
}

// IsTest はテスト実行モードかどうかを返します。
func (c *Config) IsTest() bool { return c.AppEnv == EnvTest }

// IsProduction は本番モードかどうかを返します。
func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

// Load は .env (存在すれば) と環境変数から Config を構築します。
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// .env は任意。既に設定済みの環境変数は上書きしない
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv は現在の環境変数だけから Config を構築します。
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv: getenv("APP_ENV", EnvDevelopment),
		Port:   getenv("PORT", "8080"),
	}

	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q: must be one of development, production, test", cfg.AppEnv)
	}

	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	for _, o := range strings.Split(getenv("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	dsn, err := DSN(os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn
	return cfg, nil
}

// DSN はMySQL接続文字列を正規化します。
// raw が空の場合は DB_USER, DB_PASS, DB_HOST, DB_PORT, DB_NAME から組み立てます。
// parseTime と clientFoundRows は常に有効にします (更新件数を一致行数で数えるため)。
func DSN(raw string) (string, error) {
	var cfg *mysql.Config
	if raw != "" {
		parsed, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.User = os.Getenv("DB_USER")
		cfg.Passwd = os.Getenv("DB_PASS")
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(getenv("DB_HOST", "127.0.0.1"), getenv("DB_PORT", "3306"))
		cfg.DBName = os.Getenv("DB_NAME")
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
