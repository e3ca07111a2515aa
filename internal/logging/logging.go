// Package logging はアプリケーション全体で使う logrus ロガーを構築します。
package logging

import (
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"go-tasks-api/backend/internal/config"
)

// New は設定に応じたロガーを返します。
// production は JSON、それ以外はテキスト形式。test モードでは出力しません。
func New(cfg *config.Config) *log.Logger {
	logger := log.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetOutput(os.Stdout)

	switch {
	case cfg.IsProduction():
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	if cfg.IsTest() {
		logger.SetOutput(io.Discard)
	}
	return logger
}
