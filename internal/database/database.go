// Package database はデータベース接続 (gorm + MySQL) を初期化します。
package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-tasks-api/backend/internal/models"
)

// コネクションプールの設定
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// NewLogger は gorm のSQLログを logrus に流すロガーを返します。
func NewLogger(l *log.Logger) logger.Interface {
	level := logger.Warn
	switch {
	case l.IsLevelEnabled(log.DebugLevel):
		level = logger.Info
	case !l.IsLevelEnabled(log.WarnLevel):
		level = logger.Error
	}
	return logger.New(l, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Now は gorm が作成・更新日時に使う現在時刻です。
// DATETIME(3) に保存される値と一致するよう、UTC のミリ秒精度に揃えます。
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// InitDB はデータベース接続を初期化します。
// 返された *gorm.DB はプロセス全体で共有され、並行利用しても安全です。
func InitDB(dsn string, l *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  NewLogger(l),
		NowFunc: Now,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	l.Info("Successfully connected to MySQL database")
	return db, nil
}

// Migrate は tasks テーブルを作成または更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("could not migrate tasks table: %w", err)
	}
	return nil
}

// Close は基盤の接続プールを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
