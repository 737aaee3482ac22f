// Package db opens the relational store behind the instrument, sync task and exchange rate repositories.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	rateadapters "portfolio_backend/internal/feature/exchangerates/adapters"
	instrumentadapters "portfolio_backend/internal/feature/instruments/adapters"
)

// 対応するドライバ
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL の接続名。設定時は Unix ソケットで接続する
	SQLitePath   string
	SSLMode      string
}

// Opener は DSN から gorm.DB を開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if driver == "" {
		driver = DriverMySQL
	}
	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "portfolio.db"
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return Config{
		Driver:       driver,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:   sqlitePath,
		SSLMode:      sslMode,
	}
}

// BuildDSN は MySQL 用の DSN を組み立てます。InstanceName が優先されます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN は PostgreSQL 用の key=value 形式 DSN を組み立てます。
func BuildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	if cfg.Port != "" && cfg.InstanceName == "" {
		dsn += " port=" + cfg.Port
	}
	return dsn
}

// dialect はドライバ名から DSN と Opener を決めます。
func dialect(cfg Config) (string, Opener, error) {
	gcfg := &gorm.Config{}
	switch cfg.Driver {
	case DriverMySQL, "":
		return BuildDSN(cfg), func(dsn string) (*gorm.DB, error) { return gorm.Open(gmysql.Open(dsn), gcfg) }, nil
	case DriverPostgres:
		return BuildPostgresDSN(cfg), func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	case DriverSQLite:
		return cfg.SQLitePath, func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(min(retryInterval, remaining))
	}
}

// OpenDB は設定に従って接続し、RUN_MIGRATIONS=true の場合はマイグレーションを実行します。
func OpenDB(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	dsn, opener, err := dialect(cfg)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(dsn, timeout, opener)
	if err != nil {
		return nil, err
	}
	// SQLite はファイル DB でも一本の接続で扱う
	if cfg.Driver == DriverSQLite {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

// Migrate はパイプラインのテーブルを作成・更新します。assets は既存テーブルに不足列のみ追加されます。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&instrumentadapters.InstrumentModel{},
		&instrumentadapters.SyncTaskModel{},
		&instrumentadapters.AssetModel{},
		&rateadapters.ExchangeRateModel{},
	)
}
