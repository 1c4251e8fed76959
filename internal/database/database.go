package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps gorm.DB and includes a reference to an embedded process if active
type DB struct {
	*gorm.DB
	embedded *embeddedpostgres.EmbeddedPostgres
}

// Connect opens the central store selected by cfg.Driver
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case "", "postgres", "postgresql":
		return connectPostgres(cfg)
	case "sqlite", "sqlite3":
		return connectSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func gormConfig(cfg config.DatabaseConfig) *gorm.Config {
	return &gorm.Config{
		Logger: statementLogger(os.Stdout, cfg.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// statementLogger logs SQL with placeholders only. Pushed rows carry password
// hashes, so bound values never reach the log.
func statementLogger(out io.Writer, silent bool) logger.Interface {
	level := logger.Info
	if silent {
		level = logger.Silent
	}
	return logger.New(log.New(out, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

// connectSQLite opens a single-file store. SQLite allows one writer, so the pool
// is pinned to one connection and pushes serialize on it.
func connectSQLite(cfg config.DatabaseConfig) (*DB, error) {
	log.Printf("📦 Mode: [SQLite] - Opening %s", cfg.SQLitePath)

	dsn := cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Println("✅ Database connection established")
	return &DB{DB: db}, nil
}

// connectPostgres establishes a connection to a PostgreSQL database (external or embedded)
func connectPostgres(cfg config.DatabaseConfig) (*DB, error) {
	var embedded *embeddedpostgres.EmbeddedPostgres
	if cfg.Embedded() {
		var err error
		if embedded, cfg, err = startEmbedded(cfg); err != nil {
			return nil, err
		}
	} else {
		log.Printf("🌐 Mode: [External PostgreSQL] - Connecting to %s:%s\n", cfg.Host, cfg.Port)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database,
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(cfg))
	if err != nil {
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Each in-flight push holds one connection until commit
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Println("✅ Database connection established")
	return &DB{DB: db, embedded: embedded}, nil
}

// Close ensures the database connection and embedded process are shut down
func (db *DB) Close() error {
	if db.embedded != nil {
		log.Println("🛑 Stopping Embedded PostgreSQL process...")
		_ = db.embedded.Stop()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate triggers GORM schema synchronization
func (db *DB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}

// Migrate creates or updates every synced table plus the sync audit tables
func (db *DB) Migrate() error {
	log.Println("🔄 Running AutoMigrate...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	log.Println("✅ Schema up to date")
	return nil
}
