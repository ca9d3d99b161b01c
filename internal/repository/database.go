package repository

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/ymurata/peoplewiki/internal/config"
	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// Database manages the gorm connection.
type Database struct {
	DB  *gorm.DB
	log *logger.Logger
}

// New opens the backing store. A DATABASE_URL selects postgres; without
// one the server runs on a local sqlite file so development needs no
// infrastructure.
func New(cfg *config.Config, baseLog *logger.Logger) (*Database, error) {
	dbLog := baseLog.With("component", "database")

	logLevel := gormLogger.Warn
	if cfg.Debug {
		logLevel = gormLogger.Info
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLog}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	} else {
		dbLog.Info("no DATABASE_URL set, using sqlite", "path", cfg.SQLitePath)
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get SQL DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	d := &Database{DB: db, log: dbLog}
	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	dbLog.Info("database connection established")
	return d, nil
}

func (d *Database) migrate() error {
	return d.DB.AutoMigrate(
		&models.Person{},
		&models.Event{},
		&models.FamilyMember{},
	)
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the backing store.
func (d *Database) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
