package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/baezlibros/storefront/pkg/config"
	"github.com/baezlibros/storefront/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type snapshot struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value"`
}

func (snapshot) TableName() string {
	return "snapshots"
}

// SQLiteKV persists snapshots in a single-table sqlite database.
type SQLiteKV struct {
	conn *gorm.DB
}

// NewSQLiteKV opens (or creates) the sqlite file and ensures the
// snapshot table exists.
func NewSQLiteKV(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*SQLiteKV, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&snapshot{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot store: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "snapshot store opened")
	}

	return &SQLiteKV{conn: conn}, nil
}

// Read returns the stored value for key and whether it exists.
func (s *SQLiteKV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var row snapshot
	err := s.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row.Value, true, nil
}

// Write replaces the stored value for key.
func (s *SQLiteKV) Write(ctx context.Context, key string, value []byte) error {
	row := snapshot{Key: key, Value: value}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&row).Error
}

// Delete removes the stored value for key, if any.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Delete(&snapshot{}, "key = ?", key).Error
}

// Close shuts down the underlying connection.
func (s *SQLiteKV) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
