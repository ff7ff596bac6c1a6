package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvRecord struct {
	Name      string `gorm:"primaryKey;column:name"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvRecord) TableName() string { return "kv" }

type options struct {
	gormLogger logger.Interface
}

type Option func(*options)

// WithGormLogger routes gorm's statement logging; the default is silent.
func WithGormLogger(l logger.Interface) Option {
	return func(o *options) { o.gormLogger = l }
}

// GormStore keeps keys in the same kv table as SQLiteStore, through gorm.
type GormStore struct {
	db *gorm.DB
}

func OpenGorm(dsn string, log logger.Interface) (*GormStore, error) {
	if dsn == "" {
		return nil, errors.New("storage: empty gorm dsn")
	}
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec kvRecord
	if err := s.db.WithContext(ctx).Where("name = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, []Op{{Key: key, Value: value}})
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, []Op{{Key: key, Delete: true}})
}

func (s *GormStore) Apply(ctx context.Context, ops []Op) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if op.Delete {
				if err := tx.Where("name = ?", op.Key).Delete(&kvRecord{}).Error; err != nil {
					return fmt.Errorf("delete key %s: %w", op.Key, err)
				}
				continue
			}
			rec := kvRecord{Name: op.Key, Value: string(op.Value)}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return fmt.Errorf("write key %s: %w", op.Key, err)
			}
		}
		return nil
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
