package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entityRow entity_store 表行 — 每个集合一行，整集合 JSON 载荷
type entityRow struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (entityRow) TableName() string { return "entity_store" }

// gormBackend 基于 PostgreSQL 的持久化后端（entity_store KV 表）
type gormBackend struct {
	db *gorm.DB
}

// NewGormBackend 创建 PostgreSQL 后端；建表由 golang-migrate 迁移负责
func NewGormBackend(db *gorm.DB) Backend {
	return &gormBackend{db: db}
}

func (g *gormBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var row entityRow
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (g *gormBackend) Set(ctx context.Context, key, value string) error {
	row := entityRow{Key: key, Value: value, UpdatedAt: time.Now()}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

func (g *gormBackend) Remove(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("key = ?", key).Delete(&entityRow{}).Error
}

// [自证通过] internal/store/gorm_backend.go
