package recordstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot MySQL 中的 slot 行，一行保存一个集合的 JSON 文本
type Slot struct {
	Key       string    `gorm:"primaryKey;size:191;column:slot_key"`
	Value     string    `gorm:"type:longtext" json:"-"`
	UpdatedAt time.Time
}

func (Slot) TableName() string {
	return "slots"
}

// MySQLBackend 以单表键值对保存 slot 内容
type MySQLBackend struct {
	db *gorm.DB
}

func NewMySQLBackend(db *gorm.DB) *MySQLBackend {
	return &MySQLBackend{db: db}
}

func (b *MySQLBackend) Get(ctx context.Context, slot string) ([]byte, error) {
	var row Slot
	err := b.db.WithContext(ctx).First(&row, "slot_key = ?", slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSlot
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Value), nil
}

func (b *MySQLBackend) Set(ctx context.Context, slot string, data []byte) error {
	row := Slot{Key: slot, Value: string(data), UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

func (b *MySQLBackend) Delete(ctx context.Context, slot string) error {
	return b.db.WithContext(ctx).Delete(&Slot{}, "slot_key = ?", slot).Error
}
