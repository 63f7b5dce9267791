package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopwidget/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRow struct {
	CartKey   string `gorm:"column:cart_key;primaryKey"`
	Payload   string `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (cartRow) TableName() string {
	return "widget_carts"
}

func NewGorm(db *gorm.DB, ttl time.Duration) *Gorm {
	return &Gorm{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

type Gorm struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func (g *Gorm) Load(ctx context.Context, key string) ([]models.CartItem, error) {
	var row cartRow
	err := g.db.WithContext(ctx).First(&row, "cart_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items, ok, err := decodeEnvelope([]byte(row.Payload), g.now(), g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		if errDel := g.db.WithContext(ctx).Delete(&cartRow{}, "cart_key = ?", key).Error; errDel != nil {
			return nil, fmt.Errorf("failed to delete expired cart: %w", errDel)
		}
		return nil, nil
	}

	return items, nil
}

func (g *Gorm) Save(ctx context.Context, key string, items []models.CartItem) error {
	payload, err := encodeEnvelope(items, g.now())
	if err != nil {
		return err
	}

	row := cartRow{
		CartKey:   key,
		Payload:   string(payload),
		UpdatedAt: g.now(),
	}

	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (g *Gorm) Clear(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Delete(&cartRow{}, "cart_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
