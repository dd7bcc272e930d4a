package model

import "time"

/**
 * @file: model.go
 * @description: base model
 */

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Tables lists every table owned by this service, in migration order.
func Tables() []any {
	return []any{
		&Tenant{},
		&Account{},
		&AccountProfile{},
		&Invitation{},
	}
}
