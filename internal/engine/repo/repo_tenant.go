package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/database"
	"gorm.io/gorm/clause"
)

type ITenantRepository interface {
	FindById(ctx context.Context, tenantId string) (*model.Tenant, error)
	Upsert(ctx context.Context, tenant *model.Tenant) error
}

type TenantRepo struct {
	db database.IDatabase
}

func NewTenantRepo(db database.IDatabase) ITenantRepository {
	return &TenantRepo{db: db}
}

func (tr *TenantRepo) FindById(ctx context.Context, tenantId string) (*model.Tenant, error) {
	tenant := new(model.Tenant)
	err := tr.db.Database().WithContext(ctx).Where("tenant_id = ?", tenantId).First(tenant).Error
	if err != nil {
		return nil, notFound(err, "tenant")
	}
	return tenant, nil
}

// Upsert 按 tenant_id 创建或更新名称与启用状态
func (tr *TenantRepo) Upsert(ctx context.Context, tenant *model.Tenant) error {
	err := tr.db.Database().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_active", "updated_at"}),
	}).Create(tenant).Error
	return errors.Wrap(err, "upsert tenant")
}
