package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/database"
	"gorm.io/gorm"
)

type IAccountRepository interface {
	FindActiveByEmail(ctx context.Context, email, tenantId string) ([]model.Account, error)
	FindById(ctx context.Context, accountId string) (*model.Account, error)
	FindInTenant(ctx context.Context, accountId, tenantId string) (*model.Account, error)
	EmailExists(ctx context.Context, email, tenantId string) (bool, error)
	CreateWithProfile(ctx context.Context, account *model.Account, profile *model.AccountProfile) error
	Update(ctx context.Context, accountId string, fields map[string]any) error
	Deactivate(ctx context.Context, accountId string, at time.Time) (bool, error)
}

type AccountRepo struct {
	db database.IDatabase
}

func NewAccountRepo(db database.IDatabase) IAccountRepository {
	return &AccountRepo{db: db}
}

func (ar *AccountRepo) table(ctx context.Context) *gorm.DB {
	return ar.db.Database().WithContext(ctx).Model(&model.Account{})
}

// scopeTenant 空 tenantId 表示无租户账号（ADMIN）
func scopeTenant(tx *gorm.DB, tenantId string) *gorm.DB {
	if tenantId == "" {
		return tx.Where("tenant_id IS NULL")
	}
	return tx.Where("tenant_id = ?", tenantId)
}

// FindActiveByEmail returns the non-deactivated accounts with email, oldest
// first. An empty tenantId searches every tenant.
func (ar *AccountRepo) FindActiveByEmail(ctx context.Context, email, tenantId string) ([]model.Account, error) {
	var accounts []model.Account
	tx := ar.table(ctx).Where("email = ? AND deactivated_at IS NULL", email)
	if tenantId != "" {
		tx = tx.Where("tenant_id = ?", tenantId)
	}
	if err := tx.Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, errors.Wrap(err, "query accounts by email")
	}
	return accounts, nil
}

func (ar *AccountRepo) FindById(ctx context.Context, accountId string) (*model.Account, error) {
	account := new(model.Account)
	if err := ar.table(ctx).Where("account_id = ?", accountId).First(account).Error; err != nil {
		return nil, notFound(err, "account")
	}
	return account, nil
}

func (ar *AccountRepo) FindInTenant(ctx context.Context, accountId, tenantId string) (*model.Account, error) {
	account := new(model.Account)
	tx := scopeTenant(ar.table(ctx).Where("account_id = ?", accountId), tenantId)
	if err := tx.First(account).Error; err != nil {
		return nil, notFound(err, "account")
	}
	return account, nil
}

// EmailExists counts deactivated accounts too, the address stays taken.
func (ar *AccountRepo) EmailExists(ctx context.Context, email, tenantId string) (bool, error) {
	var n int64
	tx := scopeTenant(ar.table(ctx).Where("email = ?", email), tenantId)
	if err := tx.Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "count accounts by email")
	}
	return n > 0, nil
}

func (ar *AccountRepo) CreateWithProfile(ctx context.Context, account *model.Account, profile *model.AccountProfile) error {
	return ar.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return errors.Wrap(err, "create account")
		}
		if profile == nil {
			return nil
		}
		profile.AccountId = account.AccountId
		profile.Role = account.Role
		if err := tx.Create(profile).Error; err != nil {
			return errors.Wrap(err, "create account profile")
		}
		return nil
	})
}

// Update never touches account_id, tenant_id, tenant_scope or password.
func (ar *AccountRepo) Update(ctx context.Context, accountId string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := ar.table(ctx).
		Where("account_id = ?", accountId).
		Omit("account_id", "tenant_id", "tenant_scope", "password", "created_at").
		Updates(fields).Error
	return errors.Wrap(err, "update account")
}

// Deactivate reports false when the account was already deactivated.
func (ar *AccountRepo) Deactivate(ctx context.Context, accountId string, at time.Time) (bool, error) {
	res := ar.table(ctx).
		Where("account_id = ? AND deactivated_at IS NULL", accountId).
		Update("deactivated_at", at)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "deactivate account")
	}
	return res.RowsAffected == 1, nil
}
