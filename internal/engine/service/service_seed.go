package service

import (
	"context"

	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/tool"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/id"
	"github.com/planejaedu/identity/pkg/log"
)

// SeedTenant 启动时写入的租户
type SeedTenant struct {
	Id     string
	Name   string
	Active bool
}

// SeedConf 初始化数据：平台管理员与租户
type SeedConf struct {
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminPassword string `mapstructure:"adminPassword"`
	AdminName     string `mapstructure:"adminName"`
	Tenants       []SeedTenant
}

// Seeder creates the platform ADMIN and configured tenants.
type Seeder struct {
	repos *repo.Repositories
	conf  SeedConf
	cost  int
}

func NewSeeder(repos *repo.Repositories, conf SeedConf, auth http.Auth) *Seeder {
	return &Seeder{repos: repos, conf: conf, cost: auth.BcryptCost}
}

// Seed is idempotent: tenants are upserted, the ADMIN is created only once.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, t := range s.conf.Tenants {
		if t.Id == "" {
			continue
		}
		if err := s.repos.Tenant.Upsert(ctx, &model.Tenant{TenantId: t.Id, Name: t.Name, IsActive: t.Active}); err != nil {
			return err
		}
	}

	email := model.NormalizeEmail(s.conf.AdminEmail)
	if email == "" {
		return nil
	}
	exists, err := s.repos.Account.EmailExists(ctx, email, "")
	if err != nil || exists {
		return err
	}
	if err := tool.ValidatePasswordStrength(s.conf.AdminPassword); err != nil {
		return err
	}
	hash, err := tool.HashPassword(s.conf.AdminPassword, s.cost)
	if err != nil {
		return err
	}
	admin := &model.Account{
		AccountId: id.GetUUID(),
		Email:     email,
		Password:  hash,
		Name:      s.conf.AdminName,
		Role:      model.RoleAdmin,
	}
	if err := s.repos.Account.CreateWithProfile(ctx, admin, nil); err != nil {
		return err
	}
	log.Infow("platform admin created", "account", admin.AccountId, "email", email)
	return nil
}
