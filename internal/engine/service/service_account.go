package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/pkg/log"
	"gorm.io/gorm"
)

// AccountService 账号管理：修改、停用
type AccountService struct {
	repos *repo.Repositories
	now   func() time.Time
}

func NewAccountService(repos *repo.Repositories) *AccountService {
	return &AccountService{repos: repos, now: utcNow}
}

// findScoped loads an account inside the actor's tenant; ADMIN sees all.
// Accounts of other tenants are reported as not found.
func (s *AccountService) findScoped(ctx context.Context, actor model.Actor, accountId string) (*model.Account, error) {
	if actor.Role == model.RoleAdmin {
		return s.repos.Account.FindById(ctx, accountId)
	}
	if actor.TenantId == "" {
		return nil, errors.Wrap(errs.ErrNotFound, "account")
	}
	return s.repos.Account.FindInTenant(ctx, accountId, actor.TenantId)
}

// UpdateAccount changes name, email or role of a subject the actor manages.
func (s *AccountService) UpdateAccount(ctx context.Context, actor model.Actor, accountId string, req *model.UpdateAccountReq) (*model.AccountInfo, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	subject, err := s.findScoped(ctx, actor, accountId)
	if err != nil {
		return nil, err
	}
	if !model.CanManage(actor, subject.Principal()) {
		return nil, errors.Wrap(errs.ErrForbidden, "cannot manage account")
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := model.NormalizeEmail(*req.Email)
		if email != subject.Email {
			exists, err := s.repos.Account.EmailExists(ctx, email, subject.Tenant())
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errors.Wrap(errs.ErrConflict, "email already registered in tenant")
			}
			fields["email"] = email
		}
	}
	if req.Role != nil {
		role, ok := model.ParseRole(*req.Role)
		if !ok {
			return nil, errors.Wrap(errs.ErrInvalidInput, "unknown role")
		}
		if role != subject.Role {
			if !model.CanAssignRole(actor, role, subject.Tenant()) {
				return nil, errors.Wrapf(errs.ErrForbidden, "cannot assign %s", role)
			}
			fields["role"] = role
		}
	}

	if len(fields) > 0 {
		if err := s.repos.Account.Update(ctx, subject.AccountId, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errors.Wrap(errs.ErrConflict, "email already registered in tenant")
			}
			return nil, err
		}
		log.WithContext(ctx).Infow("account updated",
			"account", subject.AccountId,
			"by", actor.SubjectId,
			"fields", len(fields),
		)
	}

	updated, err := s.repos.Account.FindById(ctx, subject.AccountId)
	if err != nil {
		return nil, err
	}
	return updated.Info(), nil
}

// DeactivateAccount soft-deactivates a subject the actor manages.
func (s *AccountService) DeactivateAccount(ctx context.Context, actor model.Actor, accountId string) (*model.AccountInfo, error) {
	subject, err := s.findScoped(ctx, actor, accountId)
	if err != nil {
		return nil, err
	}
	if !model.CanManage(actor, subject.Principal()) {
		return nil, errors.Wrap(errs.ErrForbidden, "cannot manage account")
	}
	if !subject.Active() {
		return nil, errors.Wrap(errs.ErrConflict, "account already deactivated")
	}

	ok, err := s.repos.Account.Deactivate(ctx, subject.AccountId, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(errs.ErrConflict, "account already deactivated")
	}
	log.WithContext(ctx).Infow("account deactivated", "account", subject.AccountId, "by", actor.SubjectId)

	updated, err := s.repos.Account.FindById(ctx, subject.AccountId)
	if err != nil {
		return nil, err
	}
	return updated.Info(), nil
}
