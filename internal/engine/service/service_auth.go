package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/tool"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
)

// AuthService 登录、刷新、登出
type AuthService struct {
	repos   *repo.Repositories
	tokens  *TokenService
	metrics *metrics.IdentityMetrics
	// dummyHash keeps unknown-email logins as slow as wrong-password ones
	dummyHash string
}

func NewAuthService(repos *repo.Repositories, tokens *TokenService, auth http.Auth, m *metrics.IdentityMetrics) (*AuthService, error) {
	dummy, err := tool.HashPassword("identity-timing-guard-0", auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repos:     repos,
		tokens:    tokens,
		metrics:   m,
		dummyHash: dummy,
	}, nil
}

// Login verifies email and secret. When the email exists in several tenants
// the first account (oldest) whose secret matches wins; TenantId narrows it.
func (s *AuthService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	candidates, err := s.repos.Account.FindActiveByEmail(ctx, model.NormalizeEmail(req.Email), req.TenantId)
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		return nil, err
	}
	if len(candidates) == 0 {
		tool.VerifyPassword(req.Password, s.dummyHash)
		s.metrics.Login(metrics.OutcomeRejected)
		return nil, errs.ErrUnauthenticated
	}

	for i := range candidates {
		account := &candidates[i]
		if !tool.VerifyPassword(req.Password, account.Password) {
			continue
		}
		if err := tenantUsable(ctx, s.repos, account); err != nil {
			if errs.Kind(err) == nil {
				s.metrics.Login(metrics.OutcomeError)
				return nil, err
			}
			continue
		}

		pair, err := s.tokens.IssueTokens(ctx, account.Principal())
		if err != nil {
			s.metrics.Login(metrics.OutcomeError)
			return nil, err
		}
		s.metrics.Login(metrics.OutcomeSuccess)
		log.WithContext(ctx).Infow("login succeeded", "account", account.AccountId, "tenant", account.Tenant())
		return &model.LoginResp{TokenPair: pair, Account: account.Info()}, nil
	}

	s.metrics.Login(metrics.OutcomeRejected)
	return nil, errs.ErrUnauthenticated
}

// Refresh rotates the refresh credential.
func (s *AuthService) Refresh(ctx context.Context, req *model.RefreshReq) (*model.LoginResp, error) {
	if err := validateStruct(req); err != nil {
		return nil, errs.ErrUnauthenticated
	}
	pair, account, err := s.tokens.RotateTokens(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &model.LoginResp{TokenPair: pair, Account: account.Info()}, nil
}

// Logout revokes one refresh credential of the caller.
func (s *AuthService) Logout(ctx context.Context, actor model.Actor, req *model.RefreshReq) error {
	if err := validateStruct(req); err != nil {
		return errs.ErrUnauthenticated
	}
	return s.tokens.RevokeOwned(ctx, actor, req.RefreshToken)
}

// Me returns the caller's account within the caller's own tenant.
func (s *AuthService) Me(ctx context.Context, actor model.Actor) (*model.AccountInfo, error) {
	account, err := s.repos.Account.FindInTenant(ctx, actor.SubjectId, actor.TenantId)
	if err != nil {
		return nil, err
	}
	if !account.Active() {
		return nil, errors.Wrap(errs.ErrNotFound, "account")
	}
	return account.Info(), nil
}
