// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/consts"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/tool"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/http/jwt"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
)

// refreshTokenLen refresh credential length in hex chars
const refreshTokenLen = 2 * tool.InviteTokenBytes

// TokenService issues, rotates and revokes credentials.
type TokenService struct {
	cache      cache.ICache
	repos      *repo.Repositories
	signer     *jwt.Signer
	refreshTTL time.Duration
	metrics    *metrics.IdentityMetrics
}

func NewTokenService(c cache.ICache, repos *repo.Repositories, signer *jwt.Signer, auth http.Auth, m *metrics.IdentityMetrics) *TokenService {
	return &TokenService{
		cache:      c,
		repos:      repos,
		signer:     signer,
		refreshTTL: auth.RefreshExpire,
		metrics:    m,
	}
}

func refreshKey(id string) string {
	return consts.NamespaceKey(consts.KindRefreshToken, id)
}

// IssueTokens mints an access token and a new refresh credential for p.
// Existing refresh credentials of the same subject stay valid.
func (s *TokenService) IssueTokens(ctx context.Context, p model.Actor) (*model.TokenPair, error) {
	access, expireAt, err := s.signer.GenToken(p.SubjectId, p.TenantId, p.Role.String())
	if err != nil {
		return nil, err
	}
	refreshId, err := tool.RandomHex(tool.InviteTokenBytes)
	if err != nil {
		return nil, err
	}
	grant := &model.RefreshGrant{SubjectId: p.SubjectId, TenantId: p.TenantId, Role: p.Role}
	if err := cache.SetJSON(ctx, s.cache, refreshKey(refreshId), grant, s.refreshTTL); err != nil {
		return nil, errors.Wrap(err, "store refresh token")
	}
	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshId,
		TokenType:    consts.TokenType,
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
		ExpiresAt:    expireAt,
	}, nil
}

// RotateTokens consumes refresh and issues a new pair from the current
// account state. A refresh credential succeeds at most once.
func (s *TokenService) RotateTokens(ctx context.Context, refresh string) (*model.TokenPair, *model.Account, error) {
	if !tool.IsHexToken(refresh, refreshTokenLen) {
		s.metrics.Rotation(metrics.OutcomeRejected)
		return nil, nil, errs.ErrUnauthenticated
	}
	key := refreshKey(refresh)

	ttl, err := cache.RemainingTTL(ctx, s.cache, key)
	if err != nil {
		s.metrics.Rotation(metrics.OutcomeError)
		return nil, nil, errors.Wrap(err, "read refresh token ttl")
	}

	grant := new(model.RefreshGrant)
	if err := cache.GetDelJSON(ctx, s.cache, key, grant); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.Rotation(metrics.OutcomeRejected)
			return nil, nil, errs.ErrUnauthenticated
		}
		s.metrics.Rotation(metrics.OutcomeError)
		return nil, nil, errors.Wrap(err, "consume refresh token")
	}

	account, err := s.currentAccount(ctx, grant)
	if err != nil {
		if errs.Kind(err) == nil {
			s.restore(ctx, key, grant, ttl)
			s.metrics.Rotation(metrics.OutcomeError)
		} else {
			s.metrics.Rotation(metrics.OutcomeRejected)
		}
		return nil, nil, err
	}

	pair, err := s.IssueTokens(ctx, account.Principal())
	if err != nil {
		s.restore(ctx, key, grant, ttl)
		s.metrics.Rotation(metrics.OutcomeError)
		return nil, nil, err
	}
	s.metrics.Rotation(metrics.OutcomeSuccess)
	return pair, account, nil
}

// currentAccount re-reads the subject scoped by the tenant stored in the grant.
func (s *TokenService) currentAccount(ctx context.Context, grant *model.RefreshGrant) (*model.Account, error) {
	account, err := s.repos.Account.FindInTenant(ctx, grant.SubjectId, grant.TenantId)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, err
	}
	if !account.Active() {
		return nil, errs.ErrUnauthenticated
	}
	if err := tenantUsable(ctx, s.repos, account); err != nil {
		return nil, err
	}
	return account, nil
}

// restore puts a consumed grant back when the rotation could not complete.
func (s *TokenService) restore(ctx context.Context, key string, grant *model.RefreshGrant, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := cache.SetJSON(context.WithoutCancel(ctx), s.cache, key, grant, ttl); err != nil {
		log.WithContext(ctx).Errorw("failed to restore refresh token", "subject", grant.SubjectId, "error", err)
	}
}

// Revoke deletes refresh unconditionally; an absent key is not an error.
func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	return errors.Wrap(s.cache.Del(ctx, refreshKey(refresh)).Err(), "revoke refresh token")
}

// RevokeOwned is the logout entry point: the credential must exist and belong
// to actor, and the delete must actually remove it.
func (s *TokenService) RevokeOwned(ctx context.Context, actor model.Actor, refresh string) error {
	if !tool.IsHexToken(refresh, refreshTokenLen) {
		return errs.ErrUnauthenticated
	}
	key := refreshKey(refresh)

	grant := new(model.RefreshGrant)
	if err := cache.GetJSON(ctx, s.cache, key, grant); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return errs.ErrUnauthenticated
		}
		return errors.Wrap(err, "read refresh token")
	}
	if grant.SubjectId != actor.SubjectId {
		return errs.ErrUnauthenticated
	}

	n, err := s.cache.Del(ctx, key).Result()
	if err != nil {
		return errors.Wrap(err, "revoke refresh token")
	}
	if n == 0 {
		return errs.ErrUnauthenticated
	}
	return nil
}

// Authenticate verifies an access token and returns the caller it names.
func (s *TokenService) Authenticate(_ context.Context, token string) (*model.Actor, error) {
	claims, err := s.signer.ParseToken(token)
	if err != nil {
		return nil, errors.Wrap(errs.ErrUnauthenticated, err.Error())
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	actor := &model.Actor{SubjectId: claims.Subject, Role: role}
	if role.TenantBound() {
		if claims.TenantId == "" {
			return nil, errs.ErrUnauthenticated
		}
		actor.TenantId = claims.TenantId
	}
	return actor, nil
}

// tenantUsable rejects tenant-bound accounts whose tenant is gone or inactive.
func tenantUsable(ctx context.Context, repos *repo.Repositories, account *model.Account) error {
	if !account.Role.TenantBound() {
		return nil
	}
	tenant, err := repos.Tenant.FindById(ctx, account.Tenant())
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrUnauthenticated
		}
		return err
	}
	if !tenant.IsActive {
		return errs.ErrUnauthenticated
	}
	return nil
}
