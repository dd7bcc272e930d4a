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
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/consts"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/tool"
	"github.com/planejaedu/identity/internal/pkg/notify"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/id"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	inviteTokenLen = 2 * tool.InviteTokenBytes
	maxResendChain = 64

	msgInviteSent     = "invitation sent"
	msgInviteAccepted = "invitation accepted"
)

// errSuperseded the durable record left pending before the key was consumed
var errSuperseded = errors.New("invitation no longer pending")

// InvitationService 邀请生命周期：邀请、重发、接受、取消
type InvitationService struct {
	cache      cache.ICache
	repos      *repo.Repositories
	sender     notify.Sender
	metrics    *metrics.IdentityMetrics
	inviteTTL  time.Duration
	bcryptCost int
	acceptURL  string
	now        func() time.Time
}

func NewInvitationService(c cache.ICache, repos *repo.Repositories, sender notify.Sender, auth http.Auth, conf notify.Conf, m *metrics.IdentityMetrics) *InvitationService {
	return &InvitationService{
		cache:      c,
		repos:      repos,
		sender:     sender,
		metrics:    m,
		inviteTTL:  auth.InviteExpire,
		bcryptCost: auth.BcryptCost,
		acceptURL:  conf.AcceptURL,
		now:        utcNow,
	}
}

func inviteKey(role model.Role, token string) string {
	return consts.NamespaceKey(consts.InviteKind(role.String()), token)
}

// cleanFields trims values and drops the empty ones.
func cleanFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toJSONMap(fields map[string]string) datatypes.JSONMap {
	if len(fields) == 0 {
		return nil
	}
	m := make(datatypes.JSONMap, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func fromJSONMap(m datatypes.JSONMap) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// checkTarget enforces the tenant and email rules shared by invite and resend.
func (s *InvitationService) checkTarget(ctx context.Context, tenantId, email string) error {
	tenant, err := s.repos.Tenant.FindById(ctx, tenantId)
	if err != nil {
		return err
	}
	if !tenant.IsActive {
		return errors.Wrap(errs.ErrInvalidState, "tenant is not active")
	}
	exists, err := s.repos.Account.EmailExists(ctx, email, tenantId)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(errs.ErrConflict, "email already registered in tenant")
	}
	return nil
}

// issue writes a fresh credential-store entry and returns the durable record
// describing it. The record is not persisted here.
func (s *InvitationService) issue(ctx context.Context, actor model.Actor, grant *model.InviteGrant) (*model.Invitation, string, error) {
	token, err := tool.RandomHex(tool.InviteTokenBytes)
	if err != nil {
		return nil, "", err
	}
	grant.InvitationId = id.GetUlid()
	grant.InvitedBy = actor.SubjectId

	key := inviteKey(grant.Role, token)
	if err := cache.SetJSON(ctx, s.cache, key, grant, s.inviteTTL); err != nil {
		return nil, "", errors.Wrap(err, "store invitation token")
	}
	return &model.Invitation{
		InvitationId: grant.InvitationId,
		TenantId:     grant.TenantId,
		Email:        grant.Email,
		Name:         grant.Name,
		Role:         grant.Role,
		Token:        token,
		Fields:       toJSONMap(grant.Fields),
		Status:       model.InvitationPending,
		ExpiresAt:    s.now().Add(s.inviteTTL),
		InvitedBy:    actor.SubjectId,
	}, key, nil
}

// dropKey deletes a credential-store key, logging failures.
func (s *InvitationService) dropKey(ctx context.Context, key string) {
	if err := s.cache.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
		log.WithContext(ctx).Errorw("failed to delete invitation token", "error", err)
	}
}

// Invite creates a pending invitation and notifies the invitee.
func (s *InvitationService) Invite(ctx context.Context, actor model.Actor, req *model.InviteReq) (*model.InviteResp, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, errors.Wrap(errs.ErrInvalidInput, "unknown role")
	}

	tenantId := model.ScopeTenant(actor, req.TenantId)
	if tenantId == "" {
		return nil, errors.Wrap(errs.ErrInvalidInput, "tenantId is required")
	}
	if req.TenantId != "" && req.TenantId != tenantId {
		return nil, errors.Wrap(errs.ErrNotFound, "tenant")
	}
	if !model.CanAssignRole(actor, role, tenantId) {
		return nil, errors.Wrapf(errs.ErrForbidden, "cannot invite %s", role)
	}

	email := model.NormalizeEmail(req.Email)
	if err := s.checkTarget(ctx, tenantId, email); err != nil {
		return nil, err
	}

	invitation, key, err := s.issue(ctx, actor, &model.InviteGrant{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		TenantId: tenantId,
		Role:     role,
		Fields:   cleanFields(req.Fields),
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Invitation.Create(ctx, invitation); err != nil {
		s.dropKey(ctx, key)
		return nil, err
	}

	s.metrics.Invitation("created")
	s.notify(ctx, invitation)
	return &model.InviteResp{
		Message:      msgInviteSent,
		InvitationId: invitation.InvitationId,
		ExpiresAt:    invitation.ExpiresAt,
	}, nil
}

// findScoped loads an invitation inside the actor's tenant; ADMIN sees all.
func (s *InvitationService) findScoped(ctx context.Context, actor model.Actor, invitationId string) (*model.Invitation, error) {
	if actor.Role == model.RoleAdmin {
		return s.repos.Invitation.FindById(ctx, invitationId)
	}
	if actor.TenantId == "" {
		return nil, errors.Wrap(errs.ErrNotFound, "invitation")
	}
	return s.repos.Invitation.FindInTenant(ctx, invitationId, actor.TenantId)
}

// Resend supersedes an invitation: the old token stops working, a new pending
// record with a new token and expiry replaces it.
func (s *InvitationService) Resend(ctx context.Context, actor model.Actor, invitationId string) (*model.InviteResp, error) {
	old, err := s.findScoped(ctx, actor, invitationId)
	if err != nil {
		return nil, err
	}
	// 已被重发替换的邀请，从链尾重发，保证同一邀请只有一个有效 token
	old, err = s.latest(ctx, old)
	if err != nil {
		return nil, err
	}
	if old.Status == model.InvitationAccepted {
		return nil, errors.Wrap(errs.ErrInvalidState, "invitation already accepted")
	}
	if !model.CanAssignRole(actor, old.Role, old.TenantId) {
		return nil, errors.Wrapf(errs.ErrForbidden, "cannot invite %s", old.Role)
	}
	if err := s.checkTarget(ctx, old.TenantId, old.Email); err != nil {
		return nil, err
	}

	invitation, key, err := s.issue(ctx, actor, &model.InviteGrant{
		Email:    old.Email,
		Name:     old.Name,
		TenantId: old.TenantId,
		Role:     old.Role,
		Fields:   fromJSONMap(old.Fields),
	})
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		ok, err := tx.Invitation.MarkCancelled(ctx, old.InvitationId, invitation.InvitationId)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrap(errs.ErrInvalidState, "invitation accepted or resent meanwhile")
		}
		return tx.Invitation.Create(ctx, invitation)
	})
	if err != nil {
		s.dropKey(ctx, key)
		return nil, err
	}
	s.dropKey(ctx, inviteKey(old.Role, old.Token))

	s.metrics.Invitation("resent")
	s.notify(ctx, invitation)
	return &model.InviteResp{
		Message:      msgInviteSent,
		InvitationId: invitation.InvitationId,
		ExpiresAt:    invitation.ExpiresAt,
	}, nil
}

// latest follows the resend chain from inv to the record that replaced it last.
func (s *InvitationService) latest(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	for hops := 0; inv.ReplacedBy != ""; hops++ {
		if hops == maxResendChain {
			return nil, errors.Wrap(errs.ErrInvalidState, "invitation resent too many times")
		}
		next, err := s.repos.Invitation.FindById(ctx, inv.ReplacedBy)
		if err != nil {
			return nil, err
		}
		inv = next
	}
	return inv, nil
}

// lookup peeks the grant behind token without consuming it.
func (s *InvitationService) lookup(ctx context.Context, token string) (*model.InviteGrant, string, error) {
	token = strings.TrimSpace(token)
	if !tool.IsHexToken(token, inviteTokenLen) {
		return nil, "", errs.ErrUnauthenticated
	}
	for _, role := range model.InvitableRoles {
		key := inviteKey(role, token)
		grant := new(model.InviteGrant)
		err := cache.GetJSON(ctx, s.cache, key, grant)
		if errors.Is(err, cache.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return nil, "", errors.Wrap(err, "read invitation token")
		}
		return grant, key, nil
	}
	return nil, "", errs.ErrUnauthenticated
}

// Accept redeems an invitation token and creates the account. The GETDEL of
// the key decides which of several concurrent callers proceeds.
func (s *InvitationService) Accept(ctx context.Context, req *model.AcceptInviteReq) (*model.AcceptInviteResp, error) {
	if err := validateStruct(req); err != nil {
		return nil, errs.ErrUnauthenticated
	}
	grant, key, err := s.lookup(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if err := tool.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	tenant, err := s.repos.Tenant.FindById(ctx, grant.TenantId)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errors.Wrap(errs.ErrInvalidState, "tenant is not available")
		}
		return nil, err
	}
	if !tenant.IsActive {
		return nil, errors.Wrap(errs.ErrInvalidState, "tenant is not active")
	}
	exists, err := s.repos.Account.EmailExists(ctx, grant.Email, grant.TenantId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrap(errs.ErrConflict, "email already registered in tenant")
	}

	hash, err := tool.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	ttl, err := cache.RemainingTTL(ctx, s.cache, key)
	if err != nil {
		return nil, errors.Wrap(err, "read invitation token ttl")
	}
	consumed := new(model.InviteGrant)
	if err := cache.GetDelJSON(ctx, s.cache, key, consumed); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, errors.Wrap(err, "consume invitation token")
	}

	account := &model.Account{
		AccountId: id.GetUUID(),
		TenantId:  model.TenantRef(consumed.TenantId),
		Email:     consumed.Email,
		Password:  hash,
		Name:      consumed.Name,
		Role:      consumed.Role,
	}
	profile := &model.AccountProfile{Fields: toJSONMap(consumed.Fields)}

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		if consumed.InvitationId != "" {
			ok, err := tx.Invitation.MarkAccepted(ctx, consumed.InvitationId, s.now())
			if err != nil {
				return err
			}
			if !ok {
				return errSuperseded
			}
		}
		return tx.Account.CreateWithProfile(ctx, account, profile)
	})
	if err != nil {
		switch {
		case errors.Is(err, errSuperseded):
			return nil, errs.ErrUnauthenticated
		case errors.Is(err, gorm.ErrDuplicatedKey):
			s.restoreGrant(ctx, key, consumed, ttl)
			return nil, errors.Wrap(errs.ErrConflict, "email already registered in tenant")
		default:
			s.restoreGrant(ctx, key, consumed, ttl)
			return nil, err
		}
	}

	s.metrics.Invitation("accepted")
	log.WithContext(ctx).Infow("invitation accepted",
		"invitation", consumed.InvitationId,
		"account", account.AccountId,
		"tenant", consumed.TenantId,
		"role", consumed.Role,
	)
	return &model.AcceptInviteResp{Message: msgInviteAccepted, Account: account.Info()}, nil
}

func (s *InvitationService) restoreGrant(ctx context.Context, key string, grant *model.InviteGrant, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := cache.SetJSON(context.WithoutCancel(ctx), s.cache, key, grant, ttl); err != nil {
		log.WithContext(ctx).Errorw("failed to restore invitation token", "invitation", grant.InvitationId, "error", err)
	}
}

// Cancel withdraws an invitation. Cancelling twice succeeds.
func (s *InvitationService) Cancel(ctx context.Context, actor model.Actor, invitationId string) error {
	invitation, err := s.findScoped(ctx, actor, invitationId)
	if err != nil {
		return err
	}
	if invitation.Status == model.InvitationAccepted {
		return errors.Wrap(errs.ErrInvalidState, "invitation already accepted")
	}
	if !model.CanAssignRole(actor, invitation.Role, invitation.TenantId) {
		return errors.Wrapf(errs.ErrForbidden, "cannot manage %s invitations", invitation.Role)
	}

	if invitation.Status != model.InvitationCancelled {
		ok, err := s.repos.Invitation.MarkCancelled(ctx, invitation.InvitationId, "")
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrap(errs.ErrInvalidState, "invitation already accepted")
		}
		s.metrics.Invitation("cancelled")
	}
	s.dropKey(ctx, inviteKey(invitation.Role, invitation.Token))
	return nil
}

// Preview describes a pending invitation without consuming it.
func (s *InvitationService) Preview(ctx context.Context, token string) (*model.InvitePreview, error) {
	grant, key, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	ttl, err := cache.RemainingTTL(ctx, s.cache, key)
	if err != nil {
		return nil, errors.Wrap(err, "read invitation token ttl")
	}
	preview := &model.InvitePreview{
		Email:     grant.Email,
		Name:      grant.Name,
		Role:      grant.Role,
		TenantId:  grant.TenantId,
		ExpiresIn: int64(ttl.Seconds()),
	}
	if tenant, err := s.repos.Tenant.FindById(ctx, grant.TenantId); err == nil {
		preview.TenantName = tenant.Name
	}
	return preview, nil
}

// ListInvitationsReq 邀请列表查询
type ListInvitationsReq struct {
	TenantId string
	Status   string
	Page     int
	PageSize int
}

// List returns the invitations of the actor's tenant; ADMIN names the tenant.
func (s *InvitationService) List(ctx context.Context, actor model.Actor, req *ListInvitationsReq) ([]*model.InvitationInfo, int64, error) {
	tenantId := model.ScopeTenant(actor, req.TenantId)
	if tenantId == "" {
		return nil, 0, errors.Wrap(errs.ErrInvalidInput, "tenantId is required")
	}
	if req.TenantId != "" && req.TenantId != tenantId {
		return nil, 0, errors.Wrap(errs.ErrNotFound, "tenant")
	}

	status := model.InvitationStatus(strings.ToLower(req.Status))
	switch status {
	case "", model.InvitationPending, model.InvitationAccepted, model.InvitationCancelled, model.InvitationExpired:
	default:
		return nil, 0, errors.Wrap(errs.ErrInvalidInput, "unknown status")
	}

	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	req.Page, req.PageSize = page, size

	now := s.now()
	rows, total, err := s.repos.Invitation.List(ctx, &repo.InvitationQuery{
		TenantId: tenantId,
		Status:   status,
		Now:      now,
		Offset:   (page - 1) * size,
		Limit:    size,
	})
	if err != nil {
		return nil, 0, err
	}
	list := make([]*model.InvitationInfo, 0, len(rows))
	for i := range rows {
		list = append(list, rows[i].Info(now))
	}
	return list, total, nil
}

// notify is best-effort: failures are logged and never reach the caller.
func (s *InvitationService) notify(ctx context.Context, invitation *model.Invitation) {
	msg := &notify.Message{
		To:   invitation.Email,
		Kind: notify.KindInvitation,
		Params: map[string]string{
			"name":       invitation.Name,
			"role":       invitation.Role.String(),
			"tenant_id":  invitation.TenantId,
			"accept_url": s.acceptLink(invitation.Token),
			"expires_at": invitation.ExpiresAt.Format(time.RFC3339),
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.Invitation("notify_failed")
		log.WithContext(ctx).Warnw("invitation notification failed",
			"invitation", invitation.InvitationId,
			"error", err,
		)
	}
}

func (s *InvitationService) acceptLink(token string) string {
	if s.acceptURL == "" {
		return token
	}
	sep := "?"
	if strings.Contains(s.acceptURL, "?") {
		sep = "&"
	}
	return s.acceptURL + sep + "token=" + url.QueryEscape(token)
}
