package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/tool"
	"github.com/planejaedu/identity/internal/pkg/notify"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ngPass1"

type fakeSender struct {
	mu   sync.Mutex
	sent []*notify.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg *notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type harness struct {
	mr       *miniredis.Miniredis
	cache    cache.ICache
	repos    *repo.Repositories
	metrics  *metrics.IdentityMetrics
	sender   *fakeSender
	tokens   *TokenService
	auth     *AuthService
	invites  *InvitationService
	accounts *AccountService
}

func testAuthConf() http.Auth {
	return http.Auth{
		SecretKey:     "0123456789abcdef0123456789abcdef",
		Issuer:        "identity",
		AccessExpire:  15 * time.Minute,
		RefreshExpire: 7 * 24 * time.Hour,
		InviteExpire:  24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gdb, err := database.NewDatabase(database.Database{
		Type: "sqlite",
		File: filepath.Join(t.TempDir(), "identity.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })
	db := database.NewGormDB(gdb)
	require.NoError(t, repo.Migrate(db))

	h := &harness{
		mr:      mr,
		cache:   cache.NewRedisCache(client),
		repos:   repo.NewRepositories(db),
		metrics: metrics.NewIdentityMetrics(prometheus.NewRegistry()),
		sender:  &fakeSender{},
	}
	auth := testAuthConf()
	h.tokens = NewTokenService(h.cache, h.repos, ProvideSigner(auth), auth, h.metrics)
	h.auth, err = NewAuthService(h.repos, h.tokens, auth, h.metrics)
	require.NoError(t, err)
	h.invites = NewInvitationService(h.cache, h.repos, h.sender, auth, notify.Conf{}, h.metrics)
	h.accounts = NewAccountService(h.repos)

	ctx := context.Background()
	for _, tn := range []*model.Tenant{
		{TenantId: "acme", Name: "Acme", IsActive: true},
		{TenantId: "beta", Name: "Beta", IsActive: true},
		{TenantId: "gone", Name: "Gone", IsActive: false},
	} {
		require.NoError(t, h.repos.Tenant.Upsert(ctx, tn))
	}
	return h
}

// account inserts an active account and returns its principal.
func (h *harness) account(t *testing.T, accountId, tenant, email string, role model.Role) model.Actor {
	t.Helper()
	hash, err := tool.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	acc := &model.Account{
		AccountId: accountId,
		TenantId:  model.TenantRef(tenant),
		Email:     email,
		Password:  hash,
		Name:      accountId,
		Role:      role,
	}
	require.NoError(t, h.repos.Account.CreateWithProfile(context.Background(), acc, nil))
	return acc.Principal()
}

// inviteToken returns the live token of an invitation record.
func (h *harness) inviteToken(t *testing.T, invitationId string) string {
	t.Helper()
	inv, err := h.repos.Invitation.FindById(context.Background(), invitationId)
	require.NoError(t, err)
	return inv.Token
}

func isKind(err, kind error) bool {
	return errors.Is(err, kind)
}

func getJSON(h *harness, key string, v any) error {
	return cache.GetJSON(context.Background(), h.cache, key, v)
}
