package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/planejaedu/identity/internal/engine/consts"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)

	resp, err := h.auth.Login(ctx, &model.LoginReq{Email: " J@X.com ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "prof-1", resp.Account.AccountId)
	assert.Equal(t, consts.TokenType, resp.TokenType)
	assert.EqualValues(t, 900, resp.ExpiresIn)

	key := consts.NamespaceKey(consts.KindRefreshToken, resp.RefreshToken)
	assert.True(t, h.mr.Exists(key))
	assert.Equal(t, 7*24*time.Hour, h.mr.TTL(key))

	second, err := h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, second.RefreshToken)
	assert.False(t, h.mr.Exists(key))

	_, err = h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Logins.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Rotations.WithLabelValues(metrics.OutcomeRejected)))
}

func TestLogin_Rejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)
	h.account(t, "prof-2", "gone", "g@x.com", model.RoleProfessor)

	_, err := h.auth.Login(ctx, &model.LoginReq{Email: "j@x.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = h.auth.Login(ctx, &model.LoginReq{Email: "nobody@x.com", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = h.auth.Login(ctx, &model.LoginReq{Email: "g@x.com", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated, "inactive tenant")

	_, err = h.repos.Account.Deactivate(ctx, "prof-1", time.Now().UTC())
	require.NoError(t, err)
	_, err = h.auth.Login(ctx, &model.LoginReq{Email: "j@x.com", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated, "deactivated account")

	_, err = h.auth.Login(ctx, &model.LoginReq{Email: "not-an-email", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestLogin_TenantHint(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.account(t, "in-acme", "acme", "multi@x.com", model.RoleProfessor)
	h.account(t, "in-beta", "beta", "multi@x.com", model.RoleDiretor)

	resp, err := h.auth.Login(ctx, &model.LoginReq{Email: "multi@x.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "in-acme", resp.Account.AccountId)

	resp, err = h.auth.Login(ctx, &model.LoginReq{Email: "multi@x.com", Password: testPassword, TenantId: "beta"})
	require.NoError(t, err)
	assert.Equal(t, "in-beta", resp.Account.AccountId)
	assert.Equal(t, model.RoleDiretor, resp.Account.Role)
}

func TestRefresh_UsesCurrentAccountState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)

	resp, err := h.auth.Login(ctx, &model.LoginReq{Email: "j@x.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, h.repos.Account.Update(ctx, "prof-1", map[string]any{"role": model.RoleCoordenador}))
	rotated, err := h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoordenador, rotated.Account.Role)

	actor, err := h.tokens.Authenticate(ctx, rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoordenador, actor.Role)

	_, err = h.repos.Account.Deactivate(ctx, "prof-1", time.Now().UTC())
	require.NoError(t, err)
	_, err = h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestRefresh_ConcurrentSingleUse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)

	resp, err := h.auth.Login(ctx, &model.LoginReq{Email: "j@x.com", Password: testPassword})
	require.NoError(t, err)

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: resp.RefreshToken})
			if err == nil {
				atomic.AddInt32(&wins, 1)
			} else if isKind(err, errs.ErrUnauthenticated) {
				atomic.AddInt32(&losses, 1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins)
	assert.EqualValues(t, 7, losses)
}

func TestRefresh_MalformedToken(t *testing.T) {
	h := newHarness(t)
	for _, tok := range []string{"", "abc", strings.Repeat("g", 64)} {
		_, err := h.auth.Refresh(context.Background(), &model.RefreshReq{RefreshToken: tok})
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	prof := h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)
	other := h.account(t, "prof-2", "acme", "k@x.com", model.RoleProfessor)

	resp, err := h.auth.Login(ctx, &model.LoginReq{Email: "j@x.com", Password: testPassword})
	require.NoError(t, err)

	err = h.auth.Logout(ctx, other, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated, "foreign refresh token")

	require.NoError(t, h.auth.Logout(ctx, prof, &model.RefreshReq{RefreshToken: resp.RefreshToken}))

	err = h.auth.Logout(ctx, prof, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated, "absent key is not a successful logout")

	_, err = h.auth.Refresh(ctx, &model.RefreshReq{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestRevoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair, err := h.tokens.IssueTokens(ctx, model.Actor{SubjectId: "x", TenantId: "acme", Role: model.RoleProfessor})
	require.NoError(t, err)

	require.NoError(t, h.tokens.Revoke(ctx, pair.RefreshToken))
	require.NoError(t, h.tokens.Revoke(ctx, pair.RefreshToken))
}

func TestIssueTokens_MultiDevice(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := model.Actor{SubjectId: "x", TenantId: "acme", Role: model.RoleProfessor}

	a, err := h.tokens.IssueTokens(ctx, p)
	require.NoError(t, err)
	b, err := h.tokens.IssueTokens(ctx, p)
	require.NoError(t, err)

	assert.Len(t, a.RefreshToken, 64)
	assert.True(t, h.mr.Exists(consts.NamespaceKey(consts.KindRefreshToken, a.RefreshToken)))
	assert.True(t, h.mr.Exists(consts.NamespaceKey(consts.KindRefreshToken, b.RefreshToken)))
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.tokens.IssueTokens(ctx, model.Actor{SubjectId: "d1", TenantId: "acme", Role: model.RoleDiretor})
	require.NoError(t, err)
	actor, err := h.tokens.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{SubjectId: "d1", TenantId: "acme", Role: model.RoleDiretor}, *actor)

	_, err = h.tokens.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	// tenant-bound role without tenant
	pair, err = h.tokens.IssueTokens(ctx, model.Actor{SubjectId: "d1", Role: model.RoleDiretor})
	require.NoError(t, err)
	_, err = h.tokens.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	prof := h.account(t, "prof-1", "acme", "j@x.com", model.RoleProfessor)

	info, err := h.auth.Me(ctx, prof)
	require.NoError(t, err)
	assert.Equal(t, "j@x.com", info.Email)

	_, err = h.auth.Me(ctx, model.Actor{SubjectId: "prof-1", TenantId: "beta", Role: model.RoleProfessor})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = h.repos.Account.Deactivate(ctx, "prof-1", time.Now().UTC())
	require.NoError(t, err)
	_, err = h.auth.Me(ctx, prof)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
