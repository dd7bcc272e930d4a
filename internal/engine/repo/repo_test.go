package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	gdb, err := database.NewDatabase(database.Database{
		Type: "sqlite",
		File: filepath.Join(t.TempDir(), "identity.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })

	db := database.NewGormDB(gdb)
	require.NoError(t, Migrate(db))
	return NewRepositories(db)
}

func newAccount(id, tenant, email string, role model.Role) *model.Account {
	return &model.Account{
		AccountId: id,
		TenantId:  model.TenantRef(tenant),
		Email:     email,
		Password:  "hash",
		Name:      id,
		Role:      role,
	}
}

func TestAccountRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	acc := newAccount("acc-1", "A", "p@a.com", model.RoleProfessor)
	profile := &model.AccountProfile{Fields: datatypes.JSONMap{"subject": "math"}}
	require.NoError(t, repos.Account.CreateWithProfile(ctx, acc, profile))
	assert.Equal(t, "acc-1", profile.AccountId)

	got, err := repos.Account.FindInTenant(ctx, "acc-1", "A")
	require.NoError(t, err)
	assert.Equal(t, "p@a.com", got.Email)

	_, err = repos.Account.FindInTenant(ctx, "acc-1", "B")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = repos.Account.FindById(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	exists, err := repos.Account.EmailExists(ctx, "p@a.com", "A")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repos.Account.EmailExists(ctx, "p@a.com", "B")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountRepo_DuplicateEmailInTenant(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("a1", "A", "x@a.com", model.RoleProfessor), nil))
	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("a2", "B", "x@a.com", model.RoleProfessor), nil))

	err := repos.Account.CreateWithProfile(ctx, newAccount("a3", "A", "x@a.com", model.RoleDiretor), nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAccountRepo_AdminHasNoTenant(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("admin", "", "root@x.com", model.RoleAdmin), nil))

	got, err := repos.Account.FindInTenant(ctx, "admin", "")
	require.NoError(t, err)
	assert.Nil(t, got.TenantId)

	exists, err := repos.Account.EmailExists(ctx, "root@x.com", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepo_DuplicateAdminEmail(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("admin-1", "", "root@x.com", model.RoleAdmin), nil))
	err := repos.Account.CreateWithProfile(ctx, newAccount("admin-2", "", "root@x.com", model.RoleAdmin), nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// 同一邮箱可以同时是平台 ADMIN 和某租户账号
	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("prof", "A", "root@x.com", model.RoleProfessor), nil))

	got, err := repos.Account.FindById(ctx, "prof")
	require.NoError(t, err)
	assert.Equal(t, "A", got.TenantScope)
}

func TestAccountRepo_FindActiveByEmail(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("a1", "A", "x@a.com", model.RoleProfessor), nil))
	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("a2", "B", "x@a.com", model.RoleDiretor), nil))

	all, err := repos.Account.FindActiveByEmail(ctx, "x@a.com", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].AccountId)

	onlyB, err := repos.Account.FindActiveByEmail(ctx, "x@a.com", "B")
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, "a2", onlyB[0].AccountId)

	ok, err := repos.Account.Deactivate(ctx, "a1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Account.Deactivate(ctx, "a1", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	all, err = repos.Account.FindActiveByEmail(ctx, "x@a.com", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a2", all[0].AccountId)
}

func TestAccountRepo_Update(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	require.NoError(t, repos.Account.CreateWithProfile(ctx, newAccount("a1", "A", "x@a.com", model.RoleProfessor), nil))

	require.NoError(t, repos.Account.Update(ctx, "a1", map[string]any{"name": "Maria", "role": model.RoleCoordenador}))
	got, err := repos.Account.FindById(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, model.RoleCoordenador, got.Role)
	assert.Equal(t, "hash", got.Password)
}

func TestTenantRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Tenant.Upsert(ctx, &model.Tenant{TenantId: "A", Name: "Escola A", IsActive: true}))
	require.NoError(t, repos.Tenant.Upsert(ctx, &model.Tenant{TenantId: "A", Name: "Escola A2", IsActive: false}))

	got, err := repos.Tenant.FindById(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Escola A2", got.Name)
	assert.False(t, got.IsActive)

	_, err = repos.Tenant.FindById(ctx, "Z")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func newInvitation(id, tenant string, expires time.Time) *model.Invitation {
	return &model.Invitation{
		InvitationId: id,
		TenantId:     tenant,
		Email:        id + "@a.com",
		Role:         model.RoleProfessor,
		Token:        id,
		Status:       model.InvitationPending,
		ExpiresAt:    expires,
		InvitedBy:    "d1",
	}
}

func TestInvitationRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	now := time.Now().UTC()

	require.NoError(t, repos.Invitation.Create(ctx, newInvitation("i1", "A", now.Add(time.Hour))))

	_, err := repos.Invitation.FindInTenant(ctx, "i1", "B")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	ok, err := repos.Invitation.MarkAccepted(ctx, "i1", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Invitation.MarkAccepted(ctx, "i1", now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repos.Invitation.MarkCancelled(ctx, "i1", "")
	require.NoError(t, err)
	assert.False(t, ok, "accepted invitations cannot be cancelled")

	got, err := repos.Invitation.FindById(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, model.InvitationAccepted, got.Status)
	assert.NotNil(t, got.AcceptedAt)
}

func TestInvitationRepo_CancelWithReplacement(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	now := time.Now().UTC()

	require.NoError(t, repos.Invitation.Create(ctx, newInvitation("i1", "A", now.Add(time.Hour))))
	ok, err := repos.Invitation.MarkCancelled(ctx, "i1", "i2")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.Invitation.FindById(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, model.InvitationCancelled, got.Status)
	assert.Equal(t, "i2", got.ReplacedBy)

	ok, err = repos.Invitation.MarkAccepted(ctx, "i1", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvitationRepo_ListByEffectiveStatus(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	now := time.Now().UTC()

	require.NoError(t, repos.Invitation.Create(ctx, newInvitation("live", "A", now.Add(time.Hour))))
	require.NoError(t, repos.Invitation.Create(ctx, newInvitation("old", "A", now.Add(-time.Hour))))
	require.NoError(t, repos.Invitation.Create(ctx, newInvitation("other", "B", now.Add(time.Hour))))

	list, total, err := repos.Invitation.List(ctx, &InvitationQuery{TenantId: "A", Now: now})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, _, err = repos.Invitation.List(ctx, &InvitationQuery{TenantId: "A", Status: model.InvitationPending, Now: now})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].InvitationId)

	list, _, err = repos.Invitation.List(ctx, &InvitationQuery{TenantId: "A", Status: model.InvitationExpired, Now: now})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "old", list[0].InvitationId)
}

func TestRepositories_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	boom := errors.New("boom")

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Account.CreateWithProfile(ctx, newAccount("a1", "A", "x@a.com", model.RoleProfessor), nil); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Account.FindById(ctx, "a1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
