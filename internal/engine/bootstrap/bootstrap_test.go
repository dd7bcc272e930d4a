package bootstrap

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/planejaedu/identity/internal/engine/config"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openRepos(t *testing.T) (*gorm.DB, *repo.Repositories) {
	t.Helper()
	gdb, err := database.NewDatabase(database.Database{
		Type: "sqlite",
		File: filepath.Join(t.TempDir(), "identity.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })
	db := database.NewGormDB(gdb)
	require.NoError(t, repo.Migrate(db))
	return gdb, repo.NewRepositories(db)
}

func seedConf() service.SeedConf {
	return service.SeedConf{
		AdminEmail:    "root@example.com",
		AdminPassword: "Adm1nPassword",
		Tenants:       []service.SeedTenant{{Id: "acme", Name: "Acme", Active: true}},
	}
}

func TestBootstrap_Seeds(t *testing.T) {
	_, repos := openRepos(t)
	seeder := service.NewSeeder(repos, seedConf(), http.Auth{BcryptCost: bcrypt.MinCost})

	cleaned := 0
	app, cleanup, err := Bootstrap("unused.toml", func(string) (*App, func(), error) {
		return &App{Seeder: seeder}, func() { cleaned++ }, nil
	})
	require.NoError(t, err)
	require.NotNil(t, app)

	ctx := context.Background()
	tenant, err := repos.Tenant.FindById(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, tenant.IsActive)
	admins, err := repos.Account.FindActiveByEmail(ctx, "root@example.com", "")
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	cleanup()
	assert.Equal(t, 1, cleaned)
}

func TestBootstrap_InitError(t *testing.T) {
	boom := errors.New("redis unreachable")
	_, _, err := Bootstrap("unused.toml", func(string) (*App, func(), error) {
		return nil, nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestBootstrap_SeedFailureCleansUp(t *testing.T) {
	gdb, repos := openRepos(t)
	require.NoError(t, database.Close(gdb))
	seeder := service.NewSeeder(repos, seedConf(), http.Auth{BcryptCost: bcrypt.MinCost})

	cleaned := false
	_, _, err := Bootstrap("unused.toml", func(string) (*App, func(), error) {
		return &App{Seeder: seeder}, func() { cleaned = true }, nil
	})
	assert.Error(t, err)
	assert.True(t, cleaned)
}

func TestApp_StartDisabledComponents(t *testing.T) {
	app := &App{AppConf: &config.AppConfig{}}
	assert.NoError(t, app.Start())
	assert.Nil(t, app.debug)
	assert.NoError(t, app.Stop(context.Background()))
}

func TestApp_DebugListener(t *testing.T) {
	tests := []struct {
		name      string
		pprof     bool
		pprofCode int
	}{
		{"metrics only", false, nethttp.StatusNotFound},
		{"with pprof", true, nethttp.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &App{
				Metrics: metrics.New(),
				AppConf: &config.AppConfig{Debug: config.DebugConf{
					Enable: true, Host: "127.0.0.1", Port: 0, Pprof: tt.pprof,
				}},
			}
			require.NoError(t, app.Start())
			require.NotNil(t, app.debug)

			get := func(path string) int {
				resp, err := nethttp.Get("http://" + app.debug.addr + path)
				require.NoError(t, err)
				defer resp.Body.Close()
				return resp.StatusCode
			}
			assert.Equal(t, nethttp.StatusOK, get("/metrics"))
			assert.Equal(t, tt.pprofCode, get("/debug/pprof/"))

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			assert.NoError(t, app.Stop(ctx))
		})
	}
}

func TestApp_DebugPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	app := &App{
		Metrics: metrics.New(),
		AppConf: &config.AppConfig{Debug: config.DebugConf{Enable: true, Host: "127.0.0.1", Port: port}},
	}
	assert.Error(t, app.Start())
}
