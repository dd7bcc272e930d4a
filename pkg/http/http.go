package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

/**
 * @file: http.go
 * @description: http server and auth settings
 */

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	BodyLimit       int
	TLS             TLS
	// forwarded client addresses are read only from these peers (IPs or CIDRs)
	TrustedProxies []string
	ProxyHeader    string
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Auth holds credential lifetimes and signing material.
type Auth struct {
	SecretKey     string
	Issuer        string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
	InviteExpire  time.Duration
	BcryptCost    int
}

// SetDefaults fills zero values with the service defaults.
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 30
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 30
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 30
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 * 1024 * 1024
	}
	if len(h.TrustedProxies) > 0 && h.ProxyHeader == "" {
		h.ProxyHeader = fiber.HeaderXForwardedFor
	}
}

// ApplyProxy makes c.IP() honour ProxyHeader for trusted peers only. Without
// trusted proxies the socket peer is the client address.
func (h *Http) ApplyProxy(cfg *fiber.Config) {
	if len(h.TrustedProxies) == 0 {
		return
	}
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = h.TrustedProxies
	cfg.ProxyHeader = h.ProxyHeader
	cfg.EnableIPValidation = true
}

// SetDefaults fills zero values: 15m access, 7d refresh, 24h invitation, bcrypt cost 10.
func (a *Auth) SetDefaults() {
	if a.Issuer == "" {
		a.Issuer = "identity"
	}
	if a.AccessExpire <= 0 {
		a.AccessExpire = 15 * time.Minute
	}
	if a.RefreshExpire <= 0 {
		a.RefreshExpire = 7 * 24 * time.Hour
	}
	if a.InviteExpire <= 0 {
		a.InviteExpire = 24 * time.Hour
	}
	if a.BcryptCost == 0 {
		a.BcryptCost = 10
	}
}
