package service

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/http/jwt"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideSigner,
	NewTokenService,
	NewAuthService,
	NewInvitationService,
	NewAccountService,
	NewSeeder,
)

// ProvideSigner 提供 access token 签发器
func ProvideSigner(auth http.Auth) *jwt.Signer {
	return jwt.NewSigner(auth.SecretKey, auth.Issuer, auth.AccessExpire)
}
