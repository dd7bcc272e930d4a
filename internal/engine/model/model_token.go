package model

import "time"

// RefreshGrant is the value stored under refresh_token:<id>.
type RefreshGrant struct {
	SubjectId string `json:"subjectId"`
	TenantId  string `json:"tenantId,omitempty"`
	Role      Role   `json:"role"`
}

// InviteGrant is the value stored under invite_<role>:<token>.
type InviteGrant struct {
	InvitationId string            `json:"invitationId"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	TenantId     string            `json:"tenantId"`
	Role         Role              `json:"role"`
	Fields       map[string]string `json:"fields,omitempty"`
	InvitedBy    string            `json:"invitedBy,omitempty"`
}

// TokenPair 登录/刷新返回
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
	TenantId string `json:"tenantId" validate:"omitempty,max=64"`
}

// RefreshReq 刷新 / 登出请求
type RefreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResp carries the tokens and the signed-in account.
type LoginResp struct {
	*TokenPair
	Account *AccountInfo `json:"account"`
}
