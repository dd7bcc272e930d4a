package model

import (
	"time"

	"gorm.io/datatypes"
)

// InvitationStatus is the durable lifecycle state of an invitation record.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// Invitation 邀请记录
// The redeemable credential lives in the KV store; this row is the audit trail.
type Invitation struct {
	BaseModel
	InvitationId string            `gorm:"column:invitation_id;uniqueIndex;size:64;not null" json:"invitationId"`
	TenantId     string            `gorm:"column:tenant_id;size:64;not null;index:idx_invitation_tenant_status,priority:1" json:"tenantId"`
	Email        string            `gorm:"column:email;size:255;not null" json:"email"`
	Name         string            `gorm:"column:name;size:255" json:"name"`
	Role         Role              `gorm:"column:role;size:32;not null" json:"role"`
	Token        string            `gorm:"column:token;size:64;not null" json:"-"`
	Fields       datatypes.JSONMap `gorm:"column:fields" json:"fields,omitempty"`
	Status       InvitationStatus  `gorm:"column:status;size:16;not null;index:idx_invitation_tenant_status,priority:2" json:"status"`
	ExpiresAt    time.Time         `gorm:"column:expires_at;not null" json:"expiresAt"`
	InvitedBy    string            `gorm:"column:invited_by;size:64" json:"invitedBy"`
	ReplacedBy   string            `gorm:"column:replaced_by;size:64" json:"replacedBy,omitempty"`
	AcceptedAt   *time.Time        `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

// EffectiveStatus reports a pending record past its expiry as expired.
func (i *Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && !now.Before(i.ExpiresAt) {
		return InvitationExpired
	}
	return i.Status
}

// InviteReq 邀请请求
type InviteReq struct {
	Email    string            `json:"email" validate:"required,email,max=255"`
	Name     string            `json:"name" validate:"required,min=1,max=255"`
	Role     string            `json:"role" validate:"required"`
	TenantId string            `json:"tenantId" validate:"omitempty,max=64"`
	Fields   map[string]string `json:"fields" validate:"omitempty,max=32,dive,keys,min=1,max=64,endkeys,max=1024"`
}

// AcceptInviteReq 接受邀请
type AcceptInviteReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// InvitationInfo is the record view returned to callers; never carries the token.
type InvitationInfo struct {
	InvitationId string           `json:"invitationId"`
	TenantId     string           `json:"tenantId"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Role         Role             `json:"role"`
	Status       InvitationStatus `json:"status"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	InvitedBy    string           `json:"invitedBy"`
	ReplacedBy   string           `json:"replacedBy,omitempty"`
	AcceptedAt   *time.Time       `json:"acceptedAt,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func (i *Invitation) Info(now time.Time) *InvitationInfo {
	return &InvitationInfo{
		InvitationId: i.InvitationId,
		TenantId:     i.TenantId,
		Email:        i.Email,
		Name:         i.Name,
		Role:         i.Role,
		Status:       i.EffectiveStatus(now),
		ExpiresAt:    i.ExpiresAt,
		InvitedBy:    i.InvitedBy,
		ReplacedBy:   i.ReplacedBy,
		AcceptedAt:   i.AcceptedAt,
		CreatedAt:    i.CreatedAt,
	}
}

// InvitePreview is what an invitee sees before accepting.
type InvitePreview struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	TenantId   string `json:"tenantId"`
	TenantName string `json:"tenantName,omitempty"`
	ExpiresIn  int64  `json:"expiresIn"`
}

// InviteResp 邀请/重发结果
type InviteResp struct {
	Message      string    `json:"message"`
	InvitationId string    `json:"invitationId"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AcceptInviteResp 接受邀请结果，不自动登录
type AcceptInviteResp struct {
	Message string       `json:"message"`
	Account *AccountInfo `json:"account"`
}
