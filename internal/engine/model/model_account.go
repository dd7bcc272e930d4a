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

package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account 账号表
// TenantId is NULL only for ADMIN. Accounts are never hard-deleted.
// TenantScope mirrors TenantId with '' for ADMIN: NULLs never collide in a
// unique index, so (email, tenant_scope) is what keeps ADMIN emails unique.
type Account struct {
	BaseModel
	AccountId     string     `gorm:"column:account_id;uniqueIndex;size:64;not null" json:"accountId"`
	TenantId      *string    `gorm:"column:tenant_id;size:64;index" json:"tenantId,omitempty"`
	TenantScope   string     `gorm:"column:tenant_scope;size:64;not null;default:'';uniqueIndex:uk_account_email_tenant,priority:2" json:"-"`
	Email         string     `gorm:"column:email;size:255;not null;uniqueIndex:uk_account_email_tenant,priority:1" json:"email"`
	Password      string     `gorm:"column:password;size:255;not null" json:"-"`
	Name          string     `gorm:"column:name;size:255" json:"name"`
	Role          Role       `gorm:"column:role;size:32;not null" json:"role"`
	DeactivatedAt *time.Time `gorm:"column:deactivated_at" json:"deactivatedAt,omitempty"`
}

func (Account) TableName() string {
	return "t_account"
}

// BeforeCreate tenant_id never changes after creation, so the scope is set once.
func (a *Account) BeforeCreate(*gorm.DB) error {
	a.TenantScope = a.Tenant()
	return nil
}

// Tenant returns the tenant id, empty for ADMIN.
func (a *Account) Tenant() string {
	if a.TenantId == nil {
		return ""
	}
	return *a.TenantId
}

func (a *Account) Active() bool {
	return a.DeactivatedAt == nil
}

// Principal is the account as seen by the authorizer.
func (a *Account) Principal() Actor {
	return Actor{SubjectId: a.AccountId, TenantId: a.Tenant(), Role: a.Role}
}

// AccountProfile carries role-specific fields captured at creation,
// e.g. subject area for a professor or the school unit for a diretor.
type AccountProfile struct {
	BaseModel
	AccountId string            `gorm:"column:account_id;uniqueIndex;size:64;not null" json:"accountId"`
	Role      Role              `gorm:"column:role;size:32;not null" json:"role"`
	Fields    datatypes.JSONMap `gorm:"column:fields" json:"fields,omitempty"`
}

func (AccountProfile) TableName() string {
	return "t_account_profile"
}

// NormalizeEmail trims and case-folds an address; uniqueness is checked on this form.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// TenantRef turns an empty tenant id into NULL.
func TenantRef(tenantId string) *string {
	if tenantId == "" {
		return nil
	}
	return &tenantId
}

// UpdateAccountReq 修改账号，nil 字段保持不变
type UpdateAccountReq struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Role  *string `json:"role" validate:"omitempty"`
}

// AccountInfo is the account view returned to callers.
type AccountInfo struct {
	AccountId     string     `json:"accountId"`
	TenantId      string     `json:"tenantId,omitempty"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          Role       `json:"role"`
	Active        bool       `json:"active"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (a *Account) Info() *AccountInfo {
	return &AccountInfo{
		AccountId:     a.AccountId,
		TenantId:      a.Tenant(),
		Email:         a.Email,
		Name:          a.Name,
		Role:          a.Role,
		Active:        a.Active(),
		DeactivatedAt: a.DeactivatedAt,
		CreatedAt:     a.CreatedAt,
	}
}
