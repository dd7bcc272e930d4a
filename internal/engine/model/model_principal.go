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

// Actor is the authenticated caller, built from verified access claims.
type Actor struct {
	SubjectId string `json:"subjectId"`
	TenantId  string `json:"tenantId,omitempty"`
	Role      Role   `json:"role"`
}

// CanManage decides whether actor may act on subject.
// Nobody manages themselves; ADMIN manages everyone else; otherwise both
// must share a tenant and the actor must outrank the subject.
func CanManage(actor, subject Actor) bool {
	if actor.SubjectId == "" || actor.SubjectId == subject.SubjectId {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}
	if !actor.Role.TenantBound() || actor.TenantId == "" || actor.TenantId != subject.TenantId {
		return false
	}
	return actor.Role.Rank() > subject.Role.Rank()
}

// CanAssignRole decides whether actor may grant role inside tenantId,
// either through an invitation or a role change.
func CanAssignRole(actor Actor, role Role, tenantId string) bool {
	if !role.Invitable() || tenantId == "" {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}
	if !actor.Role.TenantBound() || actor.TenantId != tenantId {
		return false
	}
	return actor.Role.Rank() > role.Rank()
}

// ScopeTenant resolves the tenant an operation runs against. Tenant-bound
// actors are pinned to their own tenant; ADMIN must name one.
func ScopeTenant(actor Actor, requested string) string {
	if actor.Role == RoleAdmin {
		return requested
	}
	return actor.TenantId
}
