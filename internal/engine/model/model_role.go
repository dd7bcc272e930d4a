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

import "strings"

// Role is the fixed, ordered set of account roles.
type Role string

const (
	RoleProfessor   Role = "PROFESSOR"
	RoleCoordenador Role = "COORDENADOR"
	RoleDiretor     Role = "DIRETOR"
	RoleAdmin       Role = "ADMIN"
)

// InvitableRoles are the tenant roles, in the order invitation keys are probed.
var InvitableRoles = []Role{RoleProfessor, RoleCoordenador, RoleDiretor}

var roleRank = map[Role]int{
	RoleProfessor:   0,
	RoleCoordenador: 1,
	RoleDiretor:     2,
	RoleAdmin:       3,
}

// ParseRole accepts any letter case; unknown names report false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

// Rank orders the roles; unknown roles rank below everything.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// TenantBound reports whether accounts with this role must belong to a tenant.
func (r Role) TenantBound() bool {
	return r.Valid() && r != RoleAdmin
}

// Invitable reports whether the role can be granted through an invitation.
func (r Role) Invitable() bool {
	return r.TenantBound()
}

func (r Role) String() string {
	return string(r)
}
