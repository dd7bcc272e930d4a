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

package guard

import (
	"fmt"
	"slices"

	"github.com/planejaedu/identity/internal/engine/model"
)

// Operation names.
const (
	OpLogin             = "auth.login"
	OpRefresh           = "auth.refresh"
	OpLogout            = "auth.logout"
	OpMe                = "auth.me"
	OpInvite            = "invite.create"
	OpListInvites       = "invite.list"
	OpAcceptInvite      = "invite.accept"
	OpPreviewInvite     = "invite.preview"
	OpResendInvite      = "invite.resend"
	OpCancelInvite      = "invite.cancel"
	OpUpdateAccount     = "account.update"
	OpDeactivateAccount = "account.deactivate"
)

// Descriptor declares who may call an operation. A non-public descriptor
// with no AllowedRoles admits any authenticated caller.
type Descriptor struct {
	Name         string
	Public       bool
	AllowedRoles []model.Role
}

// Allows reports whether role passes the role check of d.
func (d Descriptor) Allows(role model.Role) bool {
	if len(d.AllowedRoles) == 0 {
		return role.Valid()
	}
	return slices.Contains(d.AllowedRoles, role)
}

// Registry holds the descriptor of every exposed operation.
type Registry struct {
	ops map[string]Descriptor
}

// NewRegistry panics on duplicate names, registration happens once at startup.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{ops: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if _, dup := r.ops[d.Name]; dup {
			panic(fmt.Sprintf("guard: operation %q registered twice", d.Name))
		}
		r.ops[d.Name] = d
	}
	return r
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.ops[name]
	return d, ok
}

var managers = []model.Role{model.RoleAdmin, model.RoleDiretor, model.RoleCoordenador}

// DefaultRegistry describes the operations served by the identity API.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{Name: OpLogin, Public: true},
		Descriptor{Name: OpRefresh, Public: true},
		Descriptor{Name: OpAcceptInvite, Public: true},
		Descriptor{Name: OpPreviewInvite, Public: true},
		Descriptor{Name: OpLogout},
		Descriptor{Name: OpMe},
		Descriptor{Name: OpInvite, AllowedRoles: managers},
		Descriptor{Name: OpListInvites, AllowedRoles: managers},
		Descriptor{Name: OpResendInvite, AllowedRoles: managers},
		Descriptor{Name: OpCancelInvite, AllowedRoles: managers},
		Descriptor{Name: OpUpdateAccount, AllowedRoles: managers},
		Descriptor{Name: OpDeactivateAccount, AllowedRoles: managers},
	)
}
