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

package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/database"
	"gorm.io/gorm"
)

// Repositories 统一管理所有 repository
type Repositories struct {
	db         database.IDatabase
	Account    IAccountRepository
	Tenant     ITenantRepository
	Invitation IInvitationRepository
}

// NewRepositories 初始化所有 repository
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		db:         db,
		Account:    NewAccountRepo(db),
		Tenant:     NewTenantRepo(db),
		Invitation: NewInvitationRepo(db),
	}
}

// Transaction runs fn against repositories bound to one database transaction.
// Only the tx repositories may be used inside fn.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(database.NewGormDB(tx)))
	})
}

// Migrate creates or updates every table owned by the service.
func Migrate(db database.IDatabase) error {
	return db.Database().AutoMigrate(model.Tables()...)
}

// notFound maps gorm's missing-row error onto the domain kind.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(errs.ErrNotFound, what)
	}
	return errors.Wrapf(err, "query %s", what)
}
