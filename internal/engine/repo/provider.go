package repo

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/pkg/database"
)

// ProviderSet 提供仓储层相关的依赖
var ProviderSet = wire.NewSet(ProvideRepositories)

// ProvideRepositories 提供仓储实例，按配置执行表结构迁移
func ProvideRepositories(db database.IDatabase, conf database.Database) (*Repositories, error) {
	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return NewRepositories(db), nil
}
