// Package orm 定义仓储层使用的最小 ORM 抽象。
//
// 仓储与查询执行器只依赖 IOrm / IModel，具体实现见 data/orm/basic。
package orm

import (
	"context"

	"sndeals/data/db"
)

// IOrm 表示 ORM 适配器入口。
type IOrm interface {
	// Model 返回指定模型的操作入口。
	Model(meta *ModelMeta) IModel
	// Begin 开启事务会话。
	Begin(ctx context.Context) (IOrmSession, error)
	// Database 返回适配器绑定的通用数据库。
	Database() db.IDatabase
}

// IOrmSession 表示事务会话。
type IOrmSession interface {
	IOrm
	Commit() error
	Rollback() error
}

// IModel 封装模型级别的基础操作。
type IModel interface {
	Meta() *ModelMeta

	First(ctx context.Context, dest any, opts ...QueryOption) error
	Find(ctx context.Context, dest any, opts ...QueryOption) error
	Count(ctx context.Context, opts ...QueryOption) (int64, error)

	// Create 插入单条记录；实体带自增主键时回填生成的主键。
	Create(ctx context.Context, entity any) error
	// Save 按 QueryOptions 的条件整行更新（主键列除外），不带条件时报错。
	Save(ctx context.Context, entity any, opts ...QueryOption) (int64, error)
	// Delete 返回受影响行数，不带条件时报错
	Delete(ctx context.Context, opts ...QueryOption) (int64, error)
}
