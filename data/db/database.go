// Package db 提供通用的数据库抽象接口。
//
// 查询编译器与仓储只依赖这里的接口，具体驱动（sqlite / pgx）由 basic 包在
// database/sql 之上实现，测试中也可以直接替换为 sqlmock。
package db

import (
	"context"
	"database/sql"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	Begin(ctx context.Context) (ITransaction, error)

	Ping(ctx context.Context) error
	Close() error

	// Raw 返回底层连接（*sql.DB / *sql.Tx），用于迁移等特殊场景
	Raw() any
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称
//
// 实现方应返回诸如 "sqlite"、"postgres"、"pgx" 等 driver/dialect 名，
// 供 dialect.FromDatabase 推断占位符与引号风格。
type IDialectNameProvider interface {
	GetDialectName() string
}

// ITransaction 事务接口
type ITransaction interface {
	IDatabase

	Commit() error
	Rollback() error
}

// IRows 查询结果集接口
type IRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
	Columns() ([]string, error)
}

// IRow 单行结果接口
type IRow interface {
	Scan(dest ...any) error
}

// DBConfig 数据库配置
type DBConfig struct {
	// Driver database/sql 驱动名：sqlite | pgx
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN 连接串；sqlite 下为文件路径或 ":memory:"
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	MaxOpenConns    int `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"` // 秒
}
