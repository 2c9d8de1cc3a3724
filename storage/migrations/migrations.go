// Package migrations 内嵌各方言的建表脚本，并通过 golang-migrate 执行。
package migrations

import (
	"database/sql"
	"embed"
	ers "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"sndeals/data/db/dialect"
)

//go:embed sqlite/*.sql postgres/*.sql
var scripts embed.FS

// Runner 绑定到一个已打开的数据库连接
type Runner struct {
	m *migrate.Migrate
}

// New 根据驱动名选择脚本目录与 migrate 数据库驱动
func New(db *sql.DB, driver string) (*Runner, error) {
	dir, target, err := instance(db, driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(scripts, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, dir, target)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Runner{m: m}, nil
}

func instance(db *sql.DB, driver string) (string, database.Driver, error) {
	switch dialect.New(driver).Name() {
	case dialect.NameSQLite:
		d, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return "", nil, fmt.Errorf("create sqlite migration driver: %w", err)
		}
		return "sqlite", d, nil
	case dialect.NamePostgres:
		d, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
		if err != nil {
			return "", nil, fmt.Errorf("create postgres migration driver: %w", err)
		}
		return "postgres", d, nil
	default:
		return "", nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// Up 执行全部未应用的迁移，已是最新时不报错
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !ers.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down 回滚一步
func (r *Runner) Down() error {
	if err := r.m.Steps(-1); err != nil && !ers.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Version 当前版本；未执行过任何迁移时返回 0
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if ers.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
