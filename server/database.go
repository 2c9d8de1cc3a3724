package server

import (
	"fmt"

	"sndeals/config"
	core "sndeals/data/db"
	"sndeals/data/db/basic"
	"sndeals/storage/migrations"
)

// OpenDatabase 按配置打开连接池；migrate 为 true 时执行全部未应用的迁移
func OpenDatabase(cfg config.DatabaseConfig, migrate bool) (*basic.DB, error) {
	db, err := basic.New(core.DBConfig{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if !migrate {
		return db, nil
	}
	runner, err := migrations.New(db.SQLDB(), cfg.Driver)
	if err == nil {
		err = runner.Up()
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
