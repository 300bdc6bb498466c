package fluentdb

import (
	"context"
	"database/sql"

	"github.com/biyonik/fluentdb/dialect"
)

// Version, fluentdb kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.2.0"

// Connect, verilen driver ve veri kaynağıyla yeni bir bağlantı açar, bağlantıyı doğrular
// ve DB örneğini döndürür. Dialect verilmemişse sürücü adından seçilir.
//
// Sürücünün kendisi çağıran tarafından import edilmelidir:
//
//	import _ "modernc.org/sqlite"
//
//	db, err := fluentdb.Connect(ctx, "sqlite", "projectdb.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func Connect(ctx context.Context, driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, WrapError("connect", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, WrapError("ping", err)
	}

	opts = append([]Option{WithDialect(dialect.ForDriver(driverName))}, opts...)
	return NewDB(sqlDB, opts...), nil
}

// ConnectWithConfig, Config kullanarak bağlantı açar, havuz ayarlarını ve tablo
// önekini uygular.
//
//	cfg := fluentdb.DefaultConfig()
//	cfg.Driver = "postgres"
//	cfg.Host = "localhost"
//	cfg.Database = "app"
//	db, err := fluentdb.ConnectWithConfig(ctx, cfg)
func ConnectWithConfig(ctx context.Context, cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Prefix != "" {
		opts = append([]Option{WithTablePrefix(cfg.Prefix)}, opts...)
	}

	db, err := Connect(ctx, cfg.DriverName(), cfg.DSN(), opts...)
	if err != nil {
		return nil, err
	}

	sqlDB := db.exec.(*sql.DB)
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	if cfg.ConnMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	return db, nil
}
