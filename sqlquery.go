// Package sqlquery, SELECT ifadelerini zincirleme çağrılar ve tipli ifade
// ağaçlarıyla kuran, sonucu tiplere eşleyen akıcı bir sorgu oluşturucudur.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package sqlquery

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/naming"
)

// Version, go-sqlquery kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.2.0"

// Open, verilen sürücü ve veri kaynağıyla bir bağlantı açar, doğrular ve DB
// döndürür. Sürücü adı takma adlarından (postgres, sqlite, mariadb, mssql)
// kayıtlı adına çevrilir; sürücünün kendisi drivers paketi veya uygulama
// tarafından kaydedilmiş olmalıdır. Gramer belirtilmezse sürücü adından çözülür.
//
//	db, err := sqlquery.Open(ctx, "sqlite3", "file:app.db")
func Open(ctx context.Context, driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open(dialect.DriverName(driverName), dataSourceName)
	if err != nil {
		return nil, NewQueryError("connect", err, "", nil, uuid.Nil)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, NewQueryError("ping", err, "", nil, uuid.Nil)
	}

	if g, err := dialect.ByName(driverName); err == nil {
		opts = append([]Option{WithGrammar(g)}, opts...)
	}
	return NewDB(sqlDB, opts...), nil
}

// OpenWithConfig, Config'ten DSN üretir, bağlantı havuzu ayarlarını uygular
// ve dialect, isimlendirme, debug ve async havuzu ayarlarını bağlar.
//
//	cfg, err := config.Load("sqlquery.yaml", "")
//	db, err := sqlquery.OpenWithConfig(ctx, cfg)
func OpenWithConfig(ctx context.Context, cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	base := []Option{
		WithDialect(cfg.DialectName()),
		WithNaming(naming.ByName(cfg.Naming)),
		WithDebug(cfg.Debug),
	}
	db, err := Open(ctx, cfg.Driver, cfg.DSN(), append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if db.initErr != nil {
		db.Close()
		return nil, db.initErr
	}

	if cfg.MaxOpenConns > 0 {
		db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.DB.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	if cfg.ConnMaxIdle > 0 {
		db.DB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	if db.pool == nil && cfg.AsyncWorkers > 0 {
		pool, err := NewAsyncPool(cfg.AsyncWorkers)
		if err != nil {
			db.Close()
			return nil, err
		}
		db.pool = pool
		db.ownsPool = true
	}
	return db, nil
}

// New, bağlantısız bir sorgu başlatır. SQL üretmek veya sorguyu yalnızca
// açıkça verilen bir bağlantıyla çalıştırmak için kullanılır.
//
//	sql, args, err := sqlquery.New(sqlquery.WithDialect("postgres")).
//	    From("Users", sqlquery.As("u")).
//	    Where("u.Age", 18, sqlquery.GreaterEqual).
//	    ToSQL()
func New(opts ...Option) *Query {
	return NewDB(nil, opts...).Query()
}
