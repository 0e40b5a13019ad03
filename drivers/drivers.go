// Package drivers, desteklenen database/sql sürücülerini kaydeder ve sürücü
// adına göre bağlantı açar. Kütüphanenin kök paketi sürücü içermez; sürücüleri
// bu paket (veya uygulamanın kendi blank import'ları) getirir.
//
// Kayıtlı sürücüler: mysql, pgx, sqlite3. SQL Server için gramer ve DSN
// desteklenir ancak sürücü bu pakette yoktur; uygulama "sqlserver" adıyla
// kayıt yapan bir sürücüyü kendisi import etmelidir.
package drivers

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/biyonik/go-sqlquery/dialect"
)

// Sürücü adları.
const (
	MySQL     = "mysql"
	Postgres  = "pgx"
	SQLite    = "sqlite3"
	SQLServer = "sqlserver"
)

// Normalize, yapılandırmada kullanılan takma adları kayıtlı sürücü adına çevirir.
func Normalize(name string) string {
	return dialect.DriverName(name)
}

// Open, sürücüye özgü yapılandırma çözümlemesiyle bir *sql.DB açar. DSN
// geçersizse bağlantı kurulmadan hata döner. Bağlantı doğrulanmaz; Ping
// çağıranın işidir.
func Open(driverName, dsn string) (*sql.DB, error) {
	switch Normalize(driverName) {
	case MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("drivers: invalid mysql dsn: %w", err)
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("drivers: mysql connector: %w", err)
		}
		return sql.OpenDB(connector), nil

	case Postgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("drivers: invalid postgres dsn: %w", err)
		}
		return stdlib.OpenDB(*cfg), nil

	case SQLite:
		return sql.Open(SQLite, dsn)

	case SQLServer:
		// Sürücü uygulama tarafından kaydedilmemişse sql.Open hata döner.
		return sql.Open(SQLServer, dsn)
	}

	return nil, fmt.Errorf("drivers: unsupported driver %q", driverName)
}
