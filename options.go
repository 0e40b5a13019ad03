package sqlquery

import (
	"github.com/panjf2000/ants/v2"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/metrics"
	"github.com/biyonik/go-sqlquery/naming"
)

// -----------------------------------------------------------------------------
//  İki tür seçenek vardır:
//
//  Option, bir *DB örneğini (gramer, tarayıcı, logger, metrik, async havuzu)
//  yapılandırır ve NewDB / Open / New çağrılarına verilir.
//
//  ClauseOption, tek bir clause çağrısının isteğe bağlı parametreleridir
//  (operatör, tablo aliası, kolon aliası, şema). Operatör sabitleri doğrudan
//  ClauseOption olarak verilebilir:
//
//	q.Where("u.Age", 18, sqlquery.GreaterEqual)
//	q.From("Users", sqlquery.As("u"))
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option, bir *DB örneği üzerinde çalışan yapılandırma fonksiyonudur.
type Option func(*DB)

// WithGrammar, SQL gramerini değiştirir. Varsayılan MySQL'dir.
//
//	db := sqlquery.NewDB(sqlDB, sqlquery.WithGrammar(dialect.Postgres()))
func WithGrammar(g dialect.Grammar) Option {
	return func(d *DB) {
		d.grammar = g
	}
}

// WithDialect, grameri adıyla seçer ("mysql", "postgres", "sqlite", "sqlserver").
// Bilinmeyen ad, bu DB'den üretilen her sorguda hata olarak kaydedilir.
func WithDialect(name string) Option {
	return func(d *DB) {
		g, err := dialect.ByName(name)
		if err != nil {
			d.initErr = err
			return
		}
		d.grammar = g
	}
}

// WithScanner, sonuçları eşleyen tarayıcıyı değiştirir.
func WithScanner(s Scanner) Option {
	return func(d *DB) {
		d.scanner = s
	}
}

// WithDebug, sorgu kaydını açar veya kapatır.
func WithDebug(enabled bool) Option {
	return func(d *DB) {
		d.debug = enabled
	}
}

// WithLogger, debug modunda kullanılacak logger'ı ayarlar.
//
//	db := sqlquery.NewDB(sqlDB,
//	    sqlquery.WithDebug(true),
//	    sqlquery.WithLogger(sqlquery.NewSlogLogger(slog.Default())),
//	)
func WithLogger(logger Logger) Option {
	return func(d *DB) {
		if logger == nil {
			logger = NopLogger{}
		}
		d.logger = logger
	}
}

// WithNaming, kolon ve tablo isimlendirme stratejisini ayarlar.
func WithNaming(s naming.Strategy) Option {
	return func(d *DB) {
		if s != nil {
			d.naming = s
		}
	}
}

// WithMetrics, sorgu çalıştırmalarını Prometheus metriklerine kaydeder.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *DB) {
		d.metrics = c
	}
}

// WithAsyncPool, ToAsync çağrılarının çalışacağı ants havuzunu ayarlar.
// Verilmezse paket genelinde paylaşılan bir havuz kullanılır.
func WithAsyncPool(p *ants.Pool) Option {
	return func(d *DB) {
		d.pool = p
	}
}

// WithProvider, bağlantı verilmeyen çalıştırmalar için ortam bağlantı
// sağlayıcısını ayarlar.
func WithProvider(p ConnectionProvider) Option {
	return func(d *DB) {
		d.provider = p
	}
}

func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}

// ----------------------------------------------------------------------------
// Clause options
// ----------------------------------------------------------------------------

// ClauseOption, clause metotlarının isteğe bağlı parametresidir.
type ClauseOption = dialect.ClauseOption

// Operator, koşullarda kullanılan karşılaştırma operatörüdür.
type Operator = dialect.Operator

// Karşılaştırma operatörleri. Varsayılan Equal'dır.
const (
	Equal        = dialect.Equal
	NotEqual     = dialect.NotEqual
	Greater      = dialect.Greater
	GreaterEqual = dialect.GreaterEqual
	Less         = dialect.Less
	LessEqual    = dialect.LessEqual
	Contains     = dialect.Contains
	Starts       = dialect.Starts
	Ends         = dialect.Ends
	In           = dialect.In
	NotIn        = dialect.NotIn
	IsNull       = dialect.IsNull
	IsNotNull    = dialect.IsNotNull
)

// TableAlias, From/Join çağrılarında tablonun aliasını; Select, Where ve
// OrderBy çağrılarında ise niteleyicisiz kolonların qualifier'ını ayarlar.
func TableAlias(alias string) ClauseOption {
	return dialect.ClauseOptionFunc(func(o *dialect.ClauseOptions) {
		o.TableAlias = alias
	})
}

// As, TableAlias'ın From/Join çağrılarında okunaklı karşılığıdır.
func As(alias string) ClauseOption {
	return TableAlias(alias)
}

// ColumnAlias, tek kolonluk seçimlerde "AS alias" ekler.
func ColumnAlias(alias string) ClauseOption {
	return dialect.ClauseOptionFunc(func(o *dialect.ClauseOptions) {
		o.ColumnAlias = alias
	})
}

// Schema, From/Join çağrılarında tabloyu şema ile niteler.
func Schema(name string) ClauseOption {
	return dialect.ClauseOptionFunc(func(o *dialect.ClauseOptions) {
		o.Schema = name
	})
}
