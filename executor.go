package sqlquery

import (
	"context"
	"database/sql"

	"github.com/panjf2000/ants/v2"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/metrics"
	"github.com/biyonik/go-sqlquery/naming"
)

/*
=======================================================================================================================
  SQLQUERY – ÇALIŞTIRMA KATMANI
  Bu dosya, derlenen SELECT ifadelerinin hangi bağlantı üzerinde çalıştırılacağını belirler.

  - Executor: *sql.DB, *sql.Tx ve *sql.Conn tarafından ortak sağlanan sorgu fonksiyonlarıdır.
    Çağıran bir Executor verirse o kullanılır ve KAPATILMAZ.
  - ConnectionProvider: Executor verilmediğinde ortamdan bağlantı edinir. Edinilen bağlantı
    her çıkış yolunda (hata ve panic dahil) serbest bırakılır.
  - DB: *sql.DB'yi sarar; gramer, tarayıcı, logger, metrik ve async havuzunu taşır ve
    kendi başına bir ConnectionProvider'dır.

  Transaction yönetimi bu paketin işi değildir; bir *sql.Tx Executor olarak verilebilir.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
  @linkedin  linkedin.com/in/biyonik
  @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

// Executor, SELECT çalıştırmak için gereken bağlantı fonksiyonlarıdır.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time kontrolü.
var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
	_ Executor = (*sql.Conn)(nil)
)

// ConnectionProvider, bağlantı verilmeyen çalıştırmalar için bir Executor edinir.
// Dönen release fonksiyonu, Executor ile iş bittiğinde tam olarak bir kez çağrılır.
type ConnectionProvider interface {
	Acquire(ctx context.Context) (Executor, func() error, error)
}

// ProviderFunc, bir fonksiyonu ConnectionProvider'a uyarlar.
type ProviderFunc func(ctx context.Context) (Executor, func() error, error)

// Acquire, ConnectionProvider arayüzünü uygular.
func (f ProviderFunc) Acquire(ctx context.Context) (Executor, func() error, error) {
	return f(ctx)
}

// DB, *sql.DB sarmalayıcısıdır. Sorgular DB.Query ile başlatılır.
type DB struct {
	*sql.DB
	grammar  dialect.Grammar
	scanner  Scanner
	logger   Logger
	debug    bool
	naming   naming.Strategy
	metrics  *metrics.Collector
	pool     *ants.Pool
	ownsPool bool
	provider ConnectionProvider
	initErr  error
}

var _ ConnectionProvider = (*DB)(nil)

// NewDB, bir *sql.DB'yi sarar. Varsayılanlar: MySQL grameri, DefaultScanner,
// NopLogger, naming.Default. db nil değilse DB kendi bağlantı sağlayıcısıdır;
// nil ise yalnızca açıkça verilen bağlantılarla çalışır.
func NewDB(db *sql.DB, opts ...Option) *DB {
	d := &DB{
		DB:     db,
		logger: NopLogger{},
		naming: naming.Default,
	}
	if db != nil {
		d.provider = d
	}

	applyOptions(d, opts)

	if d.grammar == nil {
		d.grammar = dialect.MySQL()
	}
	if d.scanner == nil {
		d.scanner = NewDefaultScanner(d.naming)
	}
	return d
}

// Grammar, aktif grameri döndürür.
func (d *DB) Grammar() dialect.Grammar {
	return d.grammar
}

// Scanner, aktif tarayıcıyı döndürür.
func (d *DB) Scanner() Scanner {
	return d.scanner
}

// Logger, aktif logger'ı döndürür.
func (d *DB) Logger() Logger {
	return d.logger
}

// IsDebug, sorgu kaydının açık olup olmadığını döndürür.
func (d *DB) IsDebug() bool {
	return d.debug
}

// Naming, isimlendirme stratejisini döndürür.
func (d *DB) Naming() naming.Strategy {
	return d.naming
}

// Query, bu DB'ye bağlı yeni ve boş bir sorgu başlatır.
func (d *DB) Query() *Query {
	q := newQuery(d)
	if d.initErr != nil {
		q.setErr(d.initErr)
	}
	return q
}

// Acquire, havuzdan tek bir *sql.Conn ayırır. release bağlantıyı havuza iade eder.
func (d *DB) Acquire(ctx context.Context) (Executor, func() error, error) {
	if d.DB == nil {
		return nil, nil, ErrNoConnection
	}
	conn, err := d.DB.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

// Close, veritabanı bağlantısını kapatır. OpenWithConfig'in oluşturduğu async
// havuzu da serbest bırakılır; WithAsyncPool ile verilen havuz çağırana aittir.
func (d *DB) Close() error {
	if d.ownsPool && d.pool != nil {
		d.pool.Release()
	}
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Ping, bağlantının canlı olduğunu doğrular.
func (d *DB) Ping(ctx context.Context) error {
	if d.DB == nil {
		return ErrNoConnection
	}
	return d.DB.PingContext(ctx)
}
