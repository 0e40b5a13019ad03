package sqlquery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

/*
 * ----------------------------------------------------------------------------
 * SQLQUERY TYPE DEFINITIONS
 * ----------------------------------------------------------------------------
 *
 * Sayfalama, bağlantı yapılandırması ve sorgu kaydı (logging) tipleri.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// ----------------------------------------------------------------------------
// Pagination Types
// ----------------------------------------------------------------------------

// Pagination, sayfalama hesaplamalarını taşır. Query.Page bu yapıyı kullanarak
// LIMIT/OFFSET değerlerini üretir.
type Pagination struct {
	Page       int   // Mevcut sayfa numarası (1'den başlar)
	PerPage    int   // Sayfa başına kayıt sayısı
	Total      int64 // Toplam kayıt sayısı (bilinmiyorsa 0)
	TotalPages int
	HasMore    bool
}

// DefaultPerPage, sayfa boyutu verilmediğinde kullanılır.
const DefaultPerPage = 15

// NewPagination, geçersiz parametreleri varsayılanlara çekerek bir Pagination oluşturur.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(total / int64(perPage))
	if total%int64(perPage) > 0 {
		totalPages++
	}

	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Offset, atlanacak kayıt sayısını hesaplar: (Page - 1) * PerPage.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev, önceki sayfanın olup olmadığını döndürür.
func (p *Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext, sonraki sayfanın olup olmadığını döndürür.
func (p *Pagination) HasNext() bool {
	return p.HasMore
}

// ----------------------------------------------------------------------------
// Configuration Types
// ----------------------------------------------------------------------------

// Config, bağlantı ve çalışma zamanı yapılandırmasıdır. config paketi bu yapıyı
// dosya ve ortam değişkenlerinden doldurur.
type Config struct {
	Driver       string        `mapstructure:"driver"`   // "mysql", "pgx", "sqlite3", "sqlserver" veya takma adları
	Dialect      string        `mapstructure:"dialect"`  // Boşsa sürücüden çözülür
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Database     string        `mapstructure:"database"` // SQLite için dosya yolu
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	Charset      string        `mapstructure:"charset"`
	Collation    string        `mapstructure:"collation"`
	TLS          bool          `mapstructure:"tls"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_life"`
	ConnMaxIdle  time.Duration `mapstructure:"conn_max_idle"`
	AsyncWorkers int           `mapstructure:"async_workers"`
	Naming       string        `mapstructure:"naming"` // "verbatim" veya "snake"
	Debug        bool          `mapstructure:"debug"`
}

// DefaultConfig, varsayılan ayarlarla dolu bir yapılandırma döndürür.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "mysql",
		Host:         "localhost",
		Port:         3306,
		Charset:      "utf8mb4",
		Collation:    "utf8mb4_unicode_ci",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		ConnMaxLife:  5 * time.Minute,
		ConnMaxIdle:  5 * time.Minute,
		AsyncWorkers: DefaultAsyncWorkers,
	}
}

// DialectName, yapılandırılmış dialect'i veya sürücü adını döndürür.
func (c *Config) DialectName() string {
	if c.Dialect != "" {
		return c.Dialect
	}
	return c.Driver
}

// DSN, sürücünün anlayacağı bağlantı dizesini oluşturur.
func (c *Config) DSN() string {
	switch c.Driver {
	case "pgx", "postgres", "postgresql":
		return c.postgresDSN()
	case "sqlite3", "sqlite":
		return c.Database
	case "sqlserver", "mssql":
		return c.sqlserverDSN()
	default:
		return c.mysqlDSN()
	}
}

func (c *Config) hostPort(defaultPort int) string {
	port := c.Port
	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c *Config) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.hostPort(3306)
	mc.DBName = c.Database
	mc.ParseTime = true
	if c.Collation != "" {
		mc.Collation = c.Collation
	}
	if c.Charset != "" {
		mc.Params = map[string]string{"charset": c.Charset}
	}
	if c.TLS {
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}

func (c *Config) postgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.hostPort(5432),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	q := url.Values{}
	if c.TLS {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) sqlserverDSN() string {
	u := url.URL{
		Scheme: "sqlserver",
		Host:   c.hostPort(1433),
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	q := url.Values{}
	if c.Database != "" {
		q.Set("database", c.Database)
	}
	if c.TLS {
		q.Set("encrypt", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// QueryEvent, tek bir sorgu çalıştırmasının kaydıdır.
type QueryEvent struct {
	ExecutionID uuid.UUID
	Dialect     string
	Query       string
	Args        []any
	Duration    time.Duration
	Async       bool
	Err         error
}

// Logger, çalıştırılan sorguları izlemek için kullanılan arayüzdür.
// Yalnızca debug modu açıkken çağrılır.
type Logger interface {
	Log(ctx context.Context, event QueryEvent)
}

// NopLogger, tüm kayıtları yok sayar.
type NopLogger struct{}

// Log, NopLogger'ın implementasyonudur.
func (NopLogger) Log(context.Context, QueryEvent) {}

// SlogLogger, sorgu kayıtlarını bir *slog.Logger'a yazar. Başarılı sorgular
// Debug, hatalı sorgular Error seviyesinde kaydedilir.
type SlogLogger struct {
	Logger *slog.Logger
}

// NewSlogLogger, l nil ise slog.Default() kullanır.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{Logger: l}
}

// Log, Logger arayüzünü uygular.
func (s *SlogLogger) Log(ctx context.Context, e QueryEvent) {
	attrs := []slog.Attr{
		slog.String("execution_id", e.ExecutionID.String()),
		slog.String("dialect", e.Dialect),
		slog.String("sql", e.Query),
		slog.String("args", fmt.Sprint(e.Args)),
		slog.Duration("duration", e.Duration),
		slog.Bool("async", e.Async),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
		s.Logger.LogAttrs(ctx, slog.LevelError, "sqlquery: query failed", attrs...)
		return
	}
	s.Logger.LogAttrs(ctx, slog.LevelDebug, "sqlquery: query executed", attrs...)
}
