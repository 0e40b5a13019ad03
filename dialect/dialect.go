// Package dialect, sorgu durumunu (QueryState) veritabanına özgü SQL metnine ve
// parametre listesine çeviren gramerleri (Grammar) sağlar.
//
// Paket iki parçadan oluşur: veritabanından bağımsız ara temsil (seçim listesi,
// FROM öğeleri, JOIN'ler, koşul ağacı) ve bu temsili MySQL, PostgreSQL, SQLite ve
// SQL Server sözdizimine dönüştüren gramerler.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package dialect

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-sqlquery/internal/validation"
)

// ----------------------------------------------------------------------------
// QueryState Interface (import döngüsünü kırmak için)
// ----------------------------------------------------------------------------

// QueryState, Grammar implementasyonlarının ihtiyaç duyduğu okuma arayüzüdür.
// Ana paketteki Builder bu arayüzü State üzerinden sağlar.
type QueryState interface {
	GetSelects() []SelectItem
	IsDistinct() bool
	GetFrom() []TableItem
	GetJoins() []JoinItem
	GetWhere() Condition
	GetOrders() []OrderItem
	GetLimit() *int
	GetOffset() *int
}

// State, QueryState'in düz veri implementasyonudur. Sorgu durumunun bir
// anlık görüntüsünü (snapshot) taşımak için kullanılır.
type State struct {
	Selects  []SelectItem
	Distinct bool
	From     []TableItem
	Joins    []JoinItem
	Where    Condition
	Orders   []OrderItem
	Limit    *int
	Offset   *int
}

func (s *State) GetSelects() []SelectItem { return s.Selects }
func (s *State) IsDistinct() bool         { return s.Distinct }
func (s *State) GetFrom() []TableItem     { return s.From }
func (s *State) GetJoins() []JoinItem     { return s.Joins }
func (s *State) GetWhere() Condition      { return s.Where }
func (s *State) GetOrders() []OrderItem   { return s.Orders }
func (s *State) GetLimit() *int           { return s.Limit }
func (s *State) GetOffset() *int          { return s.Offset }

// Clone, State'in derin kopyasını döndürür. Koşul düğümleri değiştirilemez
// (immutable) olduğundan paylaşılır; dilimler ve sayfalama değerleri kopyalanır.
func (s *State) Clone() *State {
	c := &State{
		Distinct: s.Distinct,
		Where:    s.Where,
	}
	c.Selects = append([]SelectItem(nil), s.Selects...)
	c.From = append([]TableItem(nil), s.From...)
	c.Joins = append([]JoinItem(nil), s.Joins...)
	c.Orders = append([]OrderItem(nil), s.Orders...)
	if s.Limit != nil {
		n := *s.Limit
		c.Limit = &n
	}
	if s.Offset != nil {
		n := *s.Offset
		c.Offset = &n
	}
	return c
}

var _ QueryState = (*State)(nil)

// ----------------------------------------------------------------------------
// Grammar Interface
// ----------------------------------------------------------------------------

// Grammar, sorgu durumunu veritabanına özgü SQL ifadelerine çevirir.
type Grammar interface {
	// Name, gramerin kimliğini döndürür (örn. "mysql", "postgres").
	Name() string

	// Wrap, "name", "qualifier.name" veya "qualifier.*" biçimindeki bir
	// tanımlayıcıyı veritabanına özgü tırnaklarla sarar.
	Wrap(identifier string) (string, error)

	// WrapTable, şema, tablo adı ve aliası sarar.
	WrapTable(t Table) (string, error)

	// Placeholder, sıfır tabanlı indeks için parametre yer tutucusunu döndürür.
	// MySQL: "?", PostgreSQL: "$1", SQL Server: "@p1".
	Placeholder(index int) string

	// CompileSelect, SELECT sorgusunu derler.
	CompileSelect(q QueryState) (string, []any, error)
}

// pager, gramerin LIMIT/OFFSET sözdizimini üretir.
type pager interface {
	compileLimit(limit, offset *int, ordered bool) string
}

// ----------------------------------------------------------------------------
// Base Grammar (ortak fonksiyonlar)
// ----------------------------------------------------------------------------

// BaseGrammar, tüm gramerler için ortak tırnaklama davranışını sağlar.
type BaseGrammar struct {
	name       string
	openQuote  string
	closeQuote string
}

// Name, gramerin adını döndürür.
func (g *BaseGrammar) Name() string {
	return g.name
}

func (g *BaseGrammar) quote(name string) string {
	return g.openQuote + name + g.closeQuote
}

// Wrap, bir tanımlayıcıyı doğrular ve tırnaklar.
func (g *BaseGrammar) Wrap(identifier string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	if strings.HasSuffix(identifier, ".*") {
		qualifier := strings.TrimSuffix(identifier, ".*")
		if err := validation.ValidateName(qualifier); err != nil {
			return "", err
		}
		return g.quote(qualifier) + ".*", nil
	}

	if err := validation.ValidateIdentifier(identifier); err != nil {
		return "", err
	}

	parts := strings.Split(identifier, ".")
	for i, part := range parts {
		parts[i] = g.quote(part)
	}
	return strings.Join(parts, "."), nil
}

// WrapTable, tablo referansını "schema"."name" AS "alias" biçiminde sarar.
func (g *BaseGrammar) WrapTable(t Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	wrapped := g.quote(t.Name)
	if t.Schema != "" {
		wrapped = g.quote(t.Schema) + "." + wrapped
	}
	if t.Alias != "" {
		wrapped += " AS " + g.quote(t.Alias)
	}
	return wrapped, nil
}

// ----------------------------------------------------------------------------
// Registry
// ----------------------------------------------------------------------------

// ByName, sürücü veya yapılandırma adından bir gramer çözer.
func ByName(name string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mysql", "mariadb":
		return MySQL(), nil
	case "postgres", "postgresql", "pgx", "pg":
		return Postgres(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	case "sqlserver", "mssql":
		return SQLServer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// DriverName, yapılandırmadaki sürücü takma adını database/sql'e kayıtlı
// sürücü adına çevirir: postgres → pgx, sqlite → sqlite3, mariadb → mysql,
// mssql → sqlserver. Tanınmayan adlar olduğu gibi döner.
func DriverName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return "mysql"
	case "pgx", "postgres", "postgresql", "pg":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "sqlserver", "mssql":
		return "sqlserver"
	}
	return name
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

// Dialect implementasyonları için ortak hatalar.
// Ana paket ile import döngüsünü önlemek için burada tanımlanmıştır.
var (
	ErrNoTable             = &DialectError{Message: "no table specified"}
	ErrEmptyIn             = &DialectError{Message: "empty slice passed to IN"}
	ErrUnknownTable        = &DialectError{Message: "join condition references a table not present in FROM/JOIN"}
	ErrUnsupportedOperator = &DialectError{Message: "operator not supported here"}
	ErrUnknownDialect      = &DialectError{Message: "unknown dialect"}
	ErrRawBindings         = &DialectError{Message: "raw fragment placeholder count does not match arguments"}
	ErrNilCondition        = &DialectError{Message: "nil condition"}
)

// DialectError, dialect'e özgü hataları temsil eder.
type DialectError struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
