package dialect

import (
	"strings"

	"github.com/biyonik/go-sqlquery/internal/validation"
)

// ----------------------------------------------------------------------------
// Column & Table references
// ----------------------------------------------------------------------------

// Column, yapılandırılmış bir kolon referansıdır.
type Column struct {
	Table string // Qualifier: tablo aliası veya tablo adı
	Name  string
	Alias string // SELECT listesinde "AS alias"
}

// ParseColumn, "Name", "u.Name" veya "u.Name as n" biçimindeki bir referansı
// Column'a çevirir. Yapılandırılamayan girdi Name alanında olduğu gibi tutulur
// ve render sırasında doğrulama hatasına dönüşür.
func ParseColumn(ref string) Column {
	qualifier, name, alias, ok := validation.ParseColumn(ref)
	if !ok {
		return Column{Name: strings.TrimSpace(ref)}
	}
	return Column{Table: qualifier, Name: name, Alias: alias}
}

// Qualified, "table.name" veya yalnızca "name" döndürür.
func (c Column) Qualified() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// WithTable, qualifier'ı değiştirilmiş bir kopya döndürür.
func (c Column) WithTable(table string) Column {
	c.Table = table
	return c
}

// Table, yapılandırılmış bir tablo referansıdır.
type Table struct {
	Schema string
	Name   string
	Alias  string
}

// ParseTable, "Users", "Users u", "Users as u" ve "dbo.Users u" biçimlerini çözer.
func ParseTable(spec string) (Table, error) {
	schema, name, alias, err := validation.ParseTable(spec)
	if err != nil {
		return Table{}, err
	}
	return Table{Schema: schema, Name: name, Alias: alias}, nil
}

// Validate, tablo, şema ve alias isimlerini doğrular.
func (t Table) Validate() error {
	if err := validation.ValidateName(t.Name); err != nil {
		return err
	}
	if t.Schema != "" {
		if err := validation.ValidateName(t.Schema); err != nil {
			return err
		}
	}
	return validation.ValidateAlias(t.Alias)
}

// Qualifier, kolonların bu tabloya başvururken kullanacağı ismi döndürür:
// alias varsa alias, yoksa tablo adı.
func (t Table) Qualifier() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// ----------------------------------------------------------------------------
// Clause items: Structured | Raw
// ----------------------------------------------------------------------------

// SelectItem, SELECT listesindeki tek bir öğedir. Raw doluysa öğe ham SQL
// parçasıdır ve olduğu gibi yazılır; aksi halde Column render edilir.
type SelectItem struct {
	Column Column
	Raw    string
}

// IsRaw, öğenin ham parça olup olmadığını döndürür.
func (s SelectItem) IsRaw() bool { return s.Raw != "" }

// TableItem, FROM listesindeki veya bir JOIN hedefindeki tablo öğesidir.
type TableItem struct {
	Table Table
	Raw   string
}

// IsRaw, öğenin ham parça olup olmadığını döndürür.
func (t TableItem) IsRaw() bool { return t.Raw != "" }

// JoinKind, JOIN türünü belirtir.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
)

// String, JOIN anahtar kelimesini döndürür.
func (k JoinKind) String() string {
	switch k {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// JoinItem, tek bir JOIN ifadesidir. On nil ise ON cümlesi yazılmaz.
type JoinItem struct {
	Kind   JoinKind
	Target TableItem
	On     Condition
}

// OrderDirection, sıralama yönünü belirtir.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// IsValid, yönün geçerli olup olmadığını kontrol eder.
func (d OrderDirection) IsValid() bool {
	return d == OrderAsc || d == OrderDesc
}

// OrderItem, ORDER BY ifadesini temsil eder.
type OrderItem struct {
	Column    Column
	Direction OrderDirection
	Raw       string
}

// ----------------------------------------------------------------------------
// Clause options
// ----------------------------------------------------------------------------

// ClauseOptions, clause metotlarının isteğe bağlı parametreleridir.
// Sıfır değer belgelenmiş varsayılanlara karşılık gelir: operatör Equal,
// tablo aliası yok, kolon aliası yok, şema yok.
type ClauseOptions struct {
	Operator    Operator
	TableAlias  string
	ColumnAlias string
	Schema      string
}

// ClauseOption, ClauseOptions üzerinde değişiklik yapan bir seçenektir.
// Operator değerleri de birer ClauseOption'dır.
type ClauseOption interface {
	ApplyClause(*ClauseOptions)
}

// ClauseOptionFunc, bir fonksiyonu ClauseOption'a uyarlar.
type ClauseOptionFunc func(*ClauseOptions)

// ApplyClause, ClauseOption arayüzünü uygular.
func (f ClauseOptionFunc) ApplyClause(o *ClauseOptions) { f(o) }

// ResolveOptions, verilen seçenekleri sırayla uygular. nil seçenekler atlanır.
func ResolveOptions(opts []ClauseOption) ClauseOptions {
	var o ClauseOptions
	for _, opt := range opts {
		if opt != nil {
			opt.ApplyClause(&o)
		}
	}
	return o
}
