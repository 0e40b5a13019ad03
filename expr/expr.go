// Package expr, entity tipleri üzerinde tip güvenli (typed) sorgu ifadeleri
// kurmak için küçük bir ifade ağacı (AST) sağlar.
//
// Go'da derleyici tarafından üretilen ifade ağaçları olmadığından ifadeler
// açıkça kurulur:
//
//	age := expr.Field[User]("Age")
//	name := expr.Field[User]("Name")
//	e := expr.And(age.Ge(18), expr.Or(name.StartsWith("A"), name.IsNull()))
//
// Ağaç; üye erişimi (Member), sabit (Const), ikili karşılaştırma (Compare),
// mantıksal birleşim (Logical) ve olumsuzlama (Not) düğümlerinden oluşur ve
// Translator ile dialect koşullarına çevrilir.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package expr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/naming"
)

// Expr, ifade ağacının bir düğümüdür.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// ----------------------------------------------------------------------------
// Entity
// ----------------------------------------------------------------------------

// Entity, bir entity tipini tanımlar. Tablo adı ve alias kaydı bu değer
// üzerinden çözülür.
type Entity struct {
	typ reflect.Type
}

// EntityOf, T tipi için bir Entity döndürür. T bir pointer ise işaret ettiği
// tip kullanılır.
func EntityOf[T any]() Entity {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Entity{typ: t}
}

// Type, entity'nin reflect tipini döndürür.
func (e Entity) Type() reflect.Type { return e.typ }

// IsZero, Entity'nin boş olup olmadığını döndürür.
func (e Entity) IsZero() bool { return e.typ == nil }

// Name, tipin Go adını döndürür.
func (e Entity) Name() string {
	if e.typ == nil {
		return ""
	}
	return e.typ.Name()
}

// Table, entity'nin tablo adını ve şemasını verilen stratejiye göre çözer.
func (e Entity) Table(s naming.Strategy) (name, schema string) {
	if e.typ == nil {
		return "", ""
	}
	return naming.TableFor(e.typ, s)
}

// ----------------------------------------------------------------------------
// Member
// ----------------------------------------------------------------------------

// Member, bir entity alanına erişimi temsil eder.
type Member struct {
	Entity Entity
	Field  string
	Column string // `db` etiketi; boşsa isimlendirme stratejisi uygulanır
	Alias  string // SELECT listesindeki kolon aliası
	kind   reflect.Kind
	err    error
}

// Field, T tipinin verilen alanı için bir Member oluşturur. Alan bulunamazsa
// hata Member içinde saklanır ve çeviri sırasında döner.
func Field[T any](name string) Member {
	entity := EntityOf[T]()
	m := Member{Entity: entity, Field: name}

	if entity.typ.Kind() != reflect.Struct {
		m.err = &UnsupportedError{Expr: m, Reason: entity.typ.String() + " is not a struct"}
		return m
	}
	f, ok := entity.typ.FieldByName(name)
	if !ok || !f.IsExported() {
		m.err = &UnsupportedError{Expr: m, Reason: "no exported field " + name + " on " + entity.typ.String()}
		return m
	}

	m.Column = naming.ColumnTag(f)
	ft := f.Type
	for ft.Kind() == reflect.Ptr {
		ft = ft.Elem()
	}
	m.kind = ft.Kind()
	return m
}

// Err, alan çözümlenirken oluşan hatayı döndürür.
func (m Member) Err() error { return m.err }

// As, SELECT listesinde kullanılacak kolon aliasını ayarlar.
func (m Member) As(alias string) Member {
	m.Alias = alias
	return m
}

func (m Member) compare(op dialect.Operator, v any) Compare {
	right, ok := v.(Expr)
	if !ok {
		right = Value(v)
	}
	return Compare{Left: m, Op: op, Right: right}
}

// Eq, m = v. v bir Member ise iki kolon karşılaştırılır.
func (m Member) Eq(v any) Compare { return m.compare(dialect.Equal, v) }

// Ne, m <> v.
func (m Member) Ne(v any) Compare { return m.compare(dialect.NotEqual, v) }

// Gt, m > v.
func (m Member) Gt(v any) Compare { return m.compare(dialect.Greater, v) }

// Ge, m >= v.
func (m Member) Ge(v any) Compare { return m.compare(dialect.GreaterEqual, v) }

// Lt, m < v.
func (m Member) Lt(v any) Compare { return m.compare(dialect.Less, v) }

// Le, m <= v.
func (m Member) Le(v any) Compare { return m.compare(dialect.LessEqual, v) }

// Contains, m LIKE %v%.
func (m Member) Contains(v any) Compare { return m.compare(dialect.Contains, v) }

// StartsWith, m LIKE v%.
func (m Member) StartsWith(v any) Compare { return m.compare(dialect.Starts, v) }

// EndsWith, m LIKE %v.
func (m Member) EndsWith(v any) Compare { return m.compare(dialect.Ends, v) }

// In, m IN (values...). values bir dilim olmalıdır.
func (m Member) In(values any) Compare { return m.compare(dialect.In, values) }

// NotIn, m NOT IN (values...).
func (m Member) NotIn(values any) Compare { return m.compare(dialect.NotIn, values) }

// IsNull, m IS NULL.
func (m Member) IsNull() Compare { return Compare{Left: m, Op: dialect.IsNull, Right: Value(nil)} }

// IsNotNull, m IS NOT NULL.
func (m Member) IsNotNull() Compare {
	return Compare{Left: m, Op: dialect.IsNotNull, Right: Value(nil)}
}

// Op, verilen operatörle bir karşılaştırma oluşturur.
func (m Member) Op(op dialect.Operator, v any) Compare { return m.compare(op, v) }

func (m Member) String() string {
	if m.Entity.IsZero() {
		return m.Field
	}
	return m.Entity.Name() + "." + m.Field
}

// ----------------------------------------------------------------------------
// Const, Compare, Logical, Not
// ----------------------------------------------------------------------------

// Const, bağlanacak bir sabit değerdir.
type Const struct {
	Value any
}

// Value, bir sabit düğümü oluşturur.
func Value(v any) Const { return Const{Value: v} }

func (c Const) String() string { return fmt.Sprintf("%#v", c.Value) }

// Compare, iki işlenenin ikili karşılaştırmasıdır.
type Compare struct {
	Left  Expr
	Op    dialect.Operator
	Right Expr
}

func (c Compare) String() string {
	return "(" + describe(c.Left) + " " + c.Op.String() + " " + describe(c.Right) + ")"
}

// Logical, iki ifadenin AND/OR birleşimidir.
type Logical struct {
	Op    dialect.LogicalOp
	Left  Expr
	Right Expr
}

func (l Logical) String() string {
	return "(" + describe(l.Left) + " " + l.Op.String() + " " + describe(l.Right) + ")"
}

// Not, bir ifadenin olumsuzlanmış halidir.
type Not struct {
	Inner Expr
}

func (n Not) String() string { return "NOT " + describe(n.Inner) }

func (Member) isExpr()  {}
func (Const) isExpr()   {}
func (Compare) isExpr() {}
func (Logical) isExpr() {}
func (Not) isExpr()     {}

// And, ifadeleri soldan sağa AND ile birleştirir.
func And(exprs ...Expr) Expr { return fold(dialect.And, exprs) }

// Or, ifadeleri soldan sağa OR ile birleştirir.
func Or(exprs ...Expr) Expr { return fold(dialect.Or, exprs) }

// Negate, bir ifadeyi olumsuzlar.
func Negate(e Expr) Expr { return Not{Inner: e} }

func fold(op dialect.LogicalOp, exprs []Expr) Expr {
	var root Expr
	for _, e := range exprs {
		if root == nil {
			root = e
			continue
		}
		root = Logical{Op: op, Left: root, Right: e}
	}
	return root
}

func describe(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// ----------------------------------------------------------------------------
// Projection
// ----------------------------------------------------------------------------

// Projection, SELECT listesine eklenecek üyelerdir.
type Projection []Member

// Columns, bir projeksiyon oluşturur.
func Columns(members ...Member) Projection { return Projection(members) }

func (p Projection) String() string {
	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
