package dialect

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-sqlquery/internal/validation"
)

// ----------------------------------------------------------------------------
// Operator
// ----------------------------------------------------------------------------

// Operator, koşullarda kullanılan kapalı karşılaştırma operatörleri kümesidir.
// Sıfır değeri Equal'dır.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Contains
	Starts
	Ends
	In
	NotIn
	IsNull
	IsNotNull
)

var operatorNames = [...]string{
	"Equal", "NotEqual", "Greater", "GreaterEqual", "Less", "LessEqual",
	"Contains", "Starts", "Ends", "In", "NotIn", "IsNull", "IsNotNull",
}

var operatorSQL = [...]string{
	"=", "<>", ">", ">=", "<", "<=",
	"LIKE", "LIKE", "LIKE", "IN", "NOT IN", "IS NULL", "IS NOT NULL",
}

// String, operatörün adını döndürür.
func (op Operator) String() string {
	if op >= 0 && int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// SQL, operatörün SQL karşılığını döndürür.
func (op Operator) SQL() string {
	if op >= 0 && int(op) < len(operatorSQL) {
		return operatorSQL[op]
	}
	return ""
}

// IsValid, operatörün tanımlı kümede olup olmadığını döndürür.
func (op Operator) IsValid() bool {
	return op >= 0 && int(op) < len(operatorNames)
}

// IsComparison, operatörün iki kolonu karşılaştırmak için kullanılabilecek
// bir ikili karşılaştırma olup olmadığını döndürür.
func (op Operator) IsComparison() bool {
	return op.IsValid() && validation.IsComparisonOperator(op.SQL())
}

// Negate, operatörün mantıksal tersini döndürür. Desen operatörlerinin
// tersi yoktur; ikinci dönüş değeri bu durumda false olur.
func (op Operator) Negate() (Operator, bool) {
	switch op {
	case Equal:
		return NotEqual, true
	case NotEqual:
		return Equal, true
	case Greater:
		return LessEqual, true
	case GreaterEqual:
		return Less, true
	case Less:
		return GreaterEqual, true
	case LessEqual:
		return Greater, true
	case In:
		return NotIn, true
	case NotIn:
		return In, true
	case IsNull:
		return IsNotNull, true
	case IsNotNull:
		return IsNull, true
	default:
		return op, false
	}
}

// Flip, işlenenlerin yeri değiştiğinde eşdeğer operatörü döndürür (a < b ⇔ b > a).
func (op Operator) Flip() Operator {
	switch op {
	case Greater:
		return Less
	case GreaterEqual:
		return LessEqual
	case Less:
		return Greater
	case LessEqual:
		return GreaterEqual
	default:
		return op
	}
}

// ApplyClause, Operator'ın doğrudan bir clause seçeneği olarak verilmesini sağlar.
func (op Operator) ApplyClause(o *ClauseOptions) { o.Operator = op }

// ParseOperator, "ge", ">=", "GreaterEqual", "contains" gibi metinsel bir
// operatörü çözer.
func ParseOperator(s string) (Operator, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Equal, nil
	}
	for i, name := range operatorNames {
		if strings.EqualFold(name, trimmed) {
			return Operator(i), nil
		}
	}
	switch strings.ToLower(trimmed) {
	case "like":
		return Contains, nil
	case "startswith", "starts_with":
		return Starts, nil
	case "endswith", "ends_with":
		return Ends, nil
	}

	normalized, err := validation.NormalizeOperator(trimmed)
	if err != nil {
		return Equal, err
	}
	for i, sql := range operatorSQL {
		if sql == normalized && sql != "LIKE" {
			return Operator(i), nil
		}
	}
	return Equal, fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
}

// ----------------------------------------------------------------------------
// Condition tree
// ----------------------------------------------------------------------------

// Condition, WHERE ve ON cümlelerindeki koşul ağacının bir düğümüdür.
// Düğümler oluşturulduktan sonra değiştirilmez.
type Condition interface {
	isCondition()
}

// Comparison, bir kolonu bağlanmış (bound) bir değerle karşılaştırır.
type Comparison struct {
	Column   Column
	Operator Operator
	Value    any
}

// ColumnComparison, iki kolonu karşılaştırır (JOIN koşulları).
type ColumnComparison struct {
	Left     Column
	Operator Operator
	Right    Column
}

// LogicalOp, iki koşulu birleştiren bağlaçtır.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// String, SQL bağlacını döndürür.
func (op LogicalOp) String() string {
	if op == Or {
		return "OR"
	}
	return "AND"
}

// Logical, iki koşulun AND/OR birleşimidir.
type Logical struct {
	Op    LogicalOp
	Left  Condition
	Right Condition
}

// Negation, bir koşulun NOT ile olumsuzlanmış halidir.
type Negation struct {
	Inner Condition
}

// RawCondition, ham SQL koşuludur. SQL içindeki "?" yer tutucuları render
// sırasında gramerin yer tutucu sözdizimine çevrilir.
type RawCondition struct {
	SQL  string
	Args []any
}

func (Comparison) isCondition()       {}
func (ColumnComparison) isCondition() {}
func (Logical) isCondition()          {}
func (Negation) isCondition()         {}
func (RawCondition) isCondition()     {}

// Compare, bir kolon-değer karşılaştırması oluşturur.
func Compare(column string, op Operator, value any) Condition {
	return Comparison{Column: ParseColumn(column), Operator: op, Value: value}
}

// CompareColumns, iki kolonu karşılaştıran bir koşul oluşturur.
func CompareColumns(left string, op Operator, right string) Condition {
	return ColumnComparison{Left: ParseColumn(left), Operator: op, Right: ParseColumn(right)}
}

// Raw, ham bir SQL koşulu oluşturur.
func Raw(sql string, args ...any) Condition {
	return RawCondition{SQL: sql, Args: args}
}

// Combine, sol ve sağ koşulu op ile birleştirir. Taraflardan biri nil ise
// diğeri döner; böylece boş bir ağaca eklenen ilk koşul kök olur.
func Combine(op LogicalOp, left, right Condition) Condition {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return Logical{Op: op, Left: left, Right: right}
}

// AndOf, koşulları soldan sağa AND ile birleştirir.
func AndOf(conds ...Condition) Condition {
	var root Condition
	for _, c := range conds {
		root = Combine(And, root, c)
	}
	return root
}

// OrOf, koşulları soldan sağa OR ile birleştirir.
func OrOf(conds ...Condition) Condition {
	var root Condition
	for _, c := range conds {
		root = Combine(Or, root, c)
	}
	return root
}

// Not, bir koşulu olumsuzlar.
func Not(c Condition) Condition {
	return Negation{Inner: c}
}
