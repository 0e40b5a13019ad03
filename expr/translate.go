package expr

import (
	"errors"
	"reflect"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/naming"
)

// ErrUnsupported, çevirmenin koşula dönüştüremediği ifade şekilleri için döner.
var ErrUnsupported = errors.New("sqlquery: unsupported expression")

// UnsupportedError, çevrilemeyen ifadeyi ve nedenini taşır.
// errors.Is(err, ErrUnsupported) true döner.
type UnsupportedError struct {
	Expr   Expr
	Reason string
}

func (e *UnsupportedError) Error() string {
	return "sqlquery: unsupported expression " + describe(e.Expr) + ": " + e.Reason
}

// Is, errors.Is desteği sağlar.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func unsupported(e Expr, reason string) error {
	return &UnsupportedError{Expr: e, Reason: reason}
}

// Translator, ifade ağacını dialect kolonlarına ve koşullarına çevirir.
//
// Kolon qualifier önceliği: TableAlias (açık seçenek) > Qualifier(entity)
// (FromEntity/JoinEntity ile kaydedilen alias) > qualifier yok.
type Translator struct {
	Naming     naming.Strategy
	TableAlias string
	Qualifier  func(Entity) string
}

// Column, bir üyeyi kolon referansına çevirir.
func (t Translator) Column(m Member) (dialect.Column, error) {
	if m.err != nil {
		return dialect.Column{}, m.err
	}
	if m.Field == "" {
		return dialect.Column{}, unsupported(m, "member has no field")
	}

	name := m.Column
	if name == "" {
		s := t.Naming
		if s == nil {
			s = naming.Default
		}
		name = s.Column(m.Field)
	}

	qualifier := t.TableAlias
	if qualifier == "" && t.Qualifier != nil {
		qualifier = t.Qualifier(m.Entity)
	}
	return dialect.Column{Table: qualifier, Name: name, Alias: m.Alias}, nil
}

// Columns, bir projeksiyonu kolon listesine çevirir.
func (t Translator) Columns(p Projection) ([]dialect.Column, error) {
	cols := make([]dialect.Column, 0, len(p))
	for _, m := range p {
		col, err := t.Column(m)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Condition, bir boolean ifadeyi koşul ağacına çevirir. AND/OR birleşimleri
// özyineli olarak çevrilir; desteklenmeyen her şekil UnsupportedError döndürür.
func (t Translator) Condition(e Expr) (dialect.Condition, error) {
	switch v := e.(type) {
	case nil:
		return nil, unsupported(nil, "nil expression")
	case Compare:
		return t.compare(v)
	case Member:
		col, err := t.Column(v)
		if err != nil {
			return nil, err
		}
		if v.kind != reflect.Bool {
			return nil, unsupported(v, "non-boolean member used as a predicate")
		}
		return dialect.Comparison{Column: col, Operator: dialect.Equal, Value: true}, nil
	case Logical:
		left, err := t.Condition(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.Condition(v.Right)
		if err != nil {
			return nil, err
		}
		return dialect.Logical{Op: v.Op, Left: left, Right: right}, nil
	case Not:
		inner, err := t.Condition(v.Inner)
		if err != nil {
			return nil, err
		}
		return negate(inner), nil
	case Const:
		return nil, unsupported(v, "constant used as a predicate")
	default:
		return nil, unsupported(e, "unknown expression node")
	}
}

func (t Translator) compare(c Compare) (dialect.Condition, error) {
	if !c.Op.IsValid() {
		return nil, unsupported(c, "invalid operator")
	}

	leftMember, leftIsMember := c.Left.(Member)
	rightMember, rightIsMember := c.Right.(Member)
	leftConst, leftIsConst := c.Left.(Const)
	rightConst, rightIsConst := c.Right.(Const)

	switch {
	case leftIsMember && rightIsMember:
		if !c.Op.IsComparison() {
			return nil, unsupported(c, "operator "+c.Op.String()+" cannot compare two members")
		}
		left, err := t.Column(leftMember)
		if err != nil {
			return nil, err
		}
		right, err := t.Column(rightMember)
		if err != nil {
			return nil, err
		}
		return dialect.ColumnComparison{Left: left, Operator: c.Op, Right: right}, nil

	case leftIsMember && rightIsConst:
		col, err := t.Column(leftMember)
		if err != nil {
			return nil, err
		}
		return dialect.Comparison{Column: col, Operator: c.Op, Value: rightConst.Value}, nil

	case leftIsConst && rightIsMember:
		// 18 <= u.Age  =>  u.Age >= 18
		if !c.Op.IsComparison() {
			return nil, unsupported(c, "constant on the left of "+c.Op.String())
		}
		col, err := t.Column(rightMember)
		if err != nil {
			return nil, err
		}
		return dialect.Comparison{Column: col, Operator: c.Op.Flip(), Value: leftConst.Value}, nil
	}

	return nil, unsupported(c, "comparison must involve at least one member and only members or constants")
}

func negate(c dialect.Condition) dialect.Condition {
	switch v := c.(type) {
	case dialect.Comparison:
		if op, ok := v.Operator.Negate(); ok {
			v.Operator = op
			return v
		}
	case dialect.ColumnComparison:
		if op, ok := v.Operator.Negate(); ok {
			v.Operator = op
			return v
		}
	case dialect.Negation:
		return v.Inner
	}
	return dialect.Not(c)
}

// JoinCondition, iki üyenin tek bir ikili karşılaştırmasını JOIN koşuluna
// çevirir. Daha zengin her şekil UnsupportedError döndürür.
func (t Translator) JoinCondition(e Expr) (dialect.ColumnComparison, error) {
	c, ok := e.(Compare)
	if !ok {
		return dialect.ColumnComparison{}, unsupported(e, "join condition must be a single comparison of two members")
	}
	if _, ok := c.Left.(Member); !ok {
		return dialect.ColumnComparison{}, unsupported(e, "join condition must be a single comparison of two members")
	}
	if _, ok := c.Right.(Member); !ok {
		return dialect.ColumnComparison{}, unsupported(e, "join condition must be a single comparison of two members")
	}

	cond, err := t.compare(c)
	if err != nil {
		return dialect.ColumnComparison{}, err
	}
	return cond.(dialect.ColumnComparison), nil
}

// SingleComparison, ifadenin tek bir üye-sabit karşılaştırması olmasını
// bekler ve onu döndürür. Koşullu where çağrıları sabit değeri bu yolla okur.
func (t Translator) SingleComparison(e Expr) (dialect.Comparison, error) {
	c, ok := e.(Compare)
	if !ok {
		return dialect.Comparison{}, unsupported(e, "expected a single comparison between a member and a value")
	}
	cond, err := t.compare(c)
	if err != nil {
		return dialect.Comparison{}, err
	}
	cmp, ok := cond.(dialect.Comparison)
	if !ok {
		return dialect.Comparison{}, unsupported(e, "expected a single comparison between a member and a value")
	}
	return cmp, nil
}
