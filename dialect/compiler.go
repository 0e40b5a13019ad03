package dialect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/biyonik/go-sqlquery/internal/validation"
)

// compiler, tek bir derleme (render) işleminin durumunu taşır: üretilen SQL,
// bağlanan parametreler ve o ana kadar FROM/JOIN ile tanıtılan tablo isimleri.
type compiler struct {
	g    Grammar
	sql  strings.Builder
	args []any

	// scope, JOIN koşullarında başvurulabilecek qualifier'lardır.
	// opaque true ise ham bir FROM/JOIN parçası görülmüştür ve kontrol yapılmaz.
	scope  map[string]bool
	opaque bool
}

func newCompiler(g Grammar) *compiler {
	return &compiler{
		g:     g,
		args:  make([]any, 0),
		scope: make(map[string]bool),
	}
}

// compileSelect, tüm gramerlerin paylaştığı SELECT montaj hattıdır.
// Sıra: SELECT -> FROM -> JOIN -> WHERE -> ORDER BY -> LIMIT/OFFSET.
func compileSelect(g Grammar, p pager, q QueryState) (string, []any, error) {
	from := q.GetFrom()
	if len(from) == 0 {
		return "", nil, ErrNoTable
	}

	c := newCompiler(g)

	// SELECT
	c.sql.WriteString("SELECT ")
	if q.IsDistinct() {
		c.sql.WriteString("DISTINCT ")
	}
	if err := c.compileSelects(q.GetSelects()); err != nil {
		return "", nil, err
	}

	// FROM
	c.sql.WriteString(" FROM ")
	parts := make([]string, len(from))
	for i, item := range from {
		part, err := c.compileTableItem(item)
		if err != nil {
			return "", nil, err
		}
		parts[i] = part
	}
	c.sql.WriteString(strings.Join(parts, " "))

	// JOIN
	for _, join := range q.GetJoins() {
		if err := c.compileJoin(join); err != nil {
			return "", nil, err
		}
	}

	// WHERE
	if where := q.GetWhere(); where != nil {
		whereSQL, err := c.compileCondition(where)
		if err != nil {
			return "", nil, err
		}
		c.sql.WriteString(" WHERE ")
		c.sql.WriteString(whereSQL)
	}

	// ORDER BY
	orders := q.GetOrders()
	if len(orders) > 0 {
		orderParts := make([]string, len(orders))
		for i, order := range orders {
			if order.Raw != "" {
				orderParts[i] = order.Raw
				continue
			}
			wrapped, err := c.g.Wrap(order.Column.Qualified())
			if err != nil {
				return "", nil, err
			}
			dir := order.Direction
			if !dir.IsValid() {
				dir = OrderAsc
			}
			orderParts[i] = wrapped + " " + string(dir)
		}
		c.sql.WriteString(" ORDER BY ")
		c.sql.WriteString(strings.Join(orderParts, ", "))
	}

	// LIMIT / OFFSET
	if tail := p.compileLimit(q.GetLimit(), q.GetOffset(), len(orders) > 0); tail != "" {
		c.sql.WriteString(" ")
		c.sql.WriteString(tail)
	}

	return c.sql.String(), c.args, nil
}

func (c *compiler) bind(v any) string {
	ph := c.g.Placeholder(len(c.args))
	c.args = append(c.args, v)
	return ph
}

func (c *compiler) compileSelects(items []SelectItem) error {
	if len(items) == 0 {
		c.sql.WriteString("*")
		return nil
	}

	parts := make([]string, len(items))
	for i, item := range items {
		if item.IsRaw() {
			parts[i] = item.Raw
			continue
		}
		col, err := c.compileColumn(item.Column)
		if err != nil {
			return err
		}
		parts[i] = col
	}
	c.sql.WriteString(strings.Join(parts, ", "))
	return nil
}

// compileColumn, kolonu aliası ile birlikte render eder.
func (c *compiler) compileColumn(col Column) (string, error) {
	wrapped, err := c.g.Wrap(col.Qualified())
	if err != nil {
		return "", err
	}
	if col.Alias == "" {
		return wrapped, nil
	}
	alias, err := c.g.Wrap(col.Alias)
	if err != nil {
		return "", err
	}
	return wrapped + " AS " + alias, nil
}

func (c *compiler) compileTableItem(item TableItem) (string, error) {
	if item.IsRaw() {
		c.opaque = true
		return item.Raw, nil
	}
	wrapped, err := c.g.WrapTable(item.Table)
	if err != nil {
		return "", err
	}
	c.scope[strings.ToLower(item.Table.Qualifier())] = true
	return wrapped, nil
}

func (c *compiler) compileJoin(join JoinItem) error {
	target, err := c.compileTableItem(join.Target)
	if err != nil {
		return err
	}

	c.sql.WriteString(" ")
	c.sql.WriteString(join.Kind.String())
	c.sql.WriteString(" ")
	c.sql.WriteString(target)

	if join.On == nil {
		return nil
	}
	if err := c.checkScope(join.On); err != nil {
		return err
	}
	onSQL, err := c.compileCondition(join.On)
	if err != nil {
		return err
	}
	c.sql.WriteString(" ON ")
	c.sql.WriteString(onSQL)
	return nil
}

// checkScope, bir JOIN koşulundaki qualifier'ların FROM veya önceki/aynı
// JOIN ile tanıtıldığını doğrular.
func (c *compiler) checkScope(cond Condition) error {
	if c.opaque {
		return nil
	}
	check := func(col Column) error {
		if col.Table != "" && !c.scope[strings.ToLower(col.Table)] {
			return fmt.Errorf("%w: %q", ErrUnknownTable, col.Table)
		}
		return nil
	}

	switch v := cond.(type) {
	case Comparison:
		return check(v.Column)
	case ColumnComparison:
		if err := check(v.Left); err != nil {
			return err
		}
		return check(v.Right)
	case Logical:
		if err := c.checkScope(v.Left); err != nil {
			return err
		}
		return c.checkScope(v.Right)
	case Negation:
		return c.checkScope(v.Inner)
	}
	return nil
}

// compileCondition, koşul ağacını özyineli olarak derler. OR düğümleri
// parantez içine alınır; böylece soldan sağa birleştirme sırası SQL'in
// operatör önceliğinden bağımsız olarak korunur.
func (c *compiler) compileCondition(cond Condition) (string, error) {
	switch v := cond.(type) {
	case nil:
		return "", ErrNilCondition
	case Comparison:
		return c.compileComparison(v)
	case ColumnComparison:
		return c.compileColumnComparison(v)
	case Logical:
		left, err := c.compileCondition(v.Left)
		if err != nil {
			return "", err
		}
		right, err := c.compileCondition(v.Right)
		if err != nil {
			return "", err
		}
		if v.Op == Or {
			return "(" + left + " OR " + right + ")", nil
		}
		return left + " AND " + right, nil
	case Negation:
		inner, err := c.compileCondition(v.Inner)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case RawCondition:
		return c.compileRaw(v)
	default:
		return "", fmt.Errorf("dialect: unknown condition type %T", cond)
	}
}

func (c *compiler) compileComparison(cmp Comparison) (string, error) {
	if !cmp.Operator.IsValid() {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedOperator, cmp.Operator)
	}

	column, err := c.g.Wrap(cmp.Column.Qualified())
	if err != nil {
		return "", err
	}

	switch cmp.Operator {
	case IsNull, IsNotNull:
		return column + " " + cmp.Operator.SQL(), nil
	case Equal:
		if isNil(cmp.Value) {
			return column + " IS NULL", nil
		}
	case NotEqual:
		if isNil(cmp.Value) {
			return column + " IS NOT NULL", nil
		}
	case Contains, Starts, Ends:
		if isNil(cmp.Value) {
			return "", fmt.Errorf("%w: %s requires a non-nil pattern for %s", ErrUnsupportedOperator, cmp.Operator, cmp.Column.Qualified())
		}
	}

	switch cmp.Operator {
	case Contains:
		return column + " LIKE " + c.bind("%"+fmt.Sprint(deref(cmp.Value))+"%"), nil
	case Starts:
		return column + " LIKE " + c.bind(fmt.Sprint(deref(cmp.Value))+"%"), nil
	case Ends:
		return column + " LIKE " + c.bind("%"+fmt.Sprint(deref(cmp.Value))), nil
	case In, NotIn:
		values := expandValues(cmp.Value)
		if len(values) == 0 {
			return "", fmt.Errorf("%w: %s", ErrEmptyIn, cmp.Column.Qualified())
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = c.bind(v)
		}
		return column + " " + cmp.Operator.SQL() + " (" + strings.Join(placeholders, ", ") + ")", nil
	}

	if err := validation.ValidateOperator(cmp.Operator.SQL()); err != nil {
		return "", err
	}
	return column + " " + cmp.Operator.SQL() + " " + c.bind(cmp.Value), nil
}

func (c *compiler) compileColumnComparison(cmp ColumnComparison) (string, error) {
	if !cmp.Operator.IsComparison() {
		return "", fmt.Errorf("%w: %v between columns", ErrUnsupportedOperator, cmp.Operator)
	}
	if err := validation.ValidateOperator(cmp.Operator.SQL()); err != nil {
		return "", err
	}

	left, err := c.g.Wrap(cmp.Left.Qualified())
	if err != nil {
		return "", err
	}
	right, err := c.g.Wrap(cmp.Right.Qualified())
	if err != nil {
		return "", err
	}
	return left + " " + cmp.Operator.SQL() + " " + right, nil
}

// compileRaw, ham koşuldaki "?" yer tutucularını gramerin sözdizimine çevirir.
// Tek tırnaklı string sabitlerinin içindeki soru işaretlerine dokunulmaz.
func (c *compiler) compileRaw(raw RawCondition) (string, error) {
	var sb strings.Builder
	next := 0
	quoted := false

	for _, r := range raw.SQL {
		switch {
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case r == '?' && !quoted:
			if next >= len(raw.Args) {
				return "", fmt.Errorf("%w: %q", ErrRawBindings, raw.SQL)
			}
			sb.WriteString(c.bind(raw.Args[next]))
			next++
		default:
			sb.WriteRune(r)
		}
	}

	if next != len(raw.Args) {
		return "", fmt.Errorf("%w: %q", ErrRawBindings, raw.SQL)
	}
	return "(" + sb.String() + ")", nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return rv.Interface()
}

// expandValues, bir dilim veya diziyi elemanlarına açar. []byte ve tekil
// değerler tek elemanlı liste olarak ele alınır.
func expandValues(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{v}
		}
	case reflect.Array:
	default:
		return []any{v}
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
