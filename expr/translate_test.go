package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/naming"
)

type User struct {
	ID        int    `db:"user_id"`
	Name      string
	Age       int
	Active    bool
	CreatedAt *string
	secret    string
}

type Order struct {
	ID     int
	UserID int
}

func TestField(t *testing.T) {
	m := Field[User]("ID")
	require.NoError(t, m.Err())
	assert.Equal(t, "user_id", m.Column)
	assert.Equal(t, "User.ID", m.String())

	assert.ErrorIs(t, Field[User]("Missing").Err(), ErrUnsupported)
	assert.ErrorIs(t, Field[User]("secret").Err(), ErrUnsupported)
	assert.ErrorIs(t, Field[int]("X").Err(), ErrUnsupported)
}

func TestEntityOf(t *testing.T) {
	e := EntityOf[*User]()
	assert.Equal(t, "User", e.Name())
	assert.False(t, e.IsZero())
	assert.True(t, Entity{}.IsZero())

	name, _ := EntityOf[Order]().Table(naming.SnakeCase{})
	assert.Equal(t, "order", name)
}

func TestTranslator_Column(t *testing.T) {
	qualifier := func(e Entity) string {
		if e.Name() == "User" {
			return "u"
		}
		return ""
	}

	tr := Translator{Naming: naming.SnakeCase{}, Qualifier: qualifier}

	col, err := tr.Column(Field[User]("CreatedAt").As("created"))
	require.NoError(t, err)
	assert.Equal(t, dialect.Column{Table: "u", Name: "created_at", Alias: "created"}, col)

	col, err = tr.Column(Field[User]("ID"))
	require.NoError(t, err)
	assert.Equal(t, "user_id", col.Name)

	tr.TableAlias = "x"
	col, err = tr.Column(Field[User]("Name"))
	require.NoError(t, err)
	assert.Equal(t, "x", col.Table)

	cols, err := Translator{}.Columns(Columns(Field[User]("Name"), Field[Order]("UserID")))
	require.NoError(t, err)
	assert.Equal(t, []dialect.Column{{Name: "Name"}, {Name: "UserID"}}, cols)
}

func TestTranslator_Condition(t *testing.T) {
	age := Field[User]("Age")
	name := Field[User]("Name")
	tr := Translator{}

	tests := []struct {
		name string
		expr Expr
		want dialect.Condition
	}{
		{
			"member ge const",
			age.Ge(18),
			dialect.Comparison{Column: dialect.Column{Name: "Age"}, Operator: dialect.GreaterEqual, Value: 18},
		},
		{
			"const on the left flips",
			Compare{Left: Value(18), Op: dialect.LessEqual, Right: age},
			dialect.Comparison{Column: dialect.Column{Name: "Age"}, Operator: dialect.GreaterEqual, Value: 18},
		},
		{
			"member to member",
			Field[Order]("UserID").Eq(Field[User]("ID")),
			dialect.ColumnComparison{Left: dialect.Column{Name: "UserID"}, Operator: dialect.Equal, Right: dialect.Column{Name: "user_id"}},
		},
		{
			"boolean member",
			Field[User]("Active"),
			dialect.Comparison{Column: dialect.Column{Name: "Active"}, Operator: dialect.Equal, Value: true},
		},
		{
			"and or",
			And(age.Gt(1), Or(name.StartsWith("A"), name.IsNull())),
			dialect.Logical{
				Op:   dialect.And,
				Left: dialect.Comparison{Column: dialect.Column{Name: "Age"}, Operator: dialect.Greater, Value: 1},
				Right: dialect.Logical{
					Op:    dialect.Or,
					Left:  dialect.Comparison{Column: dialect.Column{Name: "Name"}, Operator: dialect.Starts, Value: "A"},
					Right: dialect.Comparison{Column: dialect.Column{Name: "Name"}, Operator: dialect.IsNull},
				},
			},
		},
		{
			"negated comparison inverts operator",
			Negate(age.Lt(30)),
			dialect.Comparison{Column: dialect.Column{Name: "Age"}, Operator: dialect.GreaterEqual, Value: 30},
		},
		{
			"negated pattern keeps NOT",
			Negate(name.Contains("x")),
			dialect.Negation{Inner: dialect.Comparison{Column: dialect.Column{Name: "Name"}, Operator: dialect.Contains, Value: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Condition(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslator_Unsupported(t *testing.T) {
	age := Field[User]("Age")
	tr := Translator{}

	tests := []struct {
		name string
		expr Expr
	}{
		{"nil", nil},
		{"constant predicate", Value(true)},
		{"non-boolean member", age},
		{"two constants", Compare{Left: Value(1), Op: dialect.Equal, Right: Value(1)}},
		{"pattern between members", age.Contains(Field[User]("Name"))},
		{"pattern with constant on the left", Compare{Left: Value("a"), Op: dialect.Starts, Right: age}},
		{"invalid operator", age.Op(dialect.Operator(99), 1)},
		{"unknown field", Field[User]("Nope").Eq(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Condition(tt.expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))
		})
	}
}

func TestTranslator_JoinCondition(t *testing.T) {
	tr := Translator{}

	cond, err := tr.JoinCondition(Field[User]("ID").Eq(Field[Order]("UserID")))
	require.NoError(t, err)
	assert.Equal(t, dialect.Equal, cond.Operator)
	assert.Equal(t, "user_id", cond.Left.Name)

	_, err = tr.JoinCondition(Field[User]("ID").Eq(5))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = tr.JoinCondition(And(Field[User]("ID").Eq(Field[Order]("UserID")), Field[User]("Active")))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTranslator_SingleComparison(t *testing.T) {
	tr := Translator{}

	cmp, err := tr.SingleComparison(Field[User]("Name").Eq("bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob", cmp.Value)

	_, err = tr.SingleComparison(Field[User]("ID").Eq(Field[Order]("UserID")))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestString(t *testing.T) {
	e := And(Field[User]("Age").Ge(18), Negate(Field[User]("Active")))
	assert.Equal(t, "((User.Age GreaterEqual 18) AND NOT User.Active)", e.String())
	assert.Equal(t, "User.Name, Order.ID", Columns(Field[User]("Name"), Field[Order]("ID")).String())
}
