package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersState() *State {
	return &State{From: []TableItem{{Table: Table{Name: "Users", Alias: "u"}}}}
}

func intPtr(n int) *int { return &n }

func TestCompileSelect_NoTable(t *testing.T) {
	_, _, err := MySQL().CompileSelect(&State{})
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestCompileSelect_DefaultsToStar(t *testing.T) {
	sql, args, err := MySQL().CompileSelect(usersState())
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `Users` AS `u`", sql)
	assert.Empty(t, args)
}

func TestCompileSelect_Distinct(t *testing.T) {
	s := usersState()
	s.Distinct = true
	s.Selects = []SelectItem{{Column: Column{Table: "u", Name: "Email"}}}

	sql, _, err := Postgres().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, `SELECT DISTINCT "u"."Email" FROM "Users" AS "u"`, sql)
}

func TestCompileSelect_RawItemsVerbatim(t *testing.T) {
	s := &State{
		Selects: []SelectItem{{Raw: "COUNT(*) AS total"}},
		From:    []TableItem{{Raw: "(SELECT 1 AS x) t"}},
		Orders:  []OrderItem{{Raw: "total DESC NULLS LAST"}},
	}

	sql, _, err := Postgres().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS total FROM (SELECT 1 AS x) t ORDER BY total DESC NULLS LAST", sql)
}

func TestCompileSelect_SchemaQualifiedTable(t *testing.T) {
	s := &State{From: []TableItem{{Table: Table{Schema: "dbo", Name: "Users"}}}}

	sql, _, err := SQLServer().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM [dbo].[Users]", sql)
}

func TestCompileCondition_Operators(t *testing.T) {
	tests := []struct {
		name  string
		cond  Condition
		where string
		args  []any
	}{
		{"equal", Compare("Age", Equal, 18), "`Age` = ?", []any{18}},
		{"not equal", Compare("Age", NotEqual, 18), "`Age` <> ?", []any{18}},
		{"less equal", Compare("Age", LessEqual, 65), "`Age` <= ?", []any{65}},
		{"equal nil", Compare("DeletedAt", Equal, nil), "`DeletedAt` IS NULL", nil},
		{"not equal nil", Compare("DeletedAt", NotEqual, nil), "`DeletedAt` IS NOT NULL", nil},
		{"nil pointer", Compare("DeletedAt", Equal, (*int)(nil)), "`DeletedAt` IS NULL", nil},
		{"is null", Compare("DeletedAt", IsNull, "ignored"), "`DeletedAt` IS NULL", nil},
		{"is not null", Compare("DeletedAt", IsNotNull, nil), "`DeletedAt` IS NOT NULL", nil},
		{"contains", Compare("Name", Contains, "al"), "`Name` LIKE ?", []any{"%al%"}},
		{"starts", Compare("Name", Starts, "al"), "`Name` LIKE ?", []any{"al%"}},
		{"ends", Compare("Name", Ends, "al"), "`Name` LIKE ?", []any{"%al"}},
		{"in", Compare("Id", In, []int{1, 2, 3}), "`Id` IN (?, ?, ?)", []any{1, 2, 3}},
		{"not in array", Compare("Id", NotIn, [2]string{"a", "b"}), "`Id` NOT IN (?, ?)", []any{"a", "b"}},
		{"in scalar", Compare("Id", In, 7), "`Id` IN (?)", []any{7}},
		{"not", Not(Compare("Active", Equal, true)), "NOT (`Active` = ?)", []any{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{From: []TableItem{{Table: Table{Name: "Users"}}}, Where: tt.cond}

			sql, args, err := MySQL().CompileSelect(s)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM `Users` WHERE "+tt.where, sql)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestCompileCondition_EmptyIn(t *testing.T) {
	s := usersState()
	s.Where = Compare("u.Id", In, []int{})

	_, _, err := MySQL().CompileSelect(s)
	assert.ErrorIs(t, err, ErrEmptyIn)
}

func TestCompileCondition_PatternWithNilValue(t *testing.T) {
	var name *string
	for _, op := range []Operator{Contains, Starts, Ends} {
		for _, v := range []any{nil, name} {
			s := usersState()
			s.Where = Compare("u.Name", op, v)

			sql, args, err := MySQL().CompileSelect(s)
			assert.ErrorIs(t, err, ErrUnsupportedOperator, op.String())
			assert.Empty(t, sql)
			assert.Empty(t, args)
		}
	}
}

func TestCompileCondition_LogicalGrouping(t *testing.T) {
	a := Compare("A", Equal, 1)
	b := Compare("B", Equal, 2)
	c := Compare("C", Equal, 3)

	tests := []struct {
		name  string
		cond  Condition
		where string
	}{
		{"(a or b) and c", Combine(And, Combine(Or, a, b), c), "(`A` = ? OR `B` = ?) AND `C` = ?"},
		{"a and b or c", Combine(Or, Combine(And, a, b), c), "(`A` = ? AND `B` = ? OR `C` = ?)"},
		{"a or (b and c)", Combine(Or, a, Combine(And, b, c)), "(`A` = ? OR `B` = ? AND `C` = ?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{From: []TableItem{{Table: Table{Name: "T"}}}, Where: tt.cond}

			sql, args, err := MySQL().CompileSelect(s)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM `T` WHERE "+tt.where, sql)
			assert.Len(t, args, 3)
		})
	}
}

func TestCombine_NilSides(t *testing.T) {
	a := Compare("A", Equal, 1)

	assert.Equal(t, a, Combine(And, nil, a))
	assert.Equal(t, a, Combine(Or, a, nil))
	assert.Nil(t, AndOf())
}

func TestCompileRaw_RebindsPlaceholders(t *testing.T) {
	s := usersState()
	s.Where = AndOf(
		Compare("u.Age", GreaterEqual, 18),
		Raw("u.Name = '?' OR u.Score > ?", 10),
	)

	sql, args, err := Postgres().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "Users" AS "u" WHERE "u"."Age" >= $1 AND (u.Name = '?' OR u.Score > $2)`, sql)
	assert.Equal(t, []any{18, 10}, args)
}

func TestCompileRaw_BindingMismatch(t *testing.T) {
	for _, raw := range []Condition{
		Raw("a = ? AND b = ?", 1),
		Raw("a = 1", 1),
	} {
		s := usersState()
		s.Where = raw

		_, _, err := SQLite().CompileSelect(s)
		assert.ErrorIs(t, err, ErrRawBindings)
	}
}

func TestCompileJoin_Scope(t *testing.T) {
	t.Run("known qualifiers", func(t *testing.T) {
		s := usersState()
		s.Joins = []JoinItem{
			{Target: TableItem{Table: Table{Name: "Orders", Alias: "o"}}, On: CompareColumns("u.Id", Equal, "o.UserId")},
			{Kind: JoinRight, Target: TableItem{Table: Table{Name: "Items"}}, On: CompareColumns("Items.OrderId", Equal, "o.Id")},
		}

		sql, _, err := MySQL().CompileSelect(s)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `Users` AS `u` INNER JOIN `Orders` AS `o` ON `u`.`Id` = `o`.`UserId` "+
			"RIGHT JOIN `Items` ON `Items`.`OrderId` = `o`.`Id`", sql)
	})

	t.Run("unknown qualifier", func(t *testing.T) {
		s := usersState()
		s.Joins = []JoinItem{
			{Target: TableItem{Table: Table{Name: "Orders", Alias: "o"}}, On: CompareColumns("u.Id", Equal, "x.UserId")},
		}

		_, _, err := MySQL().CompileSelect(s)
		assert.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("later join is not in scope", func(t *testing.T) {
		s := usersState()
		s.Joins = []JoinItem{
			{Target: TableItem{Table: Table{Name: "Orders", Alias: "o"}}, On: CompareColumns("i.OrderId", Equal, "o.Id")},
			{Target: TableItem{Table: Table{Name: "Items", Alias: "i"}}},
		}

		_, _, err := MySQL().CompileSelect(s)
		assert.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("raw item disables check", func(t *testing.T) {
		s := usersState()
		s.Joins = []JoinItem{
			{Target: TableItem{Raw: "LATERAL (SELECT 1) AS l"}},
			{Target: TableItem{Table: Table{Name: "Orders", Alias: "o"}}, On: CompareColumns("x.Id", Equal, "o.Id")},
		}

		_, _, err := Postgres().CompileSelect(s)
		assert.NoError(t, err)
	})

	t.Run("join without on", func(t *testing.T) {
		s := usersState()
		s.Joins = []JoinItem{{Kind: JoinLeft, Target: TableItem{Table: Table{Name: "Orders"}}}}

		sql, _, err := SQLite().CompileSelect(s)
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM "Users" AS "u" LEFT JOIN "Orders"`, sql)
	})
}

func TestCompileLimit(t *testing.T) {
	tests := []struct {
		name    string
		grammar Grammar
		limit   *int
		offset  *int
		ordered bool
		tail    string
	}{
		{"mysql both", MySQL(), intPtr(10), intPtr(5), false, " LIMIT 10 OFFSET 5"},
		{"mysql limit", MySQL(), intPtr(10), nil, false, " LIMIT 10"},
		{"mysql offset", MySQL(), nil, intPtr(5), false, " LIMIT 18446744073709551615 OFFSET 5"},
		{"postgres offset", Postgres(), nil, intPtr(5), false, " OFFSET 5"},
		{"sqlite offset", SQLite(), nil, intPtr(5), false, " LIMIT -1 OFFSET 5"},
		{"sqlserver both unordered", SQLServer(), intPtr(10), intPtr(5), false, " ORDER BY (SELECT NULL) OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY"},
		{"sqlserver limit unordered", SQLServer(), intPtr(10), nil, false, " ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY"},
		{"sqlserver offset ordered", SQLServer(), nil, intPtr(5), true, " ORDER BY [Id] ASC OFFSET 5 ROWS"},
		{"none", Postgres(), nil, nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{From: []TableItem{{Table: Table{Name: "T"}}}, Limit: tt.limit, Offset: tt.offset}
			if tt.ordered {
				s.Orders = []OrderItem{{Column: Column{Name: "Id"}}}
			}

			sql, _, err := tt.grammar.CompileSelect(s)
			require.NoError(t, err)

			table, _ := tt.grammar.WrapTable(Table{Name: "T"})
			assert.Equal(t, "SELECT * FROM "+table+tt.tail, sql)
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		grammar Grammar
		in      string
		out     string
	}{
		{MySQL(), "u.Name", "`u`.`Name`"},
		{MySQL(), "u.*", "`u`.*"},
		{Postgres(), "Name", `"Name"`},
		{SQLite(), "*", "*"},
		{SQLServer(), "dbo.Users", "[dbo].[Users]"},
	}

	for _, tt := range tests {
		t.Run(tt.grammar.Name()+"/"+tt.in, func(t *testing.T) {
			got, err := tt.grammar.Wrap(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.out, got)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", MySQL().Placeholder(3))
	assert.Equal(t, "$4", Postgres().Placeholder(3))
	assert.Equal(t, "?", SQLite().Placeholder(3))
	assert.Equal(t, "@p4", SQLServer().Placeholder(3))
}

func TestByName(t *testing.T) {
	tests := map[string]string{
		"":           "mysql",
		"MariaDB":    "mysql",
		"pgx":        "postgres",
		"postgresql": "postgres",
		"sqlite3":    "sqlite",
		" mssql ":    "sqlserver",
	}

	for in, want := range tests {
		g, err := ByName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g.Name())
	}

	_, err := ByName("oracle")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

func TestDriverName(t *testing.T) {
	tests := map[string]string{
		"postgres":   "pgx",
		"PostgreSQL": "pgx",
		"pgx":        "pgx",
		"sqlite":     "sqlite3",
		"MariaDB":    "mysql",
		"mssql":      "sqlserver",
		"custom":     "custom",
	}
	for in, want := range tests {
		assert.Equal(t, want, DriverName(in), in)
	}
}

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"":             Equal,
		"=":            Equal,
		"!=":           NotEqual,
		"ge":           GreaterEqual,
		"GreaterEqual": GreaterEqual,
		"<":            Less,
		"like":         Contains,
		"starts_with":  Starts,
		"EndsWith":     Ends,
		"in":           In,
		"not_in":       NotIn,
		"isnull":       IsNull,
		"IS NOT NULL":  IsNotNull,
	}

	for in, want := range tests {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOperator("<=>")
	assert.Error(t, err)
}

func TestOperator_NegateAndFlip(t *testing.T) {
	neg, ok := GreaterEqual.Negate()
	assert.True(t, ok)
	assert.Equal(t, Less, neg)

	_, ok = Contains.Negate()
	assert.False(t, ok)

	assert.Equal(t, LessEqual, GreaterEqual.Flip())
	assert.Equal(t, Equal, Equal.Flip())
	assert.False(t, Operator(42).IsValid())
	assert.Equal(t, "Operator(42)", Operator(42).String())
}

func TestOperator_IsComparison(t *testing.T) {
	for _, op := range []Operator{Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual} {
		assert.True(t, op.IsComparison(), op.String())
	}
	for _, op := range []Operator{Contains, Starts, Ends, In, NotIn, IsNull, IsNotNull, Operator(42)} {
		assert.False(t, op.IsComparison(), op.String())
	}
}

func TestOperator_AsClauseOption(t *testing.T) {
	o := ResolveOptions([]ClauseOption{nil, Less, ClauseOptionFunc(func(o *ClauseOptions) { o.TableAlias = "u" })})

	assert.Equal(t, Less, o.Operator)
	assert.Equal(t, "u", o.TableAlias)
	assert.Equal(t, Equal, ResolveOptions(nil).Operator)
}

func TestStateClone_Independent(t *testing.T) {
	s := usersState()
	s.Limit = intPtr(5)
	s.Selects = []SelectItem{{Column: Column{Name: "Id"}}}

	c := s.Clone()
	*c.Limit = 50
	c.Selects[0].Column.Name = "Name"
	c.From = append(c.From, TableItem{Raw: "x"})

	assert.Equal(t, 5, *s.Limit)
	assert.Equal(t, "Id", s.Selects[0].Column.Name)
	assert.Len(t, s.From, 1)
}

func TestDialectError(t *testing.T) {
	var de *DialectError
	assert.True(t, errors.As(ErrEmptyIn, &de))
	assert.Equal(t, "dialect: empty slice passed to IN", ErrEmptyIn.Error())
}
