package dialect

import "strconv"

// PostgresGrammar, Grammar arayüzünü PostgreSQL için implemente eder.
// Tanımlayıcılar çift tırnak ile sarılır, parametreler $1, $2 ... biçimindedir.
type PostgresGrammar struct {
	BaseGrammar
}

// Postgres, yeni bir PostgreSQL gramer örneği oluşturur.
func Postgres() *PostgresGrammar {
	return &PostgresGrammar{
		BaseGrammar: BaseGrammar{name: "postgres", openQuote: `"`, closeQuote: `"`},
	}
}

// Placeholder, sıfır tabanlı indeks için "$n" döndürür.
func (g *PostgresGrammar) Placeholder(index int) string {
	return "$" + strconv.Itoa(index+1)
}

// CompileSelect, bir SELECT sorgusunu derler.
func (g *PostgresGrammar) CompileSelect(q QueryState) (string, []any, error) {
	return compileSelect(g, g, q)
}

func (g *PostgresGrammar) compileLimit(limit, offset *int, _ bool) string {
	switch {
	case limit != nil && offset != nil:
		return "LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(*offset)
	case limit != nil:
		return "LIMIT " + strconv.Itoa(*limit)
	case offset != nil:
		return "OFFSET " + strconv.Itoa(*offset)
	}
	return ""
}
