package dialect

import "strconv"

// SQLiteGrammar, Grammar arayüzünü SQLite için implemente eder.
type SQLiteGrammar struct {
	BaseGrammar
}

// SQLite, yeni bir SQLite gramer örneği oluşturur.
func SQLite() *SQLiteGrammar {
	return &SQLiteGrammar{
		BaseGrammar: BaseGrammar{name: "sqlite", openQuote: `"`, closeQuote: `"`},
	}
}

// Placeholder, SQLite için her zaman "?" döndürür.
func (g *SQLiteGrammar) Placeholder(int) string {
	return "?"
}

// CompileSelect, bir SELECT sorgusunu derler.
func (g *SQLiteGrammar) CompileSelect(q QueryState) (string, []any, error) {
	return compileSelect(g, g, q)
}

// SQLite'ta OFFSET yalnızca LIMIT ile kullanılabilir; LIMIT -1 sınırsız demektir.
func (g *SQLiteGrammar) compileLimit(limit, offset *int, _ bool) string {
	switch {
	case limit != nil && offset != nil:
		return "LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(*offset)
	case limit != nil:
		return "LIMIT " + strconv.Itoa(*limit)
	case offset != nil:
		return "LIMIT -1 OFFSET " + strconv.Itoa(*offset)
	}
	return ""
}
