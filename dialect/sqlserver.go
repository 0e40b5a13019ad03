package dialect

import "strconv"

// SQLServerGrammar, Grammar arayüzünü Microsoft SQL Server için implemente eder.
// Tanımlayıcılar köşeli parantez ile sarılır, parametreler @p1, @p2 ... biçimindedir.
type SQLServerGrammar struct {
	BaseGrammar
}

// SQLServer, yeni bir SQL Server gramer örneği oluşturur.
func SQLServer() *SQLServerGrammar {
	return &SQLServerGrammar{
		BaseGrammar: BaseGrammar{name: "sqlserver", openQuote: "[", closeQuote: "]"},
	}
}

// Placeholder, sıfır tabanlı indeks için "@pn" döndürür.
func (g *SQLServerGrammar) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index+1)
}

// CompileSelect, bir SELECT sorgusunu derler.
func (g *SQLServerGrammar) CompileSelect(q QueryState) (string, []any, error) {
	return compileSelect(g, g, q)
}

// OFFSET ... FETCH bir ORDER BY gerektirir; sıralama verilmemişse
// ORDER BY (SELECT NULL) eklenir.
func (g *SQLServerGrammar) compileLimit(limit, offset *int, ordered bool) string {
	if limit == nil && offset == nil {
		return ""
	}

	tail := ""
	if !ordered {
		tail = "ORDER BY (SELECT NULL) "
	}

	skip := 0
	if offset != nil {
		skip = *offset
	}
	tail += "OFFSET " + strconv.Itoa(skip) + " ROWS"
	if limit != nil {
		tail += " FETCH NEXT " + strconv.Itoa(*limit) + " ROWS ONLY"
	}
	return tail
}
