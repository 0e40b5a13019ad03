package dialect

import "strconv"

/*
 * ----------------------------------------------------------------------------
 * MYSQL GRAMMAR IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * Sorgu durumunu MySQL/MariaDB SQL dizelerine dönüştüren gramer.
 * Tanımlayıcılar backtick (`) ile sarılır, parametreler sıralı soru işaretidir.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// mysqlMaxRows, yalnızca OFFSET verildiğinde kullanılan LIMIT değeridir.
// MySQL LIMIT olmadan OFFSET kabul etmez.
const mysqlMaxRows = "18446744073709551615"

// MySQLGrammar, Grammar arayüzünü MySQL ve MariaDB için implemente eder.
type MySQLGrammar struct {
	BaseGrammar
}

// MySQL, yeni bir MySQL gramer örneği oluşturur.
func MySQL() *MySQLGrammar {
	return &MySQLGrammar{
		BaseGrammar: BaseGrammar{name: "mysql", openQuote: "`", closeQuote: "`"},
	}
}

// Placeholder, MySQL için her zaman "?" döndürür.
func (g *MySQLGrammar) Placeholder(int) string {
	return "?"
}

// CompileSelect, bir SELECT sorgusunu derler.
func (g *MySQLGrammar) CompileSelect(q QueryState) (string, []any, error) {
	return compileSelect(g, g, q)
}

func (g *MySQLGrammar) compileLimit(limit, offset *int, _ bool) string {
	switch {
	case limit != nil && offset != nil:
		return "LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(*offset)
	case limit != nil:
		return "LIMIT " + strconv.Itoa(*limit)
	case offset != nil:
		return "LIMIT " + mysqlMaxRows + " OFFSET " + strconv.Itoa(*offset)
	}
	return ""
}
