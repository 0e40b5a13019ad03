// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package validation

import "strings"

// allowedOperators, render edilen SQL'de yer alabilecek operatörlerin beyaz listesidir.
var allowedOperators = map[string]bool{
	"=":           true,
	"<>":          true,
	"!=":          true,
	"<":           true,
	">":           true,
	"<=":          true,
	">=":          true,
	"LIKE":        true,
	"NOT LIKE":    true,
	"IN":          true,
	"NOT IN":      true,
	"IS NULL":     true,
	"IS NOT NULL": true,
}

// operatorAliases, dosya ve CLI girdilerinde kabul edilen kısa adları
// kanonik SQL operatörüne eşler.
var operatorAliases = map[string]string{
	"EQ":          "=",
	"EQUAL":       "=",
	"==":          "=",
	"NE":          "<>",
	"NOTEQUAL":    "<>",
	"!=":          "<>",
	"GT":          ">",
	"GREATER":     ">",
	"GE":          ">=",
	"GTE":         ">=",
	"LT":          "<",
	"LESS":        "<",
	"LE":          "<=",
	"LTE":         "<=",
	"ISNULL":      "IS NULL",
	"ISNOTNULL":   "IS NOT NULL",
	"NOTIN":       "NOT IN",
	"NOT_IN":      "NOT IN",
	"IS_NULL":     "IS NULL",
	"IS_NOT_NULL": "IS NOT NULL",
}

// ValidateOperator, operatörün beyaz listede olup olmadığını kontrol eder.
func ValidateOperator(op string) error {
	if !allowedOperators[strings.ToUpper(strings.TrimSpace(op))] {
		return &OperatorError{Operator: op, Reason: "operator not in allowed list"}
	}
	return nil
}

// NormalizeOperator, bir operatörü veya kısa adını kanonik SQL biçimine çevirir.
// "contains", "starts" ve "ends" gibi desen operatörleri SQL karşılığı
// olmadığından burada değil, dialect.ParseOperator içinde çözülür.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	if alias, ok := operatorAliases[normalized]; ok {
		normalized = alias
	}
	if !allowedOperators[normalized] {
		return "", &OperatorError{Operator: op, Reason: "operator not in allowed list"}
	}
	return normalized, nil
}

// IsComparisonOperator, operatörün temel karşılaştırma operatörü olup olmadığını döndürür.
func IsComparisonOperator(op string) bool {
	switch strings.ToUpper(strings.TrimSpace(op)) {
	case "=", "!=", "<>", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}

// OperatorError, operatör doğrulama hatasını temsil eder.
type OperatorError struct {
	Operator string
	Reason   string
}

// Error, error arayüzünü uygular.
func (e *OperatorError) Error() string {
	return "sqlquery: invalid operator '" + e.Operator + "': " + e.Reason
}
