// Package validation, sorgu oluşturucunun yapılandırılmış yollarında (From, Join, Select,
// Where, On) kullanılan tablo, kolon, şema ve alias isimlerini doğrular.
//
// Ham (raw) parçalar bu paketten geçmez; AppendSelect / AppendFrom / AppendJoin ile verilen
// metin olduğu gibi SQL'e yazılır ve hatalı olması halinde hata sürücüden gelir.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength, tek bir tanımlayıcı için izin verilen en uzun değerdir.
const MaxIdentifierLength = 128

// nameRegex tek parçalı bir ismi doğrular: harf veya alt çizgi ile başlar,
// harf, rakam ve alt çizgi ile devam eder.
var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// tableSpecRegex "table", "table alias", "table as alias" ve şemalı
// "schema.table [as] alias" biçimlerini eşler.
var tableSpecRegex = regexp.MustCompile(`(?i)^([a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)?)(?:\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*))?$`)

// columnSpecRegex "col", "t.col", "t.col as alias", "t.col alias" ve "t.*" biçimlerini eşler.
var columnSpecRegex = regexp.MustCompile(`(?i)^(?:([a-zA-Z_][a-zA-Z0-9_]*)\.)?([a-zA-Z_][a-zA-Z0-9_]*|\*)(?:\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*))?$`)

// ValidateName, tek parçalı bir tanımlayıcıyı (kolon, tablo, alias, şema) doğrular.
func ValidateName(name string) error {
	if name == "" {
		return &IdentifierError{Identifier: name, Reason: "identifier cannot be empty"}
	}
	if len(name) > MaxIdentifierLength {
		return &IdentifierError{Identifier: name, Reason: "identifier exceeds maximum length of 128 characters"}
	}
	if !nameRegex.MatchString(name) {
		return &IdentifierError{
			Identifier: name,
			Reason:     "identifier contains invalid characters; only letters, numbers and underscores are allowed",
		}
	}
	return nil
}

// ValidateIdentifier, "name" veya "qualifier.name" biçimindeki bir referansı doğrular.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{Identifier: id, Reason: "identifier cannot be empty"}
	}
	parts := strings.Split(id, ".")
	if len(parts) > 2 {
		return &IdentifierError{Identifier: id, Reason: "reference can have at most one dot (qualifier.name)"}
	}
	for _, part := range parts {
		if err := ValidateName(part); err != nil {
			return &IdentifierError{Identifier: id, Reason: err.(*IdentifierError).Reason}
		}
	}
	return nil
}

// ValidateAlias, boş değilse bir alias değerini doğrular. Boş alias geçerlidir.
func ValidateAlias(alias string) error {
	if alias == "" {
		return nil
	}
	if err := ValidateName(alias); err != nil {
		return &IdentifierError{Identifier: alias, Reason: "invalid alias: " + err.(*IdentifierError).Reason}
	}
	return nil
}

// ParseTable, "Users", "Users u", "Users as u" ve "dbo.Users u" biçimlerini
// şema, tablo adı ve alias olarak ayırır.
func ParseTable(spec string) (schema, name, alias string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", "", &IdentifierError{Identifier: spec, Reason: "table name cannot be empty"}
	}

	m := tableSpecRegex.FindStringSubmatch(spec)
	if m == nil {
		return "", "", "", &IdentifierError{Identifier: spec, Reason: "invalid table reference"}
	}

	name, alias = m[1], m[2]
	if i := strings.IndexByte(name, '.'); i >= 0 {
		schema, name = name[:i], name[i+1:]
	}
	if len(name) > MaxIdentifierLength {
		return "", "", "", &IdentifierError{Identifier: name, Reason: "identifier exceeds maximum length of 128 characters"}
	}
	return schema, name, alias, nil
}

// ParseColumn, tek bir kolon tanımını qualifier, kolon ve alias olarak ayırır.
// ok false ise girdi yapılandırılmış bir kolon değildir (ör. "COUNT(*)") ve
// çağıran onu ham ifade olarak ele almalıdır.
func ParseColumn(spec string) (qualifier, name, alias string, ok bool) {
	m := columnSpecRegex.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// IdentifierError, tanımlayıcı doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "sqlquery: invalid identifier: " + e.Reason
	}
	return "sqlquery: invalid identifier '" + e.Identifier + "': " + e.Reason
}
