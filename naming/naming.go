// Package naming, Go alan ve tip isimlerini kolon ve tablo isimlerine çeviren
// isimlendirme stratejilerini sağlar.
//
// Varsayılan strateji Verbatim'dir: alan adı olduğu gibi kolon adı, tip adı
// olduğu gibi tablo adı olur. SnakeCase "UserID" -> "user_id" dönüşümü yapar.
// Bir struct alanının `db:"..."` etiketi ve bir tipin TableName() metodu her
// zaman stratejiden önce gelir.
package naming

import (
	"reflect"
	"strings"
	"unicode"
)

// Strategy, alan ve tip isimlerini veritabanı isimlerine çevirir.
type Strategy interface {
	Column(field string) string
	Table(typeName string) string
}

// Tabler, tablo adını kendisi belirleyen entity tipleri tarafından uygulanır.
type Tabler interface {
	TableName() string
}

// Schemer, şemasını kendisi belirleyen entity tipleri tarafından uygulanır.
type Schemer interface {
	SchemaName() string
}

// Verbatim, isimleri değiştirmeden kullanır.
type Verbatim struct{}

func (Verbatim) Column(field string) string  { return field }
func (Verbatim) Table(typeName string) string { return typeName }

// SnakeCase, isimleri küçük harfli ve alt çizgili biçime çevirir.
type SnakeCase struct{}

func (SnakeCase) Column(field string) string  { return ToSnake(field) }
func (SnakeCase) Table(typeName string) string { return ToSnake(typeName) }

// Default, paket genelinde kullanılan varsayılan stratejidir.
var Default Strategy = Verbatim{}

// ByName, yapılandırmadaki strateji adını çözer. Boş veya bilinmeyen ad
// için Default döner.
func ByName(name string) Strategy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "snake", "snake_case", "snakecase":
		return SnakeCase{}
	default:
		return Default
	}
}

// ToSnake, "UserID" -> "user_id", "HTTPServer" -> "http_server" dönüşümü yapar.
func ToSnake(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// TableFor, bir entity tipinin tablo adını ve şemasını çözer. Öncelik:
// TableName()/SchemaName() metotları, ardından stratejinin tip adına uygulanması.
func TableFor(t reflect.Type, s Strategy) (name, schema string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if s == nil {
		s = Default
	}

	zero := reflect.New(t).Interface()
	if tb, ok := zero.(Tabler); ok {
		name = tb.TableName()
	}
	if sc, ok := zero.(Schemer); ok {
		schema = sc.SchemaName()
	}
	if name == "" {
		name = s.Table(t.Name())
	}
	return name, schema
}

// ColumnTag, bir struct alanının `db` etiketindeki kolon adını döndürür.
// Etiket yoksa veya "-" ise boş string döner.
func ColumnTag(f reflect.StructField) string {
	tag := f.Tag.Get("db")
	if tag == "" || tag == "-" {
		return ""
	}
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
