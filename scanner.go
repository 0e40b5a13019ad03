package sqlquery

import (
	"database/sql"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/biyonik/go-sqlquery/naming"
)

//
// =====================================================================================
// SQLQUERY – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Sonuç kümesini istenen sonuç tipine eşler. Sonucun şekli hedef tipten çıkarılır:
//
//   scalar   (int, string, time.Time, []byte, sql.Scanner, *T)  → ilk satırın tek kolonu
//   struct / *struct                                           → ilk satır, kolon adına göre
//   map[string]any                                             → ilk satır
//   []T (T yukarıdakilerden biri)                              → tüm satırlar
//
// Tek satırlık şekillerde satır yoksa ErrNoRows döner. Şekil uyuşmazlıkları
// (tek kolon beklenirken çok kolon, alanı olmayan kolon, dönüştürülemeyen değer)
// MappingError olarak raporlanır.
//
// Struct alanları `db:"column"` etiketiyle, etiket yoksa isimlendirme stratejisi ve
// alan adının küçük harfli haliyle eşlenir. Tip analizleri sync.Map içinde önbelleğe alınır.
//
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Scanner, satırları Go değerlerine eşleyen sözleşmedir.
type Scanner interface {
	// Scan, rows'u dest'in işaret ettiği tipe eşler. rows her durumda kapatılır.
	Scan(rows *sql.Rows, dest any) error
}

// DefaultScanner, kütüphanenin reflection tabanlı tarayıcısıdır.
type DefaultScanner struct {
	naming naming.Strategy

	// IgnoreUnknownColumns true ise struct'ta karşılığı olmayan kolonlar atlanır;
	// false ise MappingError döner.
	IgnoreUnknownColumns bool

	cache sync.Map // reflect.Type → *structInfo
}

// NewDefaultScanner, verilen isimlendirme stratejisiyle bir tarayıcı oluşturur.
func NewDefaultScanner(s naming.Strategy) *DefaultScanner {
	if s == nil {
		s = naming.Default
	}
	return &DefaultScanner{naming: s}
}

type structInfo struct {
	columns map[string][]int // küçük harfli kolon adı → alan index yolu
}

type rowMapper func(rows *sql.Rows, target reflect.Value) error

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
	mapType     = reflect.TypeOf(map[string]any(nil))
)

// Scan, Scanner arayüzünü uygular.
func (s *DefaultScanner) Scan(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	v := reflect.ValueOf(dest)
	if !v.IsValid() || v.Kind() != reflect.Ptr {
		return ErrInvalidDestination
	}
	if v.IsNil() {
		return ErrNilDestination
	}
	target := v.Elem()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	t := target.Type()
	if t.Kind() == reflect.Slice && !isScalarType(t) {
		return s.scanAll(rows, columns, target)
	}

	mapper, err := s.mapper(t, columns)
	if err != nil {
		return err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNoRows
	}
	if err := mapper(rows, target); err != nil {
		return err
	}
	return rows.Err()
}

func (s *DefaultScanner) scanAll(rows *sql.Rows, columns []string, slice reflect.Value) error {
	mapper, err := s.mapper(slice.Type().Elem(), columns)
	if err != nil {
		return err
	}

	out := reflect.MakeSlice(slice.Type(), 0, 0)
	for rows.Next() {
		elem := reflect.New(slice.Type().Elem()).Elem()
		if err := mapper(rows, elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	slice.Set(out)
	return nil
}

// mapper, hedef tip ve kolon listesi için bir satır eşleyici üretir. Kolon
// eşlemesi satır başına değil, sonuç kümesi başına bir kez hesaplanır.
func (s *DefaultScanner) mapper(t reflect.Type, columns []string) (rowMapper, error) {
	switch {
	case isScalarType(t):
		if len(columns) != 1 {
			return nil, &MappingError{
				Target: t.String(),
				Reason: "scalar result requires exactly one column, got " + strconv.Itoa(len(columns)),
			}
		}
		return func(rows *sql.Rows, target reflect.Value) error {
			if err := rows.Scan(target.Addr().Interface()); err != nil {
				return &MappingError{Target: t.String(), Column: columns[0], Reason: "scan failed", Err: err}
			}
			return nil
		}, nil

	case t == mapType:
		return func(rows *sql.Rows, target reflect.Value) error {
			values := make([]any, len(columns))
			dests := make([]any, len(columns))
			for i := range values {
				dests[i] = &values[i]
			}
			if err := rows.Scan(dests...); err != nil {
				return &MappingError{Target: t.String(), Reason: "scan failed", Err: err}
			}
			m := make(map[string]any, len(columns))
			for i, col := range columns {
				if b, ok := values[i].([]byte); ok {
					m[col] = string(b)
					continue
				}
				m[col] = values[i]
			}
			target.Set(reflect.ValueOf(m))
			return nil
		}, nil

	case t.Kind() == reflect.Struct:
		return s.structMapper(t, columns)

	case t.Kind() == reflect.Ptr:
		inner, err := s.mapper(t.Elem(), columns)
		if err != nil {
			return nil, err
		}
		return func(rows *sql.Rows, target reflect.Value) error {
			p := reflect.New(t.Elem())
			if err := inner(rows, p.Elem()); err != nil {
				return err
			}
			target.Set(p)
			return nil
		}, nil
	}

	return nil, &MappingError{Target: t.String(), Reason: "unsupported result type"}
}

func (s *DefaultScanner) structMapper(t reflect.Type, columns []string) (rowMapper, error) {
	info := s.getStructInfo(t)

	paths := make([][]int, len(columns))
	for i, col := range columns {
		path, ok := info.columns[strings.ToLower(col)]
		if !ok {
			if s.IgnoreUnknownColumns {
				continue
			}
			return nil, &MappingError{Target: t.String(), Column: col, Reason: "no matching field"}
		}
		paths[i] = path
	}

	return func(rows *sql.Rows, target reflect.Value) error {
		dests := make([]any, len(columns))
		for i, path := range paths {
			if path == nil {
				var ignore any
				dests[i] = &ignore
				continue
			}
			dests[i] = fieldByIndexAlloc(target, path).Addr().Interface()
		}
		if err := rows.Scan(dests...); err != nil {
			return &MappingError{Target: t.String(), Reason: "scan failed", Err: err}
		}
		return nil
	}, nil
}

// fieldByIndexAlloc, gömülü pointer struct'ları gerektiğinde oluşturarak alana ulaşır.
func fieldByIndexAlloc(v reflect.Value, path []int) reflect.Value {
	for i, idx := range path {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v
}

func (s *DefaultScanner) getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{columns: make(map[string][]int)}
	s.parseStruct(t, nil, info)
	actual, _ := s.cache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

// parseStruct, gömülü struct'lar dahil tüm dışa açık alanları tarar.
// Aynı kolon adına ilk eşlenen alan kazanır.
func (s *DefaultScanner) parseStruct(t reflect.Type, index []int, info *structInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIndex := append(append([]int{}, index...), i)

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			// Dışa kapalı gömülü pointer, tarama sırasında oluşturulamaz.
			if field.Anonymous && !field.IsExported() {
				continue
			}
			ft = ft.Elem()
		}
		if field.Anonymous && ft.Kind() == reflect.Struct && !isScalarType(ft) && naming.ColumnTag(field) == "" {
			s.parseStruct(ft, fieldIndex, info)
			continue
		}
		if !field.IsExported() || field.Tag.Get("db") == "-" {
			continue
		}

		register := func(name string) {
			key := strings.ToLower(name)
			if _, exists := info.columns[key]; !exists {
				info.columns[key] = fieldIndex
			}
		}
		if tag := naming.ColumnTag(field); tag != "" {
			register(tag)
			continue
		}
		register(s.naming.Column(field.Name))
		register(field.Name)
	}
}

// isScalarType, tipin tek bir kolondan doğrudan taranabilen bir değer olup
// olmadığını döndürür.
func isScalarType(t reflect.Type) bool {
	if t == timeType || t == bytesType {
		return true
	}
	if reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Interface,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Ptr:
		return isScalarType(t.Elem())
	}
	return false
}
