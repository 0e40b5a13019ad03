package sqlquery

import (
	"github.com/biyonik/go-sqlquery/dialect"
)

// ============================================================================
// Builder – SQL üretici
// ============================================================================
//
// Builder, bir Query'nin belirli bir andaki durumunu ve o durumu derleyecek
// grameri taşır. Çalıştırma yapmadan SQL metnine ve parametrelere doğrudan
// erişmek gerektiğinde kullanılır:
//
//	sql, args, err := q.NewBuilder().Build()
//
// Builder değiştirilemez (immutable); aynı durum WithGrammar ile başka bir
// dialect için de derlenebilir.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com

// Builder, derlenmeye hazır bir sorgu anlık görüntüsüdür.
type Builder struct {
	grammar dialect.Grammar
	state   *dialect.State
	err     error
}

// Build, durumu derler. Query biriktirilirken bir hata kaydedildiyse o döner.
func (b *Builder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	grammar := b.grammar
	if grammar == nil {
		grammar = dialect.MySQL()
	}
	return grammar.CompileSelect(b.state)
}

// String, yalnızca SQL metnini döndürür; hata durumunda boş string.
// Hata ayıklama ve loglama içindir.
func (b *Builder) String() string {
	sql, _, err := b.Build()
	if err != nil {
		return ""
	}
	return sql
}

// Grammar, derlemede kullanılacak grameri döndürür.
func (b *Builder) Grammar() dialect.Grammar {
	return b.grammar
}

// State, derlenecek sorgu durumunu döndürür.
func (b *Builder) State() dialect.QueryState {
	return b.state
}

// Err, anlık görüntüyle birlikte taşınan biriktirme hatasını döndürür.
func (b *Builder) Err() error {
	return b.err
}

// WithGrammar, aynı durumu başka bir gramerle derleyen bir kopya döndürür.
func (b *Builder) WithGrammar(g dialect.Grammar) *Builder {
	return &Builder{grammar: g, state: b.state, err: b.err}
}

// statement, derlenmiş bir SELECT'tir.
type statement struct {
	sql  string
	args []any
}

func (q *Query) statement() (statement, error) {
	sql, args, err := q.NewBuilder().Build()
	if err != nil {
		return statement{}, err
	}
	return statement{sql: sql, args: args}, nil
}
