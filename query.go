package sqlquery

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/expr"
	"github.com/biyonik/go-sqlquery/internal/validation"
)

/*
 * ----------------------------------------------------------------------------
 * SQLQUERY – QUERY (AKICI SORGU ARAYÜZÜ)
 * ----------------------------------------------------------------------------
 *
 * Query, bir SELECT ifadesinin cümlelerini zincirleme çağrılarla biriktirir:
 *
 *	q := db.Query().
 *	    From("Users", sqlquery.As("u")).
 *	    Join("Orders", sqlquery.As("o")).On("u.Id", "o.UserId").
 *	    Where("u.Age", 18, sqlquery.GreaterEqual).
 *	    Select("u.Id, u.Name")
 *
 *	users, err := sqlquery.To[[]User](ctx, q)
 *
 * Kurallar:
 *   - Tüm biriktirme metotları aynı *Query'yi döndürür ve panic üretmez.
 *   - Hata çağrı anında kaydedilir; ilk hata kazanır, Err() ile hemen görülür
 *     ve her terminal işlem (NewBuilder().Build, ToSQL, To, ToAsync) onu döndürür.
 *   - Where ailesi koşulları AND ile birleştirir; And / Or kendi bağlacıyla.
 *     Birleştirme kesinlikle soldan sağadır: Where(A).Or(B).And(C) → (A OR B) AND C.
 *   - Query yeniden kullanılabilir: terminal çağrılar durumu tüketmez.
 *   - Query eşzamanlı değişiklik için güvenli DEĞİLDİR; bu çağıranın sorumluluğudur.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// Query, biriktirilen sorgu durumudur.
type Query struct {
	db    *DB
	state *dialect.State

	// aliases, FromEntity/JoinEntity ile kaydedilen entity tiplerinin
	// qualifier'larıdır (alias, yoksa tablo adı).
	aliases map[reflect.Type]string

	err error
}

func newQuery(db *DB) *Query {
	return &Query{
		db:      db,
		state:   &dialect.State{},
		aliases: make(map[reflect.Type]string),
	}
}

func (q *Query) setErr(err error) {
	if q.err == nil && err != nil {
		q.err = err
	}
}

// Err, biriktirme sırasında kaydedilen ilk hatayı döndürür.
func (q *Query) Err() error {
	return q.err
}

func (q *Query) translator(o dialect.ClauseOptions) expr.Translator {
	return expr.Translator{
		Naming:     q.db.naming,
		TableAlias: o.TableAlias,
		Qualifier:  q.qualifier,
	}
}

func (q *Query) qualifier(e expr.Entity) string {
	if e.IsZero() {
		return ""
	}
	return q.aliases[e.Type()]
}

// ============================================================================
// SELECT
// ============================================================================

// Select, virgülle ayrılmış kolon listesini seçim listesine ekler. Önceki
// seçimler korunur. "Name", "u.Name", "u.Name as n" ve "u.*" biçimindeki
// parçalar yapılandırılmış kolon olarak tırnaklanır; diğer her şey
// ("COUNT(*) AS total" gibi) doğrulanmadan olduğu gibi yazılır.
//
// TableAlias seçeneği niteleyicisiz kolonları niteler; ColumnAlias yalnızca
// tek kolonluk çağrılarda uygulanır.
func (q *Query) Select(columns string, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	parts := splitColumns(columns)
	for _, part := range parts {
		q.state.Selects = append(q.state.Selects, selectItem(part, o, len(parts) == 1))
	}
	return q
}

func selectItem(part string, o dialect.ClauseOptions, single bool) dialect.SelectItem {
	qualifier, name, alias, ok := validation.ParseColumn(part)
	if !ok {
		return dialect.SelectItem{Raw: part}
	}
	if qualifier == "" {
		qualifier = o.TableAlias
	}
	if alias == "" && single {
		alias = o.ColumnAlias
	}
	return dialect.SelectItem{Column: dialect.Column{Table: qualifier, Name: name, Alias: alias}}
}

// splitColumns, listeyi parantez ve tek tırnak dışındaki virgüllerden böler.
func splitColumns(s string) []string {
	var (
		parts  []string
		depth  int
		quoted bool
		start  int
	)
	flush := func(end int) {
		if part := strings.TrimSpace(s[start:end]); part != "" {
			parts = append(parts, part)
		}
	}
	for i, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
		case quoted:
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return parts
}

// SelectExpr, tipli bir projeksiyonun üyelerini seçim listesine ekler.
//
//	q.SelectExpr(expr.Columns(expr.Field[User]("Id"), expr.Field[User]("Name")))
func (q *Query) SelectExpr(p expr.Projection, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	cols, err := q.translator(o).Columns(p)
	if err != nil {
		q.setErr(err)
		return q
	}
	for _, col := range cols {
		if col.Alias == "" && len(cols) == 1 {
			col.Alias = o.ColumnAlias
		}
		q.state.Selects = append(q.state.Selects, dialect.SelectItem{Column: col})
	}
	return q
}

// SelectColumn, tek bir tipli üyeyi seçer.
func (q *Query) SelectColumn(m expr.Member, opts ...ClauseOption) *Query {
	return q.SelectExpr(expr.Columns(m), opts...)
}

// AppendSelect, ham bir SQL parçasını seçim listesine olduğu gibi ekler.
func (q *Query) AppendSelect(sql string) *Query {
	if sql = strings.TrimSpace(sql); sql != "" {
		q.state.Selects = append(q.state.Selects, dialect.SelectItem{Raw: sql})
	}
	return q
}

// Distinct, SELECT DISTINCT üretir.
func (q *Query) Distinct() *Query {
	q.state.Distinct = true
	return q
}

// ============================================================================
// FROM
// ============================================================================

// From, ana tabloyu ayarlar. İkinci çağrı öncekinin yerine geçer; AppendFrom
// ile eklenen ham parçalar korunur. Tablo metni aliası da taşıyabilir
// ("Users u", "Users as u", "dbo.Users u"); As ve Schema seçenekleri önceliklidir.
func (q *Query) From(table string, opts ...ClauseOption) *Query {
	q.setFrom(tableFor(table, dialect.ResolveOptions(opts)))
	return q
}

// FromEntity, ana tabloyu entity tipinden çözer. Tablo adı naming.Tabler,
// şema naming.Schemer ile özelleştirilebilir; aksi halde isimlendirme
// stratejisi uygulanır. Entity'nin qualifier'ı tipli ifadeler için kaydedilir.
//
//	q.FromEntity(expr.EntityOf[User](), sqlquery.As("u"))
func (q *Query) FromEntity(e expr.Entity, opts ...ClauseOption) *Query {
	t, ok := q.entityTable(e, dialect.ResolveOptions(opts))
	if ok {
		q.setFrom(t)
	}
	return q
}

// AppendFrom, FROM cümlesine ham bir parça ekler.
func (q *Query) AppendFrom(sql string) *Query {
	if sql = strings.TrimSpace(sql); sql != "" {
		q.state.From = append(q.state.From, dialect.TableItem{Raw: sql})
	}
	return q
}

// setFrom, ilk yapılandırılmış FROM öğesini değiştirir; yoksa listenin başına ekler.
func (q *Query) setFrom(t dialect.Table) {
	item := dialect.TableItem{Table: t}
	for i, existing := range q.state.From {
		if !existing.IsRaw() {
			q.state.From[i] = item
			return
		}
	}
	q.state.From = append([]dialect.TableItem{item}, q.state.From...)
}

// tableFor, tablo metnini çözer. Çözülemeyen metin ad olarak saklanır ve
// render sırasında doğrulama hatasına dönüşür.
func tableFor(spec string, o dialect.ClauseOptions) dialect.Table {
	t, err := dialect.ParseTable(spec)
	if err != nil {
		t = dialect.Table{Name: strings.TrimSpace(spec)}
	}
	if o.TableAlias != "" {
		t.Alias = o.TableAlias
	}
	if o.Schema != "" {
		t.Schema = o.Schema
	}
	return t
}

func (q *Query) entityTable(e expr.Entity, o dialect.ClauseOptions) (dialect.Table, bool) {
	if e.IsZero() {
		q.setErr(&ExpressionError{Reason: "zero entity"})
		return dialect.Table{}, false
	}
	name, schema := e.Table(q.db.naming)
	t := dialect.Table{Schema: schema, Name: name, Alias: o.TableAlias}
	if o.Schema != "" {
		t.Schema = o.Schema
	}
	q.aliases[e.Type()] = t.Qualifier()
	return t, true
}

// ============================================================================
// JOIN
// ============================================================================

// Join, bir INNER JOIN ekler.
func (q *Query) Join(table string, opts ...ClauseOption) *Query {
	return q.join(dialect.JoinInner, table, opts)
}

// LeftJoin, bir LEFT JOIN ekler.
func (q *Query) LeftJoin(table string, opts ...ClauseOption) *Query {
	return q.join(dialect.JoinLeft, table, opts)
}

// RightJoin, bir RIGHT JOIN ekler.
func (q *Query) RightJoin(table string, opts ...ClauseOption) *Query {
	return q.join(dialect.JoinRight, table, opts)
}

func (q *Query) join(kind dialect.JoinKind, table string, opts []ClauseOption) *Query {
	t := tableFor(table, dialect.ResolveOptions(opts))
	q.state.Joins = append(q.state.Joins, dialect.JoinItem{Kind: kind, Target: dialect.TableItem{Table: t}})
	return q
}

// JoinEntity, entity tipinden çözülen tabloya INNER JOIN ekler.
func (q *Query) JoinEntity(e expr.Entity, opts ...ClauseOption) *Query {
	return q.joinEntity(dialect.JoinInner, e, opts)
}

// LeftJoinEntity, entity tipinden çözülen tabloya LEFT JOIN ekler.
func (q *Query) LeftJoinEntity(e expr.Entity, opts ...ClauseOption) *Query {
	return q.joinEntity(dialect.JoinLeft, e, opts)
}

// RightJoinEntity, entity tipinden çözülen tabloya RIGHT JOIN ekler.
func (q *Query) RightJoinEntity(e expr.Entity, opts ...ClauseOption) *Query {
	return q.joinEntity(dialect.JoinRight, e, opts)
}

func (q *Query) joinEntity(kind dialect.JoinKind, e expr.Entity, opts []ClauseOption) *Query {
	t, ok := q.entityTable(e, dialect.ResolveOptions(opts))
	if ok {
		q.state.Joins = append(q.state.Joins, dialect.JoinItem{Kind: kind, Target: dialect.TableItem{Table: t}})
	}
	return q
}

// AppendJoin, "INNER JOIN" anahtar kelimesinden sonra ham hedef metni yazar.
//
//	q.AppendJoin("(SELECT UserId FROM Bans) b ON b.UserId = u.Id")
func (q *Query) AppendJoin(sql string) *Query {
	return q.appendJoin(dialect.JoinInner, sql)
}

// AppendLeftJoin, ham bir LEFT JOIN ekler.
func (q *Query) AppendLeftJoin(sql string) *Query {
	return q.appendJoin(dialect.JoinLeft, sql)
}

// AppendRightJoin, ham bir RIGHT JOIN ekler.
func (q *Query) AppendRightJoin(sql string) *Query {
	return q.appendJoin(dialect.JoinRight, sql)
}

func (q *Query) appendJoin(kind dialect.JoinKind, sql string) *Query {
	if sql = strings.TrimSpace(sql); sql != "" {
		q.state.Joins = append(q.state.Joins, dialect.JoinItem{Kind: kind, Target: dialect.TableItem{Raw: sql}})
	}
	return q
}

// ============================================================================
// ON
// ============================================================================

// On, en son eklenen JOIN'in koşulunu iki kolonla kurar. Operatör varsayılan
// olarak Equal'dır. Aynı JOIN'e yapılan ikinci On çağrısı AND ile birleşir.
// Henüz JOIN yoksa ErrOnWithoutJoin kaydedilir.
func (q *Query) On(left, right string, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	return q.addOn(dialect.ColumnComparison{
		Left:     dialect.ParseColumn(left),
		Operator: o.Operator,
		Right:    dialect.ParseColumn(right),
	})
}

// OnColumns, JOIN koşulunu iki tipli üyeden kurar.
//
//	q.OnColumns(expr.Field[User]("Id"), expr.Field[Order]("UserId"))
func (q *Query) OnColumns(left, right expr.Member, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	tr := q.translator(dialect.ClauseOptions{})
	l, err := tr.Column(left)
	if err != nil {
		q.setErr(err)
		return q
	}
	r, err := tr.Column(right)
	if err != nil {
		q.setErr(err)
		return q
	}
	return q.addOn(dialect.ColumnComparison{Left: l, Operator: o.Operator, Right: r})
}

// OnExpr, iki üyenin tek bir ikili karşılaştırmasını JOIN koşuluna çevirir.
// Daha zengin ifadeler ErrUnsupportedExpression kaydeder.
//
//	q.OnExpr(expr.Field[User]("Id").Eq(expr.Field[Order]("UserId")))
func (q *Query) OnExpr(e expr.Expr) *Query {
	cond, err := q.translator(dialect.ClauseOptions{}).JoinCondition(e)
	if err != nil {
		q.setErr(err)
		return q
	}
	return q.addOn(cond)
}

func (q *Query) addOn(cond dialect.Condition) *Query {
	if len(q.state.Joins) == 0 {
		q.setErr(ErrOnWithoutJoin)
		return q
	}
	last := &q.state.Joins[len(q.state.Joins)-1]
	last.On = dialect.Combine(dialect.And, last.On, cond)
	return q
}

// ============================================================================
// AND / OR
// ============================================================================

// And, hazır bir koşulu ağaca AND ile ekler. Ağaç boşsa koşul kök olur.
// nil koşul yok sayılır.
func (q *Query) And(cond dialect.Condition) *Query {
	q.combine(dialect.And, cond)
	return q
}

// Or, hazır bir koşulu ağaca OR ile ekler: kök = (kök OR koşul).
func (q *Query) Or(cond dialect.Condition) *Query {
	q.combine(dialect.Or, cond)
	return q
}

func (q *Query) combine(op dialect.LogicalOp, cond dialect.Condition) {
	q.state.Where = dialect.Combine(op, q.state.Where, cond)
}

// ============================================================================
// WHERE
// ============================================================================

// Where, bir kolon-değer karşılaştırması ekler. Operatör seçenek olarak verilir
// (varsayılan Equal); TableAlias niteleyicisiz kolonu niteler.
//
//	q.Where("Age", 18, sqlquery.GreaterEqual, sqlquery.TableAlias("u"))
func (q *Query) Where(column string, value any, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	col := dialect.ParseColumn(column)
	if col.Table == "" {
		col = col.WithTable(o.TableAlias)
	}
	q.combine(dialect.And, dialect.Comparison{Column: col, Operator: o.Operator, Value: value})
	return q
}

// WhereColumn, tipli bir üye ile değer karşılaştırması ekler.
func (q *Query) WhereColumn(m expr.Member, value any, opts ...ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	col, err := q.translator(o).Column(m)
	if err != nil {
		q.setErr(err)
		return q
	}
	q.combine(dialect.And, dialect.Comparison{Column: col, Operator: o.Operator, Value: value})
	return q
}

// WhereExpr, bir boolean ifadeyi koşul ağacına çevirip AND ile ekler.
// AND/OR birleşimleri özyineli çevrilir; çevrilemeyen şekiller
// ErrUnsupportedExpression kaydeder ve hiçbir koşul eklenmez.
func (q *Query) WhereExpr(e expr.Expr, opts ...ClauseOption) *Query {
	cond, err := q.translator(dialect.ResolveOptions(opts)).Condition(e)
	if err != nil {
		q.setErr(err)
		return q
	}
	q.combine(dialect.And, cond)
	return q
}

// WhereCondition, hazır bir koşulu AND ile ekler.
func (q *Query) WhereCondition(cond dialect.Condition) *Query {
	return q.And(cond)
}

// WhereRaw, "?" yer tutuculu ham bir koşul ekler. Yer tutucular gramerin
// sözdizimine çevrilir.
func (q *Query) WhereRaw(sql string, args ...any) *Query {
	return q.And(dialect.Raw(sql, args...))
}

// WhereIf, ok true ise Where ile aynıdır; aksi halde hiçbir şey yapmaz.
func (q *Query) WhereIf(column string, value any, ok bool, opts ...ClauseOption) *Query {
	if !ok {
		return q
	}
	return q.Where(column, value, opts...)
}

// WhereColumnIf, ok true ise WhereColumn ile aynıdır.
func (q *Query) WhereColumnIf(m expr.Member, value any, ok bool, opts ...ClauseOption) *Query {
	if !ok {
		return q
	}
	return q.WhereColumn(m, value, opts...)
}

// WhereExprIf, ok true ise WhereExpr ile aynıdır. ok false iken ifade
// çevrilmez, dolayısıyla hata da kaydedilmez.
func (q *Query) WhereExprIf(e expr.Expr, ok bool, opts ...ClauseOption) *Query {
	if !ok {
		return q
	}
	return q.WhereExpr(e, opts...)
}

// WhereIfNotEmpty, değer boş değilse Where ile aynıdır. Boş sayılanlar:
// nil, nil pointer, boş veya yalnızca boşluk içeren string, sıfır sayı,
// false, sıfır time.Time, boş dilim ve map. Pointer işaret ettiği değere
// göre değerlendirilir.
func (q *Query) WhereIfNotEmpty(column string, value any, opts ...ClauseOption) *Query {
	if isEmpty(value) {
		return q
	}
	return q.Where(column, value, opts...)
}

// WhereColumnIfNotEmpty, değer boş değilse WhereColumn ile aynıdır.
func (q *Query) WhereColumnIfNotEmpty(m expr.Member, value any, opts ...ClauseOption) *Query {
	if isEmpty(value) {
		return q
	}
	return q.WhereColumn(m, value, opts...)
}

// WhereExprIfNotEmpty, tek bir üye-değer karşılaştırması bekler ve değer boş
// değilse onu ekler. IsNull / IsNotNull her zaman eklenir. Bileşik ifadeler
// ErrUnsupportedExpression kaydeder.
func (q *Query) WhereExprIfNotEmpty(e expr.Expr, opts ...ClauseOption) *Query {
	cmp, err := q.translator(dialect.ResolveOptions(opts)).SingleComparison(e)
	if err != nil {
		q.setErr(err)
		return q
	}
	if cmp.Operator != dialect.IsNull && cmp.Operator != dialect.IsNotNull && isEmpty(cmp.Value) {
		return q
	}
	q.combine(dialect.And, cmp)
	return q
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if t, ok := v.(time.Time); ok {
		return t.IsZero()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isEmpty(rv.Elem().Interface())
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return rv.IsZero()
}

// ============================================================================
// ORDER BY / LIMIT / OFFSET
// ============================================================================

// OrderBy, artan sıralama ekler.
func (q *Query) OrderBy(column string, opts ...ClauseOption) *Query {
	return q.orderBy(column, dialect.OrderAsc, opts)
}

// OrderByDesc, azalan sıralama ekler.
func (q *Query) OrderByDesc(column string, opts ...ClauseOption) *Query {
	return q.orderBy(column, dialect.OrderDesc, opts)
}

func (q *Query) orderBy(column string, dir dialect.OrderDirection, opts []ClauseOption) *Query {
	o := dialect.ResolveOptions(opts)
	col := dialect.ParseColumn(column)
	if col.Table == "" {
		col = col.WithTable(o.TableAlias)
	}
	q.state.Orders = append(q.state.Orders, dialect.OrderItem{Column: col, Direction: dir})
	return q
}

// OrderByExpr, tipli bir üyeye göre sıralar.
func (q *Query) OrderByExpr(m expr.Member, desc bool, opts ...ClauseOption) *Query {
	col, err := q.translator(dialect.ResolveOptions(opts)).Column(m)
	if err != nil {
		q.setErr(err)
		return q
	}
	col.Alias = ""
	dir := dialect.OrderAsc
	if desc {
		dir = dialect.OrderDesc
	}
	q.state.Orders = append(q.state.Orders, dialect.OrderItem{Column: col, Direction: dir})
	return q
}

// AppendOrderBy, ORDER BY listesine ham bir parça ekler.
func (q *Query) AppendOrderBy(sql string) *Query {
	if sql = strings.TrimSpace(sql); sql != "" {
		q.state.Orders = append(q.state.Orders, dialect.OrderItem{Raw: sql})
	}
	return q
}

// Limit, döndürülecek en fazla satır sayısını ayarlar.
func (q *Query) Limit(n int) *Query {
	q.state.Limit = &n
	return q
}

// Offset, atlanacak satır sayısını ayarlar.
func (q *Query) Offset(n int) *Query {
	q.state.Offset = &n
	return q
}

// Take, Limit aliasıdır.
func (q *Query) Take(n int) *Query {
	return q.Limit(n)
}

// Skip, Offset aliasıdır.
func (q *Query) Skip(n int) *Query {
	return q.Offset(n)
}

// Page, sayfa numarası ve sayfa boyutundan LIMIT/OFFSET hesaplar. Geçersiz
// değerler NewPagination'ın varsayılanlarına çekilir.
func (q *Query) Page(page, perPage int) *Query {
	p := NewPagination(page, perPage, 0)
	return q.Limit(p.PerPage).Offset(p.Offset())
}

// ============================================================================
// Yaşam döngüsü
// ============================================================================

// Clone, durumun bağımsız bir kopyasını döndürür.
func (q *Query) Clone() *Query {
	c := &Query{
		db:      q.db,
		state:   q.state.Clone(),
		aliases: make(map[reflect.Type]string, len(q.aliases)),
		err:     q.err,
	}
	for t, a := range q.aliases {
		c.aliases[t] = a
	}
	return c
}

// Reset, tüm cümleleri ve kaydedilmiş hatayı temizler.
func (q *Query) Reset() *Query {
	q.state = &dialect.State{}
	q.aliases = make(map[reflect.Type]string)
	q.err = q.db.initErr
	return q
}

// NewBuilder, mevcut durumun anlık görüntüsünü taşıyan bir SQL üreticisi
// döndürür. Query'de sonradan yapılan değişiklikler Builder'ı etkilemez.
func (q *Query) NewBuilder() *Builder {
	return &Builder{
		grammar: q.db.grammar,
		state:   q.state.Clone(),
		err:     q.err,
	}
}

// ToSQL, sorguyu derler ve SQL metnini parametreleriyle döndürür.
func (q *Query) ToSQL() (string, []any, error) {
	return q.NewBuilder().Build()
}

// Scan, sorguyu çalıştırır ve sonucu dest'e eşler. dest'in tipi sonucun
// şeklini belirler (bkz. Scanner).
func (q *Query) Scan(ctx context.Context, dest any, conn ...Executor) error {
	st, err := q.statement()
	if err != nil {
		return err
	}
	return q.db.execute(ctx, st, dest, false, conn)
}
