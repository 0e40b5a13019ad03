package sqlquery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/biyonik/go-sqlquery/metrics"
)

// To, sorguyu çalıştırır ve sonucu T'ye eşler. Sonucun şekli T'den çıkarılır:
//
//	n, err := sqlquery.To[int64](ctx, countQuery)          // scalar
//	u, err := sqlquery.To[User](ctx, q.Limit(1))           // tek satır
//	users, err := sqlquery.To[[]User](ctx, q)              // tüm satırlar
//
// conn verilirse sorgu onun üzerinde çalışır ve bağlantı kapatılmaz; verilmezse
// DB'nin bağlantı sağlayıcısından bir bağlantı edinilir ve iş bitince serbest bırakılır.
func To[T any](ctx context.Context, q *Query, conn ...Executor) (T, error) {
	var out T
	if q == nil {
		return out, ErrNilQuery
	}
	if err := q.Scan(ctx, &out, conn...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// execute, derlenmiş bir ifadeyi çalıştırır ve dest'e tarar. Metrik ve log
// kaydı her çıkış yolunda yapılır.
func (d *DB) execute(ctx context.Context, st statement, dest any, async bool, conns []Executor) (err error) {
	id := uuid.New()
	name := d.grammar.Name()
	start := time.Now()
	finish := d.metrics.Start(name)

	defer func() {
		finish()
		elapsed := time.Since(start)
		d.metrics.Observe(name, async, elapsed, outcome(err))
		if d.debug {
			d.logger.Log(ctx, QueryEvent{
				ExecutionID: id,
				Dialect:     name,
				Query:       st.sql,
				Args:        st.args,
				Duration:    elapsed,
				Async:       async,
				Err:         err,
			})
		}
	}()

	exec, release, err := d.executor(ctx, conns, st, id)
	if err != nil {
		return err
	}
	if release != nil {
		defer func() {
			if rerr := release(); rerr != nil && err == nil {
				err = NewQueryError("release", rerr, st.sql, st.args, id)
			}
		}()
	}

	rows, err := exec.QueryContext(ctx, st.sql, st.args...)
	if err != nil {
		return NewQueryError("query", err, st.sql, st.args, id)
	}
	defer rows.Close()

	if err := d.scanner.Scan(rows, dest); err != nil {
		var mapping *MappingError
		switch {
		case errors.As(err, &mapping),
			errors.Is(err, ErrNoRows),
			errors.Is(err, ErrNilDestination),
			errors.Is(err, ErrInvalidDestination):
			return err
		}
		return NewQueryError("scan", err, st.sql, st.args, id)
	}
	return nil
}

// executor, verilen ilk nil olmayan bağlantıyı kullanır; yoksa sağlayıcıdan edinir.
// release yalnızca edinilen bağlantılar için nil değildir.
func (d *DB) executor(ctx context.Context, conns []Executor, st statement, id uuid.UUID) (Executor, func() error, error) {
	for _, c := range conns {
		if c != nil {
			return c, nil, nil
		}
	}
	if d.provider == nil {
		return nil, nil, ErrNoConnection
	}

	exec, release, err := d.provider.Acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrNoConnection) {
			return nil, nil, err
		}
		return nil, nil, NewQueryError("acquire", err, st.sql, st.args, id)
	}
	if exec == nil {
		if release != nil {
			_ = release()
		}
		return nil, nil, ErrNoConnection
	}
	return exec, release, nil
}

func outcome(err error) string {
	var mapping *MappingError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoRows):
		return metrics.OutcomeNoRows
	case errors.As(err, &mapping):
		return metrics.OutcomeMapping
	}
	return metrics.OutcomeError
}
