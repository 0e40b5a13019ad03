package sqlquery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultAsyncWorkers, paylaşılan async havuzunun eşzamanlı çalıştırma sınırıdır.
const DefaultAsyncWorkers = 64

var (
	sharedPoolOnce sync.Once
	sharedPool     *ants.Pool
	sharedPoolErr  error
)

// NewAsyncPool, ToAsync için bloklamayan bir ants havuzu oluşturur. Havuz
// doluyken gönderilen işler ErrAsyncRejected ile sonuçlanır.
func NewAsyncPool(size int) (*ants.Pool, error) {
	if size <= 0 {
		size = DefaultAsyncWorkers
	}
	return ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			slog.Error("sqlquery: async worker panicked", slog.Any("panic", p))
		}),
	)
}

func (d *DB) asyncPool() (*ants.Pool, error) {
	if d.pool != nil {
		return d.pool, nil
	}
	sharedPoolOnce.Do(func() {
		sharedPool, sharedPoolErr = NewAsyncPool(DefaultAsyncWorkers)
	})
	return sharedPool, sharedPoolErr
}

// Future, ToAsync ile başlatılan bir çalıştırmanın sonucudur. Bir kez çözülür.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.value, f.err = v, err
	close(f.done)
}

// Done, sonuç hazır olduğunda kapanan kanalı döndürür.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await, sonucu veya ctx iptal edilirse ctx.Err() döndürür. ctx'in iptali
// çalıştırmayı durdurmaz; çalıştırma ToAsync'e verilen context'e bağlıdır.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result, sonucu bekler.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

// ToAsync, To'nun bloklamayan karşılığıdır. Sorgu çağrı anında derlenir;
// sonradan Query'de yapılan değişiklikler bu çalıştırmayı etkilemez.
// Çalıştırma async havuzunda yapılır ve Future üzerinden okunur.
//
//	f := sqlquery.ToAsync[[]User](ctx, q)
//	// ...
//	users, err := f.Await(ctx)
func ToAsync[T any](ctx context.Context, q *Query, conn ...Executor) *Future[T] {
	f := newFuture[T]()
	var zero T

	if q == nil {
		f.resolve(zero, ErrNilQuery)
		return f
	}
	st, err := q.statement()
	if err != nil {
		f.resolve(zero, err)
		return f
	}

	db := q.db
	conns := append([]Executor(nil), conn...)
	pool, err := db.asyncPool()
	if err != nil {
		f.resolve(zero, fmt.Errorf("%w: %v", ErrAsyncRejected, err))
		return f
	}

	task := func() {
		defer func() {
			if r := recover(); r != nil {
				f.resolve(zero, fmt.Errorf("sqlquery: async execution panicked: %v", r))
			}
		}()
		var out T
		err := db.execute(ctx, st, &out, true, conns)
		if err != nil {
			f.resolve(zero, err)
			return
		}
		f.resolve(out, nil)
	}

	if err := pool.Submit(task); err != nil {
		f.resolve(zero, fmt.Errorf("%w: %v", ErrAsyncRejected, err))
	}
	return f
}
