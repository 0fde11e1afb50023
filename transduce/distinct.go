package transduce

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Distinct drops inputs already seen among the last size distinct inputs.
// Memory stays bounded on infinite sources; an input evicted from the window
// passes again when it reappears. Distinct panics if size is not positive.
func Distinct[A any, T comparable](size int) Transducer[A, T, T] {
	if size <= 0 {
		panic("transduce.Distinct: size must be positive")
	}
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &distinctReducer[A, T, T]{next: next[A, T]{inner}, seen: newWindow[T](size), key: identityKey[T]}
	})
}

// DistinctBy is Distinct keyed by key(input). Keys are stored as 64-bit
// xxhash digests, so long keys cost a fixed amount of memory per entry.
// DistinctBy panics if size is not positive.
func DistinctBy[A, T any](key func(T) string, size int) Transducer[A, T, T] {
	if size <= 0 {
		panic("transduce.DistinctBy: size must be positive")
	}
	hashed := func(in T) uint64 { return xxhash.Sum64String(key(in)) }
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &distinctReducer[A, T, uint64]{next: next[A, T]{inner}, seen: newWindow[uint64](size), key: hashed}
	})
}

func identityKey[T any](in T) T { return in }

func newWindow[K comparable](size int) *lru.Cache[K, struct{}] {
	cache, err := lru.New[K, struct{}](size)
	if err != nil {
		// lru.New only fails for non-positive sizes, rejected by the constructors.
		panic(err)
	}
	return cache
}

type distinctReducer[A, T any, K comparable] struct {
	next[A, T]
	seen *lru.Cache[K, struct{}]
	key  func(T) K
}

func (r *distinctReducer[A, T, K]) Step(acc A, in T) (Signal[A], error) {
	k := r.key(in)
	if _, ok := r.seen.Get(k); ok {
		return Continue(acc), nil
	}
	r.seen.Add(k, struct{}{})
	return r.inner.Step(acc, in)
}
