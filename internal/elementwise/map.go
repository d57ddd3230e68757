// Package elementwise lifts a scalar function over a slice.
package elementwise

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/iter"
)

// Map applies f to every element of in, using at most maxGoroutines
// workers. Zero or a negative count means GOMAXPROCS. out[i] is always
// f(in[i]).
//
// Errors are collected for every element, prefixed with the element index
// and joined. When any element fails Map returns nil results.
func Map[T, R any](in []T, maxGoroutines int, f func(T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	errs := make([]error, len(in))

	// conc only defaults an exact zero; a negative count would start no
	// workers and leave out full of zero values.
	if maxGoroutines < 0 {
		maxGoroutines = 0
	}
	it := iter.Iterator[T]{MaxGoroutines: maxGoroutines}
	it.ForEachIdx(in, func(i int, v *T) {
		r, err := f(*v)
		if err != nil {
			errs[i] = fmt.Errorf("element %d: %w", i, err)
			return
		}
		out[i] = r
	})

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
