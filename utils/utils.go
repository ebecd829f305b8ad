package utils

import "golang.org/x/exp/constraints"

func Ref[T any](t T) *T { return &t }

// Narrow converts i to the narrower integer type N, reporting whether the
// value survived the conversion unchanged.
func Narrow[N, I constraints.Integer](i I) (n N, ok bool) {
	n = N(i)
	return n, I(n) == i && (n < 0) == (i < 0)
}
