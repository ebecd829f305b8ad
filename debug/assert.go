// Package debug holds internal consistency checks that are compiled in only
// when building with `-tags debug`.
package debug

import "fmt"

func Assertf(b bool, format string, a ...any) {
	if DEBUG && !b {
		panic(fmt.Sprintf("assertion failed: "+format, a...))
	}
}

func AssertEq[T comparable](expected, got T) { Assertf(expected == got, "%v != %v", expected, got) }

// AssertSameLen checks that two parallel slices have not drifted apart.
func AssertSameLen[E1, E2 any](xs []E1, ys []E2) {
	Assertf(len(xs) == len(ys), "parallel slices diverged: %d != %d", len(xs), len(ys))
}
