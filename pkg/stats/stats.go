// Package stats provides summary statistics for run reports.
package stats

import (
	"cmp"
	"slices"
)

// Number is any ordered numeric type.
type Number interface {
	~int | ~int64 | ~float64
}

// Percentile returns the nearest-rank p-th percentile of values, which must
// already be sorted ascending. An empty slice yields the zero value.
func Percentile[T cmp.Ordered](sorted []T, p int) T {
	var zero T
	if len(sorted) == 0 {
		return zero
	}
	idx := min(max(p*len(sorted)/100, 0), len(sorted)-1)
	return sorted[idx]
}

// Distribution summarises a sample.
type Distribution[T Number] struct {
	Total T
	P50   T
	P95   T
	Max   T
}

// Describe computes the distribution of values without reordering them.
func Describe[T Number](values []T) Distribution[T] {
	var d Distribution[T]
	if len(values) == 0 {
		return d
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	for _, v := range sorted {
		d.Total += v
	}
	d.P50 = Percentile(sorted, 50)
	d.P95 = Percentile(sorted, 95)
	d.Max = sorted[len(sorted)-1]
	return d
}
