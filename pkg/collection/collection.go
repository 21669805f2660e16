// Package collection provides small generic helpers for slices.
//
//	ids := collection.Pluck(products, func(p models.Product) uint { return p.ID })
package collection

// Map transforms each element of slice s using fn. The result is never nil.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Pluck extracts a single field from each element.
func Pluck[T, R any](s []T, fn func(T) R) []R {
	return Map(s, fn)
}

// KeyBy indexes s by the key fn returns. Later elements win on duplicates.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}
