package collection

func Map[T any, V any](sources []T, f func(T) V) []V {
	results := make([]V, len(sources))
	for i, v := range sources {
		results[i] = f(v)
	}
	return results
}

func GroupBy[T any, V comparable](sources []T, f func(T) V) map[V][]T {
	var result = make(map[V][]T)
	for _, v := range sources {
		result[f(v)] = append(result[f(v)], v)
	}
	return result
}
