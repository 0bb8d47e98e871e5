package collection

import "math"

type Number interface {
	int | int32 | int64 | float32 | float64
}

func SumBy[T any, N Number](s []T, valueSelector func(T) N) N {
	var result N
	for _, item := range s {
		value := valueSelector(item)
		result += value
	}
	return result
}

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
