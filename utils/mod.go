package utils

import "golang.org/x/exp/rand"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Choice returns a uniformly random element of a non-empty slice.
func Choice[T any](rng *rand.Rand, slice []T) T {
	if len(slice) == 0 {
		panic("cannot choose from an empty slice")
	}
	return slice[rng.Intn(len(slice))]
}
