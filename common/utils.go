package common

// FirstNonZero returns the first argument that is not the zero value of T, or the zero
// value when every argument is zero. Used to fall back through optional names.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
