package math

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Abs returns |v|.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
