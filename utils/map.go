package utils

// Map transforms every element of src. A nil src gives a nil result.
func Map[T, U any](src []T, f func(T) U) []U {
	if src == nil {
		return nil
	}
	out := make([]U, len(src))
	for i, v := range src {
		out[i] = f(v)
	}
	return out
}

// MapErr transforms every element of src and stops at the first error, returning the
// elements converted so far.
func MapErr[T, U any](src []T, f func(T) (U, error)) ([]U, error) {
	if src == nil {
		return nil, nil
	}
	out := make([]U, 0, len(src))
	for _, v := range src {
		u, err := f(v)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, nil
}
