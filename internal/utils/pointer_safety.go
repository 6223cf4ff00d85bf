package utils

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// PtrIfSet returns nil for the zero value so optional request fields stay omitted.
func PtrIfSet[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// ValueOr returns def when v is the zero value.
func ValueOr[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
