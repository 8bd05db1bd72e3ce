package ptr

func Of[T any](v T) *T {
	return &v
}

func String(s string) *string {
	return &s
}

// StringOrNil treats the empty string as absent.
func StringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
