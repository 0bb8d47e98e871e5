package pointer

func NotNull[T any](source *T, defaultValue T) T {
	if source != nil {
		return *source
	}
	return defaultValue
}

func Create[T any](source T) *T {
	return &source
}
