package manager

// modelNotFoundError is returned when a logical model name is not present in
// the discovered registry.
type modelNotFoundError struct{ name string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.name }

func ErrModelNotFound(name string) error { return modelNotFoundError{name: name} }

// IsModelNotFound reports whether the error indicates a missing model name.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// clipNotFoundError is returned when a custom animation names a clip that no
// search root provides.
type clipNotFoundError struct{ clip string }

func (e clipNotFoundError) Error() string { return "clip not found: " + e.clip }

func ErrClipNotFound(clip string) error { return clipNotFoundError{clip: clip} }

// IsClipNotFound reports whether err indicates an unresolvable clip.
func IsClipNotFound(err error) bool {
	_, ok := err.(clipNotFoundError)
	return ok
}

// instanceNotFoundError is returned when an entity has no cached instance.
type instanceNotFoundError struct{ key string }

func (e instanceNotFoundError) Error() string { return "no cached instance: " + e.key }

func ErrInstanceNotFound(key string) error { return instanceNotFoundError{key: key} }

func IsInstanceNotFound(err error) bool {
	_, ok := err.(instanceNotFoundError)
	return ok
}

// dependencyUnavailableError signals a missing external dependency (the
// native engine) so callers can fall back to default rendering.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}
