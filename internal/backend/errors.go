package backend

// noBackendError signals that no registered backend could build a model.
type noBackendError struct{ what string }

func (e noBackendError) Error() string { return "no backend could create model: " + e.what }

// ErrNoBackend constructs a noBackendError.
func ErrNoBackend(what string) error { return noBackendError{what: what} }

// IsNoBackend reports whether err indicates every backend failed or declined.
func IsNoBackend(err error) bool {
	_, ok := err.(noBackendError)
	return ok
}

// loadFailedError signals that the native engine returned a zero handle.
type loadFailedError struct{ path string }

func (e loadFailedError) Error() string { return "native engine failed to load model: " + e.path }

// ErrLoadFailed constructs a loadFailedError.
func ErrLoadFailed(path string) error { return loadFailedError{path: path} }

// IsLoadFailed reports whether err came from a zero native handle.
func IsLoadFailed(err error) bool {
	_, ok := err.(loadFailedError)
	return ok
}
