package native

import (
	"fmt"
	"strings"
)

// versionMismatchError reports an engine build that does not match the
// version this module was written against.
type versionMismatchError struct {
	want, got string
}

func (e versionMismatchError) Error() string {
	return fmt.Sprintf("native engine version %q does not match required %q; "+
		"remove or rename the stale engine library and restart", e.got, e.want)
}

// IsVersionMismatch reports whether err came from CheckVersion.
func IsVersionMismatch(err error) bool {
	_, ok := err.(versionMismatchError)
	return ok
}

// CheckVersion compares the engine version against want. A leading "v" and
// surrounding whitespace are ignored.
func CheckVersion(e Engine, want string) error {
	got := e.Version()
	if normVersion(got) != normVersion(want) {
		return versionMismatchError{want: want, got: got}
	}
	return nil
}

func normVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
