package bsp

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument reports malformed construction input.
	ErrInvalidArgument = errors.New("bsp: invalid argument")

	// ErrInternal reports a violated tree invariant. It is raised when a
	// tree was not built consistently and an extraction cannot continue.
	ErrInternal = errors.New("bsp: internal inconsistency")
)

// internalError builds a panic value wrapping ErrInternal.
func internalError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInternal, format, args...)
}

// Recovered converts a value obtained from recover() into an error. Values
// that are not errors are wrapped in ErrInternal.
func Recovered(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return errors.Wrapf(ErrInternal, "%v", v)
}
