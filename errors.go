package formbuilder

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration, lookup and state operations.
var (
	ErrUnknownType      = errors.New("formbuilder: unknown element type")
	ErrUnknownDecorator = errors.New("formbuilder: unknown decorator type")
	ErrInvalidParent    = errors.New("formbuilder: invalid parent")
	ErrInvalidConfig    = errors.New("formbuilder: invalid configuration")
	ErrNotFound         = errors.New("formbuilder: element not found")
	ErrNoUploadMover    = errors.New("formbuilder: no upload mover configured")
	ErrDecryptFailed    = errors.New("formbuilder: state decryption failed")
	ErrSignatureInvalid = errors.New("formbuilder: signature verification failed")
	ErrInvalidFormat    = errors.New("formbuilder: invalid state format")
)

// ConfigError reports a programmer mistake: an unknown type name, a bad
// parent assignment or a malformed registry entry.
//
// APIs that cannot return an error (Begin, Add, MustElement, NewFactory)
// panic with a *ConfigError so the failure is loud and still matchable
// with errors.Is after a recover.
type ConfigError struct {
	Op   string // operation that failed, e.g. "element" or "add"
	Name string // offending type or element name
	Err  error  // one of the sentinel errors
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Op)
	}
	return fmt.Sprintf("%v: %q (%s)", e.Err, e.Name, e.Op)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

func configPanic(op, name string, err error) {
	panic(&ConfigError{Op: op, Name: name, Err: err})
}
