package greenmoon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidCommand is returned when a manager message cannot be decoded.
	ErrInvalidCommand = errors.New("invalid manager command")

	ErrSceneExists     = errors.New("scene already exists")
	ErrSceneActive     = errors.New("scene is active")
	ErrSceneStackEmpty = errors.New("scene stack is empty")
)

// NotFoundError reports a failed name lookup. Kind is "object", "group" or
// "scene".
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("greenmoon: %s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func objectNotFound(name string) error { return &NotFoundError{Kind: "object", Name: name} }

// TypeMismatchError reports that a Value did not hold the requested variant.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("greenmoon: type mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// IsNotFound reports whether err is (or wraps) a name lookup failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTypeMismatch reports whether err is (or wraps) a Value type mismatch.
func IsTypeMismatch(err error) bool { return errors.Is(err, ErrTypeMismatch) }
