package filemanager

import "errors"

// groupNotFoundError signals a lookup of a group that was never added (404 mapping).
type groupNotFoundError struct{ name string }

func (e groupNotFoundError) Error() string { return "group not found: " + e.name }

// ErrGroupNotFound returns an error for a missing group name.
func ErrGroupNotFound(name string) error { return groupNotFoundError{name: name} }

// IsGroupNotFound reports whether err indicates a missing group.
func IsGroupNotFound(err error) bool {
	var e groupNotFoundError
	return errors.As(err, &e)
}

// invalidGroupError signals a rejected Add (400 mapping).
type invalidGroupError struct{ msg string }

func (e invalidGroupError) Error() string { return "invalid group: " + e.msg }

// IsInvalidGroup reports whether err was caused by a bad group definition.
func IsInvalidGroup(err error) bool {
	var e invalidGroupError
	return errors.As(err, &e)
}
