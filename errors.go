package storepath

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedSegment matches traversal errors for absent intermediate segments.
	ErrUndefinedSegment = errors.New("storepath: segment is undefined")
	// ErrNotObject matches traversal errors for intermediate values that cannot
	// be walked into.
	ErrNotObject = errors.New("storepath: segment is not an object")
	// ErrNoSegments is returned when the resolver is called for a root-only path.
	ErrNoSegments = errors.New("storepath: path has no nested segments")
	// ErrNilRoot is returned when a writer is handed a nil root object.
	ErrNilRoot = errors.New("storepath: nil root object")
	// ErrDecode wraps stored blobs that are not valid JSON.
	ErrDecode = errors.New("storepath: decode")
	// ErrEncode wraps values that cannot be serialized.
	ErrEncode = errors.New("storepath: encode")
	// ErrBackendRequired is returned by operations on an Accessor without a backend.
	ErrBackendRequired = errors.New("storepath: backend is required")
	// ErrVersioningUnsupported is returned when optimistic writes are enabled
	// over a backend that does not implement kv.VersionedBackend.
	ErrVersioningUnsupported = errors.New("storepath: backend does not support versioned writes")
)

// Reason classifies why a nested walk stopped.
type Reason string

const (
	ReasonUndefined Reason = "undefined"
	ReasonNotObject Reason = "not_object"
)

// TraversalError describes the segment that broke a nested walk.
type TraversalError struct {
	Key     string
	Reason  Reason
	Message string
}

func newTraversalError(key string, reason Reason) *TraversalError {
	msg := fmt.Sprintf("%s is undefined", key)
	if reason == ReasonNotObject {
		msg = fmt.Sprintf("%s is not an object", key)
	}
	return &TraversalError{Key: key, Reason: reason, Message: msg}
}

func (e *TraversalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "storepath: " + e.Message
}

// Is matches the ErrUndefinedSegment and ErrNotObject sentinels.
func (e *TraversalError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrUndefinedSegment:
		return e.Reason == ReasonUndefined
	case ErrNotObject:
		return e.Reason == ReasonNotObject
	}
	return false
}

// AsTraversalError unwraps err into a *TraversalError when possible.
func AsTraversalError(err error) (*TraversalError, bool) {
	var te *TraversalError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func wrapStoreError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("storepath: %s %q: %w", op, key, err)
}
