package storepath

import (
	"context"
	"fmt"

	"github.com/goliatone/go-storepath/internal/hydrate"
)

// ErrNoValue is returned by GetAs when nothing is stored at the path.
var ErrNoValue = hydrate.ErrNilPayload

// DecodeContext identifies the path a value was read from during GetAs.
type DecodeContext = hydrate.Context

// DecodeOption configures how GetAs hydrates a value into T.
type DecodeOption[T any] = hydrate.DecoderOption[T]

// DecodePreHook rewrites the plain payload before it is decoded.
func DecodePreHook[T any](hook func(DecodeContext, any) (any, error)) DecodeOption[T] {
	return hydrate.WithPreHook[T](hook)
}

// DecodePostHook adjusts or validates the decoded value.
func DecodePostHook[T any](hook func(DecodeContext, *T) error) DecodeOption[T] {
	return hydrate.WithPostHook[T](hook)
}

// DecodeRejectUnknownMembers fails when the stored object has members T does
// not declare.
func DecodeRejectUnknownMembers[T any]() DecodeOption[T] {
	return hydrate.WithRejectUnknownMembers[T]()
}

// DecodeCaseInsensitiveNames matches members to fields ignoring case.
func DecodeCaseInsensitiveNames[T any]() DecodeOption[T] {
	return hydrate.WithCaseInsensitiveNames[T]()
}

// DecodeWith replaces JSON decoding with a custom function.
func DecodeWith[T any](decode func(DecodeContext, any) (T, error)) DecodeOption[T] {
	return hydrate.WithCustomDecoder[T](decode)
}

// GetAs reads the value at path and decodes it into T. Absent values and
// stored nulls fail with ErrNoValue.
func GetAs[T any](ctx context.Context, a *Accessor, path any, opts ...DecodeOption[T]) (T, error) {
	var zero T
	p := a.Parse(path)
	value, err := a.GetOr(ctx, p, nil)
	if err != nil {
		return zero, err
	}
	out, err := hydrate.NewDecoder(opts...).Decode(hydrate.Context{Path: p.Raw, Root: p.Root}, ToPlain(value))
	if err != nil {
		return zero, fmt.Errorf("storepath: get %q as %T: %w", p.Raw, zero, err)
	}
	return out, nil
}
