package storepath

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshalers returns the json v2 unmarshalers that decode into the value
// tree:
//   - any    -> objects as *Object, arrays as Array, primitives left to json v2
//   - *Array -> direct array decoding
//
// *Object implements json.UnmarshalerFrom itself.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		unmarshalValue(), // *any (objects, arrays)
		unmarshalArray(),
	)
}

func unmarshalValue() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			obj := &Object{}
			if err := obj.decodeFrom(dec); err != nil {
				return err
			}
			*v = obj
			return nil
		case '[':
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func unmarshalArray() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Array) error {
		if dec.PeekKind() != '[' {
			return json.SkipFunc
		}
		arr, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = arr
		return nil
	})
}

// UnmarshalJSONFrom implements json.UnmarshalerFrom, preserving member order.
func (o *Object) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if dec.PeekKind() != '{' {
		return fmt.Errorf("expected object, got %v", dec.PeekKind())
	}
	*o = Object{}
	return o.decodeFrom(dec)
}

// MarshalJSONTo implements json.MarshalerTo, writing members in order.
func (o *Object) MarshalJSONTo(enc *jsontext.Encoder) error {
	if o == nil {
		return enc.WriteToken(jsontext.Null)
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, key := range o.keys {
		if err := enc.WriteToken(jsontext.String(key)); err != nil {
			return fmt.Errorf("write object key %q: %w", key, err)
		}
		if err := json.MarshalEncode(enc, o.values[key]); err != nil {
			return fmt.Errorf("write object value for key %q: %w", key, err)
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (o *Object) decodeFrom(dec *jsontext.Decoder) error {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return fmt.Errorf("read object open: %w", err)
	}
	if o.values == nil {
		o.values = map[string]any{}
	}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return fmt.Errorf("read object key: %w", err)
		}
		var v any
		if err := json.UnmarshalDecode(dec, &v, json.WithUnmarshalers(Unmarshalers())); err != nil {
			return fmt.Errorf("read object value for key %q: %w", k, err)
		}
		o.Set(k, v)
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return fmt.Errorf("read object close: %w", err)
	}
	return nil
}

func decodeArray(dec *jsontext.Decoder) (Array, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := Array{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem, json.WithUnmarshalers(Unmarshalers())); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}

// Decode parses a stored blob into the value tree.
func Decode(blob string) (any, error) {
	var out any
	err := json.Unmarshal([]byte(blob), &out,
		json.WithUnmarshalers(Unmarshalers()),
		jsontext.AllowDuplicateNames(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out, nil
}

// Encode serializes v as bare JSON text. Go maps are written with sorted keys.
func Encode(v any) (string, error) {
	out, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return string(out), nil
}

// Normalize converts an arbitrary caller value into the value tree by a JSON
// round trip. Values already in canonical form are returned as is.
func Normalize(v any) (any, error) {
	if isCanonical(v) {
		return v, nil
	}
	blob, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return Decode(blob)
}

func isCanonical(v any) bool {
	switch actual := v.(type) {
	case nil, bool, float64, string:
		return true
	case *Object:
		if actual == nil {
			return false
		}
		for _, key := range actual.keys {
			if !isCanonical(actual.values[key]) {
				return false
			}
		}
		return true
	case Array:
		for _, elem := range actual {
			if !isCanonical(elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
