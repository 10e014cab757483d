package storepath

// Kind identifies the variant of a value stored under a root key.
type Kind int

const (
	// KindInvalid marks Go values that are not part of the JSON value tree.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf reports the variant of a decoded value. Only canonical variants are
// recognised; caller-supplied Go values are normalized through the codec before
// they enter a value tree, so anything else reports KindInvalid.
func KindOf(v any) Kind {
	switch actual := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	case Array:
		return KindArray
	case *Object:
		if actual == nil {
			return KindNull
		}
		return KindObject
	default:
		return KindInvalid
	}
}

// Array is a decoded JSON array.
type Array []any

// Entry is a single member of an Object.
type Entry struct {
	Key   string
	Value any
}

// Object is an ordered JSON mapping. Keys keep insertion order so a value read
// from the store serializes back with the same member order. Objects are
// always handled by pointer so nested mutation is visible from the root.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an object from entries, later duplicates overwriting
// earlier ones in place.
func NewObject(entries ...Entry) *Object {
	o := &Object{values: make(map[string]any, len(entries))}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the member names in order.
func (o *Object) Keys() []string {
	if o == nil || len(o.keys) == 0 {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the member value and whether the member exists. A member holding
// null reports (nil, true).
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is a member.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set assigns key, appending it when new.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Entries returns the members in order.
func (o *Object) Entries() []Entry {
	if o == nil || len(o.keys) == 0 {
		return nil
	}
	out := make([]Entry, len(o.keys))
	for i, k := range o.keys {
		out[i] = Entry{Key: k, Value: o.values[k]}
	}
	return out
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]any, len(o.values)),
	}
	for k, v := range o.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Plain converts o into nested map[string]any / []any values, the shape the
// expression engines and reflection-based decoders understand.
func (o *Object) Plain() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = ToPlain(v)
	}
	return out
}

// ToPlain converts a value tree into plain Go maps and slices. Values that are
// not part of the tree are returned unchanged.
func ToPlain(v any) any {
	switch actual := v.(type) {
	case *Object:
		if actual == nil {
			return nil
		}
		return actual.Plain()
	case Array:
		out := make([]any, len(actual))
		for i, elem := range actual {
			out[i] = ToPlain(elem)
		}
		return out
	default:
		return v
	}
}

func cloneValue(v any) any {
	switch actual := v.(type) {
	case *Object:
		return actual.Clone()
	case Array:
		if actual == nil {
			return Array(nil)
		}
		out := make(Array, len(actual))
		for i, elem := range actual {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// isFalsy reports the loose falsiness used by WithLegacyFalsyDefaults.
func isFalsy(v any, found bool) bool {
	if !found {
		return true
	}
	switch actual := v.(type) {
	case nil:
		return true
	case bool:
		return !actual
	case float64:
		return actual == 0 || actual != actual
	case string:
		return actual == ""
	case *Object:
		return actual == nil
	default:
		return false
	}
}
