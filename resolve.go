package storepath

// Location is the outcome of a successful walk: the object that holds the
// final segment, the segment itself, and its current value.
type Location struct {
	Container *Object
	Key       string
	Value     any
	Found     bool
}

// Visitor applies one operation at a resolved location.
type Visitor func(loc Location) (any, error)

// Locate walks root through every segment but the last and returns the final
// location. The walk stops at the first intermediate segment that is absent
// (ReasonUndefined) or present but not an object (ReasonNotObject); nothing is
// mutated. For reads a nil root behaves like an empty object; writers fail
// with ErrNilRoot.
func Locate(root *Object, segments []string) (Location, error) {
	return locate(root, segments, false)
}

// LocateOrCreate is Locate for writers: absent intermediate segments are
// replaced by new empty objects. Present non-object values still fail with
// ReasonNotObject. A nil root fails with ErrNilRoot.
func LocateOrCreate(root *Object, segments []string) (Location, error) {
	if root == nil {
		return Location{}, ErrNilRoot
	}
	return locate(root, segments, true)
}

// Resolve locates segments inside root and applies visit at the final segment.
func Resolve(root *Object, segments []string, visit Visitor) (any, error) {
	loc, err := Locate(root, segments)
	if err != nil {
		return nil, err
	}
	return visit(loc)
}

func locate(root *Object, segments []string, create bool) (Location, error) {
	if len(segments) == 0 {
		return Location{}, ErrNoSegments
	}

	current := root
	last := len(segments) - 1
	for _, key := range segments[:last] {
		value, ok := current.Get(key)
		if !ok {
			if !create {
				return Location{}, newTraversalError(key, ReasonUndefined)
			}
			next := NewObject()
			current.Set(key, next)
			current = next
			continue
		}
		next, isObject := value.(*Object)
		if !isObject || next == nil {
			return Location{}, newTraversalError(key, ReasonNotObject)
		}
		current = next
	}

	key := segments[last]
	value, found := current.Get(key)
	return Location{
		Container: current,
		Key:       key,
		Value:     value,
		Found:     found,
	}, nil
}

// DefaultingRead returns the current value, or defaultValue when the final
// segment is absent. An explicit null is returned as nil.
func DefaultingRead(defaultValue any) Visitor {
	return func(loc Location) (any, error) {
		if !loc.Found {
			return defaultValue, nil
		}
		return loc.Value, nil
	}
}

// AssigningWrite sets the final segment to value and returns the container.
func AssigningWrite(value any) Visitor {
	return func(loc Location) (any, error) {
		if loc.Container == nil {
			return nil, ErrNilRoot
		}
		loc.Container.Set(loc.Key, value)
		return loc.Container, nil
	}
}

// Deleting removes the final segment from its container and reports whether
// it was present. Removing an absent key is a no-op.
func Deleting() Visitor {
	return func(loc Location) (any, error) {
		return loc.Container.Delete(loc.Key), nil
	}
}
