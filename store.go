package storepath

import "context"

// snapshot is one root value read from the backend. version is only set for
// versioned reads, and only then is the following write conditional.
type snapshot struct {
	value       any
	found       bool
	undecodable bool
	version     string
	versioned   bool
}

// present reports whether the snapshot holds a decoded stored value.
func (s snapshot) present() bool {
	return s.found && !s.undecodable
}

func (a *Accessor) load(ctx context.Context, key string, versioned bool) (snapshot, error) {
	if a.backend == nil {
		return snapshot{}, ErrBackendRequired
	}

	var (
		blob string
		snap snapshot
	)
	if versioned {
		if a.versioned == nil {
			return snapshot{}, ErrVersioningUnsupported
		}
		item, ok, err := a.versioned.GetItemVersion(ctx, key)
		if err != nil {
			return snapshot{}, wrapStoreError("get", key, err)
		}
		blob, snap.found = item.Value, ok
		snap.version = item.Version
		snap.versioned = true
	} else {
		value, ok, err := a.backend.GetItem(ctx, key)
		if err != nil {
			return snapshot{}, wrapStoreError("get", key, err)
		}
		blob, snap.found = value, ok
	}

	if !snap.found {
		return snap, nil
	}
	decoded, err := Decode(blob)
	if err != nil {
		return snapshot{}, wrapStoreError("decode", key, err)
	}
	snap.value = decoded
	return snap, nil
}

// loadVersion reads key for a conditional overwrite. Only the version is
// required; a blob that does not decode is reported as having no value so a
// corrupt entry can still be replaced.
func (a *Accessor) loadVersion(ctx context.Context, key string) (snapshot, error) {
	if a.backend == nil {
		return snapshot{}, ErrBackendRequired
	}
	if a.versioned == nil {
		return snapshot{}, ErrVersioningUnsupported
	}
	item, ok, err := a.versioned.GetItemVersion(ctx, key)
	if err != nil {
		return snapshot{}, wrapStoreError("get", key, err)
	}
	snap := snapshot{found: ok, version: item.Version, versioned: true}
	if ok {
		if decoded, err := Decode(item.Value); err == nil {
			snap.value = decoded
		} else {
			snap.undecodable = true
		}
	}
	return snap, nil
}

func (a *Accessor) store(ctx context.Context, key string, value any, snap snapshot) error {
	if a.backend == nil {
		return ErrBackendRequired
	}
	blob, err := Encode(value)
	if err != nil {
		return wrapStoreError("encode", key, err)
	}
	if snap.versioned {
		if a.versioned == nil {
			return ErrVersioningUnsupported
		}
		version := snap.version
		if !snap.found {
			version = ""
		}
		if _, err := a.versioned.SetItemIfVersion(ctx, key, blob, version); err != nil {
			return wrapStoreError("set", key, err)
		}
		return nil
	}
	if err := a.backend.SetItem(ctx, key, blob); err != nil {
		return wrapStoreError("set", key, err)
	}
	return nil
}
