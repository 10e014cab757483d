package storepath

import (
	"context"
	"time"

	"github.com/goliatone/go-storepath/pkg/activity"
	"github.com/goliatone/go-storepath/pkg/kv"
	"github.com/goliatone/go-storepath/pkg/query"
)

// SetResult is returned by Set and Merge.
type SetResult struct {
	// Key is the backing store key that was written.
	Key string
}

// Accessor reads and writes nested fields of JSON values kept in a flat
// key-value backend. It holds only configuration and is safe for concurrent
// use; concurrent nested writes to the same root key are not serialized.
type Accessor struct {
	backend   kv.Backend
	versioned kv.VersionedBackend
	cfg       accessorConfig
	emitter   *activity.Emitter
	evaluator query.Evaluator
}

// New constructs an Accessor over backend.
func New(backend kv.Backend, opts ...Option) *Accessor {
	cfg := applyOptions(opts)
	a := &Accessor{
		backend:   backend,
		cfg:       cfg,
		emitter:   activity.NewEmitter(cfg.activityHooks, cfg.activityConfig),
		evaluator: resolveEvaluator(cfg),
	}
	if versioned, ok := backend.(kv.VersionedBackend); ok {
		a.versioned = versioned
	}
	return a
}

// Parse splits path with the accessor's delimiter setting.
func (a *Accessor) Parse(path any) Path {
	return ParsePath(path, a.cfg.delimiter)
}

// Get reads the value at path. A missing flat value, or a missing final
// segment of a nested path, reads as an empty object.
func (a *Accessor) Get(ctx context.Context, path any) (any, error) {
	return a.GetOr(ctx, path, NewObject())
}

// GetOr reads the value at path, returning defaultValue when it is absent. For
// root-only paths a stored null also yields defaultValue; nested paths return
// an explicit null as nil. Walking through a missing or non-object
// intermediate segment fails with a *TraversalError.
func (a *Accessor) GetOr(ctx context.Context, path any, defaultValue any) (any, error) {
	p := a.Parse(path)
	start := time.Now()
	value, err := a.read(ctx, p, defaultValue)
	a.logAccess(AccessLogEvent{Op: OpGet, Duration: time.Since(start), Err: err}, p)
	return value, err
}

// Set writes value at path. Nested paths rewrite the whole root value in one
// store write; missing intermediate objects are created unless disabled with
// WithCreateIntermediates(false).
func (a *Accessor) Set(ctx context.Context, path any, value any) (SetResult, error) {
	p := a.Parse(path)
	start := time.Now()
	event := AccessLogEvent{Op: OpSet}
	result, err := a.set(ctx, p, value, &event)
	event.Duration, event.Err = time.Since(start), err
	a.logAccess(event, p)
	return result, err
}

// Remove deletes the value at path. A root-only path removes the store key and
// resolves with returnValue. A nested path deletes the final segment (a no-op
// when absent), persists the root, and resolves with the mutated root object
// unless WithRemoveResult(RemoveResultPassthrough) is set.
func (a *Accessor) Remove(ctx context.Context, path any, returnValue any) (any, error) {
	p := a.Parse(path)
	start := time.Now()
	event := AccessLogEvent{Op: OpRemove}
	result, err := a.remove(ctx, p, returnValue, &event)
	event.Duration, event.Err = time.Since(start), err
	a.logAccess(event, p)
	return result, err
}

// Merge deep-merges patch into the value at path and persists the result.
// Object members merge recursively with patch members winning; any other
// patch replaces the current value.
func (a *Accessor) Merge(ctx context.Context, path any, patch any) (SetResult, error) {
	p := a.Parse(path)
	start := time.Now()
	event := AccessLogEvent{Op: OpMerge}
	result, err := a.merge(ctx, p, patch, &event)
	event.Duration, event.Err = time.Since(start), err
	a.logAccess(event, p)
	return result, err
}

func (a *Accessor) read(ctx context.Context, p Path, defaultValue any) (any, error) {
	snap, err := a.load(ctx, p.Root, false)
	if err != nil {
		return nil, err
	}
	if !p.Nested() {
		if a.substitute(snap.value, snap.found) {
			return defaultValue, nil
		}
		return snap.value, nil
	}
	root, err := rootObject(p, snap)
	if err != nil {
		return nil, err
	}
	return Resolve(root, p.Segments, DefaultingRead(defaultValue))
}

func (a *Accessor) set(ctx context.Context, p Path, value any, event *AccessLogEvent) (SetResult, error) {
	normalized, err := Normalize(value)
	if err != nil {
		return SetResult{}, err
	}
	if !p.Nested() {
		var snap snapshot
		if a.cfg.optimistic {
			if snap, err = a.loadVersion(ctx, p.Root); err != nil {
				return SetResult{}, err
			}
		}
		if err := a.store(ctx, p.Root, normalized, snap); err != nil {
			return SetResult{}, err
		}
		event.HookErr = a.emit(ctx, activity.BuildItemSetEvent, p, activity.ItemEventInput{
			OldValue: snap.value, OldFound: snap.present(),
			NewValue: normalized, NewFound: true,
		})
		return SetResult{Key: p.Root}, nil
	}

	snap, err := a.load(ctx, p.Root, a.cfg.optimistic)
	if err != nil {
		return SetResult{}, err
	}
	root, err := rootObject(p, snap)
	if err != nil {
		return SetResult{}, err
	}
	loc, err := a.locateForWrite(root, p.Segments)
	if err != nil {
		return SetResult{}, err
	}
	change := activity.ItemEventInput{
		OldValue: loc.Value, OldFound: loc.Found,
		NewValue: normalized, NewFound: true,
	}
	if _, err := AssigningWrite(normalized)(loc); err != nil {
		return SetResult{}, err
	}
	if err := a.store(ctx, p.Root, root, snap); err != nil {
		return SetResult{}, err
	}
	event.HookErr = a.emit(ctx, activity.BuildItemSetEvent, p, change)
	return SetResult{Key: p.Root}, nil
}

func (a *Accessor) remove(ctx context.Context, p Path, returnValue any, event *AccessLogEvent) (any, error) {
	if a.backend == nil {
		return nil, ErrBackendRequired
	}
	if !p.Nested() {
		if err := a.backend.RemoveItem(ctx, p.Root); err != nil {
			return nil, wrapStoreError("remove", p.Root, err)
		}
		event.HookErr = a.emit(ctx, activity.BuildItemRemovedEvent, p, activity.ItemEventInput{})
		return returnValue, nil
	}

	snap, err := a.load(ctx, p.Root, a.cfg.optimistic)
	if err != nil {
		return nil, err
	}
	root, err := rootObject(p, snap)
	if err != nil {
		return nil, err
	}
	loc, err := Locate(root, p.Segments)
	if err != nil {
		return nil, err
	}
	change := activity.ItemEventInput{OldValue: loc.Value, OldFound: loc.Found}
	if _, err := Deleting()(loc); err != nil {
		return nil, err
	}
	if err := a.store(ctx, p.Root, root, snap); err != nil {
		return nil, err
	}
	event.HookErr = a.emit(ctx, activity.BuildItemRemovedEvent, p, change)
	if a.cfg.removeResult == RemoveResultPassthrough {
		return returnValue, nil
	}
	return root, nil
}

func (a *Accessor) merge(ctx context.Context, p Path, patch any, event *AccessLogEvent) (SetResult, error) {
	normalized, err := Normalize(patch)
	if err != nil {
		return SetResult{}, err
	}
	snap, err := a.load(ctx, p.Root, a.cfg.optimistic)
	if err != nil {
		return SetResult{}, err
	}

	if !p.Nested() {
		merged := MergeValues(snap.value, normalized)
		if err := a.store(ctx, p.Root, merged, snap); err != nil {
			return SetResult{}, err
		}
		event.HookErr = a.emit(ctx, activity.BuildItemMergedEvent, p, activity.ItemEventInput{
			OldValue: snap.value, OldFound: snap.present(),
			NewValue: merged, NewFound: true,
		})
		return SetResult{Key: p.Root}, nil
	}

	root, err := rootObject(p, snap)
	if err != nil {
		return SetResult{}, err
	}
	loc, err := a.locateForWrite(root, p.Segments)
	if err != nil {
		return SetResult{}, err
	}
	merged := MergeValues(loc.Value, normalized)
	loc.Container.Set(loc.Key, merged)
	if err := a.store(ctx, p.Root, root, snap); err != nil {
		return SetResult{}, err
	}
	event.HookErr = a.emit(ctx, activity.BuildItemMergedEvent, p, activity.ItemEventInput{
		OldValue: loc.Value, OldFound: loc.Found,
		NewValue: merged, NewFound: true,
	})
	return SetResult{Key: p.Root}, nil
}

func (a *Accessor) locateForWrite(root *Object, segments []string) (Location, error) {
	if a.cfg.createIntermediates {
		return LocateOrCreate(root, segments)
	}
	return Locate(root, segments)
}

func (a *Accessor) substitute(value any, found bool) bool {
	if a.cfg.legacyFalsy {
		return isFalsy(value, found)
	}
	return !found || value == nil
}

// rootObject returns the stored root as an object. Absent and null roots read
// as a new empty object; any other variant cannot hold nested segments.
func rootObject(p Path, snap snapshot) (*Object, error) {
	if !snap.found || snap.value == nil {
		return NewObject(), nil
	}
	object, ok := snap.value.(*Object)
	if !ok || object == nil {
		return nil, newTraversalError(p.Root, ReasonNotObject)
	}
	return object, nil
}

// emit completes change with the path identity and clock, then hands the
// built event to the emitter.
func (a *Accessor) emit(ctx context.Context, build func(activity.ItemEventInput) activity.Event, p Path, change activity.ItemEventInput) error {
	if !a.emitter.Enabled() {
		return nil
	}
	change.ObjectID = p.Raw
	change.Path = p.Raw
	change.Root = p.Root
	change.Segments = p.Segments
	change.OldValue = ToPlain(change.OldValue)
	change.NewValue = ToPlain(change.NewValue)
	change.OccurredAt = a.cfg.now()
	return a.emitter.Emit(ctx, build(change))
}

func (a *Accessor) logAccess(event AccessLogEvent, p Path) {
	event.Path = p.Raw
	event.Root = p.Root
	event.Nested = p.Nested()
	a.cfg.logger.LogAccess(event)
}
