package storepath

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storepath/pkg/activity"
	"github.com/goliatone/go-storepath/pkg/kv"
)

func TestMutationsEmitActivityEvents(t *testing.T) {
	fixed := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	capture := &activity.CaptureHook{}
	store := kv.NewMemoryStore()
	seed(t, store, "prefs", `{"theme":"dark"}`)
	a := New(store,
		WithActivityHooks(capture, nil),
		WithClock(func() time.Time { return fixed }),
	)
	ctx := activity.WithActor(context.Background(), activity.Actor{ActorID: "user-1", TenantID: "tenant-1"})

	_, err := a.Set(ctx, "prefs.theme", "light")
	require.NoError(t, err)
	_, err = a.Merge(ctx, "prefs", map[string]any{"lang": "en"})
	require.NoError(t, err)
	_, err = a.Remove(ctx, "prefs.lang", nil)
	require.NoError(t, err)
	_, err = a.Remove(ctx, "prefs", nil)
	require.NoError(t, err)
	_, err = a.Get(ctx, "prefs")
	require.NoError(t, err)

	assert.Equal(t, []string{
		activity.VerbItemSet,
		activity.VerbItemMerged,
		activity.VerbItemRemoved,
		activity.VerbItemRemoved,
	}, capture.Verbs())

	events := capture.Events()
	set := events[0]
	assert.Equal(t, activity.ObjectTypeItem, set.ObjectType)
	assert.Equal(t, "prefs.theme", set.ObjectID)
	assert.Equal(t, activity.DefaultChannel, set.Channel)
	assert.Equal(t, "user-1", set.ActorID)
	assert.Equal(t, "tenant-1", set.TenantID)
	assert.Equal(t, fixed, set.OccurredAt)
	assert.Equal(t, "prefs", set.Metadata["root"])
	assert.Equal(t, "dark", set.Metadata["old_value"])
	assert.Equal(t, "light", set.Metadata["new_value"])

	merged := events[1]
	assert.Equal(t, map[string]any{"theme": "light", "lang": "en"}, merged.Metadata["new_value"])

	removed := events[2]
	assert.Equal(t, "en", removed.Metadata["old_value"])
	_, hasNew := removed.Metadata["new_value"]
	assert.False(t, hasNew)
}

func TestActivityDisabled(t *testing.T) {
	capture := &activity.CaptureHook{}
	a := New(kv.NewMemoryStore(),
		WithActivityHooks(capture),
		WithActivityConfig(activity.Config{Enabled: false}),
	)

	_, err := a.Set(context.Background(), "a", 1)
	require.NoError(t, err)
	assert.Empty(t, capture.Events())
}

func TestActivityCustomChannel(t *testing.T) {
	capture := &activity.CaptureHook{}
	a := New(kv.NewMemoryStore(),
		WithActivityHooks(capture),
		WithActivityConfig(activity.Config{Enabled: true, Channel: "prefs"}),
	)

	_, err := a.Set(context.Background(), "a", 1)
	require.NoError(t, err)
	require.Len(t, capture.Events(), 1)
	assert.Equal(t, "prefs", capture.Events()[0].Channel)
	assert.Equal(t, 1.0, capture.Events()[0].Metadata["new_value"])
}

func TestActivityHooksAccumulateAndRouteByRoot(t *testing.T) {
	all := &activity.CaptureHook{}
	prefsOnly := &activity.CaptureHook{}
	a := New(kv.NewMemoryStore(),
		WithActivityHooks(all),
		WithActivityHooks(activity.ForRoots(prefsOnly, "prefs")),
	)
	ctx := context.Background()

	_, err := a.Set(ctx, "prefs.theme", "dark")
	require.NoError(t, err)
	_, err = a.Set(ctx, "cart.total", 3)
	require.NoError(t, err)

	assert.Len(t, all.Events(), 2)
	require.Len(t, prefsOnly.Events(), 1)
	assert.Equal(t, "prefs", prefsOnly.Events()[0].StoreRoot())
}

func TestActivityDistinguishesStoredNullFromAbsent(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := kv.NewMemoryStore()
	seed(t, store, "prefs", `{"theme":null}`)
	a := New(store, WithActivityHooks(capture))
	ctx := context.Background()

	_, err := a.Set(ctx, "prefs.theme", "dark")
	require.NoError(t, err)
	_, err = a.Set(ctx, "prefs.lang", "en")
	require.NoError(t, err)
	_, err = a.Set(ctx, "prefs.lang", nil)
	require.NoError(t, err)

	events := capture.Events()
	require.Len(t, events, 3)

	old, ok := events[0].Metadata["old_value"]
	assert.True(t, ok, "overwritten null is reported")
	assert.Nil(t, old)

	_, ok = events[1].Metadata["old_value"]
	assert.False(t, ok, "new member has no previous value")

	written, ok := events[2].Metadata["new_value"]
	assert.True(t, ok, "written null is reported")
	assert.Nil(t, written)
}
