package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " storepath.item.set ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " storepath.item ",
		ObjectID:   " user.profile ",
		Channel:    " storepath ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != VerbItemSet || got.ObjectType != ObjectTypeItem || got.ObjectID != "user.profile" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "storepath" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events()))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	//nolint:staticcheck // nil context is normalized by Notify
	err := hooks.Notify(nil, Event{Verb: VerbItemSet, ObjectType: ObjectTypeItem, ObjectID: "user"})
	if err == nil || !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events()))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: VerbItemSet, ObjectType: ObjectTypeItem, ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), Event{Verb: VerbItemSet, ObjectType: ObjectTypeItem, ObjectID: "1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbItemRemoved,
		ObjectType: ObjectTypeItem,
		ObjectID:   "1",
		Channel:    "custom",
		OccurredAt: when,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", events[0].Channel)
	}
	if !events[0].OccurredAt.Equal(when) {
		t.Fatalf("expected occurred_at preserved, got %v", events[0].OccurredAt)
	}
}

func TestEmitterAppliesContextActor(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})
	ctx := WithActor(context.Background(), Actor{ActorID: "actor-1", UserID: "user-1", TenantID: "tenant-1"})

	if err := emitter.Emit(ctx, Event{Verb: VerbItemSet, ObjectType: ObjectTypeItem, ObjectID: "1", UserID: "explicit"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events()[0]
	if got.ActorID != "actor-1" || got.TenantID != "tenant-1" {
		t.Fatalf("expected actor from context, got %+v", got)
	}
	if got.UserID != "explicit" {
		t.Fatalf("expected explicit user id preserved, got %q", got.UserID)
	}
}

func TestForRootsFiltersByStoreKey(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{ForRoots(capture, " prefs ", "session")}

	events := []Event{
		BuildItemSetEvent(ItemEventInput{Path: "prefs.theme", Root: "prefs"}),
		BuildItemSetEvent(ItemEventInput{Path: "cart.total", Root: "cart"}),
		BuildItemRemovedEvent(ItemEventInput{Path: "session", Root: "session"}),
		{Verb: VerbItemSet, ObjectType: ObjectTypeItem, ObjectID: "orphan"},
	}
	for _, evt := range events {
		if err := hooks.Notify(context.Background(), evt); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	got := capture.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events for allowed roots, got %d", len(got))
	}
	if got[0].StoreRoot() != "prefs" || got[1].StoreRoot() != "session" {
		t.Fatalf("unexpected roots: %q, %q", got[0].StoreRoot(), got[1].StoreRoot())
	}
}

func TestForRootsWithoutRootsReturnsHook(t *testing.T) {
	capture := &CaptureHook{}
	if got := ForRoots(capture); got != ActivityHook(capture) {
		t.Fatalf("expected hook returned unchanged")
	}
	if ForRoots(nil, "prefs") != nil {
		t.Fatalf("expected nil hook to stay nil")
	}
}

func TestEmitterWithOnlyNilHooksIsDisabled(t *testing.T) {
	emitter := NewEmitter(Hooks{nil, nil}, Config{Enabled: true})
	if emitter.Enabled() {
		t.Fatalf("expected emitter without usable hooks to be disabled")
	}
	if err := emitter.Emit(context.Background(), BuildItemSetEvent(ItemEventInput{Path: "a"})); err != nil {
		t.Fatalf("emit: %v", err)
	}
}
