package activity

import (
	"strings"
	"time"
)

// Verbs and object type used for stored-item events.
const (
	VerbItemSet     = "storepath.item.set"
	VerbItemRemoved = "storepath.item.removed"
	VerbItemMerged  = "storepath.item.merged"

	ObjectTypeItem = "storepath.item"
)

// ItemEventInput describes the common fields for item mutation events.
type ItemEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	Path       string
	Root       string
	Segments   []string
	OldValue   any
	NewValue   any
	// OldFound and NewFound mark a value as present even when it is an
	// explicit null, which would otherwise be left out of the metadata.
	OldFound   bool
	NewFound   bool
	OccurredAt time.Time
}

// BuildItemSetEvent constructs an event for a set (flat or nested).
func BuildItemSetEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemSet, input)
}

// BuildItemRemovedEvent constructs an event for a remove (flat or nested).
func BuildItemRemovedEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemRemoved, input)
}

// BuildItemMergedEvent constructs an event for a deep merge.
func BuildItemMergedEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemMerged, input)
}

func buildItemEvent(verb string, input ItemEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.Root != "" {
		metadata = ensureMetadata(metadata)
		metadata["root"] = input.Root
	}
	if len(input.Segments) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["segments"] = append([]string{}, input.Segments...)
	}
	if input.OldFound || input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewFound || input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Root)
	}
	if objectID == "" {
		objectID = ObjectTypeItem
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeItem,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
