package activity

import (
	"context"
	"strings"
)

// DefaultChannel is the channel stamped on item events that do not name one.
const DefaultChannel = "storepath"

// Config controls how an accessor publishes item events.
type Config struct {
	// Enabled turns publishing on. An emitter without hooks stays disabled.
	Enabled bool
	// Channel overrides DefaultChannel.
	Channel string
}

// Emitter publishes item events from an accessor to its hooks. It stamps the
// configured channel and the actor found on the request context.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter returns an emitter for hooks. Nil hooks are dropped; when cfg is
// disabled or no hooks remain the emitter publishes nothing.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	emitter := &Emitter{channel: strings.TrimSpace(cfg.Channel)}
	if emitter.channel == "" {
		emitter.channel = DefaultChannel
	}
	if !cfg.Enabled {
		return emitter
	}
	for _, hook := range hooks {
		if hook != nil {
			emitter.hooks = append(emitter.hooks, hook)
		}
	}
	return emitter
}

// Enabled reports whether Emit would reach any hook. Accessors check it
// before converting stored values into event metadata.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit publishes event. Actor fields left blank are filled from ctx.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if actor, ok := ActorFromContext(ctx); ok {
		event = actor.apply(event)
	}
	return e.hooks.Notify(ctx, event)
}
