package activity

import (
	"context"
	"time"
)

// DefaultChannel is stamped on events that do not name their own channel.
const DefaultChannel = "console"

// Config controls whether activity recording is active and which channel
// events default to.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter applies config defaults and forwards events to its hooks.
type Emitter struct {
	hooks  Hooks
	config Config
}

// NewEmitter builds an emitter. Without hooks the emitter is disabled
// regardless of config.
func NewEmitter(hooks Hooks, config Config) *Emitter {
	if config.Channel == "" {
		config.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, config: config}
}

// Enabled reports whether Emit will deliver events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.config.Enabled && len(e.hooks) > 0
}

// Emit stamps channel and timestamp defaults and notifies the hooks. It is a
// no-op when the emitter is disabled.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.config.Channel
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return e.hooks.Notify(ctx, evt)
}
