// Package activity provides a small event-notification layer for recording
// staff actions: who viewed which conversation, who changed a locale, and so
// on. Hooks fan events out to sinks such as the go-users activity log.
package activity

import (
	"context"
	"strings"
	"time"
)

// Event is a single activity record before it reaches a sink.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives normalized events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, evt Event) error

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Hooks is an ordered hook list. Notify fans the event out to each hook and
// returns the first error.
type Hooks []Hook

// Notify normalizes the event and delivers it to every hook. Events without
// a verb are silently skipped.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeEvent trims identifier fields and clones the metadata map and
// recipients slice so hooks cannot mutate the caller's copies.
func NormalizeEvent(evt Event) Event {
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.TenantID = strings.TrimSpace(evt.TenantID)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.DefinitionCode = strings.TrimSpace(evt.DefinitionCode)
	if evt.Metadata != nil {
		cloned := make(map[string]any, len(evt.Metadata))
		for key, value := range evt.Metadata {
			cloned[key] = value
		}
		evt.Metadata = cloned
	}
	if evt.Recipients != nil {
		evt.Recipients = append([]string(nil), evt.Recipients...)
	}
	return evt
}

// CaptureHook records every event it receives. Intended for tests.
type CaptureHook struct {
	Events []Event
}

// Notify implements Hook.
func (h *CaptureHook) Notify(_ context.Context, evt Event) error {
	h.Events = append(h.Events, evt)
	return nil
}
