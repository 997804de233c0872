// Package usersink bridges activity events into the go-users activity log.
package usersink

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-users/pkg/types"

	"github.com/velocitysales/admin-console/pkg/activity"
)

// Sink is the subset of the go-users activity logger the hook needs.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook maps activity events onto go-users activity records.
type Hook struct {
	Sink Sink
}

// Notify implements activity.Hook. Events without a verb or without a sink
// are dropped.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil || evt.Verb == "" {
		return nil
	}
	record := types.ActivityRecord{
		ActorID:    parseUUID(evt.ActorID),
		UserID:     parseUUID(evt.UserID),
		TenantID:   parseUUID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		OccurredAt: evt.OccurredAt,
		Data:       map[string]any{},
	}
	for key, value := range evt.Metadata {
		record.Data[key] = value
	}
	if evt.DefinitionCode != "" {
		record.Data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		record.Data["recipients"] = append([]string(nil), evt.Recipients...)
	}
	return h.Sink.Log(ctx, record)
}

func parseUUID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
