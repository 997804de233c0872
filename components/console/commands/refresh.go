package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
)

// RefreshConversationInput emits refresh notifications for a conversation.
type RefreshConversationInput struct {
	Event console.ConversationEvent
}

type refreshNotifier interface {
	NotifyConversationUpdated(ctx context.Context, event console.ConversationEvent) error
}

// RefreshConversationCommand triggers refresh hooks without forcing
// transports.
type RefreshConversationCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshConversationCommand creates the command.
func NewRefreshConversationCommand(service refreshNotifier, telemetry Telemetry) *RefreshConversationCommand {
	return &RefreshConversationCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshConversationInput] = (*RefreshConversationCommand)(nil)

// Execute notifies the console service's refresh hooks.
func (c *RefreshConversationCommand) Execute(ctx context.Context, msg RefreshConversationInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.NotifyConversationUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.conversation.refresh", map[string]any{
		"tenant":          msg.Event.Tenant,
		"conversation_id": msg.Event.ConversationID,
	})
	return nil
}
