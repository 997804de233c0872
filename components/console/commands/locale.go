package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
)

// SetLocaleInput carries a viewer's locale switch.
type SetLocaleInput struct {
	Viewer console.ViewerContext `json:"viewer"`
	Locale string                `json:"locale"`
}

type localeService interface {
	SetLocale(ctx context.Context, viewer console.ViewerContext, raw string) (console.Locale, error)
}

// SetLocaleCommand persists a locale preference for the viewer.
type SetLocaleCommand struct {
	service   localeService
	telemetry Telemetry
}

// NewSetLocaleCommand creates the command.
func NewSetLocaleCommand(service localeService, telemetry Telemetry) *SetLocaleCommand {
	return &SetLocaleCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetLocaleInput] = (*SetLocaleCommand)(nil)

// Execute validates and stores the locale. Unsupported values return the
// validation error and leave the preference unchanged.
func (c *SetLocaleCommand) Execute(ctx context.Context, msg SetLocaleInput) error {
	if c.service == nil {
		return errors.New("locale command requires service")
	}
	locale, err := c.service.SetLocale(ctx, msg.Viewer, msg.Locale)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.locale.command", map[string]any{
		"user_id": msg.Viewer.UserID,
		"tenant":  msg.Viewer.Tenant,
		"locale":  string(locale),
	})
	return nil
}
