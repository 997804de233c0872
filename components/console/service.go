package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/velocitysales/admin-console/pkg/activity"
)

var (
	errMissingDataClient = errors.New("console: data client not configured")
	errUnknownTenant     = errors.New("console: unknown tenant")
	errInvalidOrderID    = errors.New("console: order id is required")
)

// ErrUnknownTenant reports a tenant slug outside the manifest. Transports
// map it to a 404.
func ErrUnknownTenant() error { return errUnknownTenant }

// IsUnknownTenant reports whether err wraps the unknown-tenant sentinel.
func IsUnknownTenant(err error) bool { return errors.Is(err, errUnknownTenant) }

// Options configures the console Service. Every collaborator is provided via
// interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	Client         DataClient
	Registry       *TenantRegistry
	Locales        *LocaleManager
	Telemetry      Telemetry
	RefreshHook    RefreshHook
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service orchestrates the admin console on top of the sales backend API.
// It verifies tenants, forwards reads to the data client, records staff
// activity, and publishes refresh events.
type Service struct {
	opts    Options
	emitter *activity.Emitter
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewTenantRegistry()
	}
	if opts.Locales == nil {
		opts.Locales = NewLocaleManager(LocaleManagerOptions{})
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:    opts,
		emitter: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// Registry exposes the tenant registry for transports.
func (s *Service) Registry() *TenantRegistry { return s.opts.Registry }

// Locales exposes the locale manager for transports.
func (s *Service) Locales() *LocaleManager { return s.opts.Locales }

// Conversations lists a tenant's conversations, newest activity first as
// returned by the backend.
func (s *Service) Conversations(ctx context.Context, viewer ViewerContext, tenant string) ([]ConversationListItem, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return nil, err
	}
	items, err := client.Conversations(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("console: list conversations: %w", err)
	}
	s.recordTelemetry(ctx, "console.conversations.list", map[string]any{
		"tenant": tenant,
		"count":  len(items),
	})
	return items, nil
}

// Conversation loads a single conversation with its full message history.
// The view is recorded as staff activity.
func (s *Service) Conversation(ctx context.Context, viewer ViewerContext, tenant string, id int64) (ConversationDetail, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return ConversationDetail{}, err
	}
	detail, err := client.Conversation(ctx, tenant, id)
	if err != nil {
		return ConversationDetail{}, fmt.Errorf("console: load conversation %d: %w", id, err)
	}
	s.recordTelemetry(ctx, "console.conversation.view", map[string]any{
		"tenant":          tenant,
		"conversation_id": id,
	})
	s.emitActivity(ctx, viewer, activity.Event{
		Verb:       "console.conversation.view",
		ObjectType: "conversation",
		ObjectID:   strconv.FormatInt(id, 10),
		Metadata: map[string]any{
			"tenant":  tenant,
			"channel": detail.Channel,
		},
	})
	return detail, nil
}

// Orders lists a tenant's orders, optionally narrowed server-side by status
// or customer.
func (s *Service) Orders(ctx context.Context, viewer ViewerContext, tenant string, query OrderQuery) ([]OrderListItem, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return nil, err
	}
	orders, err := client.Orders(ctx, tenant, query)
	if err != nil {
		return nil, fmt.Errorf("console: list orders: %w", err)
	}
	s.recordTelemetry(ctx, "console.orders.list", map[string]any{
		"tenant": tenant,
		"count":  len(orders),
	})
	return orders, nil
}

// Order loads a single order with its line items and delivery notes.
func (s *Service) Order(ctx context.Context, viewer ViewerContext, tenant string, id string) (OrderDetail, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return OrderDetail{}, err
	}
	if id == "" {
		return OrderDetail{}, errInvalidOrderID
	}
	detail, err := client.Order(ctx, tenant, id)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("console: load order %s: %w", id, err)
	}
	s.recordTelemetry(ctx, "console.order.view", map[string]any{
		"tenant":   tenant,
		"order_id": id,
	})
	s.emitActivity(ctx, viewer, activity.Event{
		Verb:       "console.order.view",
		ObjectType: "order",
		ObjectID:   id,
		Metadata: map[string]any{
			"tenant": tenant,
			"status": detail.Status,
		},
	})
	return detail, nil
}

// Customer loads a customer profile.
func (s *Service) Customer(ctx context.Context, viewer ViewerContext, tenant string, id int64) (CustomerDetail, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return CustomerDetail{}, err
	}
	detail, err := client.Customer(ctx, tenant, id)
	if err != nil {
		return CustomerDetail{}, fmt.Errorf("console: load customer %d: %w", id, err)
	}
	s.recordTelemetry(ctx, "console.customer.view", map[string]any{
		"tenant":      tenant,
		"customer_id": id,
	})
	s.emitActivity(ctx, viewer, activity.Event{
		Verb:       "console.customer.view",
		ObjectType: "customer",
		ObjectID:   strconv.FormatInt(id, 10),
		Metadata:   map[string]any{"tenant": tenant},
	})
	return detail, nil
}

// Analytics loads the tenant-wide stats block.
func (s *Service) Analytics(ctx context.Context, viewer ViewerContext, tenant string) (AnalyticsData, error) {
	client, err := s.tenantClient(tenant)
	if err != nil {
		return AnalyticsData{}, err
	}
	data, err := client.Analytics(ctx, tenant)
	if err != nil {
		return AnalyticsData{}, fmt.Errorf("console: load analytics: %w", err)
	}
	s.recordTelemetry(ctx, "console.analytics.view", map[string]any{"tenant": tenant})
	return data, nil
}

// SetLocale updates the viewer's locale preference.
func (s *Service) SetLocale(ctx context.Context, viewer ViewerContext, raw string) (Locale, error) {
	locale, err := s.opts.Locales.SetLocale(ctx, viewer, raw)
	if err != nil {
		return "", err
	}
	s.recordTelemetry(ctx, "console.locale.set", map[string]any{
		"tenant": viewer.Tenant,
		"locale": string(locale),
	})
	s.emitActivity(ctx, viewer, activity.Event{
		Verb:       "console.locale.set",
		ObjectType: "locale",
		ObjectID:   string(locale),
		Metadata:   map[string]any{"tenant": viewer.Tenant},
	})
	return locale, nil
}

// NotifyConversationUpdated exposes refresh hook invocation for commands and
// transports.
func (s *Service) NotifyConversationUpdated(ctx context.Context, event ConversationEvent) error {
	if err := s.opts.RefreshHook.ConversationUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "console.conversation.event", map[string]any{
		"tenant":          event.Tenant,
		"conversation_id": event.ConversationID,
		"reason":          event.Reason,
	})
	return nil
}

func (s *Service) tenantClient(tenant string) (DataClient, error) {
	if s.opts.Client == nil {
		return nil, errMissingDataClient
	}
	if _, ok := s.opts.Registry.Tenant(tenant); !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTenant, tenant)
	}
	return s.opts.Client, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, viewer ViewerContext, evt activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	evt.ActorID = viewer.UserID
	evt.UserID = viewer.UserID
	evt.TenantID = viewer.Tenant
	_ = s.emitter.Emit(ctx, evt)
}
