package console

import (
	"context"
	"testing"

	"github.com/velocitysales/admin-console/pkg/activity"
)

func TestConversationViewEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	registry := NewTenantRegistry()
	_ = registry.RegisterTenant(TenantEntry{ID: "acme", Name: "Acme"})
	service := NewService(Options{
		Client:         &fakeDataClient{detail: ConversationDetail{ID: 12, Channel: ChannelTelegram}},
		Registry:       registry,
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})

	viewer := ViewerContext{UserID: "staff-1", Tenant: "acme"}
	if _, err := service.Conversation(context.Background(), viewer, "acme", 12); err != nil {
		t.Fatalf("Conversation returned error: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != "console.conversation.view" || event.ObjectType != "conversation" || event.ObjectID != "12" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ActorID != "staff-1" || event.TenantID != "acme" {
		t.Fatalf("unexpected actor context: %+v", event)
	}
	if event.Metadata["channel"] != ChannelTelegram {
		t.Fatalf("expected channel metadata, got %+v", event.Metadata)
	}
	if event.Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", event.Channel)
	}
}

func TestSetLocaleEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	registry := NewTenantRegistry()
	_ = registry.RegisterTenant(TenantEntry{ID: "acme", Name: "Acme"})
	service := NewService(Options{
		Client:         &fakeDataClient{},
		Registry:       registry,
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})

	viewer := ViewerContext{UserID: "staff-1", Tenant: "acme"}
	if _, err := service.SetLocale(context.Background(), viewer, "he"); err != nil {
		t.Fatalf("SetLocale returned error: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != "console.locale.set" || capture.Events[0].ObjectID != "he" {
		t.Fatalf("unexpected event: %+v", capture.Events[0])
	}
}

func TestActivityDisabledWithoutConfig(t *testing.T) {
	capture := &activity.CaptureHook{}
	registry := NewTenantRegistry()
	_ = registry.RegisterTenant(TenantEntry{ID: "acme", Name: "Acme"})
	service := NewService(Options{
		Client:        &fakeDataClient{},
		Registry:      registry,
		ActivityHooks: activity.Hooks{capture},
	})

	if _, err := service.Order(context.Background(), ViewerContext{UserID: "u"}, "acme", "o1"); err != nil {
		t.Fatalf("Order returned error: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events when disabled, got %d", len(capture.Events))
	}
}
