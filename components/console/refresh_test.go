package console

import (
	"context"
	"testing"
)

func TestBroadcastHookFansOutToSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	first, cancelFirst := hook.Subscribe()
	second, cancelSecond := hook.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	event := ConversationEvent{Tenant: "acme", ConversationID: 1, Reason: "message"}
	if err := hook.ConversationUpdated(context.Background(), event); err != nil {
		t.Fatalf("broadcast returned error: %v", err)
	}

	for name, ch := range map[string]<-chan ConversationEvent{"first": first, "second": second} {
		select {
		case got := <-ch:
			if got != event {
				t.Fatalf("%s subscriber got %+v", name, got)
			}
		default:
			t.Fatalf("%s subscriber missed the event", name)
		}
	}
}

func TestBroadcastHookDropsEventsForSlowSubscriber(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe()
	defer cancel()

	// The subscriber buffer holds 8 events; extra publishes must not block.
	for i := 0; i < 20; i++ {
		if err := hook.ConversationUpdated(context.Background(), ConversationEvent{ConversationID: int64(i)}); err != nil {
			t.Fatalf("broadcast returned error: %v", err)
		}
	}

	received := 0
	for {
		select {
		case <-events:
			received++
			continue
		default:
		}
		break
	}
	if received != 8 {
		t.Fatalf("expected buffer-limited delivery of 8 events, got %d", received)
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe()

	cancel()
	cancel() // second cancel is a no-op

	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	// Publishing after cancel must not panic on the removed subscriber.
	if err := hook.ConversationUpdated(context.Background(), ConversationEvent{}); err != nil {
		t.Fatalf("broadcast returned error: %v", err)
	}
}
