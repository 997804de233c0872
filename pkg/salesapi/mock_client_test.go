package salesapi

import (
	"context"
	"testing"
	"time"

	console "github.com/velocitysales/admin-console/components/console"
)

func TestMockClientAppliesBackendFilters(t *testing.T) {
	client := NewMockClient(DemoData(time.Now()))

	orders, err := client.Orders(context.Background(), "demo", console.OrderQuery{Status: console.OrderStatusCompleted})
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "ord-1987" {
		t.Fatalf("status filter wrong: %+v", orders)
	}

	orders, err = client.Orders(context.Background(), "demo", console.OrderQuery{CustomerID: 7})
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 || orders[0].CustomerID != 7 {
		t.Fatalf("customer filter wrong: %+v", orders)
	}
}

func TestMockClientMissesReturn404(t *testing.T) {
	client := NewMockClient(MockData{})

	if _, err := client.Conversation(context.Background(), "demo", 99); !IsNotFound(err) {
		t.Fatalf("expected 404 for missing conversation, got %v", err)
	}
	if _, err := client.Order(context.Background(), "demo", "nope"); !IsNotFound(err) {
		t.Fatalf("expected 404 for missing order, got %v", err)
	}
	if _, err := client.Customer(context.Background(), "demo", 1); !IsNotFound(err) {
		t.Fatalf("expected 404 for missing customer, got %v", err)
	}
}

func TestDemoDataIsInternallyConsistent(t *testing.T) {
	now := time.Now()
	data := DemoData(now)

	detail, ok := data.Details[1]
	if !ok {
		t.Fatalf("demo data missing conversation 1")
	}
	if detail.Customer == nil || detail.Customer.ID != 7 {
		t.Fatalf("conversation customer wrong: %+v", detail.Customer)
	}
	if _, ok := data.Customers[detail.Customer.ID]; !ok {
		t.Fatalf("conversation customer %d has no profile", detail.Customer.ID)
	}
	for _, order := range detail.Orders {
		if _, ok := data.OrderDetails[order.ID]; !ok {
			t.Fatalf("conversation order %s has no detail record", order.ID)
		}
	}
}
