package salesapi

import (
	"context"
	"sync"
	"time"

	console "github.com/velocitysales/admin-console/components/console"
)

// MockData seeds deterministic responses for tests or local demos.
type MockData struct {
	Conversations []console.ConversationListItem
	Details       map[int64]console.ConversationDetail
	Orders        []console.OrderListItem
	OrderDetails  map[string]console.OrderDetail
	Customers     map[int64]console.CustomerDetail
	Analytics     console.AnalyticsData
}

// MockClient implements Client using in-memory fixtures. Lookups that miss
// return a 404 APIError, matching the live backend.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var _ Client = (*MockClient)(nil)

// Conversations returns the configured conversation list.
func (c *MockClient) Conversations(context.Context, string) ([]console.ConversationListItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]console.ConversationListItem(nil), c.data.Conversations...), nil
}

// Conversation returns the configured detail for id.
func (c *MockClient) Conversation(_ context.Context, _ string, id int64) (console.ConversationDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	detail, ok := c.data.Details[id]
	if !ok {
		return console.ConversationDetail{}, &APIError{Status: 404, StatusText: "404 Not Found"}
	}
	return detail, nil
}

// Orders returns the configured orders, applying the backend-side status and
// customer filters the way the live API does.
func (c *MockClient) Orders(_ context.Context, _ string, query console.OrderQuery) ([]console.OrderListItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	orders := make([]console.OrderListItem, 0, len(c.data.Orders))
	for _, order := range c.data.Orders {
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		if query.CustomerID > 0 && order.CustomerID != query.CustomerID {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Order returns the configured detail for id.
func (c *MockClient) Order(_ context.Context, _ string, id string) (console.OrderDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	detail, ok := c.data.OrderDetails[id]
	if !ok {
		return console.OrderDetail{}, &APIError{Status: 404, StatusText: "404 Not Found"}
	}
	return detail, nil
}

// Customer returns the configured profile for id.
func (c *MockClient) Customer(_ context.Context, _ string, id int64) (console.CustomerDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	detail, ok := c.data.Customers[id]
	if !ok {
		return console.CustomerDetail{}, &APIError{Status: 404, StatusText: "404 Not Found"}
	}
	return detail, nil
}

// Analytics returns the configured stats block.
func (c *MockClient) Analytics(context.Context, string) (console.AnalyticsData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Analytics, nil
}

// DemoData builds a small fixture set for the example server, anchored at
// now so date filters have something to match.
func DemoData(now time.Time) MockData {
	conv := console.ConversationDetail{
		ID:      1,
		ChatID:  "chat-1001",
		Status:  "active",
		Channel: console.ChannelTelegram,
		Messages: []console.Message{
			{ID: 1, Role: "user", Content: "Hi, do you have fresh basil?", Channel: console.ChannelTelegram, CreatedAt: now.Add(-26 * time.Hour)},
			{ID: 2, Role: "assistant", Content: "We do! How much would you like?", Channel: console.ChannelTelegram, CreatedAt: now.Add(-26*time.Hour + 2*time.Minute)},
			{ID: 3, Role: "user", Content: "Two bunches, and a bottle of olive oil.", Channel: console.ChannelTelegram, CreatedAt: now.Add(-2 * time.Hour)},
		},
		Customer: &console.CustomerInfo{ID: 7, Name: "Dana Levi", Address: "12 Herzl St, Tel Aviv", Language: "he"},
		Orders: []console.OrderSummary{
			{ID: "ord-2001", Status: console.OrderStatusConfirmed, Total: 86.5, CreatedAt: now.Add(-90 * time.Minute)},
		},
	}
	return MockData{
		Conversations: []console.ConversationListItem{
			{ID: 1, ChatID: "chat-1001", CustomerID: 7, CustomerName: "Dana Levi", LastMessage: "Two bunches, and a bottle of olive oil.", LastMessageAt: now.Add(-2 * time.Hour), MessageCount: 3, Status: "active", Channel: console.ChannelTelegram},
			{ID: 2, ChatID: "chat-1002", CustomerID: 8, CustomerName: "Omer Katz", LastMessage: "Thanks, see you Friday", LastMessageAt: now.Add(-30 * time.Hour), MessageCount: 12, Status: "active", Channel: console.ChannelWhatsApp},
		},
		Details: map[int64]console.ConversationDetail{1: conv},
		Orders: []console.OrderListItem{
			{
				ID: "ord-2001", CustomerID: 7, CustomerName: "Dana Levi",
				Items: []console.OrderItem{
					{ProductName: "Basil", Quantity: "2", UnitPrice: 8.5, Subtotal: 17},
					{ProductName: "Olive Oil", Quantity: "1", UnitPrice: 69.5, Subtotal: 69.5},
				},
				Status: console.OrderStatusConfirmed, Total: 86.5, CreatedAt: now.Add(-90 * time.Minute),
			},
			{
				ID: "ord-1987", CustomerID: 8, CustomerName: "Omer Katz",
				Items: []console.OrderItem{
					{ProductName: "Tomatoes", Quantity: "1.5kg", UnitPrice: 12, Subtotal: 18},
				},
				Status: console.OrderStatusCompleted, Total: 18, CreatedAt: now.AddDate(0, 0, -6),
			},
		},
		OrderDetails: map[string]console.OrderDetail{
			"ord-2001": {
				ID: "ord-2001", CustomerID: 7, CustomerName: "Dana Levi",
				Items: []console.OrderItem{
					{ProductName: "Basil", Quantity: "2", UnitPrice: 8.5, Subtotal: 17},
					{ProductName: "Olive Oil", Quantity: "1", UnitPrice: 69.5, Subtotal: 69.5},
				},
				Status: console.OrderStatusConfirmed, Total: 86.5,
				DeliveryNotes: "Leave at the door",
				CreatedAt:     now.Add(-90 * time.Minute), UpdatedAt: now.Add(-60 * time.Minute),
			},
		},
		Customers: map[int64]console.CustomerDetail{
			7: {ID: 7, ChatID: "chat-1001", Name: "Dana Levi", Phone: "+972-50-1234567", Address: "12 Herzl St, Tel Aviv", Language: "he", CreatedAt: now.AddDate(0, -3, 0)},
			8: {ID: 8, ChatID: "chat-1002", Name: "Omer Katz", Phone: "+972-52-7654321", Language: "en", CreatedAt: now.AddDate(-1, 0, 0)},
		},
		Analytics: console.AnalyticsData{
			Revenue: console.RevenueStats{Total: 45210.5, ThisMonth: 6320, ThisWeek: 1240.5, AvgOrderValue: 97.2},
			Orders: console.OrderStats{Total: 465, ByStatus: map[string]int{
				console.OrderStatusPending:   12,
				console.OrderStatusConfirmed: 31,
				console.OrderStatusCompleted: 398,
				console.OrderStatusCancelled: 24,
			}},
			Conversations: console.ConversationStats{Total: 612, ByChannel: map[string]int{
				console.ChannelTelegram: 344,
				console.ChannelWhatsApp: 268,
			}},
			Customers: console.CustomerStats{
				Total:        189,
				NewThisMonth: 14,
				TopCustomers: []console.TopCustomer{
					{Name: "Dana Levi", OrderCount: 42, TotalSpent: 4110},
					{Name: "Omer Katz", OrderCount: 35, TotalSpent: 3544.5},
				},
			},
			TopProducts: []console.TopProduct{
				{Name: "Olive Oil", Quantity: 240, Revenue: 16680},
				{Name: "Tomatoes", Quantity: 1020, Revenue: 12240},
				{Name: "Basil", Quantity: 380, Revenue: 3230},
			},
		},
	}
}
