package console

import (
	"context"
	"time"
)

// Order lifecycle statuses as reported by the backend. The console renders
// unknown values as-is; the enum only drives badge colors and filters.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Known messaging channels. Anything else falls back to the default style.
const (
	ChannelTelegram = "telegram"
	ChannelWhatsApp = "whatsapp"
)

// DataClient is the backend admin API surface the console reads from.
// Implementations live in pkg/salesapi; every call is a single GET with no
// retry semantics.
type DataClient interface {
	Conversations(ctx context.Context, tenant string) ([]ConversationListItem, error)
	Conversation(ctx context.Context, tenant string, id int64) (ConversationDetail, error)
	Orders(ctx context.Context, tenant string, query OrderQuery) ([]OrderListItem, error)
	Order(ctx context.Context, tenant string, id string) (OrderDetail, error)
	Customer(ctx context.Context, tenant string, id int64) (CustomerDetail, error)
	Analytics(ctx context.Context, tenant string) (AnalyticsData, error)
}

// OrderQuery carries the filter parameters the backend applies server-side.
type OrderQuery struct {
	Status     string
	CustomerID int64
}

// ViewerContext captures the staff member and request scope used to render
// pages and record activity.
type ViewerContext struct {
	UserID string
	Roles  []string
	Tenant string
	Locale Locale
}

// ConversationListItem is the list-view projection of a conversation.
// String fields mirror the wire format: the backend sends null for absent
// values, which decodes to the zero value here.
type ConversationListItem struct {
	ID            int64     `json:"id"`
	ChatID        string    `json:"chat_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	MessageCount  int       `json:"message_count"`
	Status        string    `json:"status"`
	Channel       string    `json:"channel"`
}

// Message is a single chat message. Role is "user" or "assistant".
type Message struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInfo is the compact customer record embedded in a conversation.
type CustomerInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Language string `json:"language"`
	Notes    string `json:"notes"`
}

// OrderSummary is the order projection shown next to a conversation.
type OrderSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationDetail is the full conversation payload: message history plus
// the customer and their orders. Customer is nil for anonymous chats.
type ConversationDetail struct {
	ID       int64          `json:"id"`
	ChatID   string         `json:"chat_id"`
	Status   string         `json:"status"`
	Channel  string         `json:"channel"`
	Messages []Message      `json:"messages"`
	Customer *CustomerInfo  `json:"customer"`
	Orders   []OrderSummary `json:"orders"`
}

// OrderItem is a single line item. Quantity is a string on the wire because
// tenants sell by weight as well as by unit ("1.5kg").
type OrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    string  `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderListItem is the orders-table projection. Total is server-computed;
// the console never recomputes it from items.
type OrderListItem struct {
	ID           string      `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Items        []OrderItem `json:"items"`
	Status       string      `json:"status"`
	Total        float64     `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
}

// OrderDetail extends the list projection with delivery notes and the
// update timestamp.
type OrderDetail struct {
	ID            string      `json:"id"`
	CustomerID    int64       `json:"customer_id"`
	CustomerName  string      `json:"customer_name"`
	Items         []OrderItem `json:"items"`
	Status        string      `json:"status"`
	Total         float64     `json:"total"`
	DeliveryNotes string      `json:"delivery_notes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CustomerDetail is the full customer profile.
type CustomerDetail struct {
	ID        int64     `json:"id"`
	ChatID    string    `json:"chat_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Language  string    `json:"language"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsData aggregates the tenant-wide stats rendered on the analytics
// page.
type AnalyticsData struct {
	Revenue       RevenueStats      `json:"revenue"`
	Orders        OrderStats        `json:"orders"`
	Conversations ConversationStats `json:"conversations"`
	Customers     CustomerStats     `json:"customers"`
	TopProducts   []TopProduct      `json:"top_products"`
}

// RevenueStats carries the revenue headline figures.
type RevenueStats struct {
	Total         float64 `json:"total"`
	ThisMonth     float64 `json:"this_month"`
	ThisWeek      float64 `json:"this_week"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// OrderStats counts orders overall and per status.
type OrderStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// ConversationStats counts conversations overall and per channel.
type ConversationStats struct {
	Total     int            `json:"total"`
	ByChannel map[string]int `json:"by_channel"`
}

// CustomerStats summarizes the customer base.
type CustomerStats struct {
	Total        int           `json:"total"`
	NewThisMonth int           `json:"new_this_month"`
	TopCustomers []TopCustomer `json:"top_customers"`
}

// TopCustomer is a leaderboard row on the analytics page.
type TopCustomer struct {
	Name       string  `json:"name"`
	OrderCount int     `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// TopProduct is a best-seller row on the analytics page.
type TopProduct struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}
