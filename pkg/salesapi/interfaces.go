// Package salesapi implements the console's data client against the sales
// platform's admin REST API.
package salesapi

import (
	"context"

	console "github.com/velocitysales/admin-console/components/console"
)

// ConversationClient fetches conversations and their message history.
type ConversationClient interface {
	Conversations(ctx context.Context, tenant string) ([]console.ConversationListItem, error)
	Conversation(ctx context.Context, tenant string, id int64) (console.ConversationDetail, error)
}

// OrderClient fetches orders and order detail.
type OrderClient interface {
	Orders(ctx context.Context, tenant string, query console.OrderQuery) ([]console.OrderListItem, error)
	Order(ctx context.Context, tenant string, id string) (console.OrderDetail, error)
}

// CustomerClient fetches customer profiles.
type CustomerClient interface {
	Customer(ctx context.Context, tenant string, id int64) (console.CustomerDetail, error)
}

// AnalyticsClient fetches tenant-wide stats.
type AnalyticsClient interface {
	Analytics(ctx context.Context, tenant string) (console.AnalyticsData, error)
}

// Client is a convenience union for services that implement the full admin
// API surface. It satisfies console.DataClient.
type Client interface {
	ConversationClient
	OrderClient
	CustomerClient
	AnalyticsClient
}
