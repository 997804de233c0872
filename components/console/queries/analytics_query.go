package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
)

// AnalyticsInput identifies an analytics request for a tenant.
type AnalyticsInput struct {
	Viewer console.ViewerContext
	Tenant string
}

type analyticsService interface {
	Analytics(ctx context.Context, viewer console.ViewerContext, tenant string) (console.AnalyticsData, error)
}

// AnalyticsQuery fetches the tenant-wide stats block.
type AnalyticsQuery struct {
	service analyticsService
}

// NewAnalyticsQuery builds the query.
func NewAnalyticsQuery(service analyticsService) *AnalyticsQuery {
	return &AnalyticsQuery{service: service}
}

var _ gocommand.Querier[AnalyticsInput, console.AnalyticsData] = (*AnalyticsQuery)(nil)

// Query resolves the analytics payload.
func (q *AnalyticsQuery) Query(ctx context.Context, input AnalyticsInput) (console.AnalyticsData, error) {
	return q.service.Analytics(ctx, input.Viewer, input.Tenant)
}

// CustomerInput identifies a customer-profile request.
type CustomerInput struct {
	Viewer console.ViewerContext
	Tenant string
	ID     int64
}

type customerService interface {
	Customer(ctx context.Context, viewer console.ViewerContext, tenant string, id int64) (console.CustomerDetail, error)
}

// CustomerQuery fetches a customer profile.
type CustomerQuery struct {
	service customerService
}

// NewCustomerQuery builds the query.
func NewCustomerQuery(service customerService) *CustomerQuery {
	return &CustomerQuery{service: service}
}

var _ gocommand.Querier[CustomerInput, console.CustomerDetail] = (*CustomerQuery)(nil)

// Query resolves the customer profile.
func (q *CustomerQuery) Query(ctx context.Context, input CustomerInput) (console.CustomerDetail, error) {
	return q.service.Customer(ctx, input.Viewer, input.Tenant, input.ID)
}
