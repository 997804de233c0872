package queries

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
)

// OrderListInput identifies an orders-table request for a viewer.
type OrderListInput struct {
	Viewer console.ViewerContext
	Tenant string
	Query  console.OrderQuery
	Filter console.OrderFilter
	Sort   console.OrderSort
	Now    time.Time
}

type orderService interface {
	Orders(ctx context.Context, viewer console.ViewerContext, tenant string, query console.OrderQuery) ([]console.OrderListItem, error)
	Order(ctx context.Context, viewer console.ViewerContext, tenant string, id string) (console.OrderDetail, error)
}

// OrderListQuery fetches orders and applies the view filter and sort.
type OrderListQuery struct {
	service orderService
}

// NewOrderListQuery builds the query.
func NewOrderListQuery(service orderService) *OrderListQuery {
	return &OrderListQuery{service: service}
}

var _ gocommand.Querier[OrderListInput, []console.OrderListItem] = (*OrderListQuery)(nil)

// Query resolves the filtered, sorted orders table.
func (q *OrderListQuery) Query(ctx context.Context, input OrderListInput) ([]console.OrderListItem, error) {
	orders, err := q.service.Orders(ctx, input.Viewer, input.Tenant, input.Query)
	if err != nil {
		return nil, err
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	return input.Sort.Apply(input.Filter.Apply(orders, now)), nil
}

// OrderDetailInput identifies a single-order request.
type OrderDetailInput struct {
	Viewer console.ViewerContext
	Tenant string
	ID     string
}

// OrderDetailQuery fetches one order with line items.
type OrderDetailQuery struct {
	service orderService
}

// NewOrderDetailQuery builds the query.
func NewOrderDetailQuery(service orderService) *OrderDetailQuery {
	return &OrderDetailQuery{service: service}
}

var _ gocommand.Querier[OrderDetailInput, console.OrderDetail] = (*OrderDetailQuery)(nil)

// Query resolves the order detail.
func (q *OrderDetailQuery) Query(ctx context.Context, input OrderDetailInput) (console.OrderDetail, error) {
	return q.service.Order(ctx, input.Viewer, input.Tenant, input.ID)
}
