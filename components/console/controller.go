package console

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"
)

// ControllerOptions wires the controller's collaborators.
type ControllerOptions struct {
	Service    *Service
	Renderer   Renderer
	Translator TranslationService
	Charts     *ChartRenderer
}

// Controller builds page view models from the service and renders them
// through the template renderer. It keeps one conversation selector per
// viewer so selection survives across requests.
type Controller struct {
	service    *Service
	renderer   Renderer
	translator TranslationService
	charts     *ChartRenderer

	mu        sync.Mutex
	selectors map[string]*Selector
}

// NewController wires the service into a controller with safe defaults.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Renderer == nil {
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		opts.Renderer = renderer
	}
	if opts.Translator == nil {
		opts.Translator = DefaultCatalog()
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer(WithChartTranslator(opts.Translator))
	}
	return &Controller{
		service:    opts.Service,
		renderer:   opts.Renderer,
		translator: opts.Translator,
		charts:     opts.Charts,
		selectors:  make(map[string]*Selector),
	}, nil
}

// PageContext carries per-request presentation state shared by every page.
// Query holds the request's live query parameters so links built into the
// page can carry them through.
type PageContext struct {
	Viewer    ViewerContext
	Tenant    TenantEntry
	Theme     ThemeSelection
	Locale    Locale
	Direction Direction
	Now       time.Time
	Query     url.Values
}

// pageShell is the chrome every template receives. A non-empty ErrorText
// switches the template to its inline error presentation.
type pageShell struct {
	Title         string
	TenantID      string
	TenantName    string
	Locale        string
	Direction     string
	ThemeStyle    string
	Nav           navLabels
	LocaleToggles []shellToggle
	ThemeToggles  []shellToggle
	ErrorText     string
	RetryLabel    string
}

type navLabels struct {
	Conversations string
	Orders        string
	Analytics     string
}

// shellToggle is one locale or theme switch in the page header.
type shellToggle struct {
	Label  string
	Href   string
	Active bool
}

func (c *Controller) shell(ctx context.Context, page PageContext, titleKey, fallback string) pageShell {
	locale := string(page.Locale)
	return pageShell{
		Title:      translateOrFallback(ctx, c.translator, titleKey, locale, fallback, nil),
		TenantID:   page.Tenant.ID,
		TenantName: page.Tenant.Name,
		Locale:     locale,
		Direction:  string(page.Direction),
		ThemeStyle: page.Theme.CSSVariablesInline(),
		Nav: navLabels{
			Conversations: translateOrFallback(ctx, c.translator, "nav.conversations", locale, "Conversations", nil),
			Orders:        translateOrFallback(ctx, c.translator, "nav.orders", locale, "Orders", nil),
			Analytics:     translateOrFallback(ctx, c.translator, "nav.analytics", locale, "Analytics", nil),
		},
		LocaleToggles: []shellToggle{
			{Label: "EN", Href: queryWith(page.Query, "locale", "en"), Active: page.Locale == LocaleEnglish},
			{Label: "עברית", Href: queryWith(page.Query, "locale", "he"), Active: page.Locale == LocaleHebrew},
		},
		ThemeToggles: []shellToggle{
			{Label: "☀", Href: queryWith(page.Query, "theme", "light"), Active: page.Theme.Variant == ThemeLight},
			{Label: "☾", Href: queryWith(page.Query, "theme", "dark"), Active: page.Theme.Variant == ThemeDark},
		},
		RetryLabel: translateOrFallback(ctx, c.translator, "common.retry", locale, "Retry", nil),
	}
}

// errorShell is the chrome for a page whose data fetch failed: the template
// renders an inline error with a retry link instead of a bare 500.
func (c *Controller) errorShell(ctx context.Context, page PageContext, titleKey, fallback string, fetchErr error) pageShell {
	shell := c.shell(ctx, page, titleKey, fallback)
	locale := string(page.Locale)
	shell.ErrorText = translateOrFallback(ctx, c.translator, "error.loadFailed", locale, "Failed to load data", nil) + ": " + fetchErr.Error()
	return shell
}

// queryWith clones the live query parameters and sets one of them, producing
// a link that switches a single control without losing the rest.
func queryWith(query url.Values, key, value string) string {
	values := url.Values{}
	for k, vs := range query {
		values[k] = append([]string(nil), vs...)
	}
	values.Set(key, value)
	return "?" + values.Encode()
}

// PageContextFor resolves tenant, theme, and locale for a request. Unknown
// tenants return the service's not-found error.
func (c *Controller) PageContextFor(ctx context.Context, viewer ViewerContext, tenant, acceptLanguage string) (PageContext, error) {
	entry, ok := c.service.Registry().Tenant(tenant)
	if !ok {
		return PageContext{}, ErrUnknownTenant()
	}
	locale := c.service.Locales().Resolve(ctx, viewer, acceptLanguage)
	if viewer.Locale != "" {
		locale = viewer.Locale
	}
	return PageContext{
		Viewer:    viewer,
		Tenant:    entry,
		Theme:     SelectTheme(entry.Theme),
		Locale:    locale,
		Direction: locale.Direction(),
		Now:       time.Now(),
	}, nil
}

func (c *Controller) selectorFor(viewer ViewerContext, tenant string) *Selector {
	key := viewer.UserID + "::" + tenant
	c.mu.Lock()
	defer c.mu.Unlock()
	if sel, ok := c.selectors[key]; ok {
		return sel
	}
	sel := NewSelector(serviceFetcher{service: c.service, viewer: viewer}, tenant)
	c.selectors[key] = sel
	return sel
}

// serviceFetcher adapts the service to the selector's fetch contract.
type serviceFetcher struct {
	service *Service
	viewer  ViewerContext
}

func (f serviceFetcher) Conversation(ctx context.Context, tenant string, id int64) (ConversationDetail, error) {
	return f.service.Conversation(ctx, f.viewer, tenant, id)
}

// conversationRow is a list entry ready for the template.
type conversationRow struct {
	ID            int64
	CustomerName  string
	LastMessage   string
	LastMessageAt string
	MessageCount  int
	Channel       string
	ChannelStyle  string
	Active        bool
}

type messageView struct {
	Role     string
	Content  string
	Time     string
	FromUser bool
}

type messageGroupView struct {
	Label    string
	Messages []messageView
}

type orderSummaryView struct {
	ID        string
	Status    string
	Badge     string
	Total     string
	CreatedAt string
}

// conversationPane is the right-hand detail pane in one of four states:
// idle, loading, loaded, failed.
type conversationPane struct {
	State        string
	ID           int64
	Channel      string
	ChannelStyle string
	Groups       []messageGroupView
	Customer     *CustomerInfo
	Orders       []orderSummaryView
	ErrorText    string
	RetryLabel   string
	EmptyLabel   string
}

type conversationsPage struct {
	pageShell
	Items         []conversationRow
	Pane          conversationPane
	ChannelFilter string
	AllChannels   string
	EmptyLabel    string
}

// RenderConversations renders the conversation list with the selected
// conversation's pane. selectedID <= 0 leaves the pane idle; a failed fetch
// renders inline with a retry affordance instead of failing the page.
func (c *Controller) RenderConversations(ctx context.Context, page PageContext, channel string, selectedID int64, out io.Writer) error {
	items, err := c.service.Conversations(ctx, page.Viewer, page.Tenant.ID)
	if err != nil {
		if IsUnknownTenant(err) {
			return err
		}
		data := conversationsPage{pageShell: c.errorShell(ctx, page, "conversations.title", "Conversations", err)}
		_, rerr := c.renderer.Render("conversations", data, out)
		return rerr
	}
	items = FilterConversationsByChannel(items, channel)

	selector := c.selectorFor(page.Viewer, page.Tenant.ID)
	var snapshot SelectionSnapshot
	if selectedID > 0 {
		snapshot = selector.Select(ctx, selectedID)
	} else {
		selector.Clear()
		snapshot = selector.Snapshot()
	}

	locale := string(page.Locale)
	rows := make([]conversationRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, conversationRow{
			ID:            item.ID,
			CustomerName:  item.CustomerName,
			LastMessage:   item.LastMessage,
			LastMessageAt: FormatDateTime(item.LastMessageAt, page.Locale),
			MessageCount:  item.MessageCount,
			Channel:       item.Channel,
			ChannelStyle:  StyleForChannel(item.Channel).InlineStyle(),
			Active:        snapshot.State != SelectionIdle && item.ID == snapshot.ID,
		})
	}

	data := conversationsPage{
		pageShell:     c.shell(ctx, page, "conversations.title", "Conversations"),
		Items:         rows,
		Pane:          c.buildPane(ctx, page, snapshot),
		ChannelFilter: channel,
		AllChannels:   translateOrFallback(ctx, c.translator, "filters.allChannels", locale, "All Channels", nil),
		EmptyLabel:    translateOrFallback(ctx, c.translator, "conversations.empty", locale, "No conversations yet", nil),
	}
	_, err = c.renderer.Render("conversations", data, out)
	return err
}

func (c *Controller) buildPane(ctx context.Context, page PageContext, snapshot SelectionSnapshot) conversationPane {
	locale := string(page.Locale)
	pane := conversationPane{
		State:      string(snapshot.State),
		ID:         snapshot.ID,
		RetryLabel: translateOrFallback(ctx, c.translator, "common.retry", locale, "Retry", nil),
		EmptyLabel: translateOrFallback(ctx, c.translator, "conversations.selectPrompt", locale, "Select a conversation to view messages", nil),
	}
	switch snapshot.State {
	case SelectionFailed:
		pane.ErrorText = translateOrFallback(ctx, c.translator, "error.generic", locale, "Something went wrong", nil)
		if snapshot.Err != nil {
			pane.ErrorText += ": " + snapshot.Err.Error()
		}
	case SelectionLoaded:
		detail := snapshot.Detail
		pane.Channel = detail.Channel
		pane.ChannelStyle = StyleForChannel(detail.Channel).InlineStyle()
		if len(detail.Messages) == 0 {
			pane.EmptyLabel = translateOrFallback(ctx, c.translator, "conversations.noMessages", locale, "No messages", nil)
		}
		for _, group := range GroupMessagesByDay(ctx, detail.Messages, page.Now, page.Locale, c.translator) {
			view := messageGroupView{Label: group.Label}
			for _, msg := range group.Messages {
				view.Messages = append(view.Messages, messageView{
					Role:     msg.Role,
					Content:  msg.Content,
					Time:     FormatTime(msg.CreatedAt),
					FromUser: msg.Role == "user",
				})
			}
			pane.Groups = append(pane.Groups, view)
		}
		pane.Customer = detail.Customer
		for _, order := range detail.Orders {
			pane.Orders = append(pane.Orders, orderSummaryView{
				ID:        order.ID,
				Status:    StatusLabel(ctx, c.translator, order.Status, page.Locale),
				Badge:     statusBadgeClass(order.Status),
				Total:     FormatCurrency(order.Total),
				CreatedAt: FormatDate(order.CreatedAt, page.Locale),
			})
		}
	}
	return pane
}

type orderRow struct {
	ID           string
	CustomerID   int64
	CustomerName string
	Items        string
	Status       string
	Badge        string
	Total        string
	CreatedAt    string
}

type sortHeader struct {
	Field  string
	Href   string
	Active bool
	Desc   bool
}

type ordersPage struct {
	pageShell
	Rows       []orderRow
	Filter     OrderFilter
	Sort       OrderSort
	Headers    map[string]sortHeader
	EmptyLabel string
	Statuses   []statusOption
}

type statusOption struct {
	Value string
	Label string
}

// RenderOrders renders the filtered, sorted orders table.
func (c *Controller) RenderOrders(ctx context.Context, page PageContext, filter OrderFilter, sortBy OrderSort, out io.Writer) error {
	orders, err := c.service.Orders(ctx, page.Viewer, page.Tenant.ID, OrderQuery{})
	if err != nil {
		if IsUnknownTenant(err) {
			return err
		}
		data := ordersPage{pageShell: c.errorShell(ctx, page, "orders.title", "Orders", err)}
		_, rerr := c.renderer.Render("orders", data, out)
		return rerr
	}
	now := page.Now
	if now.IsZero() {
		now = time.Now()
	}
	orders = sortBy.Apply(filter.Apply(orders, now))

	rows := make([]orderRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, orderRow{
			ID:           order.ID,
			CustomerID:   order.CustomerID,
			CustomerName: order.CustomerName,
			Items:        ItemsSummary(order.Items, 2),
			Status:       StatusLabel(ctx, c.translator, order.Status, page.Locale),
			Badge:        statusBadgeClass(order.Status),
			Total:        FormatCurrency(order.Total),
			CreatedAt:    FormatDate(order.CreatedAt, page.Locale),
		})
	}

	headers := make(map[string]sortHeader, 5)
	for _, field := range []SortField{
		SortByID, SortByCustomer, SortByStatus, SortByTotal, SortByCreated,
	} {
		headers[string(field)] = sortHeader{
			Field:  string(field),
			Href:   sortHref(filter, sortBy, field),
			Active: sortBy.Field == field,
			Desc:   sortBy.Field == field && sortBy.Descending,
		}
	}

	locale := string(page.Locale)
	data := ordersPage{
		pageShell:  c.shell(ctx, page, "orders.title", "Orders"),
		Rows:       rows,
		Filter:     filter,
		Sort:       sortBy,
		Headers:    headers,
		EmptyLabel: translateOrFallback(ctx, c.translator, "orders.empty", locale, "No orders found", nil),
		Statuses:   c.statusOptions(ctx, page.Locale),
	}
	_, err = c.renderer.Render("orders", data, out)
	return err
}

// sortHref builds a header link that toggles the column's sort while
// carrying the active filter through the query string.
func sortHref(filter OrderFilter, current OrderSort, field SortField) string {
	next := current.Toggle(field)
	values := filter.QueryValues()
	values.Set("sort", string(next.Field))
	if next.Descending {
		values.Set("dir", "desc")
	}
	return "?" + values.Encode()
}

func (c *Controller) statusOptions(ctx context.Context, locale Locale) []statusOption {
	statuses := []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled}
	options := make([]statusOption, 0, len(statuses))
	for _, status := range statuses {
		options = append(options, statusOption{
			Value: status,
			Label: StatusLabel(ctx, c.translator, status, locale),
		})
	}
	return options
}

type orderItemView struct {
	ProductName string
	Quantity    string
	UnitPrice   string
	Subtotal    string
}

type orderDetailPage struct {
	pageShell
	ID            string
	CustomerID    int64
	CustomerName  string
	Status        string
	Badge         string
	Total         string
	DeliveryNotes string
	DeliveryLabel string
	CreatedAt     string
	UpdatedAt     string
	Items         []orderItemView
}

// RenderOrderDetail renders a single order with its line items.
func (c *Controller) RenderOrderDetail(ctx context.Context, page PageContext, id string, out io.Writer) error {
	detail, err := c.service.Order(ctx, page.Viewer, page.Tenant.ID, id)
	if err != nil {
		if IsUnknownTenant(err) {
			return err
		}
		data := orderDetailPage{pageShell: c.errorShell(ctx, page, "orders.title", "Orders", err)}
		_, rerr := c.renderer.Render("order_detail", data, out)
		return rerr
	}
	items := make([]orderItemView, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, orderItemView{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   FormatCurrency(item.UnitPrice),
			Subtotal:    FormatCurrency(item.Subtotal),
		})
	}
	data := orderDetailPage{
		pageShell:     c.shell(ctx, page, "orders.title", "Orders"),
		ID:            detail.ID,
		CustomerID:    detail.CustomerID,
		CustomerName:  detail.CustomerName,
		Status:        StatusLabel(ctx, c.translator, detail.Status, page.Locale),
		Badge:         statusBadgeClass(detail.Status),
		Total:         FormatCurrency(detail.Total),
		DeliveryNotes: detail.DeliveryNotes,
		DeliveryLabel: translateOrFallback(ctx, c.translator, "orders.delivery", string(page.Locale), "Delivery notes", nil),
		CreatedAt:     FormatDateTime(detail.CreatedAt, page.Locale),
		UpdatedAt:     FormatDateTime(detail.UpdatedAt, page.Locale),
		Items:         items,
	}
	_, err = c.renderer.Render("order_detail", data, out)
	return err
}

type customerPage struct {
	pageShell
	Customer  CustomerDetail
	CreatedAt string
}

// RenderCustomer renders a customer profile.
func (c *Controller) RenderCustomer(ctx context.Context, page PageContext, id int64, out io.Writer) error {
	detail, err := c.service.Customer(ctx, page.Viewer, page.Tenant.ID, id)
	if err != nil {
		if IsUnknownTenant(err) {
			return err
		}
		data := customerPage{pageShell: c.errorShell(ctx, page, "customer.title", "Customer", err)}
		_, rerr := c.renderer.Render("customer", data, out)
		return rerr
	}
	data := customerPage{
		pageShell: c.shell(ctx, page, "customer.title", "Customer"),
		Customer:  detail,
		CreatedAt: FormatDate(detail.CreatedAt, page.Locale),
	}
	_, err = c.renderer.Render("customer", data, out)
	return err
}

type statCard struct {
	Label string
	Value string
}

type topCustomerView struct {
	Name       string
	OrderCount int
	TotalSpent string
}

type analyticsPage struct {
	pageShell
	Description    string
	RevenueCards   []statCard
	CountCards     []statCard
	TopCustomers   []topCustomerView
	CustomersTitle string
	StatusChart    string
	ChannelChart   string
	ProductsChart  string
}

// RenderAnalytics renders the analytics page: stat cards plus server-side
// charts.
func (c *Controller) RenderAnalytics(ctx context.Context, page PageContext, out io.Writer) error {
	data, err := c.service.Analytics(ctx, page.Viewer, page.Tenant.ID)
	if err != nil {
		if IsUnknownTenant(err) {
			return err
		}
		view := analyticsPage{pageShell: c.errorShell(ctx, page, "analytics.title", "Analytics", err)}
		_, rerr := c.renderer.Render("analytics", view, out)
		return rerr
	}
	view, err := c.buildAnalyticsPage(ctx, page, data)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render("analytics", view, out)
	return err
}

func (c *Controller) buildAnalyticsPage(ctx context.Context, page PageContext, data AnalyticsData) (analyticsPage, error) {
	locale := string(page.Locale)
	label := func(key, fallback string) string {
		return translateOrFallback(ctx, c.translator, key, locale, fallback, nil)
	}

	statusChart, err := c.charts.OrderStatusChart(ctx, page.Viewer, data)
	if err != nil {
		return analyticsPage{}, err
	}
	channelChart, err := c.charts.ChannelChart(ctx, page.Viewer, data)
	if err != nil {
		return analyticsPage{}, err
	}
	productsChart, err := c.charts.TopProductsChart(ctx, page.Viewer, data)
	if err != nil {
		return analyticsPage{}, err
	}

	topCustomers := make([]topCustomerView, 0, len(data.Customers.TopCustomers))
	for _, customer := range data.Customers.TopCustomers {
		topCustomers = append(topCustomers, topCustomerView{
			Name:       customer.Name,
			OrderCount: customer.OrderCount,
			TotalSpent: FormatCurrency(customer.TotalSpent),
		})
	}

	return analyticsPage{
		pageShell:   c.shell(ctx, page, "analytics.title", "Analytics"),
		Description: label("analytics.description", "Sales and conversation trends for this tenant"),
		RevenueCards: []statCard{
			{Label: label("analytics.revenue.total", "Total Revenue"), Value: FormatCurrency(data.Revenue.Total)},
			{Label: label("analytics.revenue.thisMonth", "Revenue This Month"), Value: FormatCurrency(data.Revenue.ThisMonth)},
			{Label: label("analytics.revenue.thisWeek", "Revenue This Week"), Value: FormatCurrency(data.Revenue.ThisWeek)},
			{Label: label("analytics.revenue.avgOrder", "Avg. Order Value"), Value: FormatCurrency(data.Revenue.AvgOrderValue)},
		},
		CountCards: []statCard{
			{Label: label("analytics.orders.total", "Total Orders"), Value: formatCount(data.Orders.Total)},
			{Label: label("analytics.conversations.total", "Total Conversations"), Value: formatCount(data.Conversations.Total)},
			{Label: label("analytics.customers.total", "Total Customers"), Value: formatCount(data.Customers.Total)},
			{Label: label("analytics.customers.new", "New This Month"), Value: formatCount(data.Customers.NewThisMonth)},
		},
		TopCustomers:   topCustomers,
		CustomersTitle: label("analytics.customers.title", "Top Customers"),
		StatusChart:    statusChart,
		ChannelChart:   channelChart,
		ProductsChart:  productsChart,
	}, nil
}

func statusBadgeClass(status string) string {
	switch status {
	case OrderStatusPending:
		return "badge-pending"
	case OrderStatusConfirmed:
		return "badge-confirmed"
	case OrderStatusCompleted:
		return "badge-completed"
	case OrderStatusCancelled:
		return "badge-cancelled"
	}
	return "badge-default"
}

func formatCount(n int) string {
	return FormatNumber(n)
}
