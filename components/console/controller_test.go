package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

type captureRenderer struct {
	name string
	data any
}

func (r *captureRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.name = name
	r.data = data
	return "", nil
}

func newTestController(t *testing.T, client DataClient) (*Controller, *captureRenderer) {
	t.Helper()
	registry := NewTenantRegistry()
	if err := registry.RegisterTenant(TenantEntry{ID: "acme", Name: "Acme Grocer", Theme: "light"}); err != nil {
		t.Fatalf("register tenant: %v", err)
	}
	service := NewService(Options{Client: client, Registry: registry})
	renderer := &captureRenderer{}
	controller, err := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Charts:   NewChartRenderer(WithChartCache(NewChartCache(0))),
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return controller, renderer
}

func testPage(locale Locale) PageContext {
	return PageContext{
		Viewer:    ViewerContext{UserID: "staff-1", Tenant: "acme", Locale: locale},
		Tenant:    TenantEntry{ID: "acme", Name: "Acme Grocer", Theme: "light"},
		Theme:     SelectTheme("light"),
		Locale:    locale,
		Direction: locale.Direction(),
		Now:       time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestPageContextForUnknownTenant(t *testing.T) {
	controller, _ := newTestController(t, &fakeDataClient{})
	_, err := controller.PageContextFor(context.Background(), ViewerContext{}, "ghost", "")
	if !IsUnknownTenant(err) {
		t.Fatalf("expected unknown tenant error, got %v", err)
	}
}

func TestPageContextForViewerLocaleWins(t *testing.T) {
	controller, _ := newTestController(t, &fakeDataClient{})
	viewer := ViewerContext{UserID: "u1", Tenant: "acme", Locale: LocaleHebrew}

	page, err := controller.PageContextFor(context.Background(), viewer, "acme", "en-US,en;q=0.9")
	if err != nil {
		t.Fatalf("page context error: %v", err)
	}
	if page.Locale != LocaleHebrew || page.Direction != DirectionRTL {
		t.Fatalf("viewer locale override failed: %+v", page)
	}
	if page.Tenant.Name != "Acme Grocer" {
		t.Fatalf("tenant entry not resolved: %+v", page.Tenant)
	}
}

func TestRenderConversationsIdlePane(t *testing.T) {
	client := &fakeDataClient{conversations: []ConversationListItem{
		{ID: 1, CustomerName: "Dana Levi", Channel: ChannelTelegram, MessageCount: 3, LastMessageAt: time.Now()},
		{ID: 2, CustomerName: "Omer Katz", Channel: ChannelWhatsApp, MessageCount: 1, LastMessageAt: time.Now()},
	}}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderConversations(context.Background(), testPage(LocaleEnglish), "", 0, &out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if renderer.name != "conversations" {
		t.Fatalf("rendered template %q", renderer.name)
	}
	data, ok := renderer.data.(conversationsPage)
	if !ok {
		t.Fatalf("unexpected data type %T", renderer.data)
	}
	if len(data.Items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(data.Items))
	}
	if data.Pane.State != string(SelectionIdle) {
		t.Fatalf("pane should be idle, got %q", data.Pane.State)
	}
	if data.Items[0].ChannelStyle == "" {
		t.Fatalf("channel style missing: %+v", data.Items[0])
	}
}

func TestRenderConversationsSelectionLoadsPane(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	client := &fakeDataClient{
		conversations: []ConversationListItem{{ID: 5, CustomerName: "Dana Levi", Channel: ChannelTelegram}},
		detail: ConversationDetail{
			ID:      5,
			Channel: ChannelTelegram,
			Messages: []Message{
				{ID: 1, Role: "user", Content: "שלום", CreatedAt: now.Add(-time.Hour)},
				{ID: 2, Role: "assistant", Content: "היי!", CreatedAt: now.Add(-50 * time.Minute)},
			},
			Customer: &CustomerInfo{ID: 9, Name: "Dana Levi"},
			Orders:   []OrderSummary{{ID: "ord-1", Status: OrderStatusPending, Total: 18, CreatedAt: now}},
		},
	}
	controller, renderer := newTestController(t, client)

	page := testPage(LocaleHebrew)
	page.Now = now
	var out bytes.Buffer
	if err := controller.RenderConversations(context.Background(), page, "", 5, &out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data := renderer.data.(conversationsPage)
	if data.Pane.State != string(SelectionLoaded) || data.Pane.ID != 5 {
		t.Fatalf("pane not loaded: %+v", data.Pane)
	}
	if !data.Items[0].Active {
		t.Fatalf("selected row should be active")
	}
	if len(data.Pane.Groups) != 1 || data.Pane.Groups[0].Label != "היום" {
		t.Fatalf("expected a single localized Today group, got %+v", data.Pane.Groups)
	}
	if !data.Pane.Groups[0].Messages[0].FromUser || data.Pane.Groups[0].Messages[1].FromUser {
		t.Fatalf("message roles mis-mapped: %+v", data.Pane.Groups[0].Messages)
	}
	if data.Pane.Orders[0].Total != "₪18" {
		t.Fatalf("order total formatting wrong: %q", data.Pane.Orders[0].Total)
	}
}

func TestRenderConversationsFailedFetchRendersInline(t *testing.T) {
	client := &fakeDataClient{
		conversations: []ConversationListItem{{ID: 7, Channel: ChannelTelegram}},
		detailErr:     errors.New("backend down"),
	}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderConversations(context.Background(), testPage(LocaleEnglish), "", 7, &out); err != nil {
		t.Fatalf("a failed detail fetch must not fail the page: %v", err)
	}
	data := renderer.data.(conversationsPage)
	if data.Pane.State != string(SelectionFailed) {
		t.Fatalf("pane should be failed, got %q", data.Pane.State)
	}
	if data.Pane.ErrorText == "" || data.Pane.RetryLabel == "" {
		t.Fatalf("failed pane needs error text and retry label: %+v", data.Pane)
	}
	if !strings.Contains(data.Pane.ErrorText, "backend down") {
		t.Fatalf("pane error should carry the failure message, got %q", data.Pane.ErrorText)
	}
}

func TestRenderOrdersFetchFailureRendersInline(t *testing.T) {
	client := &fakeDataClient{fetchErr: errors.New("backend down")}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderOrders(context.Background(), testPage(LocaleEnglish), OrderFilter{}, DefaultOrderSort(), &out); err != nil {
		t.Fatalf("a failed list fetch must not fail the page: %v", err)
	}
	if renderer.name != "orders" {
		t.Fatalf("rendered template %q", renderer.name)
	}
	data := renderer.data.(ordersPage)
	if !strings.Contains(data.ErrorText, "backend down") {
		t.Fatalf("page error missing failure message: %q", data.ErrorText)
	}
	if data.RetryLabel == "" {
		t.Fatalf("error page needs a retry label")
	}
	if len(data.Rows) != 0 {
		t.Fatalf("error page should carry no rows, got %d", len(data.Rows))
	}
}

func TestRenderAnalyticsFetchFailureRendersInline(t *testing.T) {
	client := &fakeDataClient{fetchErr: errors.New("backend down")}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderAnalytics(context.Background(), testPage(LocaleEnglish), &out); err != nil {
		t.Fatalf("a failed analytics fetch must not fail the page: %v", err)
	}
	if renderer.name != "analytics" {
		t.Fatalf("rendered template %q", renderer.name)
	}
	data := renderer.data.(analyticsPage)
	if !strings.Contains(data.ErrorText, "backend down") {
		t.Fatalf("page error missing failure message: %q", data.ErrorText)
	}
}

func TestRenderOrdersUnknownTenantStillFails(t *testing.T) {
	controller, renderer := newTestController(t, &fakeDataClient{})

	page := testPage(LocaleEnglish)
	page.Tenant = TenantEntry{ID: "ghost", Name: "Ghost"}
	var out bytes.Buffer
	err := controller.RenderOrders(context.Background(), page, OrderFilter{}, DefaultOrderSort(), &out)
	if !IsUnknownTenant(err) {
		t.Fatalf("expected unknown tenant error, got %v", err)
	}
	if renderer.name != "" {
		t.Fatalf("unknown tenant should not render a page, rendered %q", renderer.name)
	}
}

func TestRenderOrdersSortHeadersCarryFilter(t *testing.T) {
	client := &fakeDataClient{}
	controller, renderer := newTestController(t, client)

	filter := OrderFilter{Status: OrderStatusPending, Customer: "dana"}
	var out bytes.Buffer
	err := controller.RenderOrders(context.Background(), testPage(LocaleEnglish), filter, OrderSort{Field: SortByTotal}, &out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	data := renderer.data.(ordersPage)
	if got := data.Headers["total"].Href; got != "?customer=dana&dir=desc&sort=total&status=pending" {
		t.Fatalf("active header should toggle direction and keep the filter, got %q", got)
	}
	if got := data.Headers["id"].Href; got != "?customer=dana&sort=id&status=pending" {
		t.Fatalf("inactive header should start ascending and keep the filter, got %q", got)
	}
}

func TestShellTogglesPreserveQuery(t *testing.T) {
	client := &fakeDataClient{}
	controller, renderer := newTestController(t, client)

	page := testPage(LocaleEnglish)
	page.Query = url.Values{"channel": {"telegram"}}
	var out bytes.Buffer
	if err := controller.RenderConversations(context.Background(), page, "telegram", 0, &out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data := renderer.data.(conversationsPage)
	locales := data.LocaleToggles
	if len(locales) != 2 || !locales[0].Active || locales[1].Active {
		t.Fatalf("english should be the active locale toggle: %+v", locales)
	}
	if locales[1].Href != "?channel=telegram&locale=he" {
		t.Fatalf("locale toggle dropped the live query: %q", locales[1].Href)
	}
	themes := data.ThemeToggles
	if len(themes) != 2 || !themes[0].Active || themes[1].Active {
		t.Fatalf("light should be the active theme toggle: %+v", themes)
	}
	if themes[1].Href != "?channel=telegram&theme=dark" {
		t.Fatalf("theme toggle dropped the live query: %q", themes[1].Href)
	}
}

func TestRenderOrdersTable(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	client := &fakeDataClient{orders: []OrderListItem{
		{
			ID:           "ord-1",
			CustomerName: "Dana Levi",
			Status:       OrderStatusPending,
			Total:        86.50,
			CreatedAt:    now,
			Items: []OrderItem{
				{ProductName: "Milk", Quantity: "2"},
				{ProductName: "Bread", Quantity: "1"},
				{ProductName: "Eggs", Quantity: "1"},
			},
		},
	}}
	controller, renderer := newTestController(t, client)

	page := testPage(LocaleEnglish)
	var out bytes.Buffer
	err := controller.RenderOrders(context.Background(), page, OrderFilter{}, DefaultOrderSort(), &out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if renderer.name != "orders" {
		t.Fatalf("rendered template %q", renderer.name)
	}
	data := renderer.data.(ordersPage)
	if len(data.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(data.Rows))
	}
	row := data.Rows[0]
	if row.Total != "₪86.50" || row.Badge != "badge-pending" {
		t.Fatalf("row formatting wrong: %+v", row)
	}
	if row.Items != "2 Milk, 1 Bread +1 more" {
		t.Fatalf("items summary wrong: %q", row.Items)
	}
	created := data.Headers["created"]
	if !created.Active || !created.Desc {
		t.Fatalf("default sort header wrong: %+v", created)
	}
	if len(data.Statuses) != 4 {
		t.Fatalf("expected 4 status options, got %d", len(data.Statuses))
	}
}

func TestRenderAnalyticsPage(t *testing.T) {
	client := &fakeDataClient{analytics: AnalyticsData{
		Revenue: RevenueStats{Total: 12500, ThisMonth: 3200, ThisWeek: 800, AvgOrderValue: 86.50},
		Orders:  OrderStats{Total: 145, ByStatus: map[string]int{OrderStatusPending: 12}},
		Conversations: ConversationStats{Total: 230, ByChannel: map[string]int{
			ChannelTelegram: 120, ChannelWhatsApp: 110,
		}},
		Customers: CustomerStats{
			Total:        80,
			NewThisMonth: 6,
			TopCustomers: []TopCustomer{{Name: "Dana Levi", OrderCount: 12, TotalSpent: 940}},
		},
		TopProducts: []TopProduct{{Name: "Olive Oil", Quantity: 40, Revenue: 1800}},
	}}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderAnalytics(context.Background(), testPage(LocaleEnglish), &out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if renderer.name != "analytics" {
		t.Fatalf("rendered template %q", renderer.name)
	}
	data := renderer.data.(analyticsPage)
	if data.RevenueCards[0].Value != "₪12,500" {
		t.Fatalf("revenue card wrong: %+v", data.RevenueCards[0])
	}
	if data.CountCards[0].Value != "145" {
		t.Fatalf("count card wrong: %+v", data.CountCards[0])
	}
	if data.StatusChart == "" || data.ChannelChart == "" || data.ProductsChart == "" {
		t.Fatalf("charts missing from page model")
	}
	if len(data.TopCustomers) != 1 || data.TopCustomers[0].TotalSpent != "₪940" {
		t.Fatalf("top customers wrong: %+v", data.TopCustomers)
	}
}

func TestRenderOrderDetailPage(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	client := &fakeDataClient{order: OrderDetail{
		ID:            "ord-1",
		CustomerName:  "Dana Levi",
		Status:        OrderStatusConfirmed,
		Total:         54,
		DeliveryNotes: "Leave at the door",
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []OrderItem{
			{ProductName: "Olive Oil", Quantity: "1.5kg", UnitPrice: 36, Subtotal: 54},
		},
	}}
	controller, renderer := newTestController(t, client)

	var out bytes.Buffer
	if err := controller.RenderOrderDetail(context.Background(), testPage(LocaleEnglish), "ord-1", &out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data := renderer.data.(orderDetailPage)
	if data.Badge != "badge-confirmed" || data.Total != "₪54" {
		t.Fatalf("detail formatting wrong: %+v", data)
	}
	if data.Items[0].Quantity != "1.5kg" || data.Items[0].Subtotal != "₪54" {
		t.Fatalf("line item wrong: %+v", data.Items[0])
	}
}
