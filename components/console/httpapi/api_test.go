package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	console "github.com/velocitysales/admin-console/components/console"
	"github.com/velocitysales/admin-console/components/console/commands"
	"github.com/velocitysales/admin-console/components/console/queries"
)

type querierFunc[I, O any] func(ctx context.Context, input I) (O, error)

func (f querierFunc[I, O]) Query(ctx context.Context, input I) (O, error) {
	return f(ctx, input)
}

type commanderFunc[I any] func(ctx context.Context, msg I) error

func (f commanderFunc[I]) Execute(ctx context.Context, msg I) error {
	return f(ctx, msg)
}

func TestHandleOrdersParsesFilterAndSort(t *testing.T) {
	var seen queries.OrderListInput
	handlers := &Handlers{
		Orders: querierFunc[queries.OrderListInput, []console.OrderListItem](func(_ context.Context, input queries.OrderListInput) ([]console.OrderListItem, error) {
			seen = input
			return []console.OrderListItem{{ID: "ord-1", CreatedAt: time.Now()}}, nil
		}),
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?status=pending&sort=total&dir=desc&priceMin=20", nil)
	rec := httptest.NewRecorder()
	handlers.HandleOrders(rec, req, console.ViewerContext{UserID: "u1"}, "acme")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if seen.Tenant != "acme" || seen.Filter.Status != "pending" {
		t.Fatalf("filter not forwarded: %+v", seen)
	}
	if seen.Filter.PriceMin == nil || *seen.Filter.PriceMin != 20 {
		t.Fatalf("priceMin not parsed: %+v", seen.Filter)
	}
	if seen.Sort.Field != console.SortByTotal || !seen.Sort.Descending {
		t.Fatalf("sort not parsed: %+v", seen.Sort)
	}

	var payload []console.OrderListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(payload) != 1 || payload[0].ID != "ord-1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleConversationDetailRejectsBadID(t *testing.T) {
	handlers := &Handlers{}
	req := httptest.NewRequest(http.MethodGet, "/conversations/abc/data", nil)
	rec := httptest.NewRecorder()

	handlers.HandleConversationDetail(rec, req, console.ViewerContext{}, "acme", "abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleConversationsMapsUnknownTenantTo404(t *testing.T) {
	handlers := &Handlers{
		Conversations: querierFunc[queries.ConversationListInput, []console.ConversationListItem](func(context.Context, queries.ConversationListInput) ([]console.ConversationListItem, error) {
			return nil, console.ErrUnknownTenant()
		}),
	}
	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()

	handlers.HandleConversations(rec, req, console.ViewerContext{}, "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSetLocale(t *testing.T) {
	var seen commands.SetLocaleInput
	handlers := &Handlers{
		SetLocale: commanderFunc[commands.SetLocaleInput](func(_ context.Context, msg commands.SetLocaleInput) error {
			seen = msg
			if _, ok := console.ParseLocale(msg.Locale); !ok {
				return console.ErrUnsupportedLocale
			}
			return nil
		}),
	}

	req := httptest.NewRequest(http.MethodPost, "/locale", strings.NewReader(`{"locale":"he"}`))
	rec := httptest.NewRecorder()
	handlers.HandleSetLocale(rec, req, console.ViewerContext{UserID: "u1", Tenant: "acme"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if seen.Locale != "he" || seen.Viewer.UserID != "u1" {
		t.Fatalf("command input wrong: %+v", seen)
	}

	req = httptest.NewRequest(http.MethodPost, "/locale", strings.NewReader(`{"locale":"fr"}`))
	rec = httptest.NewRecorder()
	handlers.HandleSetLocale(rec, req, console.ViewerContext{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported locale status = %d, want 400", rec.Code)
	}
}

func TestHandleRefreshAcceptsEvent(t *testing.T) {
	var seen console.ConversationEvent
	handlers := &Handlers{
		Refresh: commanderFunc[commands.RefreshConversationInput](func(_ context.Context, msg commands.RefreshConversationInput) error {
			seen = msg.Event
			return nil
		}),
	}

	body := `{"Event":{"tenant":"acme","conversation_id":4,"reason":"message"}}`
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handlers.HandleRefresh(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if seen.Tenant != "acme" || seen.ConversationID != 4 {
		t.Fatalf("event not decoded: %+v", seen)
	}
}
