// Package httpapi exposes the console's JSON endpoints over plain net/http
// for hosts that do not use the router integration.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
	"github.com/velocitysales/admin-console/components/console/commands"
	"github.com/velocitysales/admin-console/components/console/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Conversations      gocommand.Querier[queries.ConversationListInput, []console.ConversationListItem]
	ConversationDetail gocommand.Querier[queries.ConversationDetailInput, console.ConversationDetail]
	Orders             gocommand.Querier[queries.OrderListInput, []console.OrderListItem]
	OrderDetail        gocommand.Querier[queries.OrderDetailInput, console.OrderDetail]
	Customer           gocommand.Querier[queries.CustomerInput, console.CustomerDetail]
	Analytics          gocommand.Querier[queries.AnalyticsInput, console.AnalyticsData]
	SetLocale          gocommand.Commander[commands.SetLocaleInput]
	Refresh            gocommand.Commander[commands.RefreshConversationInput]
}

func (h *Handlers) HandleConversations(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant string) {
	items, err := h.Conversations.Query(r.Context(), queries.ConversationListInput{
		Viewer:  viewer,
		Tenant:  tenant,
		Channel: r.URL.Query().Get("channel"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) HandleConversationDetail(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}
	detail, err := h.ConversationDetail.Query(r.Context(), queries.ConversationDetailInput{
		Viewer: viewer,
		Tenant: tenant,
		ID:     id,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) HandleOrders(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant string) {
	values := r.URL.Query()
	orders, err := h.Orders.Query(r.Context(), queries.OrderListInput{
		Viewer: viewer,
		Tenant: tenant,
		Filter: console.ParseOrderFilter(values),
		Sort:   console.ParseOrderSort(values),
		Now:    time.Now(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handlers) HandleOrderDetail(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant, id string) {
	detail, err := h.OrderDetail.Query(r.Context(), queries.OrderDetailInput{
		Viewer: viewer,
		Tenant: tenant,
		ID:     id,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) HandleCustomer(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	detail, err := h.Customer.Query(r.Context(), queries.CustomerInput{
		Viewer: viewer,
		Tenant: tenant,
		ID:     id,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) HandleAnalytics(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext, tenant string) {
	data, err := h.Analytics.Query(r.Context(), queries.AnalyticsInput{
		Viewer: viewer,
		Tenant: tenant,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) HandleSetLocale(w http.ResponseWriter, r *http.Request, viewer console.ViewerContext) {
	var payload commands.SetLocaleInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Viewer = viewer
	if err := h.SetLocale.Execute(r.Context(), payload); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, console.ErrUnsupportedLocale) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshConversationInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	if console.IsUnknownTenant(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
