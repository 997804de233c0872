// Package gorouter mounts the console's pages and JSON endpoints on a
// go-router router so hosts can embed them in an existing fiber or httprouter
// application.
package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	router "github.com/goliatone/go-router"

	console "github.com/velocitysales/admin-console/components/console"
	"github.com/velocitysales/admin-console/components/console/commands"
	"github.com/velocitysales/admin-console/components/console/queries"
)

// ViewerResolver converts a router.Context into a console.ViewerContext.
type ViewerResolver func(router.Context) console.ViewerContext

// Config wires go-router with console controllers, commands, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *console.Controller
	Service        *console.Service
	Broadcast      *console.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	Conversations    string
	ConversationData string
	Orders           string
	OrderID          string
	CustomerID       string
	Analytics        string
	Locale           string
	WebSocket        string
}

// Register mounts console routes (HTML, JSON, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	renderPage := func(ctx router.Context, render func(page console.PageContext, buf *bytes.Buffer) error) error {
		viewer := viewerResolver(ctx)
		viewer.Tenant = ctx.Param("tenant")
		page, err := cfg.Controller.PageContextFor(ctx.Context(), viewer, viewer.Tenant, ctx.Header("Accept-Language"))
		if err != nil {
			return respondPageError(ctx, err)
		}
		page.Query = queryValues(ctx)
		page = themeOverride(page, ctx.Query("theme"))
		var buf bytes.Buffer
		if err := render(page, &buf); err != nil {
			return respondPageError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}

	group.Get(routes.Conversations, router.WrapHandler(func(ctx router.Context) error {
		return renderPage(ctx, func(page console.PageContext, buf *bytes.Buffer) error {
			selected, _ := strconv.ParseInt(ctx.Query("selected"), 10, 64)
			return cfg.Controller.RenderConversations(ctx.Context(), page, ctx.Query("channel"), selected, buf)
		})
	}))

	group.Get(routes.Orders, router.WrapHandler(func(ctx router.Context) error {
		return renderPage(ctx, func(page console.PageContext, buf *bytes.Buffer) error {
			values := queryValues(ctx)
			return cfg.Controller.RenderOrders(ctx.Context(), page, console.ParseOrderFilter(values), console.ParseOrderSort(values), buf)
		})
	}))

	group.Get(routes.OrderID, router.WrapHandler(func(ctx router.Context) error {
		return renderPage(ctx, func(page console.PageContext, buf *bytes.Buffer) error {
			return cfg.Controller.RenderOrderDetail(ctx.Context(), page, ctx.Param("id"), buf)
		})
	}))

	group.Get(routes.CustomerID, router.WrapHandler(func(ctx router.Context) error {
		return renderPage(ctx, func(page console.PageContext, buf *bytes.Buffer) error {
			id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
			if err != nil {
				return errors.New("gorouter: invalid customer id")
			}
			return cfg.Controller.RenderCustomer(ctx.Context(), page, id, buf)
		})
	}))

	group.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		return renderPage(ctx, func(page console.PageContext, buf *bytes.Buffer) error {
			return cfg.Controller.RenderAnalytics(ctx.Context(), page, buf)
		})
	}))

	group.Get(routes.ConversationData, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		viewer.Tenant = ctx.Param("tenant")
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("conversation id is required"))
		}
		detail, err := queries.NewConversationDetailQuery(cfg.Service).Query(ctx.Context(), queries.ConversationDetailInput{
			Viewer: viewer,
			Tenant: viewer.Tenant,
			ID:     id,
		})
		if err != nil {
			return respondPageError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, detail)
	}))

	group.Post(routes.Locale, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		viewer.Tenant = ctx.Param("tenant")
		var payload struct {
			Locale string `json:"locale"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			payload.Locale = ctx.Query("locale")
		}
		cmd := commands.NewSetLocaleCommand(cfg.Service, nil)
		if err := cmd.Execute(ctx.Context(), commands.SetLocaleInput{Viewer: viewer, Locale: payload.Locale}); err != nil {
			if errors.Is(err, console.ErrUnsupportedLocale) {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		setLocaleCookie(ctx, payload.Locale)
		return ctx.JSON(http.StatusOK, map[string]string{"locale": strings.ToLower(strings.TrimSpace(payload.Locale))})
	}))

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerWebSocket[T any](r router.Router[T], hook *console.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) console.ViewerContext {
	var viewer console.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	if locale, ok := console.ParseLocale(inferLocale(ctx)); ok {
		viewer.Locale = locale
	}
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if locale := cookieValue(ctx.Header("Cookie"), console.LocaleStorageKey); locale != "" {
		return locale
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		return string(console.DetectLocale(header))
	}
	return ""
}

// cookieValue extracts one cookie from a raw Cookie header. router.Context
// exposes headers but not parsed cookies.
func cookieValue(header, name string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, name+"="); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func setLocaleCookie(ctx router.Context, locale string) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	cookie := console.LocaleStorageKey + "=" + locale +
		"; Path=/; Max-Age=" + strconv.Itoa(int((365 * 24 * time.Hour).Seconds())) +
		"; SameSite=Lax"
	ctx.SetHeader("Set-Cookie", cookie)
}

// queryValues rebuilds the page-relevant query parameters as url.Values.
// router.Context exposes single-value lookups only.
func queryValues(ctx router.Context) url.Values {
	values := url.Values{}
	for _, key := range []string{
		"status", "dateRange", "priceMin", "priceMax", "customer",
		"sort", "dir", "channel", "selected", "locale", "theme",
	} {
		if v := ctx.Query(key); v != "" {
			values.Set(key, v)
		}
	}
	return values
}

// themeOverride applies an explicit ?theme= choice on top of the tenant
// default. Unrecognized values leave the default untouched.
func themeOverride(page console.PageContext, raw string) console.PageContext {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "light", "dark":
		page.Theme = console.SelectTheme(raw)
	}
	return page
}

func respondPageError(ctx router.Context, err error) error {
	if console.IsUnknownTenant(err) {
		return respondError(ctx, http.StatusNotFound, err)
	}
	return respondError(ctx, http.StatusInternalServerError, err)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Conversations == "" {
		routes.Conversations = "/:tenant/conversations"
	}
	if routes.ConversationData == "" {
		routes.ConversationData = "/:tenant/conversations/:id/data"
	}
	if routes.Orders == "" {
		routes.Orders = "/:tenant/orders"
	}
	if routes.OrderID == "" {
		routes.OrderID = "/:tenant/orders/:id"
	}
	if routes.CustomerID == "" {
		routes.CustomerID = "/:tenant/customers/:id"
	}
	if routes.Analytics == "" {
		routes.Analytics = "/:tenant/analytics"
	}
	if routes.Locale == "" {
		routes.Locale = "/:tenant/locale"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/:tenant/ws"
	}
	return routes
}
