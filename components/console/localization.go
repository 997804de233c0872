package console

import (
	"context"
	"strings"
)

// TranslationService exposes locale-aware translation helpers. The catalog
// implementation below covers the console's own keys; hosts can plug in a
// richer engine as long as it satisfies this interface.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// Catalog is a map-backed TranslationService. Lookups fall back from the
// requested locale to English, then to the key itself. Args interpolate
// into "{name}" placeholders.
type Catalog struct {
	messages map[Locale]map[string]string
}

// NewCatalog builds a translation catalog from per-locale message maps.
func NewCatalog(messages map[Locale]map[string]string) *Catalog {
	return &Catalog{messages: messages}
}

// Translate implements TranslationService.
func (c *Catalog) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	value := c.lookup(key, locale)
	if value == "" {
		return "", nil
	}
	return interpolate(value, args), nil
}

func (c *Catalog) lookup(key, locale string) string {
	if parsed, ok := ParseLocale(locale); ok {
		if value := c.messages[parsed][key]; value != "" {
			return value
		}
	}
	return c.messages[DefaultLocale][key]
}

func interpolate(value string, args map[string]any) string {
	if len(args) == 0 {
		return value
	}
	pairs := make([]string, 0, len(args)*2)
	for key, arg := range args {
		pairs = append(pairs, "{"+key+"}", toString(arg))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if s, ok := value.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// DefaultCatalog returns the built-in English/Hebrew messages used by the
// console pages.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[Locale]map[string]string{
		LocaleEnglish: {
			"nav.conversations":              "Conversations",
			"nav.orders":                     "Orders",
			"nav.analytics":                  "Analytics",
			"conversations.title":            "Conversations",
			"conversations.empty":            "No conversations yet",
			"conversations.noMessages":       "No messages",
			"conversations.selectPrompt":     "Select a conversation to view messages",
			"conversations.loading":          "Loading conversation…",
			"filters.allChannels":            "All Channels",
			"filters.allStatuses":            "All Statuses",
			"orders.title":                   "Orders",
			"orders.empty":                   "No orders found",
			"orders.delivery":                "Delivery notes",
			"customer.title":                 "Customer",
			"customer.orders":                "Orders",
			"status.pending":                 "Pending",
			"status.confirmed":               "Confirmed",
			"status.completed":               "Completed",
			"status.cancelled":               "Cancelled",
			"analytics.title":                "Analytics",
			"analytics.description":          "Sales and conversation trends for this tenant",
			"analytics.revenue.total":        "Total Revenue",
			"analytics.revenue.thisMonth":    "Revenue This Month",
			"analytics.revenue.thisWeek":     "Revenue This Week",
			"analytics.revenue.avgOrder":     "Avg. Order Value",
			"analytics.orders.byStatus":      "Orders by Status",
			"analytics.orders.total":         "Total Orders",
			"analytics.channels.title":       "Conversations by Channel",
			"analytics.products.title":       "Top Products",
			"analytics.customers.title":      "Top Customers",
			"analytics.customers.total":      "customers",
			"analytics.customers.new":        "New This Month",
			"analytics.conversations.total":  "Total Conversations",
			"common.today":                   "Today",
			"common.yesterday":               "Yesterday",
			"common.retry":                   "Retry",
			"error.generic":                  "Something went wrong",
			"error.loadFailed":               "Failed to load data",
		},
		LocaleHebrew: {
			"nav.conversations":              "שיחות",
			"nav.orders":                     "הזמנות",
			"nav.analytics":                  "אנליטיקה",
			"conversations.title":            "שיחות",
			"conversations.empty":            "אין שיחות עדיין",
			"conversations.noMessages":       "אין הודעות",
			"conversations.selectPrompt":     "בחרו שיחה כדי לצפות בהודעות",
			"conversations.loading":          "טוען שיחה…",
			"filters.allChannels":            "כל הערוצים",
			"filters.allStatuses":            "כל הסטטוסים",
			"orders.title":                   "הזמנות",
			"orders.empty":                   "לא נמצאו הזמנות",
			"orders.delivery":                "הערות משלוח",
			"customer.title":                 "לקוח",
			"customer.orders":                "הזמנות",
			"status.pending":                 "ממתין",
			"status.confirmed":               "מאושר",
			"status.completed":               "הושלם",
			"status.cancelled":               "בוטל",
			"analytics.title":                "אנליטיקה",
			"analytics.description":          "מגמות מכירות ושיחות עבור הדייר",
			"analytics.revenue.total":        "סך הכנסות",
			"analytics.revenue.thisMonth":    "הכנסות החודש",
			"analytics.revenue.thisWeek":     "הכנסות השבוע",
			"analytics.revenue.avgOrder":     "ערך הזמנה ממוצע",
			"analytics.orders.byStatus":      "הזמנות לפי סטטוס",
			"analytics.orders.total":         "סך הזמנות",
			"analytics.channels.title":       "שיחות לפי ערוץ",
			"analytics.products.title":       "מוצרים מובילים",
			"analytics.customers.title":      "לקוחות מובילים",
			"analytics.customers.total":      "לקוחות",
			"analytics.customers.new":        "חדשים החודש",
			"analytics.conversations.total":  "סך שיחות",
			"common.today":                   "היום",
			"common.yesterday":               "אתמול",
			"common.retry":                   "נסו שוב",
			"error.generic":                  "משהו השתבש",
			"error.loadFailed":               "טעינת הנתונים נכשלה",
		},
	})
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// StatusLabel translates an order status for display, falling back to the
// raw value for statuses outside the known set.
func StatusLabel(ctx context.Context, svc TranslationService, status string, locale Locale) string {
	return translateOrFallback(ctx, svc, "status."+strings.ToLower(status), string(locale), status, nil)
}
