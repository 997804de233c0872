package console

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateRange names a preset window for the orders date filter.
type DateRange string

const (
	RangeAll        DateRange = ""
	RangeToday      DateRange = "today"
	RangeLast7Days  DateRange = "last7Days"
	RangeLast30Days DateRange = "last30Days"
	RangeThisMonth  DateRange = "thisMonth"
)

// ParseDateRange validates a raw range value. Unknown values resolve to
// RangeAll so a stale query string never breaks the page.
func ParseDateRange(raw string) DateRange {
	switch DateRange(raw) {
	case RangeToday, RangeLast7Days, RangeLast30Days, RangeThisMonth:
		return DateRange(raw)
	}
	return RangeAll
}

// Threshold returns the inclusive lower bound for the range relative to
// now: orders created at or after the threshold pass the filter. Day-based
// ranges snap to midnight in now's location.
func (r DateRange) Threshold(now time.Time) (time.Time, bool) {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return midnight, true
	case RangeLast7Days:
		return midnight.AddDate(0, 0, -7), true
	case RangeLast30Days:
		return midnight.AddDate(0, 0, -30), true
	case RangeThisMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

// OrderFilter narrows the orders table. Criteria compose with AND; nil
// price bounds mean unbounded.
type OrderFilter struct {
	Status   string
	Range    DateRange
	PriceMin *float64
	PriceMax *float64
	Customer string
}

// ParseOrderFilter reads filter criteria from a query string. Malformed
// numbers are ignored rather than rejected.
func ParseOrderFilter(values url.Values) OrderFilter {
	filter := OrderFilter{
		Status:   strings.TrimSpace(values.Get("status")),
		Range:    ParseDateRange(values.Get("dateRange")),
		Customer: strings.TrimSpace(values.Get("customer")),
	}
	if raw := values.Get("priceMin"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.PriceMin = &v
		}
	}
	if raw := values.Get("priceMax"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.PriceMax = &v
		}
	}
	return filter
}

// QueryValues encodes the filter back into the parameters ParseOrderFilter
// reads, so page links can carry the active criteria along.
func (f OrderFilter) QueryValues() url.Values {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.Range != RangeAll {
		values.Set("dateRange", string(f.Range))
	}
	if f.PriceMin != nil {
		values.Set("priceMin", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		values.Set("priceMax", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	if f.Customer != "" {
		values.Set("customer", f.Customer)
	}
	return values
}

// IsZero reports whether the filter passes everything.
func (f OrderFilter) IsZero() bool {
	return f.Status == "" && f.Range == RangeAll && f.PriceMin == nil && f.PriceMax == nil && f.Customer == ""
}

// Apply returns the orders that satisfy every criterion, preserving input
// order. The input slice is never mutated.
func (f OrderFilter) Apply(orders []OrderListItem, now time.Time) []OrderListItem {
	if f.IsZero() {
		return orders
	}
	threshold, bounded := f.Range.Threshold(now)
	needle := strings.ToLower(f.Customer)
	filtered := make([]OrderListItem, 0, len(orders))
	for _, order := range orders {
		if f.Status != "" && order.Status != f.Status {
			continue
		}
		if bounded && order.CreatedAt.Before(threshold) {
			continue
		}
		if f.PriceMin != nil && order.Total < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && order.Total > *f.PriceMax {
			continue
		}
		if needle != "" {
			// A missing customer name never matches a customer search.
			if order.CustomerName == "" || !strings.Contains(strings.ToLower(order.CustomerName), needle) {
				continue
			}
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// SortField names an orders-table column.
type SortField string

const (
	SortByID       SortField = "id"
	SortByCustomer SortField = "customer"
	SortByStatus   SortField = "status"
	SortByTotal    SortField = "total"
	SortByCreated  SortField = "created"
)

// DefaultOrderSort is the initial table ordering: newest orders first.
func DefaultOrderSort() OrderSort {
	return OrderSort{Field: SortByCreated, Descending: true}
}

// ParseSortField validates a raw field name.
func ParseSortField(raw string) (SortField, bool) {
	switch SortField(raw) {
	case SortByID, SortByCustomer, SortByStatus, SortByTotal, SortByCreated:
		return SortField(raw), true
	}
	return "", false
}

// OrderSort is the single active sort: one field, one direction.
type OrderSort struct {
	Field      SortField
	Descending bool
}

// ParseOrderSort reads the sort from a query string, falling back to the
// default when absent or invalid.
func ParseOrderSort(values url.Values) OrderSort {
	field, ok := ParseSortField(values.Get("sort"))
	if !ok {
		return DefaultOrderSort()
	}
	return OrderSort{Field: field, Descending: values.Get("dir") == "desc"}
}

// Toggle returns the sort after a header click: the same field flips
// direction, a different field starts ascending.
func (s OrderSort) Toggle(field SortField) OrderSort {
	if s.Field == field {
		return OrderSort{Field: field, Descending: !s.Descending}
	}
	return OrderSort{Field: field}
}

// Apply sorts a copy of the orders. The sort is stable: rows comparing
// equal keep their filtered relative order.
func (s OrderSort) Apply(orders []OrderListItem) []OrderListItem {
	sorted := make([]OrderListItem, len(orders))
	copy(sorted, orders)
	less := s.lessFunc(sorted)
	if less == nil {
		return sorted
	}
	sort.SliceStable(sorted, less)
	return sorted
}

func (s OrderSort) lessFunc(orders []OrderListItem) func(i, j int) bool {
	var asc func(i, j int) bool
	switch s.Field {
	case SortByID:
		asc = func(i, j int) bool { return orders[i].ID < orders[j].ID }
	case SortByCustomer:
		asc = func(i, j int) bool {
			return strings.ToLower(orders[i].CustomerName) < strings.ToLower(orders[j].CustomerName)
		}
	case SortByStatus:
		asc = func(i, j int) bool { return orders[i].Status < orders[j].Status }
	case SortByTotal:
		asc = func(i, j int) bool { return orders[i].Total < orders[j].Total }
	case SortByCreated:
		asc = func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) }
	default:
		return nil
	}
	if s.Descending {
		return func(i, j int) bool { return asc(j, i) }
	}
	return asc
}

// FilterConversationsByChannel narrows a conversation list to one channel.
// The match is case-insensitive; a blank channel passes everything.
func FilterConversationsByChannel(items []ConversationListItem, channel string) []ConversationListItem {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return items
	}
	filtered := make([]ConversationListItem, 0, len(items))
	for _, item := range items {
		if strings.ToLower(item.Channel) == channel {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
