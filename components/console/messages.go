package console

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// DayGroup is a run of messages sharing a calendar day, ready for rendering
// under a single day separator.
type DayGroup struct {
	Label    string
	Day      time.Time
	Messages []Message
}

// GroupMessagesByDay splits a chronologically ordered message slice into
// per-day groups. Ordering within and across groups is preserved exactly as
// received. Day boundaries are calendar days in now's location; the current
// and previous day get localized "Today"/"Yesterday" labels, older days a
// formatted date.
func GroupMessagesByDay(ctx context.Context, messages []Message, now time.Time, locale Locale, svc TranslationService) []DayGroup {
	if len(messages) == 0 {
		return nil
	}
	loc := now.Location()
	var groups []DayGroup
	for _, msg := range messages {
		day := truncateToDay(msg.CreatedAt.In(loc))
		if len(groups) > 0 && groups[len(groups)-1].Day.Equal(day) {
			last := len(groups) - 1
			groups[last].Messages = append(groups[last].Messages, msg)
			continue
		}
		groups = append(groups, DayGroup{
			Label:    dayLabel(ctx, day, now, locale, svc),
			Day:      day,
			Messages: []Message{msg},
		})
	}
	return groups
}

func dayLabel(ctx context.Context, day, now time.Time, locale Locale, svc TranslationService) string {
	today := truncateToDay(now)
	switch {
	case day.Equal(today):
		return translateOrFallback(ctx, svc, "common.today", string(locale), "Today", nil)
	case day.Equal(today.AddDate(0, 0, -1)):
		return translateOrFallback(ctx, svc, "common.yesterday", string(locale), "Yesterday", nil)
	default:
		return FormatDate(day, locale)
	}
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// FormatTime renders a message timestamp as 24-hour clock time.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDate renders a calendar date for day separators and table cells.
// Hebrew uses the day-first numeric form common in Israeli interfaces.
func FormatDate(t time.Time, locale Locale) string {
	if locale == LocaleHebrew {
		return t.Format("02.01.2006")
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders a full timestamp for order detail views.
func FormatDateTime(t time.Time, locale Locale) string {
	return FormatDate(t, locale) + " " + FormatTime(t)
}

// FormatCurrency renders an amount in shekels. Whole amounts drop the
// fraction; everything else keeps two digits.
func FormatCurrency(amount float64) string {
	if amount == math.Trunc(amount) {
		return fmt.Sprintf("₪%.0f", amount)
	}
	return fmt.Sprintf("₪%.2f", amount)
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(n int) string {
	raw := fmt.Sprintf("%d", n)
	start := 0
	if n < 0 {
		start = 1
	}
	digits := len(raw) - start
	if digits <= 3 {
		return raw
	}
	var builder strings.Builder
	builder.WriteString(raw[:start])
	for i := start; i < len(raw); i++ {
		if i > start && (len(raw)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteByte(raw[i])
	}
	return builder.String()
}

// ItemsSummary condenses order line items into a short cell value like
// "2 Milk, 1 Bread +1 more". At most max items are named.
func ItemsSummary(items []OrderItem, max int) string {
	if len(items) == 0 {
		return ""
	}
	if max <= 0 {
		max = 2
	}
	shown := items
	if len(shown) > max {
		shown = shown[:max]
	}
	parts := make([]string, 0, len(shown))
	for _, item := range shown {
		parts = append(parts, strings.TrimSpace(item.Quantity+" "+item.ProductName))
	}
	summary := strings.Join(parts, ", ")
	if rest := len(items) - len(shown); rest > 0 {
		summary += fmt.Sprintf(" +%d more", rest)
	}
	return summary
}
