package console

import (
	"sort"
	"strings"
)

// ChannelStyle is the derived style record for a messaging channel: bubble,
// header, selection, badge, and icon colors rendered as inline CSS
// variables. It is a pure function of the channel identifier and is never
// persisted.
type ChannelStyle struct {
	BubbleBg        string
	BubbleText      string
	BubbleTimestamp string
	HeaderBg        string
	HeaderBorder    string
	ActiveBg        string
	ActiveBorder    string
	BadgeBg         string
	BadgeText       string
	Icon            string
}

var channelStyles = map[string]ChannelStyle{
	ChannelTelegram: {
		BubbleBg:        "#0ea5e9",
		BubbleText:      "#ffffff",
		BubbleTimestamp: "#bae6fd",
		HeaderBg:        "rgba(240, 249, 255, 0.5)",
		HeaderBorder:    "#bae6fd",
		ActiveBg:        "rgba(240, 249, 255, 0.5)",
		ActiveBorder:    "#0ea5e9",
		BadgeBg:         "#e0f2fe",
		BadgeText:       "#0369a1",
		Icon:            "#0ea5e9",
	},
	ChannelWhatsApp: {
		BubbleBg:        "#10b981",
		BubbleText:      "#ffffff",
		BubbleTimestamp: "#a7f3d0",
		HeaderBg:        "rgba(236, 253, 245, 0.5)",
		HeaderBorder:    "#a7f3d0",
		ActiveBg:        "rgba(236, 253, 245, 0.5)",
		ActiveBorder:    "#10b981",
		BadgeBg:         "#d1fae5",
		BadgeText:       "#047857",
		Icon:            "#10b981",
	},
	"default": {
		BubbleBg:        "#4f46e5",
		BubbleText:      "#ffffff",
		BubbleTimestamp: "#c7d2fe",
		HeaderBg:        "rgba(248, 250, 252, 0.5)",
		HeaderBorder:    "#e2e8f0",
		ActiveBg:        "rgba(238, 242, 255, 0.5)",
		ActiveBorder:    "#6366f1",
		BadgeBg:         "#f1f5f9",
		BadgeText:       "#64748b",
		Icon:            "#6366f1",
	},
}

// StyleForChannel resolves the style record for a channel identifier. It is
// total over all string inputs: unknown or empty channels resolve to the
// default entry.
func StyleForChannel(channel string) ChannelStyle {
	if style, ok := channelStyles[strings.ToLower(strings.TrimSpace(channel))]; ok {
		return style
	}
	return channelStyles["default"]
}

// CSSVariables returns the style as a CSS variable map.
func (s ChannelStyle) CSSVariables() map[string]string {
	return map[string]string{
		"--channel-bubble-bg":        s.BubbleBg,
		"--channel-bubble-text":      s.BubbleText,
		"--channel-bubble-timestamp": s.BubbleTimestamp,
		"--channel-header-bg":        s.HeaderBg,
		"--channel-header-border":    s.HeaderBorder,
		"--channel-active-bg":        s.ActiveBg,
		"--channel-active-border":    s.ActiveBorder,
		"--channel-badge-bg":         s.BadgeBg,
		"--channel-badge-text":       s.BadgeText,
		"--channel-icon":             s.Icon,
	}
}

// InlineStyle renders the CSS variables as a deterministic style attribute
// value, keys sorted so rendered markup is stable across requests.
func (s ChannelStyle) InlineStyle() string {
	vars := s.CSSVariables()
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		if vars[key] == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}
