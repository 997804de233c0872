package console

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// ThemeVariant names a UI theme.
type ThemeVariant string

const (
	ThemeLight ThemeVariant = "light"
	ThemeDark  ThemeVariant = "dark"
)

// ThemeSelection carries the resolved theme: design tokens plus the chart
// theme the analytics renderer should use. The chart theme is derived from
// the variant, never chosen independently.
type ThemeSelection struct {
	Variant    ThemeVariant
	Tokens     map[string]string
	ChartTheme string
}

var lightTokens = map[string]string{
	"bg-primary":     "#f8fafc",
	"bg-secondary":   "#ffffff",
	"bg-tertiary":    "#f1f5f9",
	"border-primary": "#e2e8f0",
	"text-primary":   "#0f172a",
	"text-muted":     "#64748b",
	"error-text":     "#dc2626",
}

var darkTokens = map[string]string{
	"bg-primary":     "#0f172a",
	"bg-secondary":   "#1e293b",
	"bg-tertiary":    "#334155",
	"border-primary": "#334155",
	"text-primary":   "#f1f5f9",
	"text-muted":     "#94a3b8",
	"error-text":     "#f87171",
}

// SelectTheme resolves a variant name to a full selection. Unknown values
// fall back to the light theme.
func SelectTheme(variant string) ThemeSelection {
	switch ThemeVariant(strings.ToLower(strings.TrimSpace(variant))) {
	case ThemeDark:
		return ThemeSelection{Variant: ThemeDark, Tokens: cloneTokens(darkTokens), ChartTheme: types.ThemeChalk}
	default:
		return ThemeSelection{Variant: ThemeLight, Tokens: cloneTokens(lightTokens), ChartTheme: types.ThemeWesteros}
	}
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme ThemeSelection) CSSVariables() map[string]string {
	if len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the token map as a style string with stable
// ordering.
func (theme ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
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

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func cloneTokens(tokens map[string]string) map[string]string {
	cloned := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cloned[key] = value
	}
	return cloned
}
