package console

import (
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
)

func TestSelectThemeVariants(t *testing.T) {
	dark := SelectTheme("dark")
	if dark.Variant != ThemeDark || dark.ChartTheme != types.ThemeChalk {
		t.Fatalf("unexpected dark selection: %+v", dark)
	}
	light := SelectTheme("light")
	if light.Variant != ThemeLight || light.ChartTheme != types.ThemeWesteros {
		t.Fatalf("unexpected light selection: %+v", light)
	}
	if unknown := SelectTheme("solarized"); unknown.Variant != ThemeLight {
		t.Fatalf("expected unknown variant to fall back to light, got %+v", unknown)
	}
}

func TestThemeCSSVariablesInline(t *testing.T) {
	inline := SelectTheme("dark").CSSVariablesInline()
	if !strings.Contains(inline, "--bg-primary: #0f172a;") {
		t.Fatalf("expected dark background token in %q", inline)
	}
	if SelectTheme("dark").CSSVariablesInline() != inline {
		t.Fatalf("expected deterministic output")
	}
}
