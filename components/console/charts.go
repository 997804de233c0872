package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// ChartRenderer renders the analytics page's server-side charts.
type ChartRenderer struct {
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
	translator    TranslationService
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per viewer.
func WithChartThemeResolver(resolver ThemeResolver) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// WithChartTranslator localizes chart titles and status labels.
func WithChartTranslator(svc TranslationService) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.translator = svc
	}
}

// NewChartRenderer builds a renderer with the shared cache and default
// theme.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// OrderStatusChart renders the orders-by-status pie.
func (r *ChartRenderer) OrderStatusChart(ctx context.Context, viewer ViewerContext, data AnalyticsData) (string, error) {
	title := translateOrFallback(ctx, r.translator, "analytics.orders.byStatus", string(viewer.Locale), "Orders by Status", nil)
	points := make([]opts.PieData, 0, len(data.Orders.ByStatus))
	for _, status := range sortedKeys(data.Orders.ByStatus) {
		points = append(points, opts.PieData{
			Name:  StatusLabel(ctx, r.translator, status, viewer.Locale),
			Value: data.Orders.ByStatus[status],
		})
	}
	return r.cached("orders_by_status", viewer, data, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions(title, viewer)...)
		pie.AddSeries(title, points)
		return renderChart(pie)
	})
}

// ChannelChart renders the conversations-by-channel pie, each slice colored
// with its channel's icon color.
func (r *ChartRenderer) ChannelChart(ctx context.Context, viewer ViewerContext, data AnalyticsData) (string, error) {
	title := translateOrFallback(ctx, r.translator, "analytics.channels.title", string(viewer.Locale), "Conversations by Channel", nil)
	points := make([]opts.PieData, 0, len(data.Conversations.ByChannel))
	for _, channel := range sortedKeys(data.Conversations.ByChannel) {
		points = append(points, opts.PieData{
			Name:  channel,
			Value: data.Conversations.ByChannel[channel],
			ItemStyle: &opts.ItemStyle{
				Color: StyleForChannel(channel).Icon,
			},
		})
	}
	return r.cached("conversations_by_channel", viewer, data, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions(title, viewer)...)
		pie.AddSeries(title, points)
		return renderChart(pie)
	})
}

// TopProductsChart renders the best-seller bar chart, revenue per product.
func (r *ChartRenderer) TopProductsChart(ctx context.Context, viewer ViewerContext, data AnalyticsData) (string, error) {
	title := translateOrFallback(ctx, r.translator, "analytics.products.title", string(viewer.Locale), "Top Products", nil)
	labels := make([]string, 0, len(data.TopProducts))
	points := make([]opts.BarData, 0, len(data.TopProducts))
	for _, product := range data.TopProducts {
		labels = append(labels, product.Name)
		points = append(points, opts.BarData{Name: product.Name, Value: product.Revenue})
	}
	return r.cached("top_products", viewer, data, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(title, viewer)...)
		bar.SetXAxis(labels)
		bar.AddSeries(title, points)
		return renderChart(bar)
	})
}

func (r *ChartRenderer) cached(name string, viewer ViewerContext, data AnalyticsData, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s:%s:%s", viewer.Tenant, name, viewer.Locale, r.resolveTheme(viewer), analyticsHash(data))
	return r.cache.GetOrRender(key, render)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(title string, viewer ViewerContext) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.resolveTheme(viewer),
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (r *ChartRenderer) resolveTheme(viewer ViewerContext) string {
	if r.themeResolver != nil {
		if theme := r.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if r.theme != "" {
		return r.theme
	}
	return types.ThemeWesteros
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
