package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ReconcileDuration returns a timeseries panel showing p95 reconcile time.
func ReconcileDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Reconcile Duration (p95)").
		Description("95th percentile duration of a reconcile run").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sbwatch:reconcile_duration:p95_5m`, "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PriceEvents returns a timeseries panel plotting price increases and
// removals per hour.
func PriceEvents() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Price Events").
		Description("Watched servers whose price rose or that left the auction").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(`+jobSelector("sbwatch_price_increases_total")+`[1h])`, "increases/h", "A")).
		WithTarget(PromQuery(`increase(`+jobSelector("sbwatch_servers_removed_total")+`[1h])`, "removals/h", "B")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// SkippedRuns returns a stat panel counting runs skipped on an empty watch
// list.
func SkippedRuns() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Skipped Runs (1h)").
		Description("Reconcile runs skipped because nothing was being watched").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(`+jobSelector("sbwatch_reconcile_skipped_total")+`[1h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
