package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FeedFetchLatency returns a timeseries panel showing feed fetch latency.
func FeedFetchLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Feed Fetch Latency").
		Description("p50 and p95 duration of Server Bourse feed downloads").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(`+jobSelector("sbwatch_feed_fetch_duration_seconds_bucket")+`[5m])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(`sbwatch:feed_fetch_duration:p95_5m`, "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FeedErrors returns a stat panel showing failed feed fetches in the past
// hour.
func FeedErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Feed Errors (1h)").
		Description("Failed feed fetches in the last hour; each one skips a tick").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(`+jobSelector("sbwatch_feed_errors_total")+`[1h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
