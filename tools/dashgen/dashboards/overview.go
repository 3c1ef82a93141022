// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/sb-price-watch/tools/dashgen/panels"
)

// UID is the stable dashboard identifier.
const UID = "sbwatch-overview"

// BuildOverview constructs the sbwatch overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("sbwatch Overview").
		Uid(UID).
		Tags([]string{"sbwatch", "sb-price-watch"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.WatchedServersStat()).
		WithPanel(panels.FeedServersStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Feed").
		WithPanel(panels.FeedFetchLatency()).
		WithPanel(panels.FeedErrors()))

	b.WithRow(dashboard.NewRowBuilder("Reconcile").
		WithPanel(panels.ReconcileDuration()).
		WithPanel(panels.PriceEvents()).
		WithPanel(panels.SkippedRuns()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.NotificationsRate()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	b.WithRow(dashboard.NewRowBuilder("API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
