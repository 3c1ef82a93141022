// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and every metric it selects must be known.
package validate

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/sb-price-watch/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are reported.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Expr parses expr and checks the metric names it selects against known.
func (r *Result) Expr(where, expr string, known map[string]bool) {
	if expr == "" {
		r.Warnings = append(r.Warnings, where+": empty expression")
		return
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: parsing %q: %v", where, expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[vs.Name] && !known[trimHistogramSuffix(vs.Name)] {
			r.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

func trimHistogramSuffix(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// Dashboard validates every Prometheus target in the dashboard, including
// panels nested in rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	check := func(p *dashboard.Panel) {
		title := ""
		if p.Title != nil {
			title = *p.Title
		}
		if len(p.Targets) == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("panel %q has no targets", title))
		}
		for _, t := range p.Targets {
			switch q := t.(type) {
			case *prometheus.Dataquery:
				r.Expr(fmt.Sprintf("panel %q", title), q.Expr, known)
			case prometheus.Dataquery:
				r.Expr(fmt.Sprintf("panel %q", title), q.Expr, known)
			default:
				r.errorf("panel %q: target is not a Prometheus query", title)
			}
		}
	}

	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			check(p.Panel)
		case p.RowPanel != nil:
			for i := range p.RowPanel.Panels {
				check(&p.RowPanel.Panels[i])
			}
		}
	}
	return r
}

// Rules validates every rule expression in cr. Recording rule names are
// added to known so that later rules may reference earlier ones.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if (rule.Record == "") == (rule.Alert == "") {
				r.errorf("group %s: rule %q must set exactly one of record or alert", g.Name, name)
			}
			r.Expr(fmt.Sprintf("rule %s", name), rule.Expr, known)
		}
	}
	return r
}
