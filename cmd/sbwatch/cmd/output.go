package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/sb-price-watch/internal/api/client"
	"github.com/donaldgifford/sb-price-watch/pkg/pricing"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printWatchTable(w io.Writer, watches []domain.WatchEntry) error {
	tw := newTabWriter(w)
	tw.writef("ID\tLAST PRICE\tDATACENTER\tADDED\n")
	for i := range watches {
		e := &watches[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			e.ID,
			pricing.Format(e.Meta.PreviousPrice),
			orDash(e.Meta.Datacenter),
			e.AddedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printWatchDetail(w io.Writer, e *domain.WatchEntry) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", e.ID)
	tw.writef("Last Price:\t%s\n", pricing.Format(e.Meta.PreviousPrice))
	tw.writef("Datacenter:\t%s\n", orDash(e.Meta.Datacenter))
	tw.writef("Added:\t%s\n", e.AddedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printReconcileResult(w io.Writer, r *apiclient.ReconcileResult) error {
	if r.Skipped {
		_, err := fmt.Fprintln(w, "Watch list is empty, nothing to reconcile.")
		return err
	}
	tw := newTabWriter(w)
	tw.writef("Feed Servers:\t%d\n", r.ServerCount)
	tw.writef("Checked:\t%d\n", r.Checked)
	tw.writef("Increased:\t%d\n", r.Increased)
	tw.writef("Removed:\t%d\n", r.Removed)
	return tw.finish()
}

func printServerDetail(w io.Writer, rec *domain.ServerRecord, price float64) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%d\n", rec.ID)
	tw.writef("CPU:\t%s\n", orDash(rec.CPU))
	tw.writef("RAM:\t%d GB\n", rec.RAMSize)
	tw.writef("Disks:\t%d x, %d GB total\n", rec.HDDCount, rec.HDDSize)
	tw.writef("Datacenter:\t%s\n", orDash(rec.Datacenter))
	tw.writef("Base Price:\t%s\n", pricing.Format(rec.Price))
	tw.writef("IP Price:\t%s\n", pricing.Format(rec.IPPrice.Monthly))
	tw.writef("Gross Price:\t%s\n", pricing.Format(price))
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
