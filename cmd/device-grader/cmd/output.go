package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/device-grader/internal/api/client"
	domain "github.com/donaldgifford/device-grader/pkg/types"
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

func printGradeResult(w io.Writer, r *domain.GradeResult) error {
	tw := newTabWriter(w)
	tw.writef("Grade:\t%s\n", orDash(string(r.Grade)))
	tw.writef("Legacy Grade:\t%s\n", orDash(string(r.LegacyGrade)))
	tw.writef("Source:\t%s\n", r.Source)
	if r.Reason != "" {
		tw.writef("Reason:\t%s\n", r.Reason)
	}
	if r.PriceTier != "" {
		tw.writef("Price Tier:\t%s\n", r.PriceTier)
	}
	tw.writef("Base Price:\t%s\n", money(r.BasePrice))
	tw.writef("Deductions:\tbattery %.2f, screen %.2f, chassis %.2f\n",
		r.Deductions.Battery, r.Deductions.Screen, r.Deductions.Chassis)
	if r.RepairCost > 0 {
		tw.writef("Repair Cost:\t%.2f\n", r.RepairCost)
	}
	tw.writef("Floor Price:\t%.2f\n", r.FloorPrice)
	tw.writef("Final Price:\t%s\n", money(r.FinalPrice))
	if r.InsufficientData {
		tw.writef("Insufficient Data:\ttrue\n")
	}
	if r.NeedsReview {
		tw.writef("Needs Review:\ttrue\n")
	}
	return tw.finish()
}

func printPriceTable(w io.Writer, pt *apiclient.PriceTable) error {
	tw := newTabWriter(w)
	tw.writef("Model:\t%d\n", pt.ModelID)
	tw.writef("Capacity:\t%d\n", pt.CapacityID)
	tw.writef("Channel:\t%s\n", pt.Channel)
	tw.writef("Scheme:\t%s\n", pt.Scheme)
	tw.writef("Floor:\t%.2f\n", pt.Floor)
	tw.writef("\nTIER\tPRICE\n")

	tiers := make([]string, 0, len(pt.Prices))
	for k := range pt.Prices {
		tiers = append(tiers, k)
	}
	sort.Strings(tiers)
	for _, k := range tiers {
		tw.writef("%s\t%.2f\n", k, pt.Prices[k])
	}
	return tw.finish()
}

func printAuditRecordsTable(w io.Writer, list *apiclient.AuditRecordList) error {
	tw := newTabWriter(w)
	tw.writef("DEVICE\tGRADE\tESTADO\tPRICE\tEDITED\tUPDATED\n")
	for i := range list.Records {
		r := &list.Records[i]
		tw.writef("%d\t%s\t%s\t%s\t%v\t%s\n",
			r.DeviceID,
			orDash(string(r.Grade)),
			orDash(string(r.EstadoValoracion)),
			money(r.PrecioFinal),
			r.EditadoPorUsuario,
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	tw.writef("\n%d of %d records\n", len(list.Records), list.Total)
	return tw.finish()
}

func printAuditRecordDetail(w io.Writer, r *domain.AuditRecord) error {
	tw := newTabWriter(w)
	tw.writef("Device:\t%d\n", r.DeviceID)
	tw.writef("Grade:\t%s\n", orDash(string(r.Grade)))
	tw.writef("Estado:\t%s\n", orDash(string(r.EstadoValoracion)))
	tw.writef("Final Price:\t%s\n", money(r.PrecioFinal))
	tw.writef("Edited By User:\t%v\n", r.EditadoPorUsuario)
	if r.Observaciones != "" {
		tw.writef("Observations:\t%s\n", truncate(r.Observaciones, 60))
	}
	tw.writef("Updated:\t%s\n", r.UpdatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
