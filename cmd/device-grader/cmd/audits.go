package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/device-grader/internal/api/client"
)

func auditsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audits",
		Short: "Query submitted audit records on the API server",
	}

	var f apiclient.AuditRecordFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit records",
		Example: `  device-grader audits list --grade A+ --limit 20
  device-grader audits list --edited --order-by precio_final`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := newClient().ListAuditRecords(cmd.Context(), &f)
			if err != nil {
				return fmt.Errorf("listing audit records: %w", err)
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), records)
			}
			return printAuditRecordsTable(cmd.OutOrStdout(), records)
		},
	}
	list.Flags().StringVar(&f.Grade, "grade", "", "filter by grade")
	list.Flags().StringVar(&f.Estado, "estado", "", "filter by legacy grade")
	list.Flags().BoolVar(&f.Edited, "edited", false, "only records edited by a user")
	list.Flags().Float64Var(&f.MinPrice, "min-price", 0, "minimum final price")
	list.Flags().IntVar(&f.Limit, "limit", 50, "maximum number of records")
	list.Flags().IntVar(&f.Offset, "offset", 0, "records to skip")
	list.Flags().StringVar(&f.OrderBy, "order-by", "", "sort field (updated_at, precio_final, device_id)")

	get := &cobra.Command{
		Use:   "get <device-id>",
		Short: "Show the audit record for one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid device id %q", args[0])
			}
			rec, err := newClient().GetAuditRecord(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("getting audit record: %w", err)
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), rec)
			}
			return printAuditRecordDetail(cmd.OutOrStdout(), rec)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
