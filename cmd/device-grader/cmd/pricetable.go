package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func priceTableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "price-table",
		Aliases: []string{"pt"},
		Short:   "Inspect and store price tables on the API server",
	}

	var channel string
	cmd.PersistentFlags().StringVar(&channel, "channel", "B2C", "sales channel (B2B, B2C)")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <model-id> <capacity-id>",
		Short: "Show the normalized price table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, capacityID, err := parseTableKey(args)
			if err != nil {
				return err
			}
			pt, err := newClient().GetPriceTable(cmd.Context(), modelID, capacityID, domain.Channel(channel))
			if err != nil {
				return fmt.Errorf("getting price table: %w", err)
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), pt)
			}
			return printPriceTable(cmd.OutOrStdout(), pt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "put <model-id> <capacity-id> <file>",
		Short: "Store a raw price table JSON document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, capacityID, err := parseTableKey(args)
			if err != nil {
				return err
			}
			raw, err := readJSONObject(args[2])
			if err != nil {
				return fmt.Errorf("reading price table: %w", err)
			}
			pt, err := newClient().PutPriceTable(cmd.Context(), modelID, capacityID, domain.Channel(channel), raw)
			if err != nil {
				return fmt.Errorf("storing price table: %w", err)
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), pt)
			}
			return printPriceTable(cmd.OutOrStdout(), pt)
		},
	})

	return cmd
}

func parseTableKey(args []string) (modelID, capacityID int, err error) {
	if modelID, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid model id %q", args[0])
	}
	if capacityID, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid capacity id %q", args[1])
	}
	return modelID, capacityID, nil
}
