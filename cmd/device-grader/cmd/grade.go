package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/device-grader/internal/api/client"
	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/pkg/grading"
	"github.com/donaldgifford/device-grader/pkg/normalize"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

var errNoInspection = errors.New("input must contain selections or inspection")

// gradeInput is the document read by the grade command.
type gradeInput struct {
	Identity   domain.DeviceIdentity       `json:"identity"`
	Channel    domain.Channel              `json:"channel,omitempty"`
	Selections json.RawMessage             `json:"selections,omitempty"`
	Inspection *domain.CanonicalInspection `json:"inspection,omitempty"`
	Override   *domain.DeductionOverride   `json:"override,omitempty"`
	PriceTable map[string]any              `json:"price_table,omitempty"`
}

func gradeCommand() *cobra.Command {
	var (
		file       string
		priceTable string
		channel    string
		tableFile  string
	)

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade and price one inspection",
		Long: "Reads an inspection document (wizard selections or a canonical\n" +
			"inspection, with the device identity) and prints its grade and price.\n" +
			"With --server the evaluation runs on the API server; otherwise it runs\n" +
			"locally and needs an inline or --price-table price table.",
		Example: `  device-grader grade --file audit.json --price-table prices.json
  device-grader grade --file - --server http://localhost:8080 --output json < audit.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readGradeInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if priceTable != "" {
				raw, err := readJSONObject(priceTable)
				if err != nil {
					return fmt.Errorf("reading price table: %w", err)
				}
				in.PriceTable = raw
			}
			if channel != "" {
				in.Channel = domain.Channel(channel)
			}

			var res *domain.GradeResult
			if serverURL() != "" {
				res, err = gradeRemote(cmd, in)
			} else {
				res, err = gradeLocal(cmd, in, tableFile)
			}
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printGradeResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "inspection document, - for stdin")
	cmd.Flags().StringVar(&priceTable, "price-table", "", "raw price table JSON file")
	cmd.Flags().StringVar(&channel, "channel", "", "sales channel (B2B, B2C)")
	cmd.Flags().StringVar(&tableFile, "grade-table", "", "cosmetic grade table YAML (local only)")

	return cmd
}

func readGradeInput(stdin io.Reader, path string) (*gradeInput, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("opening inspection: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in gradeInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding inspection: %w", err)
	}
	if len(in.Selections) == 0 && in.Inspection == nil {
		return nil, errNoInspection
	}
	return &in, nil
}

func readJSONObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func gradeLocal(cmd *cobra.Command, in *gradeInput, tableFile string) (*domain.GradeResult, error) {
	var resolverOpts []pricing.Option
	if tableFile != "" {
		table, err := grading.LoadTable(tableFile)
		if err != nil {
			return nil, fmt.Errorf("loading grade table: %w", err)
		}
		resolverOpts = append(resolverOpts, pricing.WithTable(table))
	}

	req := engine.EvaluateRequest{
		Identity: in.Identity,
		Channel:  in.Channel,
	}
	if in.Override != nil {
		req.Override = *in.Override
	}
	if in.PriceTable != nil {
		req.Prices = pricing.ParsePriceTable(in.PriceTable)
	}

	if len(in.Selections) > 0 {
		var sel normalize.Selections
		if err := json.Unmarshal(in.Selections, &sel); err != nil {
			return nil, fmt.Errorf("decoding selections: %w", err)
		}
		req.Inspection = normalize.Normalize(&sel)
	} else {
		req.Inspection = normalize.Canonicalize(in.Inspection)
	}

	eng := engine.NewEngine(nil, engine.WithResolver(pricing.NewResolver(resolverOpts...)))
	res, err := eng.Evaluate(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("evaluating inspection: %w", err)
	}
	return &res, nil
}

func gradeRemote(cmd *cobra.Command, in *gradeInput) (*domain.GradeResult, error) {
	req := &apiclient.GradeRequest{
		Identity:   in.Identity,
		Channel:    in.Channel,
		Inspection: in.Inspection,
		Override:   in.Override,
		PriceTable: in.PriceTable,
	}
	if len(in.Selections) > 0 {
		if err := json.Unmarshal(in.Selections, &req.Selections); err != nil {
			return nil, fmt.Errorf("decoding selections: %w", err)
		}
		req.Inspection = nil
	}

	res, err := newClient().Grade(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("grading on server: %w", err)
	}
	return res, nil
}
