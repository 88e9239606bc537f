// Package grading maps canonical inspections to grades and value
// deductions: the cosmetic grade table, the gate evaluator and the
// deduction calculator. Everything here is pure and safe to re-run.
package grading

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Table is the authoritative glass x housing grade matrix. It is data, not
// logic: it can be replaced from a YAML file without code changes.
type Table map[domain.GlassStatus]map[domain.HousingStatus]domain.Grade

// DefaultTable returns the matrix agreed with the business. A cell is never
// better than the worse of its row and column heads.
func DefaultTable() Table {
	return Table{
		domain.GlassNone: {
			domain.HousingPristine: domain.GradeAPlus,
			domain.HousingMinimal:  domain.GradeA,
			domain.HousingSome:     domain.GradeB,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
		domain.GlassMicro: {
			domain.HousingPristine: domain.GradeA,
			domain.HousingMinimal:  domain.GradeA,
			domain.HousingSome:     domain.GradeB,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
		domain.GlassVisible: {
			domain.HousingPristine: domain.GradeB,
			domain.HousingMinimal:  domain.GradeB,
			domain.HousingSome:     domain.GradeB,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
		domain.GlassChip: {
			domain.HousingPristine: domain.GradeC,
			domain.HousingMinimal:  domain.GradeC,
			domain.HousingSome:     domain.GradeC,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
		domain.GlassDeep: {
			domain.HousingPristine: domain.GradeC,
			domain.HousingMinimal:  domain.GradeC,
			domain.HousingSome:     domain.GradeC,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
		// CRACK is gated to D before the table is consulted; the row still
		// prices the surface for the mirrored D rule.
		domain.GlassCrack: {
			domain.HousingPristine: domain.GradeC,
			domain.HousingMinimal:  domain.GradeC,
			domain.HousingSome:     domain.GradeC,
			domain.HousingWorn:     domain.GradeC,
			domain.HousingBent:     domain.GradeC,
		},
	}
}

// LoadTable reads a grade matrix from a YAML file and validates it.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading cosmetic table: %w", err)
	}

	t := Table{}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing cosmetic table YAML: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validating cosmetic table: %w", err)
	}

	return t, nil
}

// Grade looks up the cell for glass and housing. Missing cells resolve to C,
// the worst cosmetic grade.
func (t Table) Grade(glass domain.GlassStatus, housing domain.HousingStatus) domain.Grade {
	row, ok := t[glass]
	if !ok {
		return domain.GradeC
	}
	g, ok := row[housing]
	if !ok {
		return domain.GradeC
	}
	return g
}

// GlassTier returns the grade implied by the glass surface alone.
func (t Table) GlassTier(glass domain.GlassStatus) domain.Grade {
	return t.Grade(glass, domain.HousingPristine)
}

// HousingTier returns the grade implied by the housing surfaces alone.
func (t Table) HousingTier(housing domain.HousingStatus) domain.Grade {
	return t.Grade(domain.GlassNone, housing)
}

// Validate checks the table is complete, only holds cosmetic grades, never
// rates a cell above its worst surface, and never improves when either axis
// degrades.
func (t Table) Validate() error {
	var errs []error

	for _, g := range domain.GlassStatuses {
		for _, h := range domain.HousingStatuses {
			cell, ok := t[g][h]
			if !ok {
				errs = append(errs, fmt.Errorf("missing cell %s/%s", g, h))
				continue
			}
			if !cell.Cosmetic() {
				errs = append(errs, fmt.Errorf("cell %s/%s: %q is not a cosmetic grade", g, h, cell))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for gi, g := range domain.GlassStatuses {
		for hi, h := range domain.HousingStatuses {
			cell := t[g][h]
			worst := domain.WorseGrade(t.GlassTier(g), t.HousingTier(h))
			if cell.Rank() > worst.Rank() {
				errs = append(errs, fmt.Errorf("cell %s/%s: %s is better than its worst surface %s", g, h, cell, worst))
			}
			if gi > 0 && cell.Rank() > t[domain.GlassStatuses[gi-1]][h].Rank() {
				errs = append(errs, fmt.Errorf("cell %s/%s improves on worse glass", g, h))
			}
			if hi > 0 && cell.Rank() > t[g][domain.HousingStatuses[hi-1]].Rank() {
				errs = append(errs, fmt.Errorf("cell %s/%s improves on worse housing", g, h))
			}
		}
	}

	return errors.Join(errs...)
}

// GradeFromCosmetics returns the cosmetic grade for the default table.
func GradeFromCosmetics(glass domain.GlassStatus, housing domain.HousingStatus) domain.Grade {
	return defaultTable.Grade(glass, housing)
}

var defaultTable = DefaultTable()
