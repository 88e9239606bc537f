package valuation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Catalog lists the model/capacity pairs known to the catalog.
type Catalog interface {
	ListCatalogModels(ctx context.Context) ([]domain.CatalogModel, error)
}

// maxNameDistance bounds how far a free-text model name may drift from a
// catalog name and still be considered the same model.
const maxNameDistance = 3

// ResolveIdentity fills in numeric model and capacity ids. Numeric ids win;
// free-text names are matched against the catalog only when ids are
// missing. An identity that stays unresolved keeps its names so the remote
// service can try its own lookup.
func ResolveIdentity(ctx context.Context, catalog Catalog, id domain.DeviceIdentity) (domain.DeviceIdentity, error) {
	if !id.Resolvable() {
		return id, ErrNoIdentity
	}
	if id.ModelID != nil && (id.CapacityID != nil || id.CapacityText == "") {
		return id, nil
	}
	if catalog == nil {
		return id, nil
	}

	models, err := catalog.ListCatalogModels(ctx)
	if err != nil {
		return id, fmt.Errorf("listing catalog models: %w", err)
	}

	var candidates []domain.CatalogModel
	if id.ModelID != nil {
		candidates = filterModel(models, *id.ModelID)
	} else {
		candidates = matchName(models, id.ModelName)
		if len(candidates) > 0 {
			modelID := candidates[0].ModelID
			id.ModelID = &modelID
		}
	}

	if id.CapacityID == nil && id.CapacityText != "" {
		want := compact(id.CapacityText)
		for _, m := range candidates {
			if compact(m.CapacityText) == want {
				capacityID := m.CapacityID
				id.CapacityID = &capacityID
				break
			}
		}
	}

	return id, nil
}

func filterModel(models []domain.CatalogModel, modelID int) []domain.CatalogModel {
	var out []domain.CatalogModel
	for _, m := range models {
		if m.ModelID == modelID {
			out = append(out, m)
		}
	}
	return out
}

// matchName returns the catalog rows of the model whose name is closest to
// name, or nil when nothing is close enough. An exact case-insensitive
// match always wins. A fuzzy match must carry the same numbers as name, so
// "iPhone 12" never resolves to "iPhone 13".
func matchName(models []domain.CatalogModel, name string) []domain.CatalogModel {
	want := compact(name)
	if want == "" {
		return nil
	}
	wantNums := numbers(want)

	bestID, bestDist := 0, maxNameDistance+1
	for _, m := range models {
		got := compact(m.ModelName)
		if got == want {
			bestID, bestDist = m.ModelID, 0
			break
		}
		if !slices.Equal(wantNums, numbers(got)) {
			continue
		}
		if d := fuzzy.LevenshteinDistance(want, got); d < bestDist {
			bestID, bestDist = m.ModelID, d
		}
	}

	if bestDist > maxNameDistance {
		return nil
	}
	return filterModel(models, bestID)
}

// compact lower-cases s and drops whitespace and punctuation so "128 GB"
// and "128gb" compare equal.
func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// numbers returns the digit runs of s in order.
func numbers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
}
