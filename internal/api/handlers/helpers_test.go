package handlers_test

import (
	"io"
	"log/slog"

	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/internal/store"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(s store.Store) *engine.Engine {
	if s == nil {
		return engine.NewEngine(nil, engine.WithLogger(quietLogger()))
	}
	return engine.NewEngine(s, engine.WithLogger(quietLogger()))
}

func letterTable() *domain.PriceTable {
	return &domain.PriceTable{
		Prices: map[string]float64{"A+": 500, "A": 420, "B": 350, "C": 250},
		Floor:  40,
	}
}

// pristineSelections answers every wizard question with the best outcome.
func pristineSelections() map[string]any {
	return map[string]any{
		"activation_lock":  "off",
		"sim_lock":         "free",
		"mdm":              "none",
		"blacklist":        "clean",
		"powers_on":        "yes",
		"charges_by_cable": "yes",
		"battery_pct":      95,
		"glass_tier":       "none",
		"sides_tier":       "sin_signos",
		"back_tier":        "sin_signos",
	}
}

func rawLetterTable() map[string]any {
	return map[string]any{
		"precios": map[string]any{"V_Aplus": 500, "V_A": 420, "V_B": 350, "V_C": 250},
		"params":  map[string]any{"V_suelo": 40},
	}
}
