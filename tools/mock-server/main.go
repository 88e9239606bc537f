// Package main implements a mock valuation service for local development.
// It prices requests from a JSON fixture of per-model tier prices so the
// grader's remote path, cache and circuit breaker can be exercised without
// the real pricing service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/donaldgifford/device-grader/internal/valuation"
	"github.com/donaldgifford/device-grader/pkg/grading"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// batteryServiceThreshold is the health below which the battery repair is
// deducted.
const batteryServiceThreshold = 85

// tiers is the per-model price row of the fixture.
type tiers struct {
	APlus   float64 `json:"V_Aplus"`
	A       float64 `json:"V_A"`
	B       float64 `json:"V_B"`
	C       float64 `json:"V_C"`
	Ceiling float64 `json:"V_tope"`
}

// fixture holds the prices the mock answers with.
type fixture struct {
	Floor         float64          `json:"floor"`
	BatteryRepair float64          `json:"battery_repair"`
	ScreenRepair  float64          `json:"screen_repair"`
	ChassisRepair float64          `json:"chassis_repair"`
	Models        map[string]tiers `json:"models"`
}

type behavior struct {
	latency  time.Duration
	failRate float64
	tenant   string
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/prices.json", "path to price fixture")
	latency := flag.Duration("latency", 0, "delay added to every valuation")
	failRate := flag.Float64("fail-rate", 0, "fraction of valuations answered with 503")
	tenant := flag.String("tenant", "", "reject requests for any other tenant when set")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "models", len(fx.Models))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /valuation", valuationHandler(logger, fx, behavior{
		latency:  *latency,
		failRate: *failRate,
		tenant:   *tenant,
	}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock valuation server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func valuationHandler(logger *slog.Logger, fx *fixture, b behavior) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req valuation.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body: " + err.Error()})
			return
		}

		if b.tenant != "" && req.Tenant != b.tenant {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "unknown tenant"})
			return
		}

		if b.latency > 0 {
			select {
			case <-time.After(b.latency):
			case <-r.Context().Done():
				return
			}
		}

		if b.failRate > 0 && rand.Float64() < b.failRate { //nolint:gosec // mock fault injection
			logger.Warn("injected failure", "modelo_id", req.ModelID)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "injected failure"})
			return
		}

		if req.ModelID == nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "modelo_id is required"})
			return
		}
		row, ok := fx.Models[strconv.Itoa(*req.ModelID)]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no prices for model"})
			return
		}

		resp := price(fx, row, &req)
		writeJSON(w, http.StatusOK, resp)
		logger.Info("valuation",
			"modelo_id", *req.ModelID,
			"canal", req.Channel,
			"gate", resp.Gate,
			"grado_estetico", resp.CosmeticGrade,
			"oferta", resp.Offer,
		)
	}
}

// price computes the mock offer: the tier price for the cosmetic grade,
// less repair deductions, bounded below by the floor. A device that does
// not power on or charge fails the gate and is offered the floor.
func price(fx *fixture, row tiers, req *valuation.Request) *valuation.Response {
	resp := &valuation.Response{
		Gate:       pricing.GateOK,
		PriceAPlus: row.APlus,
		PriceA:     row.A,
		PriceB:     row.B,
		PriceC:     row.C,
		Ceiling:    row.Ceiling,
		Params: valuation.Params{
			Floor:         fx.Floor,
			FloorRule:     valuation.FloorRule{Label: "fixture"},
			BatteryRepair: fx.BatteryRepair,
			ScreenRepair:  fx.ScreenRepair,
			ChassisRepair: fx.ChassisRepair,
		},
	}

	if isFalse(req.PowersOn) || isFalse(req.Charges) {
		resp.Gate = "D"
		resp.Offer = fx.Floor
		return resp
	}

	grade := grading.GradeFromCosmetics(req.GlassStatus, req.HousingStatus)
	resp.CosmeticGrade = string(grade)

	if req.BatteryHealthPct != nil && *req.BatteryHealthPct < batteryServiceThreshold {
		resp.Deductions.Battery = fx.BatteryRepair
	}
	if req.DisplayStatus != "" && req.DisplayStatus != valuation.DisplayOK {
		resp.Deductions.Screen = fx.ScreenRepair
	}
	if req.HousingStatus == domain.HousingBent {
		resp.Deductions.Chassis = fx.ChassisRepair
	}
	if isFalse(req.FunctionalBasicOK) {
		resp.Calculation.AppliesFunctionalPenalty = true
		resp.Deductions.Functional = math.Round(row.C * 0.2)
	}

	base := map[domain.Grade]float64{
		domain.GradeAPlus: row.APlus,
		domain.GradeA:     row.A,
		domain.GradeB:     row.B,
		domain.GradeC:     row.C,
	}[grade]

	d := resp.Deductions
	resp.Offer = math.Max(base-d.Battery-d.Screen-d.Chassis-d.Functional, fx.Floor)
	return resp
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}
