package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/pkg/normalize"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

var errNoInspection = errors.New("either selections or inspection is required")

// GradeHandler handles stateless evaluations.
type GradeHandler struct {
	engine *engine.Engine
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(e *engine.Engine) *GradeHandler {
	return &GradeHandler{engine: e}
}

// --- Input/Output types ---

// GradeRequest is a one-shot evaluation. Exactly one of Selections or
// Inspection should be set; Selections wins when both are.
type GradeRequest struct {
	Identity   domain.DeviceIdentity       `json:"identity"`
	Channel    domain.Channel              `json:"channel,omitempty"     enum:"B2B,B2C"`
	Selections *normalize.Selections       `json:"selections,omitempty"`
	Inspection *domain.CanonicalInspection `json:"inspection,omitempty"`
	Override   domain.DeductionOverride    `json:"override,omitempty"`

	// PriceTable is a raw payload in any known shape. It replaces the
	// stored table for this evaluation.
	PriceTable map[string]any `json:"price_table,omitempty"`
}

// GradeInput is the input for POST /api/v1/grade.
type GradeInput struct {
	Body GradeRequest
}

// GradeOutput is the response for a stateless evaluation.
type GradeOutput struct {
	Body domain.GradeResult
}

// --- Handlers ---

// Grade normalizes the inspection and returns its grade and price.
func (h *GradeHandler) Grade(ctx context.Context, input *GradeInput) (*GradeOutput, error) {
	inspection, err := canonical(input.Body.Selections, input.Body.Inspection)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	req := engine.EvaluateRequest{
		Identity:   input.Body.Identity,
		Channel:    input.Body.Channel,
		Inspection: inspection,
		Override:   input.Body.Override,
	}
	if input.Body.PriceTable != nil {
		req.Prices = pricing.ParsePriceTable(input.Body.PriceTable)
	}

	res, err := h.engine.Evaluate(ctx, req)
	if err != nil {
		return nil, huma.Error500InternalServerError("evaluation failed: " + err.Error())
	}
	return &GradeOutput{Body: res}, nil
}

func canonical(sel *normalize.Selections, c *domain.CanonicalInspection) (domain.CanonicalInspection, error) {
	switch {
	case sel != nil:
		return normalize.Normalize(sel), nil
	case c != nil:
		return normalize.Canonicalize(c), nil
	default:
		return domain.CanonicalInspection{}, errNoInspection
	}
}

// RegisterGradeRoutes registers the evaluation endpoint with the Huma API.
func RegisterGradeRoutes(api huma.API, h *GradeHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "grade-device",
		Method:      http.MethodPost,
		Path:        "/api/v1/grade",
		Summary:     "Grade and price a device",
		Description: "Evaluates one inspection without opening a session. " +
			"The remote valuation is consulted synchronously and falls back to local pricing.",
		Tags:   []string{"grading"},
		Errors: []int{http.StatusBadRequest},
		// Selections carry loosely typed wizard answers; normalization owns
		// their validation.
		SkipValidateBody: true,
	}, h.Grade)
}
