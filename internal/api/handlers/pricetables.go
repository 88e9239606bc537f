package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-grader/internal/store"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// PriceTablesHandler handles price table lookup and storage.
type PriceTablesHandler struct {
	store store.Store
}

// NewPriceTablesHandler creates a new PriceTablesHandler.
func NewPriceTablesHandler(s store.Store) *PriceTablesHandler {
	return &PriceTablesHandler{store: s}
}

// --- Input/Output types ---

// GetPriceTableInput identifies a price table.
type GetPriceTableInput struct {
	ModelID    int    `path:"model_id"    doc:"Catalog model id"    minimum:"1"`
	CapacityID int    `path:"capacity_id" doc:"Catalog capacity id" minimum:"1"`
	Channel    string `query:"channel"    doc:"Sales channel (default B2C)" enum:"B2B,B2C,"`
}

// PutPriceTableInput stores a raw price table payload.
type PutPriceTableInput struct {
	ModelID    int    `path:"model_id"    doc:"Catalog model id"    minimum:"1"`
	CapacityID int    `path:"capacity_id" doc:"Catalog capacity id" minimum:"1"`
	Channel    string `query:"channel"    doc:"Sales channel (default B2C)" enum:"B2B,B2C,"`
	Body       map[string]any
}

// PriceTableOutput is a normalized price table.
type PriceTableOutput struct {
	Body struct {
		ModelID    int                `json:"model_id"`
		CapacityID int                `json:"capacity_id"`
		Channel    domain.Channel     `json:"channel"`
		Scheme     string             `json:"scheme"     enum:"letter,legacy,unknown"`
		Prices     map[string]float64 `json:"prices"`
		Floor      float64            `json:"floor"`
	}
}

// --- Handlers ---

// Get returns the normalized price table for a model, capacity and channel.
func (h *PriceTablesHandler) Get(ctx context.Context, input *GetPriceTableInput) (*PriceTableOutput, error) {
	channel := channelOrDefault(input.Channel)

	pt, err := h.store.GetPriceTable(ctx, input.ModelID, input.CapacityID, channel)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("price table not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading price table: " + err.Error())
	}

	return priceTableOutput(input.ModelID, input.CapacityID, channel, pt), nil
}

// Put validates a raw payload through the table adapter and stores it
// unchanged.
func (h *PriceTablesHandler) Put(ctx context.Context, input *PutPriceTableInput) (*PriceTableOutput, error) {
	channel := channelOrDefault(input.Channel)

	pt := pricing.ParsePriceTable(input.Body)
	if pricing.SchemeFor(pt) == pricing.SchemeUnknown {
		return nil, huma.Error400BadRequest("price table has no recognized tier keys")
	}

	if err := h.store.UpsertPriceTable(ctx, input.ModelID, input.CapacityID, channel, input.Body); err != nil {
		return nil, huma.Error500InternalServerError("storing price table: " + err.Error())
	}

	return priceTableOutput(input.ModelID, input.CapacityID, channel, pt), nil
}

func priceTableOutput(modelID, capacityID int, channel domain.Channel, pt *domain.PriceTable) *PriceTableOutput {
	resp := &PriceTableOutput{}
	resp.Body.ModelID = modelID
	resp.Body.CapacityID = capacityID
	resp.Body.Channel = channel
	resp.Body.Scheme = pricing.SchemeFor(pt).String()
	resp.Body.Prices = pt.Prices
	resp.Body.Floor = pt.Floor
	return resp
}

func channelOrDefault(ch string) domain.Channel {
	if ch == "" {
		return domain.ChannelB2C
	}
	return domain.Channel(ch)
}

// RegisterPriceTableRoutes registers price table endpoints with the Huma API.
func RegisterPriceTableRoutes(api huma.API, h *PriceTablesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-price-table",
		Method:      http.MethodGet,
		Path:        "/api/v1/price-tables/{model_id}/{capacity_id}",
		Summary:     "Get a price table",
		Description: "Returns the normalized tier prices and floor for a model, capacity and channel.",
		Tags:        []string{"price-tables"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "put-price-table",
		Method:      http.MethodPut,
		Path:        "/api/v1/price-tables/{model_id}/{capacity_id}",
		Summary:     "Store a price table",
		Description: "Stores a raw price table payload in any known shape. " +
			"The payload must contain at least one letter or legacy tier.",
		Tags:             []string{"price-tables"},
		Errors:           []int{http.StatusBadRequest},
		SkipValidateBody: true,
	}, h.Put)
}
