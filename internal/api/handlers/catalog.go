package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-grader/internal/store"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// CatalogHandler handles the model/capacity catalog used for name-based
// identity resolution.
type CatalogHandler struct {
	store store.Store
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(s store.Store) *CatalogHandler {
	return &CatalogHandler{store: s}
}

// ListCatalogOutput is the response for listing catalog models.
type ListCatalogOutput struct {
	Body struct {
		Models []domain.CatalogModel `json:"models"`
	}
}

// UpsertCatalogInput is the input for adding or renaming a catalog entry.
type UpsertCatalogInput struct {
	Body domain.CatalogModel
}

// UpsertCatalogOutput echoes the stored entry.
type UpsertCatalogOutput struct {
	Body domain.CatalogModel
}

// List returns every catalog model/capacity pair.
func (h *CatalogHandler) List(ctx context.Context, _ *struct{}) (*ListCatalogOutput, error) {
	models, err := h.store.ListCatalogModels(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing catalog: " + err.Error())
	}
	if models == nil {
		models = []domain.CatalogModel{}
	}

	resp := &ListCatalogOutput{}
	resp.Body.Models = models
	return resp, nil
}

// Upsert adds or updates a catalog model/capacity pair.
func (h *CatalogHandler) Upsert(ctx context.Context, input *UpsertCatalogInput) (*UpsertCatalogOutput, error) {
	m := input.Body
	m.ModelName = strings.TrimSpace(m.ModelName)
	m.CapacityText = strings.TrimSpace(m.CapacityText)

	if m.ModelID <= 0 || m.CapacityID <= 0 {
		return nil, huma.Error400BadRequest("model_id and capacity_id must be positive")
	}
	if m.ModelName == "" {
		return nil, huma.Error400BadRequest("model_name is required")
	}

	if err := h.store.UpsertCatalogModel(ctx, &m); err != nil {
		return nil, huma.Error500InternalServerError("storing catalog model: " + err.Error())
	}
	return &UpsertCatalogOutput{Body: m}, nil
}

// RegisterCatalogRoutes registers catalog endpoints with the Huma API.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-catalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "List catalog models",
		Description: "Returns every model/capacity pair known to identity resolution.",
		Tags:        []string{"catalog"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "upsert-catalog",
		Method:      http.MethodPut,
		Path:        "/api/v1/catalog",
		Summary:     "Add or update a catalog model",
		Description: "Upserts a model/capacity pair keyed by model_id and capacity_id.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusBadRequest},
	}, h.Upsert)
}
