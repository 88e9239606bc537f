package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/api/handlers"
	storeMocks "github.com/donaldgifford/device-grader/internal/store/mocks"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func TestCatalogHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		models     []domain.CatalogModel
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns models",
			models: []domain.CatalogModel{
				{ModelID: 1, CapacityID: 2, ModelName: "iPhone 12", CapacityText: "128GB"},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"model_name":"iPhone 12"`,
		},
		{
			name:       "empty catalog",
			wantStatus: http.StatusOK,
			wantBody:   `"models":[]`,
		},
		{
			name:       "store error",
			err:        errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "listing catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			ms.EXPECT().ListCatalogModels(mock.Anything).Return(tt.models, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(ms))

			resp := api.Get("/api/v1/catalog")
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestCatalogHandler_Upsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		wantStore  bool
		wantStatus int
	}{
		{
			name: "trims and stores",
			body: map[string]any{
				"model_id": 1, "capacity_id": 2,
				"model_name": "  iPhone 12 ", "capacity_text": "128GB",
			},
			wantStore:  true,
			wantStatus: http.StatusOK,
		},
		{
			name: "non-positive ids",
			body: map[string]any{
				"model_id": 0, "capacity_id": 2,
				"model_name": "iPhone 12", "capacity_text": "128GB",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blank name",
			body: map[string]any{
				"model_id": 1, "capacity_id": 2,
				"model_name": "   ", "capacity_text": "128GB",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			if tt.wantStore {
				ms.EXPECT().
					UpsertCatalogModel(mock.Anything, mock.MatchedBy(func(m *domain.CatalogModel) bool {
						return m.ModelName == "iPhone 12"
					})).
					Return(nil).
					Once()
			}

			_, api := humatest.New(t)
			handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(ms))

			resp := api.Put("/api/v1/catalog", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
		})
	}
}
