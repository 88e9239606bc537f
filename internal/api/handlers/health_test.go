package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/api/handlers"
	"github.com/donaldgifford/device-grader/internal/store/mocks"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	t.Parallel()

	mockStore := mocks.NewMockStore(t)
	h := handlers.NewHealthHandler(mockStore)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Healthz(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		cacheErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns 200 when every dependency responds",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 when store ping fails",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","component":"database"}`,
		},
		{
			name:       "returns 503 when cache ping fails",
			cacheErr:   errors.New("dial tcp: i/o timeout"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","component":"cache"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := mocks.NewMockStore(t)
			mockStore.EXPECT().Ping(mock.Anything).Return(tt.pingErr)

			cacheCalled := false
			h := handlers.NewHealthHandler(mockStore,
				handlers.WithReadinessCheck("cache", pingFunc(func(context.Context) error {
					cacheCalled = true
					return tt.cacheErr
				})),
			)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()

			require.NoError(t, h.Readyz(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.pingErr == nil, cacheCalled)
		})
	}
}
