package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/valuation"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestFixture(t *testing.T) *fixture {
	t.Helper()
	fx, err := loadFixture(filepath.Join("testdata", "prices.json"))
	require.NoError(t, err)
	return fx
}

func ptr[T any](v T) *T { return &v }

func pristineRequest() valuation.Request {
	return valuation.Request{
		Tenant:            "acme",
		Channel:           domain.ChannelB2C,
		ModelID:           ptr(12),
		CapacityID:        ptr(3),
		PowersOn:          ptr(true),
		Charges:           ptr(true),
		FunctionalBasicOK: ptr(true),
		BatteryHealthPct:  ptr(95.0),
		DisplayStatus:     valuation.DisplayOK,
		GlassStatus:       domain.GlassNone,
		HousingStatus:     domain.HousingPristine,
	}
}

func post(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/valuation", bytes.NewReader(b))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	fx := loadTestFixture(t)
	assert.NotEmpty(t, fx.Models)
	assert.InDelta(t, 40.0, fx.Floor, 0.001)

	_, err := loadFixture(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)
}

func TestValuationHandler(t *testing.T) {
	t.Parallel()

	fx := loadTestFixture(t)

	worn := pristineRequest()
	worn.BatteryHealthPct = ptr(70.0)

	dead := pristineRequest()
	dead.PowersOn = ptr(false)

	unknown := pristineRequest()
	unknown.ModelID = ptr(999)

	noModel := pristineRequest()
	noModel.ModelID = nil

	tests := []struct {
		name       string
		req        valuation.Request
		wantStatus int
		check      func(t *testing.T, resp valuation.Response)
	}{
		{
			name:       "pristine device gets top tier",
			req:        pristineRequest(),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp valuation.Response) {
				t.Helper()
				assert.Equal(t, "OK", resp.Gate)
				assert.Equal(t, "A+", resp.CosmeticGrade)
				assert.InDelta(t, 500.0, resp.Offer, 0.001)
			},
		},
		{
			name:       "worn battery is deducted",
			req:        worn,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp valuation.Response) {
				t.Helper()
				assert.InDelta(t, 35.0, resp.Deductions.Battery, 0.001)
				assert.InDelta(t, 465.0, resp.Offer, 0.001)
			},
		},
		{
			name:       "device that does not power on fails the gate",
			req:        dead,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp valuation.Response) {
				t.Helper()
				assert.Equal(t, "D", resp.Gate)
				assert.InDelta(t, 40.0, resp.Offer, 0.001)
			},
		},
		{name: "unknown model", req: unknown, wantStatus: http.StatusNotFound},
		{name: "missing model id", req: noModel, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := post(t, valuationHandler(testLogger(), fx, behavior{}), tt.req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.check == nil {
				return
			}
			var resp valuation.Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			tt.check(t, resp)
		})
	}
}

func TestValuationHandler_Behavior(t *testing.T) {
	t.Parallel()

	fx := loadTestFixture(t)

	t.Run("wrong tenant", func(t *testing.T) {
		t.Parallel()
		w := post(t, valuationHandler(testLogger(), fx, behavior{tenant: "other"}), pristineRequest())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("injected failure", func(t *testing.T) {
		t.Parallel()
		w := post(t, valuationHandler(testLogger(), fx, behavior{failRate: 1}), pristineRequest())
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/valuation", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		valuationHandler(testLogger(), fx, behavior{})(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValuationHandler_ResponseFeedsResolver(t *testing.T) {
	t.Parallel()

	fx := loadTestFixture(t)
	resp := price(fx, fx.Models["12"], ptr(pristineRequest()))

	remote := resp.Remote()
	require.NotNil(t, remote)
	assert.Equal(t, domain.GradeAPlus, remote.Grade(domain.GradeC))
	v, ok := remote.TierPrice("A+")
	assert.True(t, ok)
	assert.InDelta(t, 500.0, v, 0.001)
}
