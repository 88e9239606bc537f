package valuation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/valuation"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

const okResponse = `{
	"gate": "OK",
	"grado_estetico": "A",
	"V_Aplus": 600, "V_A": 540, "V_B": 470, "V_C": 380,
	"V_tope": 620,
	"deducciones": {"pr_bat": 0, "pr_pant": 0, "pr_chas": 0, "pp_func": 0},
	"params": {"V_suelo": 50, "v_suelo_regla": {"label": "default"}},
	"calculo": {"aplica_pp_func": false},
	"oferta": 540
}`

func testRequest() valuation.Request {
	on := true
	modelID := 10
	return valuation.Request{
		Tenant:        "acme",
		Channel:       domain.ChannelB2B,
		ModelID:       &modelID,
		PowersOn:      &on,
		Charges:       &on,
		DisplayStatus: valuation.DisplayOK,
		GlassStatus:   domain.GlassNone,
		HousingStatus: domain.HousingMinimal,
	}
}

func TestClient_Valuate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		errContain string
		wantOffer  float64
	}{
		{
			name: "successful valuation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/valuation", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "acme", body["tenant"])
				assert.Equal(t, "B2B", body["canal"])
				assert.Equal(t, "MINIMOS", body["housing_status"])

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(okResponse))
			},
			wantOffer: 540,
		},
		{
			name: "non-2xx response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
			wantErr:    true,
			errContain: "status 502",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr:    true,
			errContain: "parsing valuation response",
		},
		{
			name: "json without valuation fields",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
			},
			wantErr:    true,
			errContain: "missing gate or oferta",
		},
		{
			name: "gate without offer",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"gate":"OK","grado_estetico":"A"}`))
			},
			wantErr:    true,
			errContain: "missing gate or oferta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := valuation.NewClient(server.URL)
			resp, err := c.Valuate(context.Background(), testRequest())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantOffer, resp.Offer, 0.001)
			assert.Equal(t, "A", resp.CosmeticGrade)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		_, _ = w.Write([]byte(okResponse))
	}))
	defer server.Close()

	c := valuation.NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Valuate(ctx, testRequest())
	require.Error(t, err)
}

func TestClient_BreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := valuation.NewBreaker("test", valuation.BreakerSettings{
		ConsecutiveFailures: 2,
		Timeout:             time.Minute,
	}, nil)
	c := valuation.NewClient(server.URL, valuation.WithBreaker(breaker))

	for range 2 {
		_, err := c.Valuate(context.Background(), testRequest())
		require.Error(t, err)
	}

	_, err := c.Valuate(context.Background(), testRequest())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load(), "open breaker short-circuits the call")
}

func TestClient_RateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okResponse))
	}))
	defer server.Close()

	c := valuation.NewClient(server.URL,
		valuation.WithRateLimiter(valuation.NewRateLimiter(100, 10, 1)),
		valuation.WithPath("/valuation"),
	)

	_, err := c.Valuate(context.Background(), testRequest())
	require.NoError(t, err)

	_, err = c.Valuate(context.Background(), testRequest())
	require.ErrorIs(t, err, valuation.ErrQuotaExhausted)
}
