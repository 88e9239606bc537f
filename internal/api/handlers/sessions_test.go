package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/api/handlers"
	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/internal/store"
	storeMocks "github.com/donaldgifford/device-grader/internal/store/mocks"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

type sessionAPI struct {
	api      humatest.TestAPI
	store    *storeMocks.MockStore
	registry *engine.Registry
}

func newSessionAPI(t *testing.T) *sessionAPI {
	t.Helper()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().
		GetPriceTable(mock.Anything, 1, 2, domain.ChannelB2C).
		Return(letterTable(), nil).
		Maybe()

	reg := engine.NewRegistry()
	t.Cleanup(reg.CloseAll)

	h := handlers.NewSessionsHandler(newEngine(ms), reg, ms, quietLogger())
	_, api := humatest.New(t)
	handlers.RegisterSessionRoutes(api, h)

	return &sessionAPI{api: api, store: ms, registry: reg}
}

func (s *sessionAPI) open(t *testing.T, body map[string]any) engine.Snapshot {
	t.Helper()
	resp := s.api.Post("/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeSnapshot(t, resp.Body.Bytes())
}

func decodeSnapshot(t *testing.T, data []byte) engine.Snapshot {
	t.Helper()
	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func phoneIdentity(deviceID int) map[string]any {
	return map[string]any{
		"device_id":   deviceID,
		"model_id":    1,
		"capacity_id": 2,
		"type":        "phone",
	}
}

func TestSessionsHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	sa := newSessionAPI(t)
	snap := sa.open(t, map[string]any{"identity": phoneIdentity(7)})
	assert.Equal(t, engine.StateUninitialized, snap.State)
	assert.Equal(t, domain.ChannelB2C, snap.Channel)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, 1, sa.registry.Len())

	base := "/api/v1/sessions/" + snap.ID

	resp := sa.api.Put(base+"/inspection", map[string]any{"selections": pristineSelections()})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	snap = decodeSnapshot(t, resp.Body.Bytes())
	assert.Equal(t, engine.StateResolvedLocal, snap.State)
	assert.Equal(t, domain.GradeAPlus, snap.Result.Grade)
	require.NotNil(t, snap.Result.FinalPrice)
	assert.InDelta(t, 500.0, *snap.Result.FinalPrice, 0.001)

	resp = sa.api.Put(base+"/overrides", map[string]any{"repair_cost": 60})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	snap = decodeSnapshot(t, resp.Body.Bytes())
	assert.InDelta(t, 440.0, *snap.Result.FinalPrice, 0.001)

	resp = sa.api.Put(base+"/price", map[string]any{"price": 321})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	snap = decodeSnapshot(t, resp.Body.Bytes())
	assert.Equal(t, engine.StateOverridden, snap.State)
	assert.Equal(t, domain.SourceManual, snap.Result.Source)
	assert.InDelta(t, 321.0, *snap.Result.FinalPrice, 0.001)

	resp = sa.api.Put(base+"/observations", map[string]any{"observations": "scuffed corner"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "scuffed corner", decodeSnapshot(t, resp.Body.Bytes()).Observations)

	sa.store.EXPECT().
		SaveAuditRecord(mock.Anything, mock.MatchedBy(func(rec *domain.AuditRecord) bool {
			return rec.DeviceID == 7 &&
				rec.EditadoPorUsuario &&
				rec.PrecioFinal != nil && *rec.PrecioFinal == 321 &&
				rec.Observaciones == "scuffed corner"
		})).
		Return(nil).
		Once()

	resp = sa.api.Post(base + "/submit")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"editado_por_usuario":true`)

	resp = sa.api.Post(base + "/reset")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	snap = decodeSnapshot(t, resp.Body.Bytes())
	assert.Equal(t, engine.StateResolvedLocal, snap.State)
	assert.Nil(t, snap.ManualPrice)
	assert.InDelta(t, 500.0, *snap.Result.FinalPrice, 0.001)

	resp = sa.api.Get(base)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = sa.api.Delete(base)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Zero(t, sa.registry.Len())

	resp = sa.api.Get(base)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSessionsHandler_Submit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		identity   map[string]any
		inspect    bool
		saveErr    error
		wantSave   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "persists the computed record",
			identity:   phoneIdentity(7),
			inspect:    true,
			wantSave:   true,
			wantStatus: http.StatusOK,
			wantBody:   `"precio_final":500`,
		},
		{
			name:       "user-edited record conflicts",
			identity:   phoneIdentity(7),
			inspect:    true,
			saveErr:    store.ErrUserEdited,
			wantSave:   true,
			wantStatus: http.StatusConflict,
			wantBody:   "edited by a user",
		},
		{
			name:       "store failure",
			identity:   phoneIdentity(7),
			inspect:    true,
			saveErr:    errors.New("db down"),
			wantSave:   true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "db down",
		},
		{
			name:       "no inspection yet",
			identity:   phoneIdentity(7),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "insufficient data",
		},
		{
			name:       "no device id",
			identity:   map[string]any{"model_id": 1, "capacity_id": 2, "type": "phone"},
			inspect:    true,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "no device id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sa := newSessionAPI(t)
			if tt.wantSave {
				sa.store.EXPECT().
					SaveAuditRecord(mock.Anything, mock.Anything).
					Return(tt.saveErr).
					Once()
			}

			snap := sa.open(t, map[string]any{"identity": tt.identity})
			base := "/api/v1/sessions/" + snap.ID

			if tt.inspect {
				resp := sa.api.Put(base+"/inspection", map[string]any{"selections": pristineSelections()})
				require.Equal(t, http.StatusOK, resp.Code)
			}

			resp := sa.api.Post(base + "/submit")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestSessionsHandler_Restore(t *testing.T) {
	t.Parallel()

	sa := newSessionAPI(t)
	price := 300.0
	sa.store.EXPECT().
		GetAuditRecord(mock.Anything, 7).
		Return(&domain.AuditRecord{
			DeviceID:          7,
			Grade:             domain.GradeB,
			EstadoValoracion:  domain.LegacyGood,
			PrecioFinal:       &price,
			Observaciones:     "restored",
			EditadoPorUsuario: true,
		}, nil).
		Once()

	snap := sa.open(t, map[string]any{"identity": phoneIdentity(7), "restore": true})
	assert.Equal(t, engine.StateOverridden, snap.State)
	require.NotNil(t, snap.ManualPrice)
	assert.InDelta(t, 300.0, *snap.ManualPrice, 0.001)
	assert.Equal(t, "restored", snap.Observations)
}

func TestSessionsHandler_RestoreMissingRecordOpensFresh(t *testing.T) {
	t.Parallel()

	sa := newSessionAPI(t)
	sa.store.EXPECT().
		GetAuditRecord(mock.Anything, 9).
		Return(nil, store.ErrNotFound).
		Once()

	snap := sa.open(t, map[string]any{"identity": phoneIdentity(9), "restore": true})
	assert.Equal(t, engine.StateUninitialized, snap.State)
}

func TestSessionsHandler_Errors(t *testing.T) {
	t.Parallel()

	sa := newSessionAPI(t)
	snap := sa.open(t, map[string]any{"identity": phoneIdentity(7)})
	base := "/api/v1/sessions/" + snap.ID

	tests := []struct {
		name       string
		do         func() int
		wantStatus int
	}{
		{
			name:       "unknown session",
			do:         func() int { return sa.api.Get("/api/v1/sessions/nope").Code },
			wantStatus: http.StatusNotFound,
		},
		{
			name: "inspection without selections or inspection",
			do: func() int {
				return sa.api.Put(base+"/inspection", map[string]any{}).Code
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "negative manual price",
			do: func() int {
				return sa.api.Put(base+"/price", map[string]any{"price": -5}).Code
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "delete unknown session",
			do:         func() int { return sa.api.Delete("/api/v1/sessions/nope").Code },
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.do())
		})
	}
}
