package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-grader/internal/engine"
	"github.com/donaldgifford/device-grader/internal/store"
	"github.com/donaldgifford/device-grader/pkg/normalize"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// SessionsHandler handles audit session endpoints.
type SessionsHandler struct {
	engine   *engine.Engine
	registry *engine.Registry
	store    store.Store
	log      *slog.Logger
}

// NewSessionsHandler creates a new SessionsHandler. s is used to restore
// sessions from persisted audit records and may be nil.
func NewSessionsHandler(
	e *engine.Engine,
	r *engine.Registry,
	s store.Store,
	log *slog.Logger,
) *SessionsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionsHandler{engine: e, registry: r, store: s, log: log}
}

// --- Input/Output types ---

// CreateSessionInput is the input for opening a session.
type CreateSessionInput struct {
	Body struct {
		Identity domain.DeviceIdentity `json:"identity"`
		Channel  domain.Channel        `json:"channel,omitempty" enum:"B2B,B2C"`
		// Restore reopens the persisted audit record for identity.device_id
		// when one exists.
		Restore bool `json:"restore,omitempty"`
	}
}

// SessionIDInput identifies a session.
type SessionIDInput struct {
	ID string `path:"id" doc:"Session UUID"`
}

// SessionOutput is the response for every session mutation.
type SessionOutput struct {
	Body engine.Snapshot
}

// UpdateInspectionInput replaces the session's inspection.
type UpdateInspectionInput struct {
	ID   string `path:"id" doc:"Session UUID"`
	Body struct {
		Selections *normalize.Selections       `json:"selections,omitempty"`
		Inspection *domain.CanonicalInspection `json:"inspection,omitempty"`
	}
}

// UpdateOverridesInput replaces the session's deduction overrides.
type UpdateOverridesInput struct {
	ID   string `path:"id" doc:"Session UUID"`
	Body domain.DeductionOverride
}

// SetPriceInput sets a manual final price.
type SetPriceInput struct {
	ID   string `path:"id" doc:"Session UUID"`
	Body struct {
		Price float64 `json:"price" doc:"Manual final price" minimum:"0"`
	}
}

// SetObservationsInput sets the free-text observations.
type SetObservationsInput struct {
	ID   string `path:"id" doc:"Session UUID"`
	Body struct {
		Observations string `json:"observations" maxLength:"4000"`
	}
}

// SubmitOutput is the persisted audit record.
type SubmitOutput struct {
	Body domain.AuditRecord
}

// --- Handlers ---

// Create opens a new audit session.
func (h *SessionsHandler) Create(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	identity := input.Body.Identity

	var (
		s   *engine.Session
		err error
	)
	if rec := h.restorable(ctx, input.Body.Restore, identity); rec != nil {
		s, err = h.engine.Restore(ctx, rec, identity, input.Body.Channel)
	} else {
		s, err = h.engine.NewSession(ctx, identity, input.Body.Channel)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("opening session: " + err.Error())
	}

	h.registry.Add(s)
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// restorable returns the stored audit record to resume, or nil.
func (h *SessionsHandler) restorable(
	ctx context.Context,
	restore bool,
	identity domain.DeviceIdentity,
) *domain.AuditRecord {
	if !restore || h.store == nil || identity.DeviceID == nil {
		return nil
	}
	rec, err := h.store.GetAuditRecord(ctx, *identity.DeviceID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Warn("loading audit record for restore", "device_id", *identity.DeviceID, "error", err)
		}
		return nil
	}
	return rec
}

// Get returns the session's current snapshot.
func (h *SessionsHandler) Get(_ context.Context, input *SessionIDInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// UpdateInspection replaces the inspection and recomputes.
func (h *SessionsHandler) UpdateInspection(
	_ context.Context,
	input *UpdateInspectionInput,
) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}

	c, err := canonical(input.Body.Selections, input.Body.Inspection)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	s.Update(c)
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// UpdateOverrides replaces the deduction overrides and repair cost.
func (h *SessionsHandler) UpdateOverrides(
	_ context.Context,
	input *UpdateOverridesInput,
) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	s.SetOverride(input.Body)
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// SetPrice pins a manual final price.
func (h *SessionsHandler) SetPrice(_ context.Context, input *SetPriceInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.SetManualPrice(input.Body.Price); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// SetObservations stores the free-text observations.
func (h *SessionsHandler) SetObservations(
	_ context.Context,
	input *SetObservationsInput,
) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	s.SetObservations(input.Body.Observations)
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// Reset drops the manual price and overrides.
func (h *SessionsHandler) Reset(_ context.Context, input *SessionIDInput) (*SessionOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	s.Reset()
	return &SessionOutput{Body: s.Snapshot()}, nil
}

// Submit persists the session's audit record.
func (h *SessionsHandler) Submit(ctx context.Context, input *SessionIDInput) (*SubmitOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}

	rec, err := h.engine.Submit(ctx, s)
	switch {
	case err == nil:
		return &SubmitOutput{Body: *rec}, nil
	case errors.Is(err, engine.ErrNoDeviceID), errors.Is(err, engine.ErrInsufficientData):
		return nil, huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, store.ErrUserEdited):
		return nil, huma.Error409Conflict("stored audit record was edited by a user; set a manual price to replace it")
	case errors.Is(err, engine.ErrNoStore):
		return nil, huma.Error503ServiceUnavailable(err.Error())
	default:
		return nil, huma.Error500InternalServerError("submitting audit: " + err.Error())
	}
}

// Delete closes a session and drops it from the registry.
func (h *SessionsHandler) Delete(_ context.Context, input *SessionIDInput) (*struct{}, error) {
	if err := h.registry.Delete(input.ID); err != nil {
		return nil, huma.Error404NotFound("session not found")
	}
	return nil, nil
}

func (h *SessionsHandler) session(id string) (*engine.Session, error) {
	s, err := h.registry.Get(id)
	if err != nil {
		return nil, huma.Error404NotFound("session not found")
	}
	return s, nil
}

// RegisterSessionRoutes registers session endpoints with the Huma API.
func RegisterSessionRoutes(api huma.API, h *SessionsHandler) {
	tags := []string{"sessions"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Open an audit session",
		Description:   "Resolves the device identity, loads its price table and opens a session.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get a session",
		Description: "Returns the session state, inputs and the result currently shown.",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-session-inspection",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/inspection",
		Summary:     "Update the inspection",
		Description: "Replaces the inspection from wizard selections or a canonical record. " +
			"A remote valuation is scheduled once input settles.",
		Tags:             tags,
		Errors:           []int{http.StatusBadRequest, http.StatusNotFound},
		SkipValidateBody: true,
	}, h.UpdateInspection)

	huma.Register(api, huma.Operation{
		OperationID:      "update-session-overrides",
		Method:           http.MethodPut,
		Path:             "/api/v1/sessions/{id}/overrides",
		Summary:          "Update deduction overrides",
		Description:      "Replaces per-category deduction overrides and the repair cost.",
		Tags:             tags,
		Errors:           []int{http.StatusNotFound},
		SkipValidateBody: true,
	}, h.UpdateOverrides)

	huma.Register(api, huma.Operation{
		OperationID: "set-session-price",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/price",
		Summary:     "Set a manual price",
		Description: "Pins a manual final price. The result stays frozen until the session is reset.",
		Tags:        tags,
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.SetPrice)

	huma.Register(api, huma.Operation{
		OperationID: "set-session-observations",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/observations",
		Summary:     "Set observations",
		Description: "Stores free-text observations carried into the audit record.",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound},
	}, h.SetObservations)

	huma.Register(api, huma.Operation{
		OperationID: "reset-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/reset",
		Summary:     "Reset manual edits",
		Description: "Clears the manual price and deduction overrides and recomputes.",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound},
	}, h.Reset)

	huma.Register(api, huma.Operation{
		OperationID: "submit-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/submit",
		Summary:     "Submit the audit",
		Description: "Persists the audit record. Fails with 409 when it would overwrite a user-edited record.",
		Tags:        tags,
		Errors: []int{
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusUnprocessableEntity,
			http.StatusServiceUnavailable,
		},
	}, h.Submit)

	huma.Register(api, huma.Operation{
		OperationID: "delete-session",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Close a session",
		Description: "Stops any pending remote valuation and drops the session.",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound},
	}, h.Delete)
}
