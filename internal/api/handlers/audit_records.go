package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-grader/internal/store"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// AuditRecordsHandler handles persisted audit record queries.
type AuditRecordsHandler struct {
	store store.Store
}

// NewAuditRecordsHandler creates a new AuditRecordsHandler.
func NewAuditRecordsHandler(s store.Store) *AuditRecordsHandler {
	return &AuditRecordsHandler{store: s}
}

// --- Input/Output types ---

// ListAuditRecordsInput is the input for listing audit records.
type ListAuditRecordsInput struct {
	Grade    string  `query:"grade"     doc:"Filter by letter grade"           enum:"A+,A,B,C,D,R,"`
	Estado   string  `query:"estado"    doc:"Filter by legacy grade"           enum:"excelente,muy_bueno,bueno,a_revision,"`
	Edited   bool    `query:"edited"    doc:"Only records edited by a user"`
	MinPrice float64 `query:"min_price" doc:"Minimum final price"                                                        minimum:"0"`
	Limit    int     `query:"limit"     doc:"Number of results (default 50)"                                             minimum:"1" maximum:"500"`
	Offset   int     `query:"offset"    doc:"Pagination offset"                                                          minimum:"0"`
	OrderBy  string  `query:"order_by"  doc:"Sort field"                       enum:"updated_at,precio_final,device_id,"`
}

// ListAuditRecordsOutput is the response for listing audit records.
type ListAuditRecordsOutput struct {
	Body struct {
		Records []domain.AuditRecord `json:"records"`
		Total   int                  `json:"total"`
		Limit   int                  `json:"limit"`
		Offset  int                  `json:"offset"`
	}
}

// GetAuditRecordInput is the input for getting one audit record.
type GetAuditRecordInput struct {
	DeviceID int `path:"device_id" doc:"Device id" minimum:"1"`
}

// GetAuditRecordOutput is the response for getting one audit record.
type GetAuditRecordOutput struct {
	Body domain.AuditRecord
}

// --- Handlers ---

// List returns audit records with optional filters and pagination.
func (h *AuditRecordsHandler) List(
	ctx context.Context,
	input *ListAuditRecordsInput,
) (*ListAuditRecordsOutput, error) {
	q := &store.AuditQuery{
		EditedOnly: input.Edited,
		Limit:      input.Limit,
		Offset:     input.Offset,
		OrderBy:    input.OrderBy,
	}
	if input.Grade != "" {
		q.Grade = &input.Grade
	}
	if input.Estado != "" {
		q.LegacyGrade = &input.Estado
	}
	if input.MinPrice != 0 {
		q.MinFinalPrice = &input.MinPrice
	}

	records, total, err := h.store.ListAuditRecords(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("audit record query failed: " + err.Error())
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}

	resp := &ListAuditRecordsOutput{}
	resp.Body.Records = records
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// Get returns the audit record for one device.
func (h *AuditRecordsHandler) Get(ctx context.Context, input *GetAuditRecordInput) (*GetAuditRecordOutput, error) {
	rec, err := h.store.GetAuditRecord(ctx, input.DeviceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("audit record not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading audit record: " + err.Error())
	}
	return &GetAuditRecordOutput{Body: *rec}, nil
}

// RegisterAuditRecordRoutes registers audit record endpoints with the Huma API.
func RegisterAuditRecordRoutes(api huma.API, h *AuditRecordsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-records",
		Method:      http.MethodGet,
		Path:        "/api/v1/audit-records",
		Summary:     "List audit records",
		Description: "Returns persisted audit records filtered by grade, legacy grade, edit flag and minimum price.",
		Tags:        []string{"audit-records"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-audit-record",
		Method:      http.MethodGet,
		Path:        "/api/v1/audit-records/{device_id}",
		Summary:     "Get an audit record",
		Description: "Returns the persisted audit record for a device.",
		Tags:        []string{"audit-records"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)
}
