package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// GradeRequest is a one-shot evaluation. Set either Selections (raw wizard
// answers) or Inspection.
type GradeRequest struct {
	Identity   domain.DeviceIdentity       `json:"identity"`
	Channel    domain.Channel              `json:"channel,omitempty"`
	Selections map[string]any              `json:"selections,omitempty"`
	Inspection *domain.CanonicalInspection `json:"inspection,omitempty"`
	Override   *domain.DeductionOverride   `json:"override,omitempty"`
	PriceTable map[string]any              `json:"price_table,omitempty"`
}

// PriceTable is a normalized price table as returned by the API.
type PriceTable struct {
	ModelID    int                `json:"model_id"`
	CapacityID int                `json:"capacity_id"`
	Channel    domain.Channel     `json:"channel"`
	Scheme     string             `json:"scheme"`
	Prices     map[string]float64 `json:"prices"`
	Floor      float64            `json:"floor"`
}

// AuditRecordFilter selects audit records. Zero values are omitted.
type AuditRecordFilter struct {
	Grade    string
	Estado   string
	Edited   bool
	MinPrice float64
	Limit    int
	Offset   int
	OrderBy  string
}

func (f *AuditRecordFilter) query() string {
	v := url.Values{}
	if f.Grade != "" {
		v.Set("grade", f.Grade)
	}
	if f.Estado != "" {
		v.Set("estado", f.Estado)
	}
	if f.Edited {
		v.Set("edited", "true")
	}
	if f.MinPrice > 0 {
		v.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.OrderBy != "" {
		v.Set("order_by", f.OrderBy)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// AuditRecordList is one page of audit records.
type AuditRecordList struct {
	Records []domain.AuditRecord `json:"records"`
	Total   int                  `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// Grade evaluates one inspection on the server.
func (c *Client) Grade(ctx context.Context, req *GradeRequest) (*domain.GradeResult, error) {
	var res domain.GradeResult
	if err := c.post(ctx, "/api/v1/grade", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetPriceTable returns the normalized price table for a model, capacity
// and channel.
func (c *Client) GetPriceTable(
	ctx context.Context,
	modelID, capacityID int,
	channel domain.Channel,
) (*PriceTable, error) {
	var pt PriceTable
	if err := c.get(ctx, priceTablePath(modelID, capacityID, channel), &pt); err != nil {
		return nil, err
	}
	return &pt, nil
}

// PutPriceTable stores a raw price table payload.
func (c *Client) PutPriceTable(
	ctx context.Context,
	modelID, capacityID int,
	channel domain.Channel,
	raw map[string]any,
) (*PriceTable, error) {
	var pt PriceTable
	if err := c.put(ctx, priceTablePath(modelID, capacityID, channel), raw, &pt); err != nil {
		return nil, err
	}
	return &pt, nil
}

// ListAuditRecords returns one page of audit records.
func (c *Client) ListAuditRecords(ctx context.Context, f *AuditRecordFilter) (*AuditRecordList, error) {
	var list AuditRecordList
	if err := c.get(ctx, "/api/v1/audit-records"+f.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAuditRecord returns the audit record for one device.
func (c *Client) GetAuditRecord(ctx context.Context, deviceID int) (*domain.AuditRecord, error) {
	var rec domain.AuditRecord
	if err := c.get(ctx, "/api/v1/audit-records/"+strconv.Itoa(deviceID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func priceTablePath(modelID, capacityID int, channel domain.Channel) string {
	p := fmt.Sprintf("/api/v1/price-tables/%d/%d", modelID, capacityID)
	if channel != "" {
		p += "?channel=" + url.QueryEscape(string(channel))
	}
	return p
}
