// Package store defines the datastore abstraction for device-grader.
// Business logic depends on the Store interface, never on concrete
// implementations, so engine and handler tests run against mocks.
package store

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserEdited is returned when an automatic save would overwrite an
	// audit record whose price a user set by hand.
	ErrUserEdited = errors.New("audit record was edited by a user")
)

// AuditQuery defines optional filters for audit record listings.
type AuditQuery struct {
	Grade         *string
	LegacyGrade   *string
	EditedOnly    bool
	MinFinalPrice *float64
	Limit         int // default 50
	Offset        int
	OrderBy       string // "updated_at", "precio_final", "device_id"
}

// Store defines all data access operations for device-grader.
type Store interface {
	// Price tables
	GetPriceTable(ctx context.Context, modelID, capacityID int, channel domain.Channel) (*domain.PriceTable, error)
	UpsertPriceTable(ctx context.Context, modelID, capacityID int, channel domain.Channel, raw map[string]any) error

	// Catalog
	ListCatalogModels(ctx context.Context) ([]domain.CatalogModel, error)
	UpsertCatalogModel(ctx context.Context, m *domain.CatalogModel) error

	// Audit records
	GetAuditRecord(ctx context.Context, deviceID int) (*domain.AuditRecord, error)
	SaveAuditRecord(ctx context.Context, rec *domain.AuditRecord) error
	ListAuditRecords(ctx context.Context, q *AuditQuery) ([]domain.AuditRecord, int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
