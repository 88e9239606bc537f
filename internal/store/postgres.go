package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures the connection pool.
type PostgresOption func(*pgxpool.Config)

// WithMaxConns sets the pool size. Values below one are ignored.
func WithMaxConns(n int) PostgresOption {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = int32(n) //nolint:gosec // pool size comes from validated config
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// GetPriceTable loads and normalizes the price table for one
// model/capacity/channel.
func (s *PostgresStore) GetPriceTable(
	ctx context.Context,
	modelID, capacityID int,
	channel domain.Channel,
) (*domain.PriceTable, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, queryGetPriceTable, modelID, capacityID, string(channel)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying price table: %w", err)
	}

	pt, err := pricing.ParsePriceTableJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding price table payload: %w", err)
	}
	return pt, nil
}

// UpsertPriceTable stores a raw price table payload.
func (s *PostgresStore) UpsertPriceTable(
	ctx context.Context,
	modelID, capacityID int,
	channel domain.Channel,
	raw map[string]any,
) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling price table payload: %w", err)
	}

	_, err = s.pool.Exec(ctx, queryUpsertPriceTable, pgx.NamedArgs{
		"model_id":    modelID,
		"capacity_id": capacityID,
		"channel":     string(channel),
		"payload":     payload,
	})
	if err != nil {
		return fmt.Errorf("upserting price table: %w", err)
	}
	return nil
}

// ListCatalogModels returns every model/capacity pair in the catalog.
func (s *PostgresStore) ListCatalogModels(ctx context.Context) ([]domain.CatalogModel, error) {
	rows, err := s.pool.Query(ctx, queryListCatalogModels)
	if err != nil {
		return nil, fmt.Errorf("querying catalog models: %w", err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.CatalogModel])
	if err != nil {
		return nil, fmt.Errorf("scanning catalog models: %w", err)
	}
	return models, nil
}

// UpsertCatalogModel inserts or renames a catalog entry.
func (s *PostgresStore) UpsertCatalogModel(ctx context.Context, m *domain.CatalogModel) error {
	_, err := s.pool.Exec(ctx, queryUpsertCatalogModel, pgx.NamedArgs{
		"model_id":      m.ModelID,
		"capacity_id":   m.CapacityID,
		"model_name":    m.ModelName,
		"capacity_text": m.CapacityText,
	})
	if err != nil {
		return fmt.Errorf("upserting catalog model: %w", err)
	}
	return nil
}

// GetAuditRecord returns the persisted audit record for a device.
func (s *PostgresStore) GetAuditRecord(ctx context.Context, deviceID int) (*domain.AuditRecord, error) {
	rec, err := scanAuditRecord(s.pool.QueryRow(ctx, queryGetAuditRecord, deviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying audit record: %w", err)
	}
	return rec, nil
}

// SaveAuditRecord inserts or replaces the record for rec.DeviceID. It
// returns ErrUserEdited, leaving the stored row untouched, when the stored
// record carries a user-set price and rec does not.
func (s *PostgresStore) SaveAuditRecord(ctx context.Context, rec *domain.AuditRecord) error {
	snapshot := rec.PrecioPorEstado
	if snapshot == nil {
		snapshot = map[string]float64{}
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling price snapshot: %w", err)
	}

	err = s.pool.QueryRow(ctx, querySaveAuditRecord, pgx.NamedArgs{
		"device_id":           rec.DeviceID,
		"estado_valoracion":   string(rec.EstadoValoracion),
		"grade":               string(rec.Grade),
		"precio_final":        rec.PrecioFinal,
		"precio_por_estado":   snapshotJSON,
		"observaciones":       rec.Observaciones,
		"editado_por_usuario": rec.EditadoPorUsuario,
	}).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserEdited
	}
	if err != nil {
		return fmt.Errorf("saving audit record: %w", err)
	}
	return nil
}

// ListAuditRecords returns audit records matching q and the total count.
func (s *PostgresStore) ListAuditRecords(ctx context.Context, q *AuditQuery) ([]domain.AuditRecord, int, error) {
	if q == nil {
		q = &AuditQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit records: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning audit record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating audit records: %w", err)
	}
	return records, total, nil
}

func scanAuditRecord(row pgx.Row) (*domain.AuditRecord, error) {
	var (
		rec          domain.AuditRecord
		legacy       string
		grade        string
		snapshotJSON []byte
	)
	if err := row.Scan(
		&rec.DeviceID, &legacy, &grade, &rec.PrecioFinal,
		&snapshotJSON, &rec.Observaciones, &rec.EditadoPorUsuario, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.EstadoValoracion = domain.LegacyGrade(legacy)
	rec.Grade = domain.Grade(grade)

	if len(snapshotJSON) > 0 {
		if err := json.Unmarshal(snapshotJSON, &rec.PrecioPorEstado); err != nil {
			return nil, fmt.Errorf("unmarshaling price snapshot: %w", err)
		}
	}
	return &rec, nil
}
