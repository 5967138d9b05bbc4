package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// The store holds a single configuration row with id 1.
const configRowID = 1

type freightConfigRepository struct {
	db *pgxpool.Pool
}

func NewFreightConfigRepository(db *pgxpool.Pool) domain.FreightConfigRepository {
	return &freightConfigRepository{db: db}
}

func (r *freightConfigRepository) GetFreightConfig(ctx context.Context) (*domain.FreightConfig, error) {
	const q = `
SELECT zone_costs::text, is_free_freight_enabled, threshold_local::text, threshold_national::text,
       threshold_international::text, local_zone_city, currency, version, updated_at, updated_by
FROM freight_config
WHERE id = $1
`
	var (
		row      configRow
		costsRaw string
	)
	err := r.db.QueryRow(ctx, q, configRowID).Scan(
		&costsRaw, &row.enabled, &row.local, &row.national,
		&row.international, &row.city, &row.currency, &row.version, &row.updatedAt, &row.updatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFreightConfigNotFound
		}
		return nil, fmt.Errorf("select freight config: %w", err)
	}
	row.costs = costsRaw
	return row.toDomain()
}

// SaveFreightConfig writes cfg under a row lock. The first write inserts the
// row with version 1; later writes bump the version by one.
func (r *freightConfigRepository) SaveFreightConfig(ctx context.Context, cfg *domain.FreightConfig, expectedVersion int64) (*domain.FreightConfig, error) {
	costs, err := encodeCosts(cfg.ZoneCosts)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx, `SELECT version FROM freight_config WHERE id = $1 FOR UPDATE`, configRowID).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		current = 0
	case err != nil:
		return nil, fmt.Errorf("lock freight config: %w", err)
	}

	if current != expectedVersion {
		return nil, fmt.Errorf("%w: stored version %d, expected %d", domain.ErrVersionConflict, current, expectedVersion)
	}

	updatedAt := cfg.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	args := []any{
		configRowID, costs, cfg.IsFreeFreightEnabled,
		cfg.ThresholdLocal.StringFixed(2), cfg.ThresholdNational.StringFixed(2), cfg.ThresholdInternational.StringFixed(2),
		cfg.LocalZoneCity, cfg.Currency, updatedAt, cfg.UpdatedBy,
	}

	var version int64
	if current == 0 {
		const insert = `
INSERT INTO freight_config (id, zone_costs, is_free_freight_enabled, threshold_local, threshold_national,
                            threshold_international, local_zone_city, currency, updated_at, updated_by, version)
VALUES ($1, $2::jsonb, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9, $10, 1)
ON CONFLICT (id) DO NOTHING
RETURNING version
`
		err = tx.QueryRow(ctx, insert, args...).Scan(&version)
		if errors.Is(err, pgx.ErrNoRows) {
			// Another writer created the row after our lock attempt found nothing.
			return nil, fmt.Errorf("%w: configuration created concurrently", domain.ErrVersionConflict)
		}
	} else {
		const update = `
UPDATE freight_config
SET zone_costs = $2::jsonb,
    is_free_freight_enabled = $3,
    threshold_local = $4::numeric,
    threshold_national = $5::numeric,
    threshold_international = $6::numeric,
    local_zone_city = $7,
    currency = $8,
    updated_at = $9,
    updated_by = $10,
    version = version + 1
WHERE id = $1
RETURNING version
`
		err = tx.QueryRow(ctx, update, args...).Scan(&version)
	}
	if err != nil {
		return nil, fmt.Errorf("save freight config: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit freight config: %w", err)
	}

	saved := cfg.Clone()
	saved.Version = version
	saved.UpdatedAt = updatedAt
	return saved, nil
}

type configRow struct {
	costs         string
	enabled       bool
	local         string
	national      string
	international string
	city          string
	currency      string
	version       int64
	updatedAt     time.Time
	updatedBy     string
}

func (r configRow) toDomain() (*domain.FreightConfig, error) {
	costs, err := decodeCosts(r.costs)
	if err != nil {
		return nil, err
	}
	local, err := decimal.NewFromString(r.local)
	if err != nil {
		return nil, fmt.Errorf("threshold_local: %w", err)
	}
	national, err := decimal.NewFromString(r.national)
	if err != nil {
		return nil, fmt.Errorf("threshold_national: %w", err)
	}
	international, err := decimal.NewFromString(r.international)
	if err != nil {
		return nil, fmt.Errorf("threshold_international: %w", err)
	}
	return &domain.FreightConfig{
		ZoneCosts:              costs,
		IsFreeFreightEnabled:   r.enabled,
		ThresholdLocal:         local,
		ThresholdNational:      national,
		ThresholdInternational: international,
		LocalZoneCity:          r.city,
		Currency:               r.currency,
		Version:                r.version,
		UpdatedAt:              r.updatedAt.UTC(),
		UpdatedBy:              r.updatedBy,
	}, nil
}

// Zone costs are stored as a JSON object of decimal strings, e.g. {"local": "10.00"}.
func encodeCosts(costs map[domain.Zone]decimal.Decimal) (string, error) {
	out := make(map[string]string, len(costs))
	for zone, cost := range costs {
		out[string(zone)] = cost.StringFixed(2)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode zone costs: %w", err)
	}
	return string(b), nil
}

func decodeCosts(raw string) (map[domain.Zone]decimal.Decimal, error) {
	var in map[string]string
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decode zone costs: %w", err)
	}
	out := make(map[domain.Zone]decimal.Decimal, len(in))
	for zone, s := range in {
		cost, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("zone cost %s: %w", zone, err)
		}
		out[domain.Zone(zone)] = cost
	}
	return out, nil
}
