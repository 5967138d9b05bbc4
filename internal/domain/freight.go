package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Zone is a shipping zone key as stored in freight configuration.
type Zone string

// Valid reports whether z is one of the fixed shipping zones.
func (z Zone) Valid() bool {
	for _, known := range AllZones {
		if z == known {
			return true
		}
	}
	return false
}

// ZoneCategory selects which free freight threshold applies to a zone.
type ZoneCategory string

// Address is a resolved shipping address. It is transient input to zone
// resolution and is never persisted by the freight module.
type Address struct {
	Country          string `json:"country" validate:"max=100"`
	City             string `json:"city" validate:"max=120"`
	State            string `json:"state" validate:"max=120"`
	PostalCode       string `json:"postalCode" validate:"max=16"`
	FormattedAddress string `json:"formattedAddress,omitempty" validate:"max=500"`
}

// FreightConfig is the singleton freight configuration of the store.
// A loaded config is a point-in-time snapshot: callers must Clone before mutating.
type FreightConfig struct {
	ZoneCosts              map[Zone]decimal.Decimal `json:"zoneCosts"`
	IsFreeFreightEnabled   bool                     `json:"isFreeFreightEnabled"`
	ThresholdLocal         decimal.Decimal          `json:"thresholdLocal"`
	ThresholdNational      decimal.Decimal          `json:"thresholdNational"`
	ThresholdInternational decimal.Decimal          `json:"thresholdInternational"`
	LocalZoneCity          string                   `json:"localZoneCity"`
	Currency               string                   `json:"currency"`
	Version                int64                    `json:"version"`
	UpdatedAt              time.Time                `json:"updatedAt"`
	UpdatedBy              string                   `json:"updatedBy,omitempty"`
}

// Cost returns the configured base cost of a zone and whether one is set.
func (c *FreightConfig) Cost(zone Zone) (decimal.Decimal, bool) {
	if c.ZoneCosts == nil {
		return decimal.Zero, false
	}
	cost, ok := c.ZoneCosts[zone]
	return cost, ok
}

// Threshold returns the free freight threshold for a category.
func (c *FreightConfig) Threshold(category ZoneCategory) decimal.Decimal {
	switch category {
	case CategoryLocal:
		return c.ThresholdLocal
	case CategoryNational:
		return c.ThresholdNational
	default:
		return c.ThresholdInternational
	}
}

// Clone returns a deep copy so cached snapshots are never shared mutably.
func (c *FreightConfig) Clone() *FreightConfig {
	out := *c
	out.ZoneCosts = make(map[Zone]decimal.Decimal, len(c.ZoneCosts))
	for zone, cost := range c.ZoneCosts {
		out.ZoneCosts[zone] = cost
	}
	return &out
}

// FreightConfigCandidate is the raw configuration submitted by an administrator.
// Amounts are kept as received so that non-numeric input can be reported per field.
type FreightConfigCandidate struct {
	ZoneCosts              map[Zone]RawAmount `json:"zoneCosts"`
	IsFreeFreightEnabled   bool               `json:"isFreeFreightEnabled"`
	ThresholdLocal         RawAmount          `json:"thresholdLocal"`
	ThresholdNational      RawAmount          `json:"thresholdNational"`
	ThresholdInternational RawAmount          `json:"thresholdInternational"`
	LocalZoneCity          string             `json:"localZoneCity"`
}

// FreightCostResult is the freight decision for one order. It is computed
// fresh on every calculation and never persisted.
type FreightCostResult struct {
	Zone                 Zone            `json:"zone"`
	ZoneName             string          `json:"zoneName"`
	Category             ZoneCategory    `json:"category"`
	BaseCost             decimal.Decimal `json:"baseCost"`
	IsFreeFreight        bool            `json:"isFreeFreight"`
	FreightCost          decimal.Decimal `json:"freightCost"`
	AmountForFreeFreight decimal.Decimal `json:"amountForFreeFreight"`
	AppliedThreshold     decimal.Decimal `json:"appliedThreshold"`
	Currency             string          `json:"currency"`
}

// ValidationResult is the full outcome of a configuration validation,
// one entry per invalid field.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ZoneInfo describes a zone for UIs and the defaults engine.
type ZoneInfo struct {
	Zone       Zone            `json:"zone"`
	Name       string          `json:"name"`
	Category   ZoneCategory    `json:"category"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type FreightConfigRepository interface {
	GetFreightConfig(ctx context.Context) (*FreightConfig, error)
	// SaveFreightConfig persists cfg only if the stored version equals expectedVersion
	// (0 when nothing is stored yet) and returns the stored record with its new version.
	SaveFreightConfig(ctx context.Context, cfg *FreightConfig, expectedVersion int64) (*FreightConfig, error)
}
