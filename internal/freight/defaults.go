package freight

import (
	"fmt"
	"strings"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultsEngine derives per-zone costs from the local rate.
type DefaultsEngine struct {
	multipliers map[domain.Zone]decimal.Decimal
}

// NewDefaultsEngine copies multipliers; the local zone is ignored if present.
func NewDefaultsEngine(multipliers map[domain.Zone]decimal.Decimal) *DefaultsEngine {
	m := make(map[domain.Zone]decimal.Decimal, len(multipliers))
	for zone, factor := range multipliers {
		if zone == domain.ZoneLocal {
			continue
		}
		m[zone] = factor
	}
	return &DefaultsEngine{multipliers: m}
}

// Derive returns the cost of every zone: local is localRate itself and every
// other zone is localRate times its multiplier, rounded to 2 decimal places.
func (e *DefaultsEngine) Derive(localRate decimal.Decimal) (map[domain.Zone]decimal.Decimal, error) {
	if !localRate.IsPositive() {
		return nil, fmt.Errorf("%w: local rate must be greater than 0", domain.ErrInvalidLocalRate)
	}

	costs := make(map[domain.Zone]decimal.Decimal, len(e.multipliers)+1)
	costs[domain.ZoneLocal] = localRate.Round(2)
	for zone, factor := range e.multipliers {
		costs[zone] = localRate.Mul(factor).Round(2)
	}
	return costs, nil
}

// DeriveRaw parses the local rate as submitted by a client and derives from it.
func (e *DefaultsEngine) DeriveRaw(localRate string) (map[domain.Zone]decimal.Decimal, error) {
	rate, err := domain.ParseAmount(localRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q %v", domain.ErrInvalidLocalRate, strings.TrimSpace(localRate), err)
	}
	return e.Derive(rate)
}
