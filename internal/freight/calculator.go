package freight

import (
	"fmt"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	"github.com/shopspring/decimal"
)

// Calculator turns a zone, an order subtotal and a freight configuration into
// a freight decision.
type Calculator struct {
	table *ZoneTable
}

func NewCalculator(table *ZoneTable) *Calculator {
	return &Calculator{table: table}
}

// Calculate prices freight for one order. The free freight boundary is
// inclusive: a subtotal equal to the threshold ships free.
func (c *Calculator) Calculate(zone domain.Zone, subtotal decimal.Decimal, cfg *domain.FreightConfig) (*domain.FreightCostResult, error) {
	info, ok := c.table.Info(zone)
	if !ok {
		return nil, domain.NewInputError("zone", fmt.Sprintf("unknown shipping zone %q", zone))
	}
	if subtotal.IsNegative() {
		return nil, domain.NewInputError("subtotal", "subtotal must not be negative")
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration loaded", domain.ErrConfigurationIncomplete)
	}

	baseCost, ok := cfg.Cost(zone)
	if !ok {
		return nil, fmt.Errorf("%w: zone %s has no cost", domain.ErrConfigurationIncomplete, zone)
	}

	result := &domain.FreightCostResult{
		Zone:                 zone,
		ZoneName:             c.zoneName(info, cfg),
		Category:             info.Category,
		BaseCost:             baseCost,
		FreightCost:          baseCost,
		AmountForFreeFreight: decimal.Zero,
		AppliedThreshold:     decimal.Zero,
		Currency:             cfg.Currency,
	}

	if !cfg.IsFreeFreightEnabled {
		return result, nil
	}

	threshold := cfg.Threshold(info.Category)
	result.AppliedThreshold = threshold
	if subtotal.GreaterThanOrEqual(threshold) {
		result.IsFreeFreight = true
		result.FreightCost = decimal.Zero
		return result, nil
	}

	result.AmountForFreeFreight = threshold.Sub(subtotal)
	return result, nil
}

func (c *Calculator) zoneName(info domain.ZoneInfo, cfg *domain.FreightConfig) string {
	if info.Zone == domain.ZoneLocal && cfg.LocalZoneCity != "" {
		return fmt.Sprintf("%s (%s)", info.Name, cfg.LocalZoneCity)
	}
	return info.Name
}
