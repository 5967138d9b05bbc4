package freight

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	"github.com/shopspring/decimal"
)

// Field keys used in ValidationResult.Errors.
const (
	FieldThresholdLocal         = "thresholdLocal"
	FieldThresholdNational      = "thresholdNational"
	FieldThresholdInternational = "thresholdInternational"
	FieldLocalZoneCity          = "localZoneCity"
)

const maxCityLength = 120

// CostField returns the error key of a zone cost.
func CostField(zone domain.Zone) string {
	return "zoneCosts." + string(zone)
}

// ThresholdDefaults are used for thresholds the administrator leaves blank.
type ThresholdDefaults struct {
	Local         decimal.Decimal
	National      decimal.Decimal
	International decimal.Decimal
}

// Validator checks administrator input and builds the persisted configuration.
type Validator struct {
	defaults  ThresholdDefaults
	engine    *DefaultsEngine
	localCity string
	currency  string
}

// NewValidator wires threshold defaults and the defaults engine used by Build.
// localCity and currency apply when the candidate leaves them blank.
func NewValidator(defaults ThresholdDefaults, engine *DefaultsEngine, localCity, currency string) *Validator {
	if localCity == "" {
		localCity = domain.DefaultLocalZoneCity
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Validator{defaults: defaults, engine: engine, localCity: localCity, currency: currency}
}

// Validate reports every invalid field of c. It never applies anything.
func (v *Validator) Validate(c domain.FreightConfigCandidate) domain.ValidationResult {
	errs := make(map[string]string)

	local, ok := c.ZoneCosts[domain.ZoneLocal]
	switch {
	case !ok || local.IsBlank():
		errs[CostField(domain.ZoneLocal)] = "local freight cost is required"
	default:
		if amount, err := local.Decimal(); err != nil {
			errs[CostField(domain.ZoneLocal)] = err.Error()
		} else if !amount.IsPositive() {
			errs[CostField(domain.ZoneLocal)] = "must be greater than 0"
		} else if v.derivedTooLarge(amount, c.ZoneCosts) {
			errs[CostField(domain.ZoneLocal)] = "derived zone costs " + domain.ErrAmountTooLarge.Error()
		}
	}

	for zone, raw := range c.ZoneCosts {
		if zone == domain.ZoneLocal {
			continue
		}
		if !zone.Valid() {
			errs[CostField(zone)] = "unknown shipping zone"
			continue
		}
		if raw.IsBlank() {
			continue
		}
		if msg := checkNonNegative(raw); msg != "" {
			errs[CostField(zone)] = msg
		}
	}

	if len(strings.TrimSpace(c.LocalZoneCity)) > maxCityLength {
		errs[FieldLocalZoneCity] = fmt.Sprintf("must be at most %d characters", maxCityLength)
	}

	if c.IsFreeFreightEnabled {
		v.validateThresholds(c, errs)
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateThresholds checks each provided threshold and the ordering
// local <= national <= international, substituting defaults for blanks.
// An ordering violation is reported on the smaller-should-be field only.
func (v *Validator) validateThresholds(c domain.FreightConfigCandidate, errs map[string]string) {
	type slot struct {
		field string
		raw   domain.RawAmount
		def   decimal.Decimal
		value decimal.Decimal
		ok    bool
	}
	slots := []*slot{
		{field: FieldThresholdLocal, raw: c.ThresholdLocal, def: v.defaults.Local},
		{field: FieldThresholdNational, raw: c.ThresholdNational, def: v.defaults.National},
		{field: FieldThresholdInternational, raw: c.ThresholdInternational, def: v.defaults.International},
	}

	for _, s := range slots {
		if s.raw.IsBlank() {
			s.value, s.ok = s.def, true
			continue
		}
		if msg := checkNonNegative(s.raw); msg != "" {
			errs[s.field] = msg
			continue
		}
		s.value, _ = s.raw.Decimal()
		s.ok = true
	}

	local, national, international := slots[0], slots[1], slots[2]
	if local.ok && national.ok && local.value.GreaterThan(national.value) {
		errs[local.field] = "local threshold must not exceed the national threshold"
	}
	if national.ok && international.ok && national.value.GreaterThan(international.value) {
		errs[national.field] = "national threshold must not exceed the international threshold"
	}
}

// Build validates c and, when valid, produces the configuration to persist:
// blank zone costs are derived from the local cost, blank thresholds take
// their defaults. A nil config is returned with the validation result otherwise.
func (v *Validator) Build(c domain.FreightConfigCandidate, updatedBy string) (*domain.FreightConfig, domain.ValidationResult) {
	result := v.Validate(c)
	if !result.Valid {
		return nil, result
	}

	localRate, _ := c.ZoneCosts[domain.ZoneLocal].Decimal()
	derived, err := v.engine.Derive(localRate)
	if err != nil {
		result.Valid = false
		result.Errors[CostField(domain.ZoneLocal)] = "must be greater than 0"
		return nil, result
	}

	costs := make(map[domain.Zone]decimal.Decimal, len(domain.AllZones))
	for _, zone := range domain.AllZones {
		if raw, ok := c.ZoneCosts[zone]; ok && !raw.IsBlank() {
			amount, _ := raw.Decimal()
			costs[zone] = amount
			continue
		}
		if cost, ok := derived[zone]; ok {
			costs[zone] = cost
		}
	}

	city := strings.TrimSpace(c.LocalZoneCity)
	if city == "" {
		city = v.localCity
	}

	return &domain.FreightConfig{
		ZoneCosts:              costs,
		IsFreeFreightEnabled:   c.IsFreeFreightEnabled,
		ThresholdLocal:         amountOr(c.ThresholdLocal, v.defaults.Local),
		ThresholdNational:      amountOr(c.ThresholdNational, v.defaults.National),
		ThresholdInternational: amountOr(c.ThresholdInternational, v.defaults.International),
		LocalZoneCity:          city,
		Currency:               v.currency,
		UpdatedAt:              time.Now().UTC(),
		UpdatedBy:              updatedBy,
	}, result
}

// derivedTooLarge reports whether a zone left blank would derive a cost
// above domain.MaxAmount from local.
func (v *Validator) derivedTooLarge(local decimal.Decimal, provided map[domain.Zone]domain.RawAmount) bool {
	if v.engine == nil {
		return false
	}
	derived, err := v.engine.Derive(local)
	if err != nil {
		return false
	}
	for zone, cost := range derived {
		if raw, ok := provided[zone]; ok && !raw.IsBlank() {
			continue
		}
		if cost.GreaterThan(domain.MaxAmount) {
			return true
		}
	}
	return false
}

func checkNonNegative(raw domain.RawAmount) string {
	amount, err := raw.Decimal()
	if err != nil {
		return err.Error()
	}
	if amount.IsNegative() {
		return "must not be negative"
	}
	return ""
}

// amountOr parses raw, falling back to def for blank, non-numeric or
// negative input. Thresholds are only validated while free freight is
// enabled, so a disabled config may carry unusable values.
func amountOr(raw domain.RawAmount, def decimal.Decimal) decimal.Decimal {
	if raw.IsBlank() {
		return def
	}
	amount, err := raw.Decimal()
	if err != nil || amount.IsNegative() {
		return def
	}
	return amount
}
