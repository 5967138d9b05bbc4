package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/freight"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/cache"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/logger"

	"github.com/shopspring/decimal"
)

// QuoteReq is one checkout freight quote. A non-empty Zone is a manual
// selection and skips address resolution.
type QuoteReq struct {
	Address  domain.Address
	Subtotal decimal.Decimal
	Zone     domain.Zone
}

// FreightOptions carries the tunables the usecase needs from config.
type FreightOptions struct {
	ConfigTTL time.Duration
	ZonesTTL  time.Duration
}

type FreightUsecase struct {
	repo       domain.FreightConfigRepository
	cache      cache.CacheService
	table      *freight.ZoneTable
	resolver   *freight.Resolver
	calculator *freight.Calculator
	engine     *freight.DefaultsEngine
	validator  *freight.Validator
	opts       FreightOptions
}

func NewFreightUsecase(
	repo domain.FreightConfigRepository,
	cache cache.CacheService,
	table *freight.ZoneTable,
	resolver *freight.Resolver,
	validator *freight.Validator,
	opts FreightOptions,
) *FreightUsecase {
	return &FreightUsecase{
		repo:       repo,
		cache:      cache,
		table:      table,
		resolver:   resolver,
		calculator: freight.NewCalculator(table),
		engine:     freight.NewDefaultsEngine(table.Multipliers()),
		validator:  validator,
		opts:       opts,
	}
}

// GetConfig returns the current configuration snapshot. The returned value
// is a copy and may be mutated by the caller.
func (uc *FreightUsecase) GetConfig(ctx context.Context) (*domain.FreightConfig, error) {
	if val, found := uc.cache.Get(cache.KeyFreightConfig); found {
		if cfg, ok := val.(*domain.FreightConfig); ok {
			return cfg.Clone(), nil
		}
	}

	cfg, err := uc.repo.GetFreightConfig(ctx)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(cache.KeyFreightConfig, cfg.Clone(), uc.opts.ConfigTTL)
	return cfg, nil
}

// ResolveZone classifies addr using the local city of the stored configuration,
// or the default local city when none is stored yet.
func (uc *FreightUsecase) ResolveZone(ctx context.Context, addr domain.Address) (domain.Zone, error) {
	cfg, err := uc.GetConfig(ctx)
	if err != nil && !errors.Is(err, domain.ErrFreightConfigNotFound) {
		return "", err
	}
	return uc.resolverFor(cfg).Resolve(addr)
}

// Quote resolves the zone (unless chosen manually) and prices freight.
func (uc *FreightUsecase) Quote(ctx context.Context, req QuoteReq) (*domain.FreightCostResult, error) {
	log := logger.WithContext(ctx)

	cfg, err := uc.GetConfig(ctx)
	if err != nil && !errors.Is(err, domain.ErrFreightConfigNotFound) {
		return nil, err
	}

	// An unsupported country is reported even before a config exists.
	zone := req.Zone
	if zone == "" {
		zone, err = uc.resolverFor(cfg).Resolve(req.Address)
		if err != nil {
			return nil, err
		}
	} else if !zone.Valid() {
		return nil, domain.NewInputError("zone", fmt.Sprintf("unknown shipping zone %q", zone))
	}

	if cfg == nil {
		log.Error().Str("zone", string(zone)).Msg("freight quote requested before any configuration was saved")
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigurationIncomplete, domain.ErrFreightConfigNotFound)
	}

	result, err := uc.calculator.Calculate(zone, req.Subtotal, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrConfigurationIncomplete) {
			log.Error().Err(err).Str("zone", string(zone)).Int64("config_version", cfg.Version).Msg("freight configuration incomplete")
		}
		return nil, err
	}

	log.Debug().
		Str("zone", string(result.Zone)).
		Str("subtotal", req.Subtotal.String()).
		Bool("free", result.IsFreeFreight).
		Msg("freight quoted")
	return result, nil
}

// DeriveDefaults suggests every zone cost from a local rate.
func (uc *FreightUsecase) DeriveDefaults(localRate string) (map[domain.Zone]decimal.Decimal, error) {
	return uc.engine.DeriveRaw(localRate)
}

// ValidateConfig checks a candidate without saving anything.
func (uc *FreightUsecase) ValidateConfig(c domain.FreightConfigCandidate) domain.ValidationResult {
	return uc.validator.Validate(c)
}

// UpdateConfig validates c, fills defaults and saves it if the stored version
// still equals expectedVersion. On validation failure the result is returned
// together with an error wrapping ErrValidationFailed.
func (uc *FreightUsecase) UpdateConfig(ctx context.Context, c domain.FreightConfigCandidate, expectedVersion int64, userID string) (*domain.FreightConfig, domain.ValidationResult, error) {
	log := logger.WithContext(ctx)

	cfg, result := uc.validator.Build(c, userID)
	if !result.Valid {
		return nil, result, fmt.Errorf("%w: %d invalid field(s)", domain.ErrValidationFailed, len(result.Errors))
	}

	saved, err := uc.repo.SaveFreightConfig(ctx, cfg, expectedVersion)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			log.Warn().Int64("expected_version", expectedVersion).Str("user_id", userID).Msg("freight config update rejected: stale version")
		}
		return nil, result, err
	}

	uc.cache.Delete(cache.KeyFreightConfig)

	log.Info().
		Int64("version", saved.Version).
		Str("user_id", userID).
		Bool("free_freight", saved.IsFreeFreightEnabled).
		Msg("freight configuration updated")
	return saved, result, nil
}

// Zones returns the zone catalog in display order.
func (uc *FreightUsecase) Zones() []domain.ZoneInfo {
	if val, found := uc.cache.Get(cache.KeyZoneCatalog); found {
		if zones, ok := val.([]domain.ZoneInfo); ok {
			return zones
		}
	}

	zones := make([]domain.ZoneInfo, len(uc.table.Zones))
	copy(zones, uc.table.Zones)
	uc.cache.Set(cache.KeyZoneCatalog, zones, uc.opts.ZonesTTL)
	return zones
}

func (uc *FreightUsecase) resolverFor(cfg *domain.FreightConfig) *freight.Resolver {
	if cfg == nil || strings.TrimSpace(cfg.LocalZoneCity) == "" {
		return uc.resolver
	}
	return uc.resolver.WithLocalCity(cfg.LocalZoneCity)
}
