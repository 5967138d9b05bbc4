package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/delivery/http/middleware"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/freight"
	memcache "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/infrastructure/cache"
	boltrepo "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/repository/bolt"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/usecase"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const testSecret = "handler-test-secret"

func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()
	store, err := boltrepo.Open(filepath.Join(t.TempDir(), "freight.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	table := freight.DefaultZoneTable()
	validator := freight.NewValidator(freight.ThresholdDefaults{
		Local:         decimal.RequireFromString("100"),
		National:      decimal.RequireFromString("200"),
		International: decimal.RequireFromString("500"),
	}, freight.NewDefaultsEngine(table.Multipliers()), "Tauranga", "NZD")

	uc := usecase.NewFreightUsecase(
		store,
		memcache.NewMemoryCache(time.Minute, time.Minute),
		table,
		freight.NewResolver(table, "Tauranga"),
		validator,
		usecase.FreightOptions{ConfigTTL: time.Minute, ZonesTTL: time.Minute},
	)

	freightHandler := NewFreightHandler(uc)
	adminHandler := NewAdminFreightHandler(uc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/freight/zones", freightHandler.ListZones)
	mux.HandleFunc("POST /api/v1/freight/zone", freightHandler.ResolveZone)
	mux.HandleFunc("POST /api/v1/freight/quote", freightHandler.Quote)
	mux.Handle("GET /api/v1/admin/freight/config", middleware.RequireAdmin(adminHandler.GetConfig))
	mux.Handle("PUT /api/v1/admin/freight/config", middleware.RequireAdmin(adminHandler.UpdateConfig))
	mux.Handle("POST /api/v1/admin/freight/validate", middleware.RequireAdmin(adminHandler.ValidateConfig))
	mux.Handle("POST /api/v1/admin/freight/defaults", middleware.RequireAdmin(adminHandler.DeriveDefaults))
	return mux
}

func adminToken(t *testing.T) string {
	t.Helper()
	utils.SetSecret(testSecret)
	token, err := utils.GenerateJWT("admin-1", "admin@example.com", domain.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func do(t *testing.T, mux *http.ServeMux, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func saveConfig(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	rec := do(t, mux, http.MethodPut, "/api/v1/admin/freight/config",
		`{"zoneCosts":{"local":10},"isFreeFreightEnabled":true,"version":0}`, adminToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("save config: %d %s", rec.Code, rec.Body.String())
	}
}

func TestListZones(t *testing.T) {
	mux := newTestServer(t)
	rec := do(t, mux, http.MethodGet, "/api/v1/freight/zones", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body struct {
		Zones []domain.ZoneInfo `json:"zones"`
	}
	decodeBody(t, rec, &body)
	if len(body.Zones) != len(domain.AllZones) {
		t.Fatalf("expected %d zones, got %d", len(domain.AllZones), len(body.Zones))
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected cache header on zone catalog")
	}
}

func TestResolveZoneEndpoint(t *testing.T) {
	mux := newTestServer(t)

	rec := do(t, mux, http.MethodPost, "/api/v1/freight/zone", `{"address":{"country":"New Zealand","city":"Dunedin"}}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d %s", rec.Code, rec.Body.String())
	}
	var zone zoneResponse
	decodeBody(t, rec, &zone)
	if zone.Zone != domain.ZoneSouthIsland || zone.Category != domain.CategoryNational || zone.ZoneName == "" {
		t.Fatalf("unexpected zone response %+v", zone)
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/zone", `{"address":{"country":"Australia","city":"Sydney"}}`, "")
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), `"code":"unsupported_country"`) {
		t.Fatalf("expected 422 unsupported_country, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/zone", `{"address":{"city":"Tauranga"}}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var fieldErr fieldErrorResponse
	decodeBody(t, rec, &fieldErr)
	if fieldErr.Fields["country"] != "country required" {
		t.Fatalf("expected country required, got %+v", fieldErr)
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/zone", `{"address":{"country":"`+strings.Repeat("x", 101)+`"}}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected oversized country to be rejected, got %d", rec.Code)
	}
}

func TestQuoteBeforeConfigIsUnavailable(t *testing.T) {
	mux := newTestServer(t)
	rec := do(t, mux, http.MethodPost, "/api/v1/freight/quote", `{"address":{"country":"NZ","city":"Tauranga"},"subtotal":50}`, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "not found") {
		t.Fatalf("raw error leaked to the client: %s", rec.Body.String())
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/quote", `{"address":{"country":"Australia"},"subtotal":50}`, "")
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "unsupported_country") {
		t.Fatalf("expected 422 unsupported_country before config, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteEndpoint(t *testing.T) {
	mux := newTestServer(t)
	saveConfig(t, mux)

	rec := do(t, mux, http.MethodPost, "/api/v1/freight/quote", `{"address":{"country":"New Zealand","city":"Tauranga"},"subtotal":"150.00"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d %s", rec.Code, rec.Body.String())
	}
	var quote quoteResponse
	decodeBody(t, rec, &quote)
	if quote.Zone != domain.ZoneLocal || !quote.IsFreeFreight || !quote.FreightCost.IsZero() {
		t.Fatalf("expected free local freight, got %+v", quote)
	}
	if quote.Display.FreightCost != "NZD $0.00" || quote.Display.BaseCost != "NZD $10.00" {
		t.Fatalf("unexpected display amounts %+v", quote.Display)
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/quote", `{"address":{"country":"Germany"},"subtotal":100}`, "")
	decodeBody(t, rec, &quote)
	if quote.Zone != domain.ZoneIntlEurope || !quote.AmountForFreeFreight.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("unexpected europe quote %+v", quote)
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/freight/quote", `{"address":{"country":"Australia"},"subtotal":10,"zone":"intl_asia"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("manual zone quote failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteRejectsBadInput(t *testing.T) {
	mux := newTestServer(t)
	saveConfig(t, mux)

	tests := map[string]string{
		"unknown zone":     `{"address":{"country":"NZ"},"subtotal":10,"zone":"moon"}`,
		"missing subtotal": `{"address":{"country":"NZ"}}`,
		"text subtotal":    `{"address":{"country":"NZ"},"subtotal":"lots"}`,
		"negative":         `{"address":{"country":"NZ"},"subtotal":-5}`,
		"exponent string":  `{"address":{"country":"NZ"},"subtotal":"1e50000000"}`,
		"exponent number":  `{"address":{"country":"NZ"},"subtotal":1e50000000}`,
		"sub-cent":         `{"address":{"country":"NZ"},"subtotal":"10.001"}`,
		"too large":        `{"address":{"country":"NZ"},"subtotal":"99999999999"}`,
		"malformed":        `{"address":`,
	}
	for name, body := range tests {
		rec := do(t, mux, http.MethodPost, "/api/v1/freight/quote", body, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d %s", name, rec.Code, rec.Body.String())
		}
	}
}

func TestAdminConfigLifecycle(t *testing.T) {
	mux := newTestServer(t)
	token := adminToken(t)

	if rec := do(t, mux, http.MethodGet, "/api/v1/admin/freight/config", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodGet, "/api/v1/admin/freight/config", "", token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first save, got %d", rec.Code)
	}

	saveConfig(t, mux)

	rec := do(t, mux, http.MethodGet, "/api/v1/admin/freight/config", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get config: %d %s", rec.Code, rec.Body.String())
	}
	var cfg domain.FreightConfig
	decodeBody(t, rec, &cfg)
	if cfg.Version != 1 || cfg.UpdatedBy != "admin-1" || len(cfg.ZoneCosts) != len(domain.AllZones) {
		t.Fatalf("unexpected stored config %+v", cfg)
	}

	rec = do(t, mux, http.MethodPut, "/api/v1/admin/freight/config", `{"zoneCosts":{"local":12},"version":0}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale version, got %d", rec.Code)
	}

	rec = do(t, mux, http.MethodPut, "/api/v1/admin/freight/config", `{"zoneCosts":{"north_island":12},"version":1}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid candidate, got %d", rec.Code)
	}
	var result domain.ValidationResult
	decodeBody(t, rec, &result)
	if result.Valid || result.Errors[freight.CostField(domain.ZoneLocal)] == "" {
		t.Fatalf("expected local cost error, got %+v", result)
	}

	rec = do(t, mux, http.MethodPut, "/api/v1/admin/freight/config", `{"zoneCosts":{"local":12}}`, token)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"version"`) {
		t.Fatalf("expected missing version to be rejected, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminValidateAndDefaults(t *testing.T) {
	mux := newTestServer(t)
	token := adminToken(t)

	rec := do(t, mux, http.MethodPost, "/api/v1/admin/freight/validate",
		`{"zoneCosts":{"local":"0"},"isFreeFreightEnabled":true,"thresholdLocal":300,"thresholdNational":200}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: %d", rec.Code)
	}
	var result domain.ValidationResult
	decodeBody(t, rec, &result)
	if result.Valid || len(result.Errors) != 2 {
		t.Fatalf("expected two field errors, got %+v", result)
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/admin/freight/defaults", `{"localRate":30}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("defaults: %d %s", rec.Code, rec.Body.String())
	}
	var defaults struct {
		ZoneCosts map[domain.Zone]decimal.Decimal `json:"zoneCosts"`
	}
	decodeBody(t, rec, &defaults)
	if !defaults.ZoneCosts[domain.ZoneSouthIsland].Equal(decimal.RequireFromString("84.90")) {
		t.Fatalf("unexpected south island default %s", defaults.ZoneCosts[domain.ZoneSouthIsland])
	}

	rec = do(t, mux, http.MethodPost, "/api/v1/admin/freight/defaults", `{"localRate":0}`, token)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid_local_rate") {
		t.Fatalf("expected invalid local rate, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler("bolt", nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	down := func(ctx context.Context) error { return errors.New("connection refused") }
	NewHealthHandler("postgres", down).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
