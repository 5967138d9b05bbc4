package v1

import (
	"net/http"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/usecase"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"
)

type FreightHandler struct {
	freightUC *usecase.FreightUsecase
}

func NewFreightHandler(uc *usecase.FreightUsecase) *FreightHandler {
	return &FreightHandler{freightUC: uc}
}

type zoneRequest struct {
	Address domain.Address `json:"address"`
}

type zoneResponse struct {
	Zone     domain.Zone         `json:"zone"`
	ZoneName string              `json:"zoneName"`
	Category domain.ZoneCategory `json:"category"`
}

type quoteRequest struct {
	Address  domain.Address   `json:"address"`
	Subtotal domain.RawAmount `json:"subtotal"`
	Zone     string           `json:"zone,omitempty" validate:"omitempty,oneof=local north_island south_island intl_asia intl_north_america intl_europe intl_africa intl_latin_america"`
}

// displayAmounts are the presentation strings of a quote, e.g. "NZD $12.34".
type displayAmounts struct {
	BaseCost             string `json:"baseCost"`
	FreightCost          string `json:"freightCost"`
	AmountForFreeFreight string `json:"amountForFreeFreight"`
	AppliedThreshold     string `json:"appliedThreshold"`
}

type quoteResponse struct {
	domain.FreightCostResult
	Display displayAmounts `json:"display"`
}

// GET /api/v1/freight/zones
func (h *FreightHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"zones": h.freightUC.Zones(),
	})
}

// POST /api/v1/freight/zone
func (h *FreightHandler) ResolveZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	zone, err := h.freightUC.ResolveZone(r.Context(), req.Address)
	if err != nil {
		writeFreightError(w, r, err)
		return
	}

	resp := zoneResponse{Zone: zone}
	for _, info := range h.freightUC.Zones() {
		if info.Zone == zone {
			resp.ZoneName = info.Name
			resp.Category = info.Category
			break
		}
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// POST /api/v1/freight/quote
func (h *FreightHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if req.Subtotal.IsBlank() {
		writeFreightError(w, r, domain.NewInputError("subtotal", "subtotal is required"))
		return
	}
	subtotal, err := req.Subtotal.Decimal()
	if err != nil {
		writeFreightError(w, r, domain.NewInputError("subtotal", "subtotal "+err.Error()))
		return
	}

	result, err := h.freightUC.Quote(r.Context(), usecase.QuoteReq{
		Address:  req.Address,
		Subtotal: subtotal,
		Zone:     domain.Zone(req.Zone),
	})
	if err != nil {
		writeFreightError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, quoteResponse{
		FreightCostResult: *result,
		Display: displayAmounts{
			BaseCost:             utils.FormatMoney(result.Currency, result.BaseCost),
			FreightCost:          utils.FormatMoney(result.Currency, result.FreightCost),
			AmountForFreeFreight: utils.FormatMoney(result.Currency, result.AmountForFreeFreight),
			AppliedThreshold:     utils.FormatMoney(result.Currency, result.AppliedThreshold),
		},
	})
}
