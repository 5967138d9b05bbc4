package v1

import (
	"errors"
	"net/http"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/delivery/http/middleware"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/usecase"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"

	"github.com/shopspring/decimal"
)

type AdminFreightHandler struct {
	freightUC *usecase.FreightUsecase
}

func NewAdminFreightHandler(uc *usecase.FreightUsecase) *AdminFreightHandler {
	return &AdminFreightHandler{freightUC: uc}
}

type updateConfigRequest struct {
	domain.FreightConfigCandidate
	// Version is the version the administrator last loaded, 0 before the first save.
	Version *int64 `json:"version" validate:"required,min=0"`
}

type defaultsRequest struct {
	LocalRate domain.RawAmount `json:"localRate"`
}

type defaultsResponse struct {
	LocalRate string                          `json:"localRate"`
	ZoneCosts map[domain.Zone]decimal.Decimal `json:"zoneCosts"`
}

// GET /api/v1/admin/freight/config
func (h *AdminFreightHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.freightUC.GetConfig(r.Context())
	if err != nil {
		writeFreightError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, http.StatusOK, cfg)
}

// PUT /api/v1/admin/freight/config
func (h *AdminFreightHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := ""
	if user := middleware.UserFromContext(r.Context()); user != nil {
		userID = user.ID
	}

	cfg, result, err := h.freightUC.UpdateConfig(r.Context(), req.FreightConfigCandidate, *req.Version, userID)
	if err != nil {
		if errors.Is(err, domain.ErrValidationFailed) {
			utils.WriteJSON(w, http.StatusBadRequest, result)
			return
		}
		writeFreightError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cfg)
}

// POST /api/v1/admin/freight/validate
func (h *AdminFreightHandler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	var candidate domain.FreightConfigCandidate
	if err := utils.DecodeJSON(w, r, &candidate); err != nil {
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.freightUC.ValidateConfig(candidate))
}

// POST /api/v1/admin/freight/defaults
func (h *AdminFreightHandler) DeriveDefaults(w http.ResponseWriter, r *http.Request) {
	var req defaultsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	costs, err := h.freightUC.DeriveDefaults(string(req.LocalRate))
	if err != nil {
		writeFreightError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, defaultsResponse{
		LocalRate: string(req.LocalRate),
		ZoneCosts: costs,
	})
}
