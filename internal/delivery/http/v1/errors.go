package v1

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/logger"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const msgFreightUnavailable = "Freight cannot be calculated right now. Please try again later."

type fieldErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// validationFields converts validator errors into field -> message,
// keyed by the json path without the root struct, e.g. "address.city".
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "max":
			out[field] = "must be at most " + fe.Param() + " characters"
		case "oneof":
			out[field] = "must be one of: " + fe.Param()
		case "min":
			out[field] = "must be at least " + fe.Param()
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

func writeValidationError(w http.ResponseWriter, err error) {
	utils.WriteJSON(w, http.StatusBadRequest, fieldErrorResponse{
		Error:  "invalid request",
		Code:   "invalid_input",
		Fields: validationFields(err),
	})
}

// writeFreightError maps domain errors to HTTP responses. Server faults are
// logged and never echoed to the client.
func writeFreightError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		inputErr       *domain.InputError
		unsupportedErr *domain.UnsupportedCountryError
	)

	switch {
	case errors.As(err, &inputErr):
		utils.WriteJSON(w, http.StatusBadRequest, fieldErrorResponse{
			Error:  inputErr.Message,
			Code:   "invalid_input",
			Fields: map[string]string{inputErr.Field: inputErr.Message},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &unsupportedErr):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "We cannot determine a shipping zone for this country. Please select one manually.",
			"code":    "unsupported_country",
			"country": unsupportedErr.Country,
		})
	case errors.Is(err, domain.ErrInvalidLocalRate):
		utils.WriteErrorCode(w, http.StatusBadRequest, "invalid_local_rate", "local rate must be a number greater than 0")
	case errors.Is(err, domain.ErrVersionConflict):
		utils.WriteErrorCode(w, http.StatusConflict, "version_conflict", "The freight configuration was changed by someone else. Reload and try again.")
	case errors.Is(err, domain.ErrFreightConfigNotFound):
		utils.WriteErrorCode(w, http.StatusNotFound, "not_configured", "freight configuration has not been set up")
	case errors.Is(err, domain.ErrConfigurationIncomplete):
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("freight configuration incomplete")
		utils.WriteErrorCode(w, http.StatusServiceUnavailable, "configuration_incomplete", msgFreightUnavailable)
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("freight request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
