package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/luisscruza/variantbox/internal/boxes"
	"github.com/luisscruza/variantbox/internal/catalog"
	commonerrors "github.com/luisscruza/variantbox/internal/common/errors"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/validation"
	"github.com/luisscruza/variantbox/internal/notify"
)

type apiHandler struct {
	catalog *catalog.Adapter
	notify  *notify.Service
	tokens  *notify.TokenIssuer
	logger  logger.Logger
}

// issueToken hands out the security token the capture form must echo back.
func (h *apiHandler) issueToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Issue(r.Context())
	if err != nil {
		h.logger.Error("token issue failed", map[string]interface{}{"error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to issue token", err))
		return
	}
	commonerrors.WriteSuccess(w, "", map[string]string{"token": token})
}

// submitNotifyRequest validates the raw payload against the schema, then
// hands the typed input to the service.
func (h *apiHandler) submitNotifyRequest(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeValidationFailed, "Invalid request body", err.Error()))
		return
	}

	result, err := validation.ValidateInput(raw, notify.InputSchema())
	if err != nil {
		h.logger.Error("schema validation errored", map[string]interface{}{"error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeValidationFailed, "Invalid request body", ""))
		return
	}
	if !result.Valid {
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeValidationFailed, validationMessage(result), ""))
		return
	}

	input := decodeInput(raw)
	outcome, err := h.notify.Submit(r.Context(), input)
	if err != nil {
		commonerrors.WriteError(w, err)
		return
	}

	// AlreadyRegistered is a success externally; the distinct message is
	// the only visible difference.
	commonerrors.WriteSuccess(w, outcome.Message, nil)
}

func validationMessage(result *validation.ValidationResult) string {
	if len(result.Errors) == 0 {
		return "Invalid request"
	}
	first := result.Errors[0]
	return "Invalid request: " + first.Field + " " + first.Message
}

func decodeInput(raw map[string]interface{}) *notify.Input {
	in := &notify.Input{}
	if v, ok := raw["securityToken"].(string); ok {
		in.SecurityToken = v
	}
	if v, ok := raw["email"].(string); ok {
		in.Email = v
	}
	if v, ok := raw["productId"].(float64); ok {
		in.ProductID = int64(v)
	}
	if v, ok := raw["variationId"].(float64); ok {
		in.VariationID = int64(v)
	}
	if v, ok := raw["attribute"].(string); ok {
		in.Attribute = v
	}
	if v, ok := raw["value"].(string); ok {
		in.Value = v
	}
	if v, ok := raw["label"].(string); ok {
		in.Label = v
	}
	return in
}

// renderBoxes returns the box markup and flags for a product form.
func (h *apiHandler) renderBoxes(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeInvalidProduct, "Invalid product", ""))
		return
	}

	snap, err := h.catalog.Snapshot(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			commonerrors.WriteError(w, catalog.AsStandardError(err))
			return
		}
		h.logger.Error("snapshot failed", map[string]interface{}{"productId": productID, "error": err.Error()})
		commonerrors.WriteError(w, catalog.AsStandardError(err))
		return
	}

	commonerrors.WriteSuccess(w, "", boxes.RenderProduct(snap))
}
