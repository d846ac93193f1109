package admin

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	commonerrors "github.com/luisscruza/variantbox/internal/common/errors"
	"github.com/luisscruza/variantbox/internal/notify"
)

var csvHeader = []string{"id", "email", "product_id", "variation_id", "attribute", "value", "label", "requested_at", "notified"}

// exportCSV streams every request, newest first, for use with mailing
// tools.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store.List(r.Context(), notify.FilterAll, 0, 0)
	if err != nil {
		h.logger.Error("export failed", map[string]interface{}{"error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to export requests", err))
		return
	}

	filename := fmt.Sprintf("notify-requests-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, req := range requests {
		variationID := ""
		if req.VariationID != 0 {
			variationID = strconv.FormatInt(req.VariationID, 10)
		}
		_ = cw.Write([]string{
			strconv.FormatInt(req.ID, 10),
			req.Email,
			strconv.FormatInt(req.ProductID, 10),
			variationID,
			req.Attribute,
			req.Value,
			req.Label,
			req.RequestedAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(req.Notified),
		})
	}
	cw.Flush()
}
