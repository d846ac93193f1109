package notify

import (
	"context"

	"github.com/luisscruza/variantbox/internal/common/logger"
)

// LogNotifier writes the operator summary to the service log instead of an
// outbound channel. Used in development and in shops that watch the admin
// surface directly.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.WithFields(map[string]interface{}{"component": "notify.log"})}
}

func (n *LogNotifier) Provider() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, req *NotificationRequest, productName string) error {
	n.logger.Info("back-in-stock notification request", map[string]interface{}{
		"requestId":   req.ID,
		"email":       req.Email,
		"product":     productName,
		"productId":   req.ProductID,
		"variationId": req.VariationID,
		"attribute":   req.Attribute,
		"value":       req.Value,
		"label":       req.Label,
	})
	return nil
}
