package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	commonerrors "github.com/luisscruza/variantbox/internal/common/errors"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/metrics"
)

const (
	msgAccepted          = "Registration successful"
	msgAlreadyRegistered = "You are already registered for notifications"

	// operatorTimeout bounds the detached notification task.
	operatorTimeout = 30 * time.Second
)

// ProductNamer resolves a product's display name for the operator summary.
type ProductNamer interface {
	ProductName(ctx context.Context, productID int64) string
}

// Service validates and persists notification requests idempotently, then
// dispatches the operator notification asynchronously after the durable
// write commits.
type Service struct {
	store    *Store
	tokens   *TokenIssuer
	products ProductNamer
	notifier OperatorNotifier
	indexer  *Indexer
	logger   logger.Logger

	wg sync.WaitGroup
}

func NewService(store *Store, tokens *TokenIssuer, products ProductNamer, notifier OperatorNotifier, indexer *Indexer, log logger.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		products: products,
		notifier: notifier,
		indexer:  indexer,
		logger:   log.WithFields(map[string]interface{}{"component": "notify.service"}),
	}
}

// Submit processes one notification request. Duplicate submissions on the
// uniqueness key are treated as success, not inserted twice, and trigger no
// second operator notification.
func (s *Service) Submit(ctx context.Context, in *Input) (*Outcome, error) {
	ok, err := s.tokens.Consume(ctx, in.SecurityToken)
	if err != nil {
		metrics.NotifyRequests.WithLabelValues("error").Inc()
		return nil, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Security check failed", err)
	}
	if !ok {
		metrics.NotifyRequests.WithLabelValues("invalid-token").Inc()
		return nil, commonerrors.NewValidation(commonerrors.ErrCodeInvalidToken, "Security verification failed", "")
	}

	if !isValidEmail(in.Email) {
		metrics.NotifyRequests.WithLabelValues("invalid-email").Inc()
		return nil, commonerrors.NewValidation(commonerrors.ErrCodeInvalidEmail, "Invalid email address", "")
	}

	if in.ProductID <= 0 {
		metrics.NotifyRequests.WithLabelValues("invalid-product").Inc()
		return nil, commonerrors.NewValidation(commonerrors.ErrCodeInvalidProduct, "Invalid product", "")
	}

	exists, err := s.store.Exists(ctx, in.Email, in.ProductID, in.Attribute, in.Value)
	if err != nil {
		metrics.NotifyRequests.WithLabelValues("error").Inc()
		return nil, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to save the request", err)
	}
	if exists {
		s.logger.Info("duplicate request treated as success", map[string]interface{}{
			"email":     in.Email,
			"productId": in.ProductID,
			"attribute": in.Attribute,
			"value":     in.Value,
		})
		metrics.NotifyRequests.WithLabelValues("already-registered").Inc()
		return &Outcome{Status: StatusAlreadyRegistered, Message: msgAlreadyRegistered}, nil
	}

	req := &NotificationRequest{
		Email:       in.Email,
		ProductID:   in.ProductID,
		VariationID: in.VariationID,
		Attribute:   in.Attribute,
		Value:       in.Value,
		Label:       in.Label,
		RequestedAt: time.Now().UTC(),
	}

	id, err := s.store.Insert(ctx, req)
	if err != nil {
		metrics.NotifyRequests.WithLabelValues("error").Inc()
		return nil, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseInsertFailed, "Failed to save the request", err)
	}
	req.ID = id

	s.logger.Info("notification request stored", map[string]interface{}{
		"requestId": id,
		"productId": in.ProductID,
		"attribute": in.Attribute,
		"value":     in.Value,
	})
	metrics.NotifyRequests.WithLabelValues("accepted").Inc()

	s.dispatchOperatorTasks(req)

	return &Outcome{Status: StatusAccepted, Message: msgAccepted, ID: id}, nil
}

// dispatchOperatorTasks runs the best-effort side channels off the request
// path: the operator notification and the search-index mirror. Failures are
// logged, never surfaced.
func (s *Service) dispatchOperatorTasks(req *NotificationRequest) {
	if s.notifier == nil && s.indexer == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), operatorTimeout)
		defer cancel()

		if s.notifier != nil {
			productName := fmt.Sprintf("Product #%d", req.ProductID)
			if s.products != nil {
				productName = s.products.ProductName(ctx, req.ProductID)
			}
			if err := s.notifier.Notify(ctx, req, productName); err != nil {
				s.logger.Warn("operator notification failed", map[string]interface{}{
					"requestId": req.ID,
					"provider":  s.notifier.Provider(),
					"error":     err.Error(),
				})
				metrics.OperatorNotifications.WithLabelValues(s.notifier.Provider(), "failed").Inc()
			} else {
				metrics.OperatorNotifications.WithLabelValues(s.notifier.Provider(), "sent").Inc()
			}
		}

		if s.indexer != nil {
			if err := s.indexer.Index(ctx, req); err != nil {
				s.logger.Warn("search index mirror failed", map[string]interface{}{
					"requestId": req.ID,
					"error":     err.Error(),
				})
			}
		}
	}()
}

// Close drains in-flight operator tasks; used on graceful shutdown.
func (s *Service) Close() {
	s.wg.Wait()
}
