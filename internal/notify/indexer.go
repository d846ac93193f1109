package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/luisscruza/variantbox/internal/common/logger"
)

// Indexer mirrors stored requests into Elasticsearch so the admin surface
// can search them. Indexing is best-effort and runs off the response path;
// the database row is the source of truth.
type Indexer struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(es *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "notify.indexer", "index": index}),
	}
}

// Index writes one request document keyed by its row id.
func (i *Indexer) Index(ctx context.Context, req *NotificationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	res, err := i.es.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(strconv.FormatInt(req.ID, 10)),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request: %s", res.Status())
	}
	return nil
}
