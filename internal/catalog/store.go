package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	commonerrors "github.com/luisscruza/variantbox/internal/common/errors"
	"github.com/luisscruza/variantbox/internal/common/logger"
)

var (
	ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
	ErrQueryFailed     = errors.New("DATABASE_QUERY_FAILED")
)

// Store reads catalog data from PostgreSQL.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog.store"}),
	}
}

func (s *Store) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var p Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM products WHERE id = $1`, productID,
	).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return &p, nil
}

// ProductName resolves a display name, falling back to "Product #id" the way
// the admin surface expects when a product row has gone missing.
func (s *Store) ProductName(ctx context.Context, productID int64) string {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Sprintf("Product #%d", productID)
	}
	return p.Name
}

// ListAttributes returns the product's variation attributes with their
// option labels and values, ordered by position.
func (s *Store) ListAttributes(ctx context.Context, productID int64) ([]VariationAttribute, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.name, o.label, o.value
		FROM product_attributes a
		JOIN attribute_options o ON o.attribute_id = a.id
		WHERE a.product_id = $1
		ORDER BY a.position, o.position`, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var attrs []VariationAttribute
	index := map[string]int{}
	for rows.Next() {
		var attrName string
		var opt VariantOption
		if err := rows.Scan(&attrName, &opt.Label, &opt.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		i, ok := index[attrName]
		if !ok {
			attrs = append(attrs, VariationAttribute{Name: attrName})
			i = len(attrs) - 1
			index[attrName] = i
		}
		attrs[i].Options = append(attrs[i].Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return attrs, nil
}

// ListAvailableVariations returns the product's variation combinations with
// their stock flags. Attribute values are stored as a JSONB map keyed by
// attribute name.
func (s *Store) ListAvailableVariations(ctx context.Context, productID int64) ([]Variation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attributes, in_stock
		FROM product_variations
		WHERE product_id = $1
		ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var variations []Variation
	for rows.Next() {
		var v Variation
		var attrsJSON []byte
		if err := rows.Scan(&v.ID, &attrsJSON, &v.InStock); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		if err := json.Unmarshal(attrsJSON, &v.Attributes); err != nil {
			s.logger.Warn("skipping variation with malformed attributes", map[string]interface{}{
				"variationId": v.ID,
				"error":       err.Error(),
			})
			continue
		}
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return variations, nil
}

// AsStandardError maps store sentinels to the shared error taxonomy.
func AsStandardError(err error) *commonerrors.StandardError {
	if errors.Is(err, ErrProductNotFound) {
		return commonerrors.NewValidation(commonerrors.ErrCodeProductNotFound, "Product not found", err.Error())
	}
	return commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Catalog lookup failed", err)
}
