// Package boxes renders a product's variation attributes as selectable box
// elements replacing the native dropdown entries.
package boxes

import (
	"fmt"
	"html"
	"strings"

	"github.com/luisscruza/variantbox/internal/catalog"
)

// BoxElement is the UI projection of a variant option. Selected is exclusive
// within all boxes sharing the same Attribute and is only ever mutated by
// the selection controller.
type BoxElement struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	InStock   bool   `json:"inStock"`
	Selected  bool   `json:"selected"`
}

// RenderedAttribute pairs one attribute's boxes with their markup.
type RenderedAttribute struct {
	Attribute string       `json:"attribute"`
	Boxes     []BoxElement `json:"boxes"`
	HTML      string       `json:"html"`
}

// RenderedProduct is the full render output for one product form.
type RenderedProduct struct {
	ProductID  int64               `json:"productId"`
	Attributes []RenderedAttribute `json:"attributes"`
	// HideNativeSelector is set when the product has exactly one variation
	// attribute, in which case the boxes are the sole control.
	HideNativeSelector bool `json:"hideNativeSelector"`
}

// Render projects one attribute's options into box elements, computing the
// stock flag for each option from the available-variation set.
func Render(attr catalog.VariationAttribute, variations []catalog.Variation) []BoxElement {
	out := make([]BoxElement, 0, len(attr.Options))
	for _, opt := range attr.Options {
		out = append(out, BoxElement{
			Attribute: attr.Name,
			Value:     opt.Value,
			Label:     opt.Label,
			InStock:   optionInStock(attr.Name, opt.Value, variations),
		})
	}
	return out
}

// optionInStock scans for any in-stock combination whose value for this
// attribute matches the option. O(options x variations); catalogs are tens
// of entries, so no index is kept.
func optionInStock(attribute, value string, variations []catalog.Variation) bool {
	for _, v := range variations {
		if v.Attributes[attribute] == value && v.InStock {
			return true
		}
	}
	return false
}

// Markup produces the rendered-markup contract for one attribute group:
// a variation-boxes wrapper, one div per option carrying the data-attribute
// and data-value fields, an out-of-stock class on unavailable options, and a
// selected class on the chosen box.
func Markup(elements []BoxElement) string {
	var b strings.Builder
	b.WriteString(`<div class="variation-boxes">`)
	for _, e := range elements {
		class := "variation-box"
		if !e.InStock {
			class += " out-of-stock"
		}
		if e.Selected {
			class += " selected"
		}
		b.WriteString(fmt.Sprintf(
			`<div class="%s" data-attribute="%s" data-value="%s">%s</div>`,
			class,
			html.EscapeString(e.Attribute),
			html.EscapeString(e.Value),
			html.EscapeString(e.Label),
		))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderProduct renders every attribute of a catalog snapshot.
func RenderProduct(snap *catalog.Snapshot) *RenderedProduct {
	out := &RenderedProduct{
		ProductID:          snap.Product.ID,
		HideNativeSelector: len(snap.Attributes) == 1,
	}
	for _, attr := range snap.Attributes {
		elems := Render(attr, snap.Variations)
		out.Attributes = append(out.Attributes, RenderedAttribute{
			Attribute: attr.Name,
			Boxes:     elems,
			HTML:      Markup(elems),
		})
	}
	return out
}
