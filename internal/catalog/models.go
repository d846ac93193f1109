package catalog

// VariationAttribute identifies one native select: a named axis of product
// variation with its ordered option list.
type VariationAttribute struct {
	// Name is the stable slug used as the native select's name, e.g.
	// "attribute_color".
	Name    string          `json:"name"`
	Options []VariantOption `json:"options"`
}

// VariantOption is one possible setting of an attribute. InStock is a
// snapshot computed at render time, not live.
type VariantOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	InStock bool   `json:"inStock"`
}

// Variation is a specific combination of one value per attribute with its
// own stock status.
type Variation struct {
	ID         int64             `json:"id"`
	Attributes map[string]string `json:"attributes"`
	InStock    bool              `json:"isInStock"`
}

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the render input: a product, its ordered attributes, and the
// available-variation set used for the stock scan.
type Snapshot struct {
	Product    Product              `json:"product"`
	Attributes []VariationAttribute `json:"attributes"`
	Variations []Variation          `json:"variations"`
}
