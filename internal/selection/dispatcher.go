package selection

import (
	"github.com/luisscruza/variantbox/internal/boxes"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/page"
)

// RoleVariationBox marks click targets the dispatcher routes to the
// controller; everything else in the container is ignored.
const RoleVariationBox = "variation-box"

// ClickTarget describes an event target by its role and data fields.
type ClickTarget struct {
	Role      string
	Attribute string
	Value     string
}

// Dispatcher is the single subscription registered on a form's stable
// container. It dispatches by inspecting the target's role and data
// attributes and resolves the box at dispatch time, so elements inserted
// after initial load are still handled.
type Dispatcher struct {
	controller *Controller
	logger     logger.Logger
}

func NewDispatcher(c *Controller, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		controller: c,
		logger:     log.WithFields(map[string]interface{}{"component": "selection.dispatcher"}),
	}
}

// Dispatch routes one container click. Non-box targets and unknown boxes are
// ignored.
func (d *Dispatcher) Dispatch(t ClickTarget) {
	if t.Role != RoleVariationBox {
		return
	}
	box, ok := d.controller.Form().FindBox(t.Attribute, t.Value)
	if !ok {
		d.logger.Debug("click on unknown box ignored", map[string]interface{}{
			"attribute": t.Attribute,
			"value":     t.Value,
		})
		return
	}
	d.controller.Click(box)
}

// BindForm builds a page form from render output. Regions describe which
// host-page regions exist, which drives out-of-stock message placement.
func BindForm(rendered *boxes.RenderedProduct, regions ...page.Region) *page.Form {
	opts := make([]page.Option, 0, len(regions)+len(rendered.Attributes))
	for _, r := range regions {
		opts = append(opts, page.WithRegion(r))
	}
	for _, attr := range rendered.Attributes {
		opts = append(opts, page.WithSelect(attr.Attribute, ""))
	}
	form := page.NewForm(rendered.ProductID, opts...)
	for _, attr := range rendered.Attributes {
		for _, b := range attr.Boxes {
			form.AddBox(page.Box{
				Attribute: b.Attribute,
				Value:     b.Value,
				Label:     b.Label,
				InStock:   b.InStock,
				Selected:  b.Selected,
			})
		}
	}
	return form
}
