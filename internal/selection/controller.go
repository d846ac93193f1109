// Package selection implements the client-side state machine binding box
// clicks to the hidden native selector. One Controller owns one form
// instance's selection state; all transitions run to completion on the
// caller's goroutine in response to discrete input events.
package selection

import (
	"errors"

	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/metrics"
	"github.com/luisscruza/variantbox/internal/page"
)

// AttributeState is the per-attribute-group state.
type AttributeState int

const (
	Unselected AttributeState = iota
	SelectedInStock
	SelectedOutOfStock
)

func (s AttributeState) String() string {
	switch s {
	case SelectedInStock:
		return "selected-in-stock"
	case SelectedOutOfStock:
		return "selected-out-of-stock"
	}
	return "unselected"
}

var ErrSelectorMissing = errors.New("native selector missing for attribute")

// Config carries the configuration flags resolved before render.
type Config struct {
	// NotificationsEnabled gates whether the out-of-stock flow offers a
	// capture form at all.
	NotificationsEnabled bool
}

// Controller keeps the visual box selection synchronized with the native
// variant selector of one form.
type Controller struct {
	form   *page.Form
	cfg    Config
	logger logger.Logger

	// state maps attribute name to the currently selected value; empty
	// string means none. The native selector's value for an attribute
	// always equals its entry here.
	state map[string]string

	// oosBox is the out-of-stock box that entered the flow, nil when the
	// flow is inactive.
	oosBox *page.Box

	// variationID resolves a clicked option to a concrete variation when
	// the host page knows one; optional.
	variationID func(attribute, value string) int64
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithVariationResolver supplies a host-page callback resolving a clicked
// option to a variation id for capture-form pre-fill.
func WithVariationResolver(fn func(attribute, value string) int64) ControllerOption {
	return func(c *Controller) { c.variationID = fn }
}

// NewController binds a controller to a form. Initial state is whatever the
// native selectors' pre-populated values imply.
func NewController(form *page.Form, cfg Config, log logger.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		form:   form,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "selection", "productId": form.ProductID()}),
		state:  make(map[string]string),
	}
	for _, s := range form.Selects() {
		c.state[s.Name()] = s.Value()
		if s.Value() != "" {
			if b, ok := form.FindBox(s.Name(), s.Value()); ok {
				b.Selected = true
			}
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Click runs one transition for a click on box b. The transition completes,
// including any synchronous host-page reaction to the change notification,
// before Click returns.
func (c *Controller) Click(b *page.Box) {
	if b == nil {
		return
	}
	if !b.InStock {
		c.enterOutOfStock(b)
		metrics.SelectionTransitions.WithLabelValues("out-of-stock").Inc()
		return
	}
	if err := c.selectInStock(b); err != nil {
		// A missing selector indicates a markup/host mismatch; abort with
		// no state change and no user-visible error.
		c.logger.Warn("transition aborted", map[string]interface{}{
			"attribute": b.Attribute,
			"value":     b.Value,
			"error":     err.Error(),
		})
		metrics.SelectionAborted.WithLabelValues(b.Attribute).Inc()
		return
	}
	metrics.SelectionTransitions.WithLabelValues("in-stock").Inc()
}

// selectInStock handles transition into SelectedInStock(b.Value): the native
// selector is set and a change notification emitted, the box becomes the
// sole selected box within its group, and any active out-of-stock flow is
// exited. Other attributes' selections are preserved; the axes are
// independent.
func (c *Controller) selectInStock(b *page.Box) error {
	sel, ok := c.form.FindSelect(b.Attribute)
	if !ok {
		return ErrSelectorMissing
	}

	// Re-clicking the already-selected box re-sets the same value; harmless.
	sel.SetValue(b.Value)
	c.state[b.Attribute] = b.Value

	for _, sibling := range c.form.BoxesInGroup(b.Attribute) {
		sibling.Selected = sibling == b
	}

	c.exitOutOfStock()
	return nil
}

// State reports the attribute group's state and selected value.
func (c *Controller) State(attribute string) (AttributeState, string) {
	if c.oosBox != nil && c.oosBox.Attribute == attribute {
		return SelectedOutOfStock, c.oosBox.Value
	}
	if v := c.state[attribute]; v != "" {
		return SelectedInStock, v
	}
	return Unselected, ""
}

// SelectionState returns a copy of the attribute -> value mapping.
func (c *Controller) SelectionState() map[string]string {
	out := make(map[string]string, len(c.state))
	for k, v := range c.state {
		out[k] = v
	}
	return out
}

// Form returns the bound form instance.
func (c *Controller) Form() *page.Form { return c.form }
