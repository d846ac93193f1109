package selection

import "github.com/luisscruza/variantbox/internal/page"

// enterOutOfStock runs transition into SelectedOutOfStock(b.Value). An
// out-of-stock pick invalidates the whole combination, so every attribute's
// native value and every box's selected mark is cleared form-wide, and the
// change notifications let externally-owned price/availability UI collapse
// consistently.
func (c *Controller) enterOutOfStock(b *page.Box) {
	sameBox := c.oosBox == b

	for _, box := range c.form.Boxes() {
		box.Selected = false
	}
	b.Selected = true

	for _, sel := range c.form.Selects() {
		sel.SetValue("")
		c.state[sel.Name()] = ""
	}

	msg := c.form.EnsureMessage()
	msg.Visible = true
	c.form.SetPurchaseEnabled(false)

	if c.cfg.NotificationsEnabled {
		if sameBox && c.form.Capture().Open {
			// Toggle semantics: re-clicking the same out-of-stock box while
			// its form is open acts as a cancel.
			c.form.CloseCapture()
		} else {
			c.form.OpenCapture(page.CaptureForm{
				ProductID:   c.form.ProductID(),
				VariationID: c.resolveVariation(b),
				Attribute:   b.Attribute,
				Value:       b.Value,
				Label:       b.Label,
			})
		}
	}

	c.oosBox = b
}

// exitOutOfStock leaves the flow on a subsequent in-stock selection: the
// message and capture form are hidden, not deleted, and the purchase control
// is restored.
func (c *Controller) exitOutOfStock() {
	if c.oosBox == nil {
		return
	}
	if msg := c.form.MessageElement(); msg != nil {
		msg.Visible = false
	}
	c.form.CloseCapture()
	c.form.SetPurchaseEnabled(true)
	c.oosBox = nil
}

func (c *Controller) resolveVariation(b *page.Box) int64 {
	if c.variationID == nil {
		return 0
	}
	return c.variationID(b.Attribute, b.Value)
}
