// Package page models the host page's variation form explicitly: boxes,
// native selects, regions, the purchase control, the out-of-stock message,
// and the capture form. It replaces ambient page-wide state with a value
// owned by one form instance, so the selection controller can be driven and
// verified without a browser.
package page

import "sort"

// Region names the host page's form regions relevant to message placement.
type Region string

const (
	RegionSingleVariation Region = "single-variation"
	RegionVariations      Region = "variations"
)

// Placement records where the out-of-stock message element was inserted.
type Placement string

const (
	PlacementBeforeSingleVariation Placement = "before-single-variation"
	PlacementAfterVariations       Placement = "after-variations"
	PlacementFormStart             Placement = "form-start"
)

// Box is one selectable element. Selected is mutated only by the selection
// controller.
type Box struct {
	Attribute string
	Value     string
	Label     string
	InStock   bool
	Selected  bool
}

// ChangeListener observes native selector changes; this is the published
// event the host page's own variation-matching logic hangs off. The core's
// contract ends here.
type ChangeListener func(attribute, value string)

// Select models one native selector. Setting its value synchronously
// notifies listeners before returning, matching the single-threaded
// event-driven contract.
type Select struct {
	name      string
	value     string
	listeners []ChangeListener
}

func (s *Select) Name() string  { return s.name }
func (s *Select) Value() string { return s.value }

// SetValue sets the native value and emits a change notification even when
// the value is unchanged; a redundant re-set is harmless.
func (s *Select) SetValue(v string) {
	s.value = v
	for _, l := range s.listeners {
		l(s.name, v)
	}
}

// Message is the out-of-stock message element. Created at most once per
// form; exiting the flow hides it without deleting it so re-entry is cheap.
type Message struct {
	Visible   bool
	Placement Placement
	Text      string
}

// CaptureForm is the notification-request capture form scoped to one
// clicked out-of-stock option.
type CaptureForm struct {
	Open        bool
	ProductID   int64
	VariationID int64
	Attribute   string
	Value       string
	Label       string
}

// Form is one product form instance.
type Form struct {
	productID int64
	boxes     []*Box
	selects   map[string]*Select
	order     []string
	regions   map[Region]bool

	message  *Message
	purchase bool
	capture  CaptureForm
}

// Option configures a Form under construction.
type Option func(*Form)

// WithRegion declares a host-page region as present.
func WithRegion(r Region) Option {
	return func(f *Form) { f.regions[r] = true }
}

// WithSelect adds a native selector, optionally pre-populated by the host
// page.
func WithSelect(name, value string) Option {
	return func(f *Form) {
		if _, ok := f.selects[name]; !ok {
			f.order = append(f.order, name)
		}
		f.selects[name] = &Select{name: name, value: value}
	}
}

// WithBox adds a box element at construction time.
func WithBox(b Box) Option {
	return func(f *Form) { f.AddBox(b) }
}

func NewForm(productID int64, opts ...Option) *Form {
	f := &Form{
		productID: productID,
		selects:   make(map[string]*Select),
		regions:   make(map[Region]bool),
		purchase:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) ProductID() int64 { return f.productID }

// AddBox appends a box element; boxes may be inserted after initial load and
// are still dispatchable because lookup happens at dispatch time.
func (f *Form) AddBox(b Box) *Box {
	box := b
	f.boxes = append(f.boxes, &box)
	return &box
}

// Boxes returns every box in the form.
func (f *Form) Boxes() []*Box { return f.boxes }

// BoxesInGroup returns the boxes sharing one attribute.
func (f *Form) BoxesInGroup(attribute string) []*Box {
	var out []*Box
	for _, b := range f.boxes {
		if b.Attribute == attribute {
			out = append(out, b)
		}
	}
	return out
}

// FindBox locates a box by its data fields.
func (f *Form) FindBox(attribute, value string) (*Box, bool) {
	for _, b := range f.boxes {
		if b.Attribute == attribute && b.Value == value {
			return b, true
		}
	}
	return nil, false
}

// FindSelect locates the native selector for an attribute.
func (f *Form) FindSelect(attribute string) (*Select, bool) {
	s, ok := f.selects[attribute]
	return s, ok
}

// Selects returns the native selectors in attribute order.
func (f *Form) Selects() []*Select {
	out := make([]*Select, 0, len(f.selects))
	for _, name := range f.order {
		out = append(out, f.selects[name])
	}
	return out
}

// Attributes returns the attribute names, sorted for deterministic output.
func (f *Form) Attributes() []string {
	out := append([]string(nil), f.order...)
	sort.Strings(out)
	return out
}

// OnChange registers a listener on every native selector in the form.
// Selects are fixed at construction, matching the host page's static
// variation table, so there is no late-binding concern here.
func (f *Form) OnChange(l ChangeListener) {
	for _, s := range f.selects {
		s.listeners = append(s.listeners, l)
	}
}

// EnsureMessage returns the out-of-stock message element, creating it on
// first use with the fixed placement preference: before the single-variation
// region if present, else after the variations region if present, else at
// the form start.
func (f *Form) EnsureMessage() *Message {
	if f.message != nil {
		return f.message
	}
	placement := PlacementFormStart
	if f.regions[RegionSingleVariation] {
		placement = PlacementBeforeSingleVariation
	} else if f.regions[RegionVariations] {
		placement = PlacementAfterVariations
	}
	f.message = &Message{Placement: placement, Text: "Out of stock"}
	return f.message
}

// MessageElement returns the message element if it has been created.
func (f *Form) MessageElement() *Message { return f.message }

// SetPurchaseEnabled toggles the purchase control.
func (f *Form) SetPurchaseEnabled(enabled bool) { f.purchase = enabled }

// PurchaseEnabled reports whether the purchase control is active.
func (f *Form) PurchaseEnabled() bool { return f.purchase }

// OpenCapture opens the capture form scoped to one out-of-stock option,
// pre-filled with the hidden identifiers and the option's display label.
func (f *Form) OpenCapture(c CaptureForm) {
	c.Open = true
	f.capture = c
}

// CloseCapture hides the capture form without touching selection state.
func (f *Form) CloseCapture() { f.capture.Open = false }

// Capture returns the capture form state.
func (f *Form) Capture() CaptureForm { return f.capture }
