package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_SetValue_NotifiesEvenWhenUnchanged(t *testing.T) {
	form := NewForm(7, WithSelect("attribute_color", "red"))
	sel, ok := form.FindSelect("attribute_color")
	require.True(t, ok)

	var fired int
	form.OnChange(func(attr, value string) {
		fired++
		assert.Equal(t, "attribute_color", attr)
		assert.Equal(t, "red", value)
	})

	sel.SetValue("red")
	sel.SetValue("red")

	assert.Equal(t, 2, fired)
}

func TestForm_EnsureMessage_PlacementPreference(t *testing.T) {
	tests := []struct {
		name     string
		regions  []Region
		expected Placement
	}{
		{
			name:     "single variation region wins",
			regions:  []Region{RegionSingleVariation, RegionVariations},
			expected: PlacementBeforeSingleVariation,
		},
		{
			name:     "variations region is the fallback",
			regions:  []Region{RegionVariations},
			expected: PlacementAfterVariations,
		},
		{
			name:     "no region means form start",
			regions:  nil,
			expected: PlacementFormStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := make([]Option, 0, len(tt.regions))
			for _, r := range tt.regions {
				opts = append(opts, WithRegion(r))
			}
			form := NewForm(7, opts...)

			msg := form.EnsureMessage()
			assert.Equal(t, tt.expected, msg.Placement)
			assert.False(t, msg.Visible)
		})
	}
}

func TestForm_EnsureMessage_CreatedOnce(t *testing.T) {
	form := NewForm(7, WithRegion(RegionVariations))

	first := form.EnsureMessage()
	first.Visible = true
	second := form.EnsureMessage()

	assert.Same(t, first, second)
	assert.True(t, second.Visible)
}

func TestForm_AddBox_AfterConstruction(t *testing.T) {
	form := NewForm(7)

	added := form.AddBox(Box{Attribute: "attribute_color", Value: "red", Label: "Red", InStock: true})

	found, ok := form.FindBox("attribute_color", "red")
	require.True(t, ok)
	assert.Same(t, added, found)
}

func TestForm_BoxesInGroup(t *testing.T) {
	form := NewForm(7,
		WithBox(Box{Attribute: "attribute_color", Value: "red"}),
		WithBox(Box{Attribute: "attribute_color", Value: "blue"}),
		WithBox(Box{Attribute: "attribute_size", Value: "large"}),
	)

	group := form.BoxesInGroup("attribute_color")
	require.Len(t, group, 2)
	for _, b := range group {
		assert.Equal(t, "attribute_color", b.Attribute)
	}
	assert.Empty(t, form.BoxesInGroup("attribute_material"))
}

func TestForm_Selects_KeepInsertionOrder(t *testing.T) {
	form := NewForm(7,
		WithSelect("attribute_size", ""),
		WithSelect("attribute_color", ""),
	)

	selects := form.Selects()
	require.Len(t, selects, 2)
	assert.Equal(t, "attribute_size", selects[0].Name())
	assert.Equal(t, "attribute_color", selects[1].Name())
}

func TestForm_Capture_OpenAndClose(t *testing.T) {
	form := NewForm(7)

	form.OpenCapture(CaptureForm{
		ProductID: 7,
		Attribute: "attribute_color",
		Value:     "blue",
		Label:     "Blue",
	})

	c := form.Capture()
	assert.True(t, c.Open)
	assert.Equal(t, int64(7), c.ProductID)
	assert.Equal(t, "Blue", c.Label)

	form.CloseCapture()
	assert.False(t, form.Capture().Open)
}

func TestForm_PurchaseEnabledByDefault(t *testing.T) {
	form := NewForm(7)
	assert.True(t, form.PurchaseEnabled())

	form.SetPurchaseEnabled(false)
	assert.False(t, form.PurchaseEnabled())
}
