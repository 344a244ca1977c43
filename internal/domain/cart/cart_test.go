package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddCreatesLine(t *testing.T) {
	c := New()
	c.Add("sku1", 2)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Quantity("sku1"))
}

func TestCart_AddAccumulates(t *testing.T) {
	c := New()
	c.Add("sku1", 2)
	c.Add("sku1", 3)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.Quantity("sku1"))
}

func TestCart_AddClampsNonPositiveQuantity(t *testing.T) {
	c := New()
	c.Add("sku1", 0)
	c.Add("sku2", -3)

	// Adding zero or negative always adds exactly one unit.
	assert.Equal(t, 1, c.Quantity("sku1"))
	assert.Equal(t, 1, c.Quantity("sku2"))
}

func TestCart_SetQuantityReplaces(t *testing.T) {
	c := New()
	c.Add("sku1", 2)
	c.SetQuantity("sku1", 7)

	assert.Equal(t, 7, c.Quantity("sku1"))
}

func TestCart_SetQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	c.Add("sku1", 3)
	c.SetQuantity("sku1", 0)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Quantity("sku1"))
}

func TestCart_SetQuantityNegativeRemovesLine(t *testing.T) {
	c := New()
	c.Add("sku1", 3)
	c.SetQuantity("sku1", -1)

	assert.Equal(t, 0, c.Len())
}

func TestCart_SetQuantityUnknownProductIsNoop(t *testing.T) {
	c := New()
	c.SetQuantity("ghost", 5)

	assert.Equal(t, 0, c.Len())
}

func TestCart_Remove(t *testing.T) {
	c := New()
	c.Add("sku1", 1)
	c.Add("sku2", 1)
	c.Remove("sku1")

	assert.Equal(t, 0, c.Quantity("sku1"))
	assert.Equal(t, 1, c.Quantity("sku2"))

	// Removing twice is harmless.
	c.Remove("sku1")
	assert.Equal(t, 1, c.Len())
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add("sku1", 2)
	c.Add("sku2", 4)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.TotalUnits())

	c.Add("sku1", 1)
	assert.Equal(t, 1, c.Len())
}

func TestCart_TotalUnits(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.TotalUnits())

	c.Add("sku1", 2)
	c.Add("sku2", 3)
	assert.Equal(t, 5, c.TotalUnits())
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	c := New()
	c.Add("b", 1)
	c.Add("a", 1)
	c.Add("c", 1)
	c.Remove("a")
	c.Add("d", 1)

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "b", lines[0].ProductID)
	assert.Equal(t, "c", lines[1].ProductID)
	assert.Equal(t, "d", lines[2].ProductID)
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	c := New()
	c.Add("sku1", 1)

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Quantity("sku1"))
}

func TestCart_NeverHoldsNonPositiveLine(t *testing.T) {
	// Invariant check across a mixed mutation sequence.
	c := New()
	c.Add("a", -5)
	c.Add("b", 0)
	c.Add("c", 3)
	c.SetQuantity("a", 0)
	c.SetQuantity("b", 2)
	c.SetQuantity("c", -10)
	c.Add("a", 1)

	for _, l := range c.Lines() {
		assert.GreaterOrEqual(t, l.Quantity, 1, "line %s", l.ProductID)
	}
	assert.Equal(t, 2, c.Len())
}
