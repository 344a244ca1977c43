package cart

// Line associates one product identity with a requested quantity.
// A Line only exists while its quantity is at least 1.
type Line struct {
	ProductID string
	Quantity  int
}

// Cart is an insertion-ordered collection of lines, at most one per product.
// It is a plain value owned by whoever holds it; a Store serializes access
// when carts are shared across requests.
type Cart struct {
	lines []Line
	index map[string]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add increases the quantity for the given product, creating the line on
// first add. Non-positive quantities are clamped to 1: the operation always
// adds at least one unit.
func (c *Cart) Add(productID string, qty int) {
	if qty < 1 {
		qty = 1
	}

	if i, ok := c.index[productID]; ok {
		c.lines[i].Quantity += qty
		return
	}

	c.index[productID] = len(c.lines)
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: qty})
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line: an empty line must never exist. Setting a
// quantity for a product that is not in the cart is a no-op.
func (c *Cart) SetQuantity(productID string, qty int) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = qty
}

// Remove deletes the line for the given product if present.
func (c *Cart) Remove(productID string) {
	if i, ok := c.index[productID]; ok {
		c.removeAt(i)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Quantity returns the quantity for the given product, or 0 when the
// product is not in the cart.
func (c *Cart) Quantity(productID string) int {
	if i, ok := c.index[productID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

// TotalUnits returns the sum of all line quantities. This feeds the cart
// badge; totals math never uses it.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) removeAt(i int) {
	delete(c.index, c.lines[i].ProductID)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}
