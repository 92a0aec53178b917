package domain

import "time"

// Cart is the ordered set of line items owned by one session.
type Cart struct {
	SessionID string     `json:"-"`
	Lines     []CartLine `json:"lineItems"`
}

// CartLine holds a snapshot of the product taken when it was first added.
type CartLine struct {
	ProductID      string    `json:"productId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	Image          string    `json:"image,omitempty"`
	AddedAt        time.Time `json:"addedAt"`
}

// Add merges p into the cart: an existing line gains one unit, otherwise a new
// line with quantity 1 is appended. Existing snapshots are never refreshed.
func (c *Cart) Add(p Product) CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return c.Lines[i]
		}
	}
	line := CartLine{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Quantity:       1,
		Image:          p.Image,
		AddedAt:        time.Now().UTC(),
	}
	c.Lines = append(c.Lines, line)
	return line
}

// SetQuantity updates the quantity of the line for productID. A quantity of
// zero or below removes the line. It reports whether the line was removed.
func (c *Cart) SetQuantity(productID string, quantity int) (removed bool) {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return false
		}
	}
	return false
}

// Remove deletes the line for productID and reports whether one existed.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Clone returns a copy whose lines share no storage with c.
func (c Cart) Clone() Cart {
	out := Cart{SessionID: c.SessionID}
	if c.Lines != nil {
		out.Lines = append([]CartLine(nil), c.Lines...)
	}
	return out
}

func (c Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount sums quantities across lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
