package pos

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. VariantID 0 means the product has no
// variant dimension.
type LineKey struct {
	ProductID uint
	VariantID uint
}

type CartLine struct {
	ProductID uint
	VariantID uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

func NewCartLine(productID, variantID uint, unitPrice decimal.Decimal, quantity int) CartLine {
	line := CartLine{
		ProductID: productID,
		VariantID: variantID,
		UnitPrice: unitPrice,
	}
	return line.withQuantity(quantity)
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, VariantID: l.VariantID}
}

// withQuantity is the only place LineTotal is computed.
func (l CartLine) withQuantity(quantity int) CartLine {
	l.Quantity = quantity
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return l
}

// Cart is an ordered, immutable list of lines. Every method returns a new
// Cart and leaves the receiver untouched.
type Cart struct {
	lines []CartLine
}

func NewCart(lines ...CartLine) (Cart, error) {
	return Cart{}.AddLines(lines...)
}

// AddLines folds incoming into the cart left to right. A line whose key is
// already present is merged in place: quantities sum and the unit price
// captured on first insertion is kept. The whole batch is rejected if any
// line has a non-positive quantity or a negative price, or if a merge would
// push a quantity past math.MaxInt.
func (c Cart) AddLines(incoming ...CartLine) (Cart, error) {
	for _, in := range incoming {
		if in.Quantity <= 0 {
			return c, fmt.Errorf("add product %d quantity %d: %w", in.ProductID, in.Quantity, ErrInvalidQuantity)
		}
		if in.UnitPrice.IsNegative() {
			return c, fmt.Errorf("add product %d price %s: %w", in.ProductID, in.UnitPrice, ErrInvalidPrice)
		}
	}
	if len(incoming) == 0 {
		return c, nil
	}

	out := make([]CartLine, len(c.lines), len(c.lines)+len(incoming))
	copy(out, c.lines)
	for _, in := range incoming {
		if i := indexOf(out, in.Key()); i >= 0 {
			if out[i].Quantity > math.MaxInt-in.Quantity {
				return c, fmt.Errorf("add product %d quantity %d to %d: %w", in.ProductID, in.Quantity, out[i].Quantity, ErrInvalidQuantity)
			}
			out[i] = out[i].withQuantity(out[i].Quantity + in.Quantity)
			continue
		}
		out = append(out, in.withQuantity(in.Quantity))
	}
	return Cart{lines: out}, nil
}

// AdjustQuantity adds delta to the line's quantity, clamping to
// [1, math.MaxInt]. A missing key is a no-op.
func (c Cart) AdjustQuantity(key LineKey, delta int) Cart {
	i := indexOf(c.lines, key)
	if i < 0 {
		return c
	}
	out := slices.Clone(c.lines)
	out[i] = out[i].withQuantity(clampQuantity(out[i].Quantity, delta))
	return Cart{lines: out}
}

// clampQuantity computes max(1, q+delta) without wrapping. q is always >= 1,
// so only a positive delta can overflow.
func clampQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(1, q+delta)
}

func (c Cart) RemoveLine(key LineKey) Cart {
	i := indexOf(c.lines, key)
	if i < 0 {
		return c
	}
	out := make([]CartLine, 0, len(c.lines)-1)
	out = append(out, c.lines[:i]...)
	out = append(out, c.lines[i+1:]...)
	return Cart{lines: out}
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

func (c Cart) Lines() []CartLine {
	return slices.Clone(c.lines)
}

func (c Cart) Line(key LineKey) (CartLine, bool) {
	i := indexOf(c.lines, key)
	if i < 0 {
		return CartLine{}, false
	}
	return c.lines[i], true
}

func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the number of units across all lines, saturating at
// math.MaxInt.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n = clampQuantity(n, l.Quantity)
	}
	return n
}

func indexOf(lines []CartLine, key LineKey) int {
	return slices.IndexFunc(lines, func(l CartLine) bool {
		return l.Key() == key
	})
}
