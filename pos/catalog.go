package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint
	Name string
}

type Variant struct {
	ID    uint
	Name  string
	Price decimal.Decimal
}

type Product struct {
	ID         uint
	CategoryID uint
	Name       string
	Price      decimal.Decimal
	Variants   []Variant
}

func (p Product) Variant(id uint) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Line resolves the product into a cart line at the current catalog price.
// Products with variants need one of their variant ids; products without
// variants need variantID 0. A variant's price replaces the product price.
func (p Product) Line(variantID uint, quantity int) (CartLine, error) {
	if quantity <= 0 {
		return CartLine{}, fmt.Errorf("product %d quantity %d: %w", p.ID, quantity, ErrInvalidQuantity)
	}

	price, name := p.Price, p.Name
	switch {
	case len(p.Variants) == 0 && variantID != 0:
		return CartLine{}, fmt.Errorf("product %d has no variants, got %d: %w", p.ID, variantID, ErrUnknownVariant)
	case len(p.Variants) > 0:
		v, ok := p.Variant(variantID)
		if !ok {
			return CartLine{}, fmt.Errorf("product %d variant %d: %w", p.ID, variantID, ErrUnknownVariant)
		}
		price = v.Price
		name = fmt.Sprintf("%s (%s)", p.Name, v.Name)
	}

	line := NewCartLine(p.ID, variantID, price, quantity)
	line.Name = name
	return line, nil
}
