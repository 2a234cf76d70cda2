package gateway

import (
	"maps"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-pos/pos"
)

// TableRecord is a table as the backend sends and accepts it.
type TableRecord struct {
	ID       uint           `json:"id"`
	AreaID   uint           `json:"area_id"`
	Name     string         `json:"name"`
	Capacity int            `json:"capacity,omitempty"`
	Status   int            `json:"status"`
	Note     string         `json:"note,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

func NewTableRecord(t pos.Table) (TableRecord, error) {
	code, err := pos.StatusCode(t.Status)
	if err != nil {
		return TableRecord{}, err
	}
	return TableRecord{
		ID:       t.ID,
		AreaID:   t.AreaID,
		Name:     t.Name,
		Capacity: t.Capacity,
		Status:   code,
		Note:     t.Note,
		Meta:     maps.Clone(t.Meta),
	}, nil
}

func (r TableRecord) Table() (pos.Table, error) {
	status, err := pos.StatusFromCode(r.Status)
	if err != nil {
		return pos.Table{}, err
	}
	return pos.Table{
		ID:       r.ID,
		AreaID:   r.AreaID,
		Name:     r.Name,
		Capacity: r.Capacity,
		Status:   status,
		Note:     r.Note,
		Meta:     maps.Clone(r.Meta),
	}, nil
}

type CategoryRecord struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type VariantRecord struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductRecord struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Variants   []VariantRecord `json:"variants"`
}

func (r ProductRecord) Product() pos.Product {
	p := pos.Product{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Name:       r.Name,
		Price:      r.Price,
	}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, pos.Variant{ID: v.ID, Name: v.Name, Price: v.Price})
	}
	return p
}

// OrderLineRequest is one cart line on the wire. VariantID is omitted for
// products without variants.
type OrderLineRequest struct {
	ProductID uint            `json:"product_id"`
	VariantID *uint           `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderRequest struct {
	Reference string             `json:"reference"`
	TableID   uint               `json:"table_id"`
	Lines     []OrderLineRequest `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
}

func NewOrderRequest(order pos.OrderSubmission) OrderRequest {
	req := OrderRequest{
		Reference: order.Reference,
		TableID:   order.TableID,
		Lines:     make([]OrderLineRequest, 0, len(order.Lines)),
		Total:     order.Total,
	}
	for _, l := range order.Lines {
		line := OrderLineRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
		if l.VariantID != 0 {
			id := l.VariantID
			line.VariantID = &id
		}
		req.Lines = append(req.Lines, line)
	}
	return req
}

// OrderRecord is the subset of a stored order the client reads back.
type OrderRecord struct {
	ID        uint            `json:"id"`
	Reference string          `json:"reference"`
	TableID   uint            `json:"table_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
}
