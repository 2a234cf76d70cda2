package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrTotalMismatch     = errors.New("total does not match lines")
	ErrReferenceConflict = errors.New("reference already used for another table")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// ValidationError menandakan request order yang tidak valid.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type OrderLine struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type SubmitOrderInput struct {
	Reference string
	TableID   uint
	Lines     []OrderLine
	Total     decimal.Decimal
	CreatedBy *uint
}

// Alur status order di dapur
var orderTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:      {models.OrderStatusServed},
	models.OrderStatusServed:     {models.OrderStatusCompleted},
}

// OrderService menangani penyimpanan order dari terminal POS
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Submit stores the order and its items in one transaction. A reference
// that already exists returns the stored order with created=false.
func (s *OrderService) Submit(in SubmitOrderInput) (*models.Order, bool, error) {
	if in.Reference == "" {
		return nil, false, &ValidationError{Field: "reference", Message: "is required"}
	}
	if len(in.Lines) == 0 {
		return nil, false, &ValidationError{Field: "lines", Message: "must not be empty"}
	}

	if existing, err := s.findByReference(in.Reference); err == nil {
		return s.replay(existing, in)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	order := models.Order{
		Reference: in.Reference,
		TableID:   in.TableID,
		Status:    models.OrderStatusPending,
		CreatedBy: in.CreatedBy,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return fmt.Errorf("failed to find table: %w", err)
		}

		items, total, err := s.buildItems(tx, in.Lines)
		if err != nil {
			return err
		}
		if !total.Equal(in.Total) {
			return fmt.Errorf("%w: lines sum to %s, got %s", ErrTotalMismatch, total.StringFixed(2), in.Total.StringFixed(2))
		}

		order.Total = total
		order.Items = items
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		// Terminal lain bisa saja menyimpan reference yang sama duluan.
		if existing, findErr := s.findByReference(in.Reference); findErr == nil {
			return s.replay(existing, in)
		}
		return nil, false, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"table_id":  order.TableID,
		"items":     len(order.Items),
		"total":     utils.FormatCurrencyIDR(order.Total),
	}).Info("order stored")

	return &order, true, nil
}

func (s *OrderService) replay(existing *models.Order, in SubmitOrderInput) (*models.Order, bool, error) {
	if existing.TableID != in.TableID {
		return nil, false, ErrReferenceConflict
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":  existing.ID,
		"reference": existing.Reference,
	}).Info("duplicate order submission, returning stored order")
	return existing, false, nil
}

// buildItems checks every line against the catalog and computes the total.
// Unit prices come from the terminal: they are the prices captured when
// the item was added to the cart.
func (s *OrderService) buildItems(tx *gorm.DB, lines []OrderLine) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	products := map[uint]*models.Product{}

	for i, l := range lines {
		field := fmt.Sprintf("lines[%d]", i)
		if l.Quantity <= 0 {
			return nil, total, &ValidationError{Field: field + ".quantity", Message: "must be at least 1"}
		}
		if l.UnitPrice.IsNegative() {
			return nil, total, &ValidationError{Field: field + ".unit_price", Message: "must not be negative"}
		}

		product, ok := products[l.ProductID]
		if !ok {
			var p models.Product
			if err := tx.Preload("Variants").First(&p, l.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, total, &ValidationError{Field: field + ".product_id", Message: fmt.Sprintf("product %d not found", l.ProductID)}
				}
				return nil, total, fmt.Errorf("failed to find product: %w", err)
			}
			product = &p
			products[l.ProductID] = product
		}

		name := product.Name
		switch {
		case l.VariantID != nil:
			if !product.HasVariant(*l.VariantID) {
				return nil, total, &ValidationError{Field: field + ".variant_id", Message: fmt.Sprintf("variant %d does not belong to product %d", *l.VariantID, product.ID)}
			}
			for _, v := range product.Variants {
				if v.ID == *l.VariantID {
					name = fmt.Sprintf("%s (%s)", product.Name, v.Name)
				}
			}
		case len(product.Variants) > 0:
			return nil, total, &ValidationError{Field: field + ".variant_id", Message: fmt.Sprintf("product %d requires a variant", product.ID)}
		}

		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Name:      name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: lineTotal,
		})
	}
	return items, total, nil
}

func (s *OrderService) findByReference(reference string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder mengambil order beserta item dan mejanya
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Table").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type OrderFilter struct {
	Status  string
	TableID uint
}

func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, error) {
	q := s.db.Preload("Items").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TableID != 0 {
		q = q.Where("table_id = ?", filter.TableID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus memindahkan order ke status berikutnya sesuai alur dapur.
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range orderTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return order, nil
}
