package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type OrderController struct {
	DB      *gorm.DB
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, service: services.NewOrderService(db)}
}

type orderLineRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	VariantID *uint           `json:"variant_id"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type submitOrderRequest struct {
	Reference string             `json:"reference" binding:"required,max=64"`
	TableID   uint               `json:"table_id" binding:"required"`
	Lines     []orderLineRequest `json:"lines" binding:"required,min=1,dive"`
	Total     decimal.Decimal    `json:"total"`
}

// SubmitOrder -> order dari terminal POS. Reference yang sama dikirim ulang
// (retry) mengembalikan order yang sudah tersimpan dengan status 200.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in := services.SubmitOrderInput{
		Reference: req.Reference,
		TableID:   req.TableID,
		Total:     req.Total,
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, services.OrderLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok {
			in.CreatedBy = &id
		}
	}

	order, created, err := oc.service.Submit(in)
	if err != nil {
		utils.RespondError(c, submitErrorStatus(err), err)
		return
	}

	if !created {
		utils.RespondJSON(c, http.StatusOK, "Order already submitted", order)
		return
	}

	kds.BroadcastOrderCreated(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func submitErrorStatus(err error) int {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTotalMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrReferenceConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetAllOrders -> list orders beserta items, filter ?status= dan ?table_id=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filter := services.OrderFilter{Status: c.Query("status")}
	if tableID := c.Query("table_id"); tableID != "" {
		id, err := strconv.ParseUint(tableID, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table_id"))
			return
		}
		filter.TableID = uint(id)
	}

	orders, err := oc.service.ListOrders(filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.service.GetOrder(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> dipakai dapur: pending -> processing -> ready -> served -> completed
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.service.UpdateStatus(uint(id), body.Status)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
		return
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
