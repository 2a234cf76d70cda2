package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type variantRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

type productRequest struct {
	CategoryID  uint             `json:"category_id" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description"`
	IsAvailable *bool            `json:"is_available"`
	Variants    []variantRequest `json:"variants"`
}

func (r productRequest) validate() error {
	if r.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	for _, v := range r.Variants {
		if v.Price.IsNegative() {
			return errors.New("variant price must not be negative")
		}
	}
	return nil
}

// GetAllProducts -> katalog untuk terminal POS. ?category_id= untuk filter,
// ?all=true untuk ikut menampilkan produk yang tidak tersedia.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	q := pc.DB.Preload("Variants").Order("id")
	if catID := c.Query("category_id"); catID != "" {
		id, err := strconv.ParseUint(catID, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if c.Query("all") != "true" {
		q = q.Where("is_available = ?", true)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Preload("Variants").Preload("Category").First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.First(&models.Category{}, req.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
		return
	}

	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{Name: v.Name, Price: v.Price})
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product created: %s (%s)", product.Name, utils.FormatCurrencyIDR(product.Price))
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct mengganti data produk. Jika variants dikirim, seluruh varian
// lama diganti.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		product.CategoryID = req.CategoryID
		product.Name = req.Name
		product.Price = req.Price
		product.Description = req.Description
		if req.IsAvailable != nil {
			product.IsAvailable = *req.IsAvailable
		}
		if err := tx.Omit("Variants").Save(&product).Error; err != nil {
			return err
		}
		if req.Variants == nil {
			return nil
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		product.Variants = nil
		for _, v := range req.Variants {
			variant := models.ProductVariant{ProductID: product.ID, Name: v.Name, Price: v.Price}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			product.Variants = append(product.Variants, variant)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": product.ID})
}
