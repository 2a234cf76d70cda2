package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/pos"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name     string         `json:"name" binding:"required"`
		AreaID   uint           `json:"area_id"`
		Capacity int            `json:"capacity"`
		Status   *int           `json:"status"` // optional, default AVAILABLE
		Note     string         `json:"note"`
		Meta     map[string]any `json:"meta"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		Name:     req.Name,
		AreaID:   req.AreaID,
		Capacity: req.Capacity,
		Status:   pos.CodeAvailable,
		Note:     req.Note,
		Meta:     req.Meta,
	}
	if req.Status != nil {
		if _, err := pos.StatusFromCode(*req.Status); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		table.Status = *req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastMessage(kds.Message{
		Event: kds.EventTableCreate,
		Data: map[string]interface{}{
			"table": table,
			"stats": tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("New table created: %s (status=%d)", table.Name, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja, bisa difilter ?status=OCCUPIED
func (tc *TableController) GetAllTables(c *gin.Context) {
	q := tc.DB.Order("id")
	if s := c.Query("status"); s != "" {
		status, err := pos.ParseTableStatus(s)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		code, _ := pos.StatusCode(status)
		q = q.Where("status = ?", code)
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> dipanggil terminal POS untuk menyimpan meja beserta statusnya.
// Field yang tidak dikirim tidak diubah.
func (tc *TableController) UpdateTable(c *gin.Context) {
	var body struct {
		ID       *uint          `json:"id"`
		Name     *string        `json:"name"`
		AreaID   *uint          `json:"area_id"`
		Capacity *int           `json:"capacity"`
		Status   *int           `json:"status" binding:"required"`
		Note     *string        `json:"note"`
		Meta     map[string]any `json:"meta"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := pos.StatusFromCode(*body.Status); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, ok := tc.findTable(c)
	if !ok {
		return
	}
	if body.ID != nil && *body.ID != table.ID {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("body id %d does not match path id %d", *body.ID, table.ID))
		return
	}

	previous := table.Status
	table.Status = *body.Status
	if body.Name != nil {
		table.Name = *body.Name
	}
	if body.AreaID != nil {
		table.AreaID = *body.AreaID
	}
	if body.Capacity != nil {
		table.Capacity = *body.Capacity
	}
	if body.Note != nil {
		table.Note = *body.Note
	}
	if body.Meta != nil {
		table.Meta = body.Meta
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableUpdate(table, tc.getDashboardStats())

	utils.InfoLogger.Printf("Table %d status changed %d -> %d", table.ID, previous, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastMessage(kds.Message{
		Event: kds.EventTableDelete,
		Data: map[string]interface{}{
			"table_id": table.ID,
			"stats":    tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// MarkTableClean -> staff menandai meja CLEANING siap dipakai lagi
func (tc *TableController) MarkTableClean(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if table.Status != pos.CodeCleaning {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table is not being cleaned"))
		return
	}

	table.Status = pos.CodeAvailable
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableUpdate(table, tc.getDashboardStats())
	utils.RespondJSON(c, http.StatusOK, "Table marked as clean", table)
}

// GetDashboardStats -> jumlah meja per status
func (tc *TableController) GetDashboardStats(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Table stats", tc.getDashboardStats())
}

func (tc *TableController) findTable(c *gin.Context) (models.Table, bool) {
	var table models.Table
	id, err := strconv.ParseUint(c.Param("table_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return table, false
	}
	if err := tc.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return table, false
	}
	return table, true
}

// getDashboardStats menghitung statistik meja, key-nya nama status (lowercase)
func (tc *TableController) getDashboardStats() map[string]int64 {
	var rows []struct {
		Status int
		Count  int64
	}
	stats := map[string]int64{"total": 0}
	for _, s := range pos.AllStatuses() {
		stats[strings.ToLower(string(s))] = 0
	}

	if err := tc.DB.Model(&models.Table{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		utils.ErrorLogger.Printf("Error counting tables: %v", err)
		return stats
	}
	for _, r := range rows {
		status, err := pos.StatusFromCode(r.Status)
		if err != nil {
			continue
		}
		stats[strings.ToLower(string(status))] = r.Count
		stats["total"] += r.Count
	}
	return stats
}
