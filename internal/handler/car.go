package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/moazalc/autostacks-app-sub001/internal/middleware"
	"github.com/moazalc/autostacks-app-sub001/internal/models"
	"github.com/moazalc/autostacks-app-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarHandler owns the inventory endpoints. Structurally the same CRUD
// as entries, minus the balance follow-up: cars carry no derived state.
type CarHandler struct {
	DB *gorm.DB
}

func NewCarHandler(db *gorm.DB) *CarHandler {
	return &CarHandler{DB: db}
}

type carReq struct {
	Make   string          `json:"make" binding:"required,max=64"`
	Model  string          `json:"model" binding:"required,max=64"`
	Year   int             `json:"year" binding:"required"`
	VIN    string          `json:"vin" binding:"max=32"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

func validCarStatus(s string) bool {
	switch s {
	case models.CarStatusAvailable, models.CarStatusReserved, models.CarStatusSold:
		return true
	}
	return false
}

func (h *CarHandler) CreateCar(c *gin.Context) {
	accountID := middleware.CurrentAccountID(c)
	if accountID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "no account for current user")
		return
	}

	var req carReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "malformed request body")
		return
	}

	if req.Year < 1900 || req.Year > time.Now().Year()+1 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid model year")
		return
	}
	if req.Price.IsNegative() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "price must not be negative")
		return
	}
	if req.Status == "" {
		req.Status = models.CarStatusAvailable
	}
	if !validCarStatus(req.Status) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid status")
		return
	}

	car := models.Car{
		AccountID: accountID,
		Make:      strings.TrimSpace(req.Make),
		Model:     strings.TrimSpace(req.Model),
		Year:      req.Year,
		VIN:       strings.ToUpper(strings.TrimSpace(req.VIN)),
		Price:     req.Price,
		Status:    req.Status,
	}

	if err := h.DB.Create(&car).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save car")
		return
	}

	util.Created(c, util.Response{"car": car})
}

func (h *CarHandler) ListCars(c *gin.Context) {
	cars := make([]models.Car, 0)

	// no resolved account -> empty state, never other tenants' inventory
	accountID := middleware.CurrentAccountID(c)
	if accountID == "" {
		util.Success(c, util.Response{
			"cars":  cars,
			"total": 0,
		})
		return
	}

	q := h.DB.Model(&models.Car{}).
		Where("account_id = ?", accountID).
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		if !validCarStatus(status) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid status filter")
			return
		}
		q = q.Where("status = ?", status)
	}

	if err := q.Find(&cars).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list cars")
		return
	}

	util.Success(c, util.Response{
		"cars":  cars,
		"total": len(cars),
	})
}

func (h *CarHandler) UpdateCar(c *gin.Context) {
	accountID := middleware.CurrentAccountID(c)
	carID := c.Param("id")
	if err := util.ValidateID(carID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid car id")
		return
	}

	var req carReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "malformed request body")
		return
	}
	if req.Status != "" && !validCarStatus(req.Status) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid status")
		return
	}

	var car models.Car
	if err := h.DB.First(&car, "id = ? AND account_id = ?", carID, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "car not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load car")
		}
		return
	}

	car.Make = strings.TrimSpace(req.Make)
	car.Model = strings.TrimSpace(req.Model)
	car.Year = req.Year
	car.VIN = strings.ToUpper(strings.TrimSpace(req.VIN))
	car.Price = req.Price
	if req.Status != "" {
		car.Status = req.Status
	}

	if err := h.DB.Save(&car).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save car")
		return
	}

	util.Success(c, util.Response{"car": car})
}

// DeleteCar removes the car. Ledger entries pointing at it keep their
// relatedCarId; the reference is weak and allowed to dangle.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	accountID := middleware.CurrentAccountID(c)
	carID := c.Param("id")
	if err := util.ValidateID(carID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid car id")
		return
	}

	res := h.DB.Where("id = ? AND account_id = ?", carID, accountID).Delete(&models.Car{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete car")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "car not found")
		return
	}

	util.Success(c, util.Response{"message": "car deleted"})
}
