package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

type PriceHandler struct {
	priceService *service.PriceService
}

func NewPriceHandler(ps *service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: ps}
}

// POST /api/v1/prices
func (h *PriceHandler) CreatePrice(c *gin.Context) {
	var dto domain.PriceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := h.priceService.CreatePrice(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, price)
}

// GET /api/v1/prices
func (h *PriceHandler) GetPrices(c *gin.Context) {
	prices, err := h.priceService.GetPrices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GET /api/v1/prices/:id
func (h *PriceHandler) GetPriceByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price ID không hợp lệ"})
		return
	}
	price, err := h.priceService.GetPriceByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

// PUT /api/v1/prices/:id
func (h *PriceHandler) UpdatePrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price ID không hợp lệ"})
		return
	}
	var dto domain.PriceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := h.priceService.UpdatePrice(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

// DELETE /api/v1/prices/:id
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price ID không hợp lệ"})
		return
	}
	if err := h.priceService.DeactivatePrice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã vô hiệu biểu giá"})
}
