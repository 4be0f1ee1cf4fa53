package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

// SlotHandler là mặt REST của engine — bản sao mỏng của các thao tác hub
// cho client không giữ được kết nối duplex. Không có push qua REST.
type SlotHandler struct {
	parkingService *service.ParkingService
}

func NewSlotHandler(ps *service.ParkingService) *SlotHandler {
	return &SlotHandler{parkingService: ps}
}

// GET /api/v1/slots
func (h *SlotHandler) GetAllSlots(c *gin.Context) {
	slots, err := h.parkingService.GetAllSlots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GET /api/v1/slots/by-area
func (h *SlotHandler) GetSlotsByArea(c *gin.Context) {
	groups, err := h.parkingService.GetSlotsByArea(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GET /api/v1/slots/overview
func (h *SlotHandler) GetOverview(c *gin.Context) {
	overview, err := h.parkingService.GetParkingOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GET /api/v1/slots/available
func (h *SlotHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.parkingService.GetAvailableSlots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GET /api/v1/slots/:id
func (h *SlotHandler) GetSlotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot ID không hợp lệ"})
		return
	}
	slot, err := h.parkingService.GetSlotByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// PUT /api/v1/slots/:id/status
func (h *SlotHandler) UpdateSlotStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot ID không hợp lệ"})
		return
	}
	var dto domain.SlotStatusUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parkingService.UpdateSlotStatus(c.Request.Context(), id, dto.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// POST /api/v1/slots/register
func (h *SlotHandler) RegisterParking(c *gin.Context) {
	var req domain.RegisterParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.parkingService.RegisterParking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// POST /api/v1/slots/checkout
func (h *SlotHandler) CheckOut(c *gin.Context) {
	var req domain.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.parkingService.CheckOut(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var dto domain.SlotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parkingService.CreateSlot(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// POST /api/v1/slots/bulk
func (h *SlotHandler) BulkCreateSlots(c *gin.Context) {
	var dto domain.BulkCreateSlotsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slots, err := h.parkingService.BulkCreateSlots(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slots)
}

// PUT /api/v1/slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot ID không hợp lệ"})
		return
	}
	var dto domain.SlotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parkingService.UpdateSlot(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DELETE /api/v1/slots/:id?force=true
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot ID không hợp lệ"})
		return
	}
	force := c.Query("force") == "true"
	result, err := h.parkingService.DeleteSlot(c.Request.Context(), id, force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/slots/bulk-delete
func (h *SlotHandler) BulkDeleteSlots(c *gin.Context) {
	var dto domain.BulkDeleteSlotsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deleted, err := h.parkingService.BulkDeleteSlots(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GET /api/v1/slots/fee/:registration_id
func (h *SlotHandler) CalculateFee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("registration_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration ID không hợp lệ"})
		return
	}
	fee, err := h.parkingService.CalculateFee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fee)
}

// GET /api/v1/registrations/open
func (h *SlotHandler) GetOpenRegistrations(c *gin.Context) {
	details, err := h.parkingService.GetOpenRegistrations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GET /api/v1/customers/check-phone?phone=...
func (h *SlotHandler) CheckCustomerByPhone(c *gin.Context) {
	result, err := h.parkingService.CheckCustomerByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
