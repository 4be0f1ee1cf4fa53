package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(rs *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var dto domain.CreateReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reportService.CreateReport(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GET /api/v1/reports
func (h *ReportHandler) GetReports(c *gin.Context) {
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := strconv.Atoi(customerIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Customer ID không hợp lệ"})
			return
		}
		reports, err := h.reportService.GetReportsByCustomer(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports)
		return
	}

	reports, err := h.reportService.GetReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GET /api/v1/reports/:id
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	report, err := h.reportService.GetReportByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// POST /api/v1/reports/:id/comments
func (h *ReportHandler) AddComment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	var dto domain.ReportCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.reportService.AddComment(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /api/v1/reports/:id/comments
func (h *ReportHandler) GetComments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	comments, err := h.reportService.GetComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// PUT /api/v1/reports/:id/assign
func (h *ReportHandler) AssignReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	var dto domain.AssignReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reportService.AssignReport(c.Request.Context(), id, dto.StaffID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PUT /api/v1/reports/:id/resolve
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	report, err := h.reportService.ResolveReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PUT /api/v1/reports/:id/rate
func (h *ReportHandler) RateReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID không hợp lệ"})
		return
	}
	var dto domain.RateReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reportService.RateReport(c.Request.Context(), id, dto.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
