package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

// respondError ánh xạ lỗi nghiệp vụ sang mã HTTP. Lỗi bất ngờ (hạ tầng)
// trả về 500 với thông báo chung, chi tiết chỉ ghi log.
func respondError(c *gin.Context, err error) {
	var bizErr *service.BusinessError
	if errors.As(err, &bizErr) {
		status := http.StatusInternalServerError
		switch bizErr.Code {
		case service.CodeNotFound:
			status = http.StatusNotFound
		case service.CodeConflict:
			status = http.StatusConflict
		case service.CodeValidation:
			status = http.StatusBadRequest
		case service.CodeUnauthorized:
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": bizErr.Message, "code": bizErr.Code})
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	log.Printf("Lỗi hệ thống: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "lỗi hệ thống, vui lòng thử lại sau"})
}
