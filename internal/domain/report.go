package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportAssigned ReportStatus = "assigned"
	ReportResolved ReportStatus = "resolved"
)

// Report là phiếu hỗ trợ của khách hàng (báo cáo sự cố, khiếu nại).
// Luồng CRUD song song, không chia sẻ bất biến nào với quản lý chỗ đỗ.
type Report struct {
	ID              int          `json:"id"`
	Code            string       `json:"code"`
	CustomerID      int          `json:"customer_id"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	Status          ReportStatus `json:"status"`
	AssignedStaffID null.Int     `json:"assigned_staff_id,omitempty"`
	Rating          null.Int     `json:"rating,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type ReportComment struct {
	ID         int       `json:"id"`
	ReportID   int       `json:"report_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateReportDTO struct {
	CustomerID int    `json:"customer_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type ReportCommentDTO struct {
	AuthorName string `json:"author_name" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type AssignReportDTO struct {
	StaffID int `json:"staff_id" binding:"required"`
}

type RateReportDTO struct {
	Rating int `json:"rating" binding:"required"`
}
