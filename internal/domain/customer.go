package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Customer là khách hàng gửi xe. Khách hàng chỉ bị xóa mềm (is_deleted)
// để giữ lịch sử gửi xe; mọi truy vấn đều loại trừ bản ghi đã xóa.
type Customer struct {
	ID        int         `json:"id"`
	FullName  string      `json:"full_name"`
	Phone     string      `json:"phone"`
	Email     null.String `json:"email"`
	Password  string      `json:"-"`
	IsDeleted bool        `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CustomerSummary là góc nhìn rút gọn trả về cho client, không chứa mật khẩu.
type CustomerSummary struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, FullName: c.FullName, Phone: c.Phone}
}

type CheckCustomerByPhoneResult struct {
	Exists   bool             `json:"exists"`
	Customer *CustomerSummary `json:"customer,omitempty"`
}
