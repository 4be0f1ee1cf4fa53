package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")
var ErrNoOpenRegistration = errors.New("không tìm thấy lượt gửi xe đang hoạt động")

// DBTX là giao diện chung của *sql.DB và *sql.Tx: cùng một repository chạy
// được cả ngoài lẫn trong transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repositories gom toàn bộ repository; trong ExecTx chúng được gắn vào
// cùng một *sql.Tx.
type Repositories struct {
	Slots         SlotRepository
	Customers     CustomerRepository
	Vehicles      VehicleRepository
	Registrations RegistrationRepository
	Payments      PaymentRepository
	Prices        PriceRepository
	Users         UserRepository
	Reports       ReportRepository
}

// Store là ranh giới transaction của toàn bộ engine: mọi chuỗi ghi nhiều
// bước (đăng ký gửi xe, trả xe, tạo hàng loạt) đều nằm trọn trong một
// ExecTx — lỗi ở bước nào thì rollback toàn bộ, không có trạng thái dở dang.
type Store interface {
	Repos() *Repositories
	ExecTx(ctx context.Context, fn func(r *Repositories) error) error
}

type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	FindByID(ctx context.Context, id int) (*domain.Slot, error)
	// FindByIDForUpdate khóa dòng chỗ đỗ (SELECT ... FOR UPDATE); chỉ gọi
	// bên trong ExecTx. Đây là chốt chặn chống hai lượt đăng ký đồng thời
	// cùng giành một chỗ.
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Slot, error)
	FindByCode(ctx context.Context, code string) (*domain.Slot, error)
	FindAll(ctx context.Context) ([]domain.Slot, error)
	FindByStatus(ctx context.Context, status domain.SlotStatus) ([]domain.Slot, error)
	UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error
	Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	Delete(ctx context.Context, id int) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]domain.Customer, error)
	SoftDelete(ctx context.Context, id int) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id int) (*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plateNumber string) (*domain.Vehicle, error)
	FindByCustomerID(ctx context.Context, customerID int) ([]domain.Vehicle, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error)
	FindByID(ctx context.Context, id int) (*domain.Registration, error)
	// FindOpenBySlotID/FindOpenByVehicleID trả về ErrNoOpenRegistration
	// khi không có lượt nào đang mở.
	FindOpenBySlotID(ctx context.Context, slotID int) (*domain.Registration, error)
	FindOpenByVehicleID(ctx context.Context, vehicleID int) (*domain.Registration, error)
	HasOpenByCustomerID(ctx context.Context, customerID int) (bool, error)
	// Complete đặt check_out_time và chuyển trạng thái sang checked_out;
	// chỉ tác động lên lượt đang mở (lượt đã đóng trả về ErrNotFound).
	Complete(ctx context.Context, id int, checkOutTime time.Time) error
	FindOpenDetails(ctx context.Context) ([]domain.RegistrationDetail, error)
	FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationDetail, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByRegistrationID(ctx context.Context, registrationID int) ([]domain.Payment, error)
}

type PriceRepository interface {
	Create(ctx context.Context, price *domain.Price) (*domain.Price, error)
	FindByID(ctx context.Context, id int) (*domain.Price, error)
	FindActiveByVehicleType(ctx context.Context, vehicleType domain.VehicleType) (*domain.Price, error)
	FindAll(ctx context.Context) ([]domain.Price, error)
	Update(ctx context.Context, price *domain.Price) (*domain.Price, error)
	Deactivate(ctx context.Context, id int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
	FindByID(ctx context.Context, id int) (*domain.Report, error)
	FindAll(ctx context.Context) ([]domain.Report, error)
	FindByCustomerID(ctx context.Context, customerID int) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) (*domain.Report, error)
	AddComment(ctx context.Context, comment *domain.ReportComment) (*domain.ReportComment, error)
	FindCommentsByReportID(ctx context.Context, reportID int) ([]domain.ReportComment, error)
}
