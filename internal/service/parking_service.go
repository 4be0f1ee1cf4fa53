package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// Notifier đẩy sự kiện thời gian thực tới client. Hub websocket cài đặt
// giao diện này; trong test dùng bản ghi âm (recording mock).
type Notifier interface {
	BroadcastAll(event string, payload interface{})
	SendToUser(userID int, event string, payload interface{})
}

// ParkingService là engine vòng đời gửi xe: đăng ký, trả xe, tính phí và
// quản lý chỗ đỗ. Mọi chuỗi ghi nhiều bước chạy trong một transaction;
// sự kiện chỉ được phát SAU khi transaction commit thành công.
type ParkingService struct {
	store               repository.Store
	notifier            Notifier
	defaultPricePerHour float64
}

func NewParkingService(store repository.Store, notifier Notifier, defaultPricePerHour float64) *ParkingService {
	return &ParkingService{
		store:               store,
		notifier:            notifier,
		defaultPricePerHour: defaultPricePerHour,
	}
}

// RegisterParking xử lý một lượt đăng ký gửi xe trọn vẹn: giải quyết khách
// hàng và xe (tạo mới nếu cần), kiểm tra chỗ đỗ còn trống, ghi lượt gửi xe
// và chuyển chỗ đỗ sang occupied — tất cả trong một transaction. Chỗ đỗ
// được khóa dòng (FOR UPDATE) nên hai lượt đăng ký đồng thời cùng một chỗ
// chỉ có đúng một lượt thắng.
func (s *ParkingService) RegisterParking(ctx context.Context, req domain.RegisterParkingRequest) (*domain.RegisterParkingResult, error) {
	if req.SlotID <= 0 {
		return nil, ErrValidation("slot_id không hợp lệ")
	}

	var result *domain.RegisterParkingResult
	var slotEvent domain.SlotProjection

	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		slot, err := r.Slots.FindByIDForUpdate(ctx, req.SlotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", req.SlotID))
			}
			return err
		}
		if slot.Status != domain.SlotAvailable {
			return ErrConflict(fmt.Sprintf("chỗ đỗ '%s' không còn trống (trạng thái hiện tại: %s)", slot.Code, slot.Status))
		}

		customer, err := s.resolveCustomer(ctx, r, req.Customer)
		if err != nil {
			return err
		}

		vehicle, err := s.resolveVehicle(ctx, r, req.Vehicle, customer)
		if err != nil {
			return err
		}

		// Một xe chỉ được đỗ ở một chỗ tại một thời điểm.
		if open, err := r.Registrations.FindOpenByVehicleID(ctx, vehicle.ID); err == nil {
			where := "trong bãi"
			if open.SlotID.Valid {
				if s2, serr := r.Slots.FindByID(ctx, int(open.SlotID.Int64)); serr == nil {
					where = fmt.Sprintf("tại chỗ '%s'", s2.Code)
				}
			}
			return ErrConflict(fmt.Sprintf("xe '%s' đang đỗ %s", vehicle.PlateNumber, where))
		} else if !errors.Is(err, repository.ErrNoOpenRegistration) {
			return err
		}

		reg := &domain.Registration{
			VehicleID:   vehicle.ID,
			SlotID:      null.IntFrom(int64(slot.ID)),
			CheckInTime: time.Now().UTC(),
			Status:      domain.RegistrationActive,
		}
		if req.StaffID != nil {
			reg.StaffID = null.IntFrom(int64(*req.StaffID))
		}
		reg, err = r.Registrations.Create(ctx, reg)
		if err != nil {
			return err
		}

		if err := r.Slots.UpdateStatus(ctx, slot.ID, domain.SlotOccupied); err != nil {
			return err
		}

		slotEvent = domain.SlotProjection{
			ID:     slot.ID,
			Code:   slot.Code,
			Area:   slot.Area(),
			Status: domain.SlotOccupied,
			Occupant: &domain.OccupantInfo{
				RegistrationID: reg.ID,
				PlateNumber:    vehicle.PlateNumber,
				VehicleType:    vehicle.Type,
				CustomerName:   customer.FullName,
				CustomerPhone:  customer.Phone,
				CheckInTime:    reg.CheckInTime,
			},
		}
		result = &domain.RegisterParkingResult{
			RegistrationID: reg.ID,
			CustomerID:     customer.ID,
			VehicleID:      vehicle.ID,
			PlateNumber:    vehicle.PlateNumber,
			CheckInTime:    reg.CheckInTime,
			Slot:           slotEvent,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Đăng ký gửi xe thành công: lượt #%d, xe %s, chỗ %s", result.RegistrationID, result.PlateNumber, slotEvent.Code)
	s.notifier.BroadcastAll(domain.EventParkingRegistered, result)
	s.notifier.BroadcastAll(domain.EventSlotUpdated, slotEvent)
	return result, nil
}

// StaffRegisterParking là biến thể cho nhân viên quầy: cùng luồng với
// RegisterParking nhưng ghi lại nhân viên thực hiện.
func (s *ParkingService) StaffRegisterParking(ctx context.Context, staffID int, req domain.RegisterParkingRequest) (*domain.RegisterParkingResult, error) {
	req.StaffID = &staffID
	return s.RegisterParking(ctx, req)
}

func (s *ParkingService) resolveCustomer(ctx context.Context, r *repository.Repositories, ref domain.CustomerRef) (*domain.Customer, error) {
	if ref.CustomerID != nil {
		customer, err := r.Customers.FindByID(ctx, *ref.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound(fmt.Sprintf("không tìm thấy khách hàng với id %d", *ref.CustomerID))
			}
			return nil, err
		}
		return customer, nil
	}

	if ref.FullName == "" || ref.Phone == "" {
		return nil, ErrValidation("cần họ tên và số điện thoại để tạo khách hàng mới")
	}

	// Số điện thoại là định danh duy nhất: đã có khách dùng số này thì
	// từ chối, bất kể đăng ký qua luồng nào.
	if existing, err := r.Customers.FindByPhone(ctx, ref.Phone); err == nil {
		return nil, ErrConflict(fmt.Sprintf("số điện thoại '%s' đã được đăng ký cho khách hàng '%s'", ref.Phone, existing.FullName))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Mật khẩu mặc định là số điện thoại; khách đổi sau khi đăng nhập lần đầu.
	hashed, err := bcrypt.GenerateFromPassword([]byte(ref.Phone), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi băm mật khẩu mặc định: %w", err)
	}

	customer := &domain.Customer{
		FullName: ref.FullName,
		Phone:    ref.Phone,
		Password: string(hashed),
	}
	if ref.Email != "" {
		customer.Email = null.StringFrom(ref.Email)
	}
	customer, err = r.Customers.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict(err.Error())
		}
		return nil, err
	}
	return customer, nil
}

func (s *ParkingService) resolveVehicle(ctx context.Context, r *repository.Repositories, ref domain.VehicleRef, customer *domain.Customer) (*domain.Vehicle, error) {
	if ref.VehicleID != nil {
		vehicle, err := r.Vehicles.FindByID(ctx, *ref.VehicleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound(fmt.Sprintf("không tìm thấy xe với id %d", *ref.VehicleID))
			}
			return nil, err
		}
		if vehicle.CustomerID != customer.ID {
			return nil, ErrConflict(fmt.Sprintf("xe '%s' không thuộc khách hàng '%s'", vehicle.PlateNumber, customer.FullName))
		}
		return vehicle, nil
	}

	if ref.PlateNumber == "" {
		return nil, ErrValidation("cần biển số xe")
	}

	if existing, err := r.Vehicles.FindByPlate(ctx, ref.PlateNumber); err == nil {
		if existing.CustomerID != customer.ID {
			return nil, ErrConflict(fmt.Sprintf("biển số '%s' đã đăng ký cho khách hàng khác", ref.PlateNumber))
		}
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if !domain.ValidVehicleType(ref.Type) {
		return nil, ErrValidation(fmt.Sprintf("loại xe '%s' không hợp lệ", ref.Type))
	}
	vehicle, err := r.Vehicles.Create(ctx, &domain.Vehicle{
		PlateNumber: ref.PlateNumber,
		Type:        domain.VehicleType(ref.Type),
		CustomerID:  customer.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict(err.Error())
		}
		return nil, err
	}
	return vehicle, nil
}

// CheckOut đóng một lượt gửi xe: đặt giờ ra, trả chỗ đỗ về available và ghi
// sổ thanh toán nếu có. RequestID chống ghi trùng khi client retry — lần
// gọi thứ hai với cùng RequestID bị từ chối và transaction rollback, trạng
// thái lượt gửi xe giữ nguyên.
func (s *ParkingService) CheckOut(ctx context.Context, req domain.CheckOutRequest) (*domain.CheckOutResult, error) {
	if req.RegistrationID <= 0 {
		return nil, ErrValidation("registration_id không hợp lệ")
	}
	if req.PaymentAmount < 0 {
		return nil, ErrValidation("số tiền thanh toán không được âm")
	}
	method := req.PaymentMethod
	if method == "" {
		method = string(domain.PaymentCash)
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, ErrValidation(fmt.Sprintf("phương thức thanh toán '%s' không hợp lệ", method))
	}

	var result *domain.CheckOutResult
	var slotEvent *domain.SlotProjection

	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		reg, err := r.Registrations.FindByID(ctx, req.RegistrationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy lượt gửi xe với id %d", req.RegistrationID))
			}
			return err
		}
		if !reg.IsOpen() {
			return ErrConflict(fmt.Sprintf("lượt gửi xe #%d đã được trả xe trước đó", reg.ID))
		}

		checkOutTime := time.Now().UTC()
		if err := r.Registrations.Complete(ctx, reg.ID, checkOutTime); err != nil {
			// Complete chỉ tác động lên lượt đang mở: hai lần trả xe chạy
			// đua thì kẻ thua đọc được lượt còn mở nhưng Complete trượt.
			if errors.Is(err, repository.ErrNotFound) {
				return ErrConflict(fmt.Sprintf("lượt gửi xe #%d đã được trả xe trước đó", reg.ID))
			}
			return err
		}

		var slotID int
		var slotCode string
		if reg.SlotID.Valid {
			slotID = int(reg.SlotID.Int64)
			slot, err := r.Slots.FindByIDForUpdate(ctx, slotID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err == nil {
				slotCode = slot.Code
				if err := r.Slots.UpdateStatus(ctx, slot.ID, domain.SlotAvailable); err != nil {
					return err
				}
				slotEvent = &domain.SlotProjection{
					ID:     slot.ID,
					Code:   slot.Code,
					Area:   slot.Area(),
					Status: domain.SlotAvailable,
				}
			}
		}

		if req.PaymentAmount > 0 {
			requestID := req.RequestID
			if requestID == "" {
				requestID = uuid.NewString()
			}
			_, err := r.Payments.Create(ctx, &domain.Payment{
				RegistrationID: reg.ID,
				Amount:         req.PaymentAmount,
				Method:         domain.PaymentMethod(method),
				PaymentDate:    checkOutTime,
				RequestID:      null.StringFrom(requestID),
			})
			if err != nil {
				if errors.Is(err, repository.ErrDuplicateEntry) {
					return ErrConflict(err.Error())
				}
				return err
			}
		}

		result = &domain.CheckOutResult{
			RegistrationID:  reg.ID,
			SlotID:          slotID,
			SlotCode:        slotCode,
			CheckOutTime:    checkOutTime,
			TotalAmount:     req.PaymentAmount,
			DurationMinutes: int64(checkOutTime.Sub(reg.CheckInTime).Minutes()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Trả xe thành công: lượt #%d, chỗ %s, thời gian đỗ %d phút", result.RegistrationID, result.SlotCode, result.DurationMinutes)
	s.notifier.BroadcastAll(domain.EventSlotCheckedOut, domain.SlotCheckedOutEvent{
		SlotID:         result.SlotID,
		RegistrationID: result.RegistrationID,
		CheckOutTime:   result.CheckOutTime,
	})
	if slotEvent != nil {
		s.notifier.BroadcastAll(domain.EventSlotUpdated, *slotEvent)
	}
	return result, nil
}

// CalculateFee tính phí tạm thời cho một lượt gửi xe, không ghi gì vào DB.
// Lượt đang mở tính đến thời điểm hiện tại; lượt đã đóng tính theo giờ ra
// thực tế. totalAmount = round(totalHours × pricePerHour).
func (s *ParkingService) CalculateFee(ctx context.Context, registrationID int) (*domain.FeeResult, error) {
	r := s.store.Repos()

	reg, err := r.Registrations.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy lượt gửi xe với id %d", registrationID))
		}
		return nil, err
	}

	vehicle, err := r.Vehicles.FindByID(ctx, reg.VehicleID)
	if err != nil {
		return nil, err
	}

	pricePerHour := s.defaultPricePerHour
	if price, err := r.Prices.FindActiveByVehicleType(ctx, vehicle.Type); err == nil {
		pricePerHour = price.PricePerHour
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	end := time.Now().UTC()
	if reg.CheckOutTime.Valid {
		end = reg.CheckOutTime.Time
	}
	totalHours := end.Sub(reg.CheckInTime).Hours()
	if totalHours < 0 {
		totalHours = 0
	}

	return &domain.FeeResult{
		RegistrationID: reg.ID,
		VehicleType:    vehicle.Type,
		PricePerHour:   pricePerHour,
		TotalHours:     totalHours,
		TotalAmount:    math.Round(totalHours * pricePerHour),
	}, nil
}

// UpdateSlotStatus ghi đè trạng thái chỗ đỗ vô điều kiện — công cụ cho
// admin đánh dấu bảo trì/đặt trước ngoài luồng đăng ký. Không kiểm tra
// nghiệp vụ nào ngoài sự tồn tại của chỗ đỗ.
func (s *ParkingService) UpdateSlotStatus(ctx context.Context, slotID int, status string) (*domain.SlotProjection, error) {
	newStatus := domain.SlotStatus(status)
	switch newStatus {
	case domain.SlotAvailable, domain.SlotOccupied, domain.SlotMaintenance, domain.SlotReserved:
	default:
		return nil, ErrValidation(fmt.Sprintf("trạng thái '%s' không hợp lệ", status))
	}

	var projection *domain.SlotProjection
	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		slot, err := r.Slots.FindByIDForUpdate(ctx, slotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", slotID))
			}
			return err
		}

		if err := r.Slots.UpdateStatus(ctx, slot.ID, newStatus); err != nil {
			return err
		}
		projection = &domain.SlotProjection{ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: newStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BroadcastAll(domain.EventSlotUpdated, *projection)
	return projection, nil
}

func (s *ParkingService) CreateSlot(ctx context.Context, dto domain.SlotDTO) (*domain.SlotProjection, error) {
	if dto.Code == "" {
		return nil, ErrValidation("cần mã chỗ đỗ")
	}
	status := domain.SlotAvailable
	if dto.Status != "" {
		status = domain.SlotStatus(dto.Status)
		switch status {
		case domain.SlotAvailable, domain.SlotMaintenance, domain.SlotReserved:
		default:
			return nil, ErrValidation(fmt.Sprintf("trạng thái khởi tạo '%s' không hợp lệ", dto.Status))
		}
	}

	slot, err := s.store.Repos().Slots.Create(ctx, &domain.Slot{Code: dto.Code, Status: status})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict(err.Error())
		}
		return nil, err
	}

	projection := domain.SlotProjection{ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status}
	s.notifier.BroadcastAll(domain.EventSlotCreated, domain.SlotCreatedEvent{Slot: projection})
	return &projection, nil
}

// BulkCreateSlots tạo nhiều chỗ đỗ trong một transaction: một mã trùng thì
// toàn bộ lô bị hủy.
func (s *ParkingService) BulkCreateSlots(ctx context.Context, dto domain.BulkCreateSlotsDTO) ([]domain.SlotProjection, error) {
	if len(dto.Codes) == 0 {
		return nil, ErrValidation("danh sách mã chỗ đỗ trống")
	}
	seen := make(map[string]bool, len(dto.Codes))
	for _, code := range dto.Codes {
		if code == "" {
			return nil, ErrValidation("mã chỗ đỗ không được để trống")
		}
		if seen[code] {
			return nil, ErrValidation(fmt.Sprintf("mã chỗ đỗ '%s' bị lặp trong danh sách", code))
		}
		seen[code] = true
	}

	var projections []domain.SlotProjection
	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		for _, code := range dto.Codes {
			slot, err := r.Slots.Create(ctx, &domain.Slot{Code: code, Status: domain.SlotAvailable})
			if err != nil {
				if errors.Is(err, repository.ErrDuplicateEntry) {
					return ErrConflict(err.Error())
				}
				return err
			}
			projections = append(projections, domain.SlotProjection{
				ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Đã tạo %d chỗ đỗ", len(projections))
	s.notifier.BroadcastAll(domain.EventSlotsBulkCreated, domain.SlotsBulkCreatedEvent{Slots: projections})
	return projections, nil
}

func (s *ParkingService) UpdateSlot(ctx context.Context, id int, dto domain.SlotDTO) (*domain.SlotProjection, error) {
	if dto.Code == "" {
		return nil, ErrValidation("cần mã chỗ đỗ")
	}

	var projection *domain.SlotProjection
	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		slot, err := r.Slots.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", id))
			}
			return err
		}
		slot.Code = dto.Code
		slot, err = r.Slots.Update(ctx, slot)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEntry) {
				return ErrConflict(err.Error())
			}
			return err
		}
		projection = &domain.SlotProjection{ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BroadcastAll(domain.EventSlotUpdated, *projection)
	return projection, nil
}

// DeleteSlot xóa cứng một chỗ đỗ. Chỗ đang có xe gửi chỉ xóa được với
// force=true: lượt gửi xe vẫn mở nhưng slot_id bị đặt NULL (khóa ngoại
// ON DELETE SET NULL) — lịch sử gửi xe không bao giờ mất theo chỗ đỗ.
func (s *ParkingService) DeleteSlot(ctx context.Context, id int, force bool) (*domain.DeleteSlotResult, error) {
	var result *domain.DeleteSlotResult
	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		slot, err := r.Slots.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", id))
			}
			return err
		}

		if _, err := r.Registrations.FindOpenBySlotID(ctx, slot.ID); err == nil {
			if !force {
				return ErrConflict(fmt.Sprintf("chỗ đỗ '%s' đang có xe gửi; dùng force để xóa", slot.Code))
			}
		} else if !errors.Is(err, repository.ErrNoOpenRegistration) {
			return err
		}

		if err := r.Slots.Delete(ctx, slot.ID); err != nil {
			return err
		}
		result = &domain.DeleteSlotResult{SlotID: slot.ID, Code: slot.Code, Deleted: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BroadcastAll(domain.EventSlotDeleted, domain.SlotDeletedEvent{SlotID: result.SlotID, Code: result.Code})
	return result, nil
}

// BulkDeleteSlots xóa nhiều chỗ đỗ trong một transaction, cùng chính sách
// force như DeleteSlot.
func (s *ParkingService) BulkDeleteSlots(ctx context.Context, dto domain.BulkDeleteSlotsDTO) ([]int, error) {
	if len(dto.SlotIDs) == 0 {
		return nil, ErrValidation("danh sách chỗ đỗ trống")
	}

	var deleted []int
	err := s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		for _, id := range dto.SlotIDs {
			slot, err := r.Slots.FindByIDForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", id))
				}
				return err
			}
			if _, err := r.Registrations.FindOpenBySlotID(ctx, slot.ID); err == nil {
				if !dto.Force {
					return ErrConflict(fmt.Sprintf("chỗ đỗ '%s' đang có xe gửi; dùng force để xóa", slot.Code))
				}
			} else if !errors.Is(err, repository.ErrNoOpenRegistration) {
				return err
			}
			if err := r.Slots.Delete(ctx, slot.ID); err != nil {
				return err
			}
			deleted = append(deleted, slot.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Đã xóa %d chỗ đỗ", len(deleted))
	s.notifier.BroadcastAll(domain.EventSlotsBulkDeleted, domain.SlotsBulkDeletedEvent{SlotIDs: deleted})
	return deleted, nil
}

// CheckCustomerByPhone tra cứu nhanh cho nhân viên quầy; trả về bản rút gọn
// không chứa mật khẩu hay email.
func (s *ParkingService) CheckCustomerByPhone(ctx context.Context, phone string) (*domain.CheckCustomerByPhoneResult, error) {
	if phone == "" {
		return nil, ErrValidation("cần số điện thoại")
	}
	customer, err := s.store.Repos().Customers.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.CheckCustomerByPhoneResult{Exists: false}, nil
		}
		return nil, err
	}
	summary := customer.Summary()
	return &domain.CheckCustomerByPhoneResult{Exists: true, Customer: &summary}, nil
}
