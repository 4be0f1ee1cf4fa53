package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

func newTestService(t *testing.T) (*ParkingService, *fakeStore, *recordingNotifier) {
	t.Helper()
	store := newFakeStore()
	notifier := &recordingNotifier{}
	return NewParkingService(store, notifier, 10000), store, notifier
}

func seedSlot(t *testing.T, store *fakeStore, code string, status domain.SlotStatus) *domain.Slot {
	t.Helper()
	slot, err := store.Repos().Slots.Create(context.Background(), &domain.Slot{Code: code, Status: status})
	if err != nil {
		t.Fatalf("không tạo được chỗ đỗ %s: %v", code, err)
	}
	return slot
}

func registerRequest(slotID int, phone, plate string) domain.RegisterParkingRequest {
	return domain.RegisterParkingRequest{
		SlotID:   slotID,
		Customer: domain.CustomerRef{FullName: "Nguyễn Văn An", Phone: phone},
		Vehicle:  domain.VehicleRef{PlateNumber: plate, Type: "car"},
	}
}

func assertBizErr(t *testing.T, err error, code ErrorCode) *BusinessError {
	t.Helper()
	if err == nil {
		t.Fatalf("muốn lỗi %s, nhận được nil", code)
	}
	var bizErr *BusinessError
	if !errors.As(err, &bizErr) {
		t.Fatalf("muốn BusinessError, nhận được %T: %v", err, err)
	}
	if bizErr.Code != code {
		t.Fatalf("muốn mã lỗi %s, nhận được %s (%s)", code, bizErr.Code, bizErr.Message)
	}
	return bizErr
}

func TestRegisterParking(t *testing.T) {
	svc, store, notifier := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	result, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))
	if err != nil {
		t.Fatalf("RegisterParking lỗi: %v", err)
	}
	if result.PlateNumber != "30A-12345" {
		t.Errorf("biển số: muốn 30A-12345, nhận %s", result.PlateNumber)
	}
	if result.Slot.Status != domain.SlotOccupied {
		t.Errorf("trạng thái chỗ đỗ trong kết quả: muốn occupied, nhận %s", result.Slot.Status)
	}
	if result.Slot.Occupant == nil || result.Slot.Occupant.CustomerPhone != "0901234567" {
		t.Errorf("thiếu thông tin xe đang chiếm chỗ trong kết quả")
	}

	stored, _ := store.Repos().Slots.FindByID(context.Background(), slot.ID)
	if stored.Status != domain.SlotOccupied {
		t.Errorf("chỗ đỗ sau đăng ký: muốn occupied, nhận %s", stored.Status)
	}

	events := notifier.broadcastEvents()
	if len(events) != 2 || events[0] != domain.EventParkingRegistered || events[1] != domain.EventSlotUpdated {
		t.Errorf("sự kiện phát ra không đúng: %v", events)
	}
}

func TestRegisterParkingSlotNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.RegisterParking(context.Background(), registerRequest(99, "0901234567", "30A-12345"))
	assertBizErr(t, err, CodeNotFound)
}

func TestRegisterParkingSlotUnavailable(t *testing.T) {
	svc, store, notifier := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotMaintenance)

	_, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))
	assertBizErr(t, err, CodeConflict)
	if len(notifier.broadcasts) != 0 {
		t.Errorf("không được phát sự kiện khi đăng ký thất bại")
	}
}

func TestRegisterParkingDuplicatePhone(t *testing.T) {
	svc, store, _ := newTestService(t)
	slotA := seedSlot(t, store, "A01", domain.SlotAvailable)
	slotB := seedSlot(t, store, "A02", domain.SlotAvailable)

	if _, err := svc.RegisterParking(context.Background(), registerRequest(slotA.ID, "0901234567", "30A-12345")); err != nil {
		t.Fatalf("đăng ký đầu tiên lỗi: %v", err)
	}

	// Cùng số điện thoại nhưng khách khác — phải bị từ chối, và không được
	// để lại xe mới nào trong kho (transaction rollback).
	req := domain.RegisterParkingRequest{
		SlotID:   slotB.ID,
		Customer: domain.CustomerRef{FullName: "Trần Thị Bình", Phone: "0901234567"},
		Vehicle:  domain.VehicleRef{PlateNumber: "29B-67890", Type: "motorbike"},
	}
	_, err := svc.RegisterParking(context.Background(), req)
	assertBizErr(t, err, CodeConflict)

	if _, err := store.Repos().Vehicles.FindByPlate(context.Background(), "29B-67890"); err == nil {
		t.Errorf("xe của lượt đăng ký thất bại không được tồn tại")
	}
	slotAfter, _ := store.Repos().Slots.FindByID(context.Background(), slotB.ID)
	if slotAfter.Status != domain.SlotAvailable {
		t.Errorf("chỗ đỗ của lượt thất bại phải còn trống, nhận %s", slotAfter.Status)
	}
}

func TestRegisterParkingPlateOwnedByOtherCustomer(t *testing.T) {
	svc, store, _ := newTestService(t)
	slotA := seedSlot(t, store, "A01", domain.SlotAvailable)
	slotB := seedSlot(t, store, "A02", domain.SlotAvailable)

	first, err := svc.RegisterParking(context.Background(), registerRequest(slotA.ID, "0901234567", "30A-12345"))
	if err != nil {
		t.Fatalf("đăng ký đầu tiên lỗi: %v", err)
	}
	if _, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: first.RegistrationID}); err != nil {
		t.Fatalf("trả xe lỗi: %v", err)
	}

	req := domain.RegisterParkingRequest{
		SlotID:   slotB.ID,
		Customer: domain.CustomerRef{FullName: "Trần Thị Bình", Phone: "0987654321"},
		Vehicle:  domain.VehicleRef{PlateNumber: "30A-12345", Type: "car"},
	}
	_, err = svc.RegisterParking(context.Background(), req)
	assertBizErr(t, err, CodeConflict)
}

func TestRegisterParkingVehicleAlreadyParked(t *testing.T) {
	svc, store, _ := newTestService(t)
	slotA := seedSlot(t, store, "A01", domain.SlotAvailable)
	slotB := seedSlot(t, store, "B01", domain.SlotAvailable)

	if _, err := svc.RegisterParking(context.Background(), registerRequest(slotA.ID, "0901234567", "30A-12345")); err != nil {
		t.Fatalf("đăng ký đầu tiên lỗi: %v", err)
	}

	_, err := svc.RegisterParking(context.Background(), registerRequest(slotB.ID, "0901234567", "30A-12345"))
	bizErr := assertBizErr(t, err, CodeConflict)
	if !strings.Contains(bizErr.Message, "A01") {
		t.Errorf("thông báo lỗi phải nêu mã chỗ đang đỗ, nhận: %s", bizErr.Message)
	}

	slotAfter, _ := store.Repos().Slots.FindByID(context.Background(), slotB.ID)
	if slotAfter.Status != domain.SlotAvailable {
		t.Errorf("chỗ đỗ thứ hai phải còn trống, nhận %s", slotAfter.Status)
	}
}

func TestRegisterParkingSameSlotTwice(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	if _, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345")); err != nil {
		t.Fatalf("đăng ký đầu tiên lỗi: %v", err)
	}
	_, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0987654321", "29B-67890"))
	assertBizErr(t, err, CodeConflict)
}

func TestStaffRegisterParkingRecordsStaff(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	result, err := svc.StaffRegisterParking(context.Background(), 7, registerRequest(slot.ID, "0901234567", "30A-12345"))
	if err != nil {
		t.Fatalf("StaffRegisterParking lỗi: %v", err)
	}
	reg, _ := store.Repos().Registrations.FindByID(context.Background(), result.RegistrationID)
	if !reg.StaffID.Valid || reg.StaffID.Int64 != 7 {
		t.Errorf("lượt gửi xe phải ghi nhân viên thực hiện, nhận %+v", reg.StaffID)
	}
}

func TestCheckOutRoundtrip(t *testing.T) {
	svc, store, notifier := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	result, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))
	if err != nil {
		t.Fatalf("đăng ký lỗi: %v", err)
	}

	out, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{
		RegistrationID: result.RegistrationID,
		PaymentAmount:  15000,
		PaymentMethod:  "cash",
		RequestID:      "req-001",
	})
	if err != nil {
		t.Fatalf("CheckOut lỗi: %v", err)
	}
	if out.SlotCode != "A01" {
		t.Errorf("mã chỗ đỗ: muốn A01, nhận %s", out.SlotCode)
	}
	if out.TotalAmount != 15000 {
		t.Errorf("số tiền: muốn 15000, nhận %v", out.TotalAmount)
	}

	slotAfter, _ := store.Repos().Slots.FindByID(context.Background(), slot.ID)
	if slotAfter.Status != domain.SlotAvailable {
		t.Errorf("chỗ đỗ sau trả xe phải available, nhận %s", slotAfter.Status)
	}
	reg, _ := store.Repos().Registrations.FindByID(context.Background(), result.RegistrationID)
	if reg.Status != domain.RegistrationCheckedOut || !reg.CheckOutTime.Valid {
		t.Errorf("lượt gửi xe phải ở trạng thái checked_out với giờ ra, nhận %+v", reg)
	}
	payments, _ := store.Repos().Payments.FindByRegistrationID(context.Background(), result.RegistrationID)
	if len(payments) != 1 || payments[0].Amount != 15000 {
		t.Errorf("phải có đúng một dòng thanh toán 15000, nhận %+v", payments)
	}

	found := false
	for _, e := range notifier.broadcastEvents() {
		if e == domain.EventSlotCheckedOut {
			found = true
		}
	}
	if !found {
		t.Errorf("thiếu sự kiện SlotCheckedOut: %v", notifier.broadcastEvents())
	}
}

func TestCheckOutTwice(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	result, _ := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))
	first, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: result.RegistrationID})
	if err != nil {
		t.Fatalf("lần trả xe đầu lỗi: %v", err)
	}

	_, err = svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: result.RegistrationID, PaymentAmount: 5000})
	assertBizErr(t, err, CodeConflict)

	// Trạng thái không đổi sau lần gọi thứ hai.
	reg, _ := store.Repos().Registrations.FindByID(context.Background(), result.RegistrationID)
	if !reg.CheckOutTime.Valid || !reg.CheckOutTime.Time.Equal(first.CheckOutTime) {
		t.Errorf("giờ ra không được thay đổi bởi lần gọi thứ hai")
	}
	payments, _ := store.Repos().Payments.FindByRegistrationID(context.Background(), result.RegistrationID)
	if len(payments) != 0 {
		t.Errorf("lần gọi thất bại không được ghi thanh toán, nhận %d dòng", len(payments))
	}
}

func TestCheckOutDuplicateRequestID(t *testing.T) {
	svc, store, _ := newTestService(t)
	slotA := seedSlot(t, store, "A01", domain.SlotAvailable)
	slotB := seedSlot(t, store, "A02", domain.SlotAvailable)

	first, _ := svc.RegisterParking(context.Background(), registerRequest(slotA.ID, "0901234567", "30A-12345"))
	second, _ := svc.RegisterParking(context.Background(), registerRequest(slotB.ID, "0987654321", "29B-67890"))

	if _, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{
		RegistrationID: first.RegistrationID, PaymentAmount: 10000, RequestID: "req-dup",
	}); err != nil {
		t.Fatalf("trả xe đầu tiên lỗi: %v", err)
	}

	// Cùng khóa idempotency: toàn bộ lượt trả xe thứ hai phải bị hủy,
	// lượt gửi xe vẫn mở và chỗ đỗ vẫn occupied.
	_, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{
		RegistrationID: second.RegistrationID, PaymentAmount: 10000, RequestID: "req-dup",
	})
	assertBizErr(t, err, CodeConflict)

	reg, _ := store.Repos().Registrations.FindByID(context.Background(), second.RegistrationID)
	if reg.Status != domain.RegistrationActive {
		t.Errorf("lượt gửi xe phải vẫn mở sau khi trả xe bị hủy, nhận %s", reg.Status)
	}
	slotAfter, _ := store.Repos().Slots.FindByID(context.Background(), slotB.ID)
	if slotAfter.Status != domain.SlotOccupied {
		t.Errorf("chỗ đỗ phải vẫn occupied sau rollback, nhận %s", slotAfter.Status)
	}
}

func TestCheckOutNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: 123})
	assertBizErr(t, err, CodeNotFound)
}

func TestCalculateFee(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	if _, err := store.Repos().Prices.Create(context.Background(), &domain.Price{
		VehicleType: domain.VehicleCar, PricePerHour: 20000,
	}); err != nil {
		t.Fatalf("không tạo được biểu giá: %v", err)
	}

	result, _ := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))

	// Lùi giờ vào 2 tiếng để có thời lượng tính phí.
	reg := store.data.registrations[result.RegistrationID]
	reg.CheckInTime = time.Now().UTC().Add(-2 * time.Hour)
	store.data.registrations[result.RegistrationID] = reg

	fee, err := svc.CalculateFee(context.Background(), result.RegistrationID)
	if err != nil {
		t.Fatalf("CalculateFee lỗi: %v", err)
	}
	if fee.PricePerHour != 20000 {
		t.Errorf("đơn giá: muốn 20000, nhận %v", fee.PricePerHour)
	}
	if fee.TotalAmount < 39990 || fee.TotalAmount > 40010 {
		t.Errorf("tổng tiền 2 giờ: muốn ~40000, nhận %v", fee.TotalAmount)
	}
}

func TestCalculateFeeDefaultRate(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	result, _ := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))

	fee, err := svc.CalculateFee(context.Background(), result.RegistrationID)
	if err != nil {
		t.Fatalf("CalculateFee lỗi: %v", err)
	}
	if fee.PricePerHour != 10000 {
		t.Errorf("phải dùng giá mặc định 10000 khi chưa có biểu giá, nhận %v", fee.PricePerHour)
	}
}

func TestCalculateFeeZeroDuration(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	result, _ := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))

	// Đóng lượt với giờ ra bằng đúng giờ vào.
	reg := store.data.registrations[result.RegistrationID]
	if err := store.Repos().Registrations.Complete(context.Background(), reg.ID, reg.CheckInTime); err != nil {
		t.Fatalf("Complete lỗi: %v", err)
	}

	fee, err := svc.CalculateFee(context.Background(), result.RegistrationID)
	if err != nil {
		t.Fatalf("CalculateFee lỗi: %v", err)
	}
	if fee.TotalAmount != 0 {
		t.Errorf("thời lượng 0 phải cho phí 0, nhận %v", fee.TotalAmount)
	}
}

func TestUpdateSlotStatus(t *testing.T) {
	svc, store, notifier := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	if _, err := svc.UpdateSlotStatus(context.Background(), slot.ID, "bay"); err == nil {
		t.Fatalf("trạng thái lạ phải bị từ chối")
	}

	projection, err := svc.UpdateSlotStatus(context.Background(), slot.ID, "maintenance")
	if err != nil {
		t.Fatalf("UpdateSlotStatus lỗi: %v", err)
	}
	if projection.Status != domain.SlotMaintenance {
		t.Errorf("trạng thái: muốn maintenance, nhận %s", projection.Status)
	}
	events := notifier.broadcastEvents()
	if len(events) != 1 || events[0] != domain.EventSlotUpdated {
		t.Errorf("phải phát đúng một sự kiện SlotUpdated, nhận %v", events)
	}
}

func TestDeleteSlotInUse(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	result, _ := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))

	_, err := svc.DeleteSlot(context.Background(), slot.ID, false)
	assertBizErr(t, err, CodeConflict)

	// force=true: chỗ đỗ bị xóa cứng, lượt gửi xe vẫn còn nhưng slot_id NULL.
	deleted, err := svc.DeleteSlot(context.Background(), slot.ID, true)
	if err != nil {
		t.Fatalf("DeleteSlot force lỗi: %v", err)
	}
	if !deleted.Deleted || deleted.Code != "A01" {
		t.Errorf("kết quả xóa không đúng: %+v", deleted)
	}
	reg, err := store.Repos().Registrations.FindByID(context.Background(), result.RegistrationID)
	if err != nil {
		t.Fatalf("lượt gửi xe phải còn sau khi xóa chỗ đỗ: %v", err)
	}
	if reg.SlotID.Valid {
		t.Errorf("slot_id của lượt gửi xe phải NULL sau khi xóa chỗ đỗ")
	}
}

func TestBulkCreateSlotsRollsBackOnDuplicate(t *testing.T) {
	svc, store, notifier := newTestService(t)
	seedSlot(t, store, "B02", domain.SlotAvailable)

	_, err := svc.BulkCreateSlots(context.Background(), domain.BulkCreateSlotsDTO{Codes: []string{"B01", "B02", "B03"}})
	assertBizErr(t, err, CodeConflict)

	if _, err := store.Repos().Slots.FindByCode(context.Background(), "B01"); err == nil {
		t.Errorf("B01 không được tồn tại sau khi lô bị hủy")
	}
	if len(notifier.broadcasts) != 0 {
		t.Errorf("không được phát sự kiện khi lô thất bại")
	}
}

func TestBulkCreateSlots(t *testing.T) {
	svc, _, notifier := newTestService(t)

	slots, err := svc.BulkCreateSlots(context.Background(), domain.BulkCreateSlotsDTO{Codes: []string{"C01", "C02", "C03"}})
	if err != nil {
		t.Fatalf("BulkCreateSlots lỗi: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("muốn 3 chỗ đỗ, nhận %d", len(slots))
	}
	events := notifier.broadcastEvents()
	if len(events) != 1 || events[0] != domain.EventSlotsBulkCreated {
		t.Errorf("phải phát đúng một sự kiện SlotsBulkCreated, nhận %v", events)
	}
}

func TestCheckCustomerByPhone(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))

	result, err := svc.CheckCustomerByPhone(context.Background(), "0901234567")
	if err != nil {
		t.Fatalf("CheckCustomerByPhone lỗi: %v", err)
	}
	if !result.Exists || result.Customer == nil || result.Customer.Phone != "0901234567" {
		t.Errorf("phải tìm thấy khách hàng: %+v", result)
	}

	missing, err := svc.CheckCustomerByPhone(context.Background(), "0000000000")
	if err != nil {
		t.Fatalf("CheckCustomerByPhone lỗi: %v", err)
	}
	if missing.Exists || missing.Customer != nil {
		t.Errorf("số lạ không được trả về khách hàng: %+v", missing)
	}
}

func TestRegisterParkingConcurrentOneWinner(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)

	requests := []domain.RegisterParkingRequest{
		registerRequest(slot.ID, "0901234567", "30A-12345"),
		registerRequest(slot.ID, "0907654321", "51B-67890"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i := range requests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RegisterParking(context.Background(), requests[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assertBizErr(t, err, CodeConflict)
	}
	if winners != 1 {
		t.Fatalf("hai lượt đăng ký cùng một chỗ: muốn đúng 1 lượt thắng, nhận %d", winners)
	}

	stored, _ := store.Repos().Slots.FindByID(context.Background(), slot.ID)
	if stored.Status != domain.SlotOccupied {
		t.Errorf("chỗ đỗ sau cuộc đua: muốn occupied, nhận %s", stored.Status)
	}
	open, err := store.Repos().Registrations.FindOpenBySlotID(context.Background(), slot.ID)
	if err != nil || open == nil {
		t.Fatalf("phải còn đúng một lượt đang mở trên chỗ đỗ: %v", err)
	}
}

// staleOpenRegistrationRepo trả về bản đọc cũ của một lượt gửi xe — lượt
// trông như còn mở dù đã bị một lần trả xe khác đóng trước đó.
type staleOpenRegistrationRepo struct {
	repository.RegistrationRepository
	stale domain.Registration
}

func (r *staleOpenRegistrationRepo) FindByID(ctx context.Context, id int) (*domain.Registration, error) {
	reg := r.stale
	return &reg, nil
}

func TestCheckOutRaceLoserGetsConflict(t *testing.T) {
	svc, store, _ := newTestService(t)
	slot := seedSlot(t, store, "A01", domain.SlotAvailable)
	result, err := svc.RegisterParking(context.Background(), registerRequest(slot.ID, "0901234567", "30A-12345"))
	if err != nil {
		t.Fatalf("đăng ký lỗi: %v", err)
	}

	stillOpen := store.data.registrations[result.RegistrationID]

	if _, err := svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: result.RegistrationID}); err != nil {
		t.Fatalf("trả xe lỗi: %v", err)
	}

	// Kẻ thua cuộc đua đọc được lượt còn mở nhưng Complete đã trượt:
	// phải nhận conflict chứ không phải lỗi hệ thống.
	store.repos.Registrations = &staleOpenRegistrationRepo{
		RegistrationRepository: store.repos.Registrations,
		stale:                  stillOpen,
	}
	_, err = svc.CheckOut(context.Background(), domain.CheckOutRequest{RegistrationID: result.RegistrationID})
	assertBizErr(t, err, CodeConflict)
}
