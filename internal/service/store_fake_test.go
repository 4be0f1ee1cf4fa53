package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/guregu/null.v4"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// fakeStore là bản cài đặt trong bộ nhớ của repository.Store cho test.
// ExecTx chụp lại toàn bộ trạng thái trước khi chạy fn và khôi phục khi fn
// trả lỗi — mô phỏng đúng ngữ nghĩa rollback của transaction thật. Các
// transaction được tuần tự hóa bằng mutex, tương đương khóa dòng FOR UPDATE
// trong các test chạy đua nhiều goroutine.
type fakeStore struct {
	mu    sync.Mutex
	data  *fakeData
	repos *repository.Repositories
}

type fakeData struct {
	slots         map[int]domain.Slot
	customers     map[int]domain.Customer
	vehicles      map[int]domain.Vehicle
	registrations map[int]domain.Registration
	payments      map[int]domain.Payment
	prices        map[int]domain.Price
	users         map[int]domain.User
	reports       map[int]domain.Report
	comments      map[int]domain.ReportComment
	nextID        int
}

func newFakeStore() *fakeStore {
	data := &fakeData{
		slots:         make(map[int]domain.Slot),
		customers:     make(map[int]domain.Customer),
		vehicles:      make(map[int]domain.Vehicle),
		registrations: make(map[int]domain.Registration),
		payments:      make(map[int]domain.Payment),
		prices:        make(map[int]domain.Price),
		users:         make(map[int]domain.User),
		reports:       make(map[int]domain.Report),
		comments:      make(map[int]domain.ReportComment),
		nextID:        0,
	}
	s := &fakeStore{data: data}
	s.repos = &repository.Repositories{
		Slots:         &fakeSlotRepo{data},
		Customers:     &fakeCustomerRepo{data},
		Vehicles:      &fakeVehicleRepo{data},
		Registrations: &fakeRegistrationRepo{data},
		Payments:      &fakePaymentRepo{data},
		Prices:        &fakePriceRepo{data},
		Users:         &fakeUserRepo{data},
		Reports:       &fakeReportRepo{data},
	}
	return s
}

func (s *fakeStore) Repos() *repository.Repositories { return s.repos }

func (s *fakeStore) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(s.repos); err != nil {
		s.data.restore(snapshot)
		return err
	}
	return nil
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		slots:         make(map[int]domain.Slot, len(d.slots)),
		customers:     make(map[int]domain.Customer, len(d.customers)),
		vehicles:      make(map[int]domain.Vehicle, len(d.vehicles)),
		registrations: make(map[int]domain.Registration, len(d.registrations)),
		payments:      make(map[int]domain.Payment, len(d.payments)),
		prices:        make(map[int]domain.Price, len(d.prices)),
		users:         make(map[int]domain.User, len(d.users)),
		reports:       make(map[int]domain.Report, len(d.reports)),
		comments:      make(map[int]domain.ReportComment, len(d.comments)),
		nextID:        d.nextID,
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range d.registrations {
		c.registrations[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.prices {
		c.prices[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.reports {
		c.reports[k] = v
	}
	for k, v := range d.comments {
		c.comments[k] = v
	}
	return c
}

func (d *fakeData) restore(s *fakeData) {
	d.slots = s.slots
	d.customers = s.customers
	d.vehicles = s.vehicles
	d.registrations = s.registrations
	d.payments = s.payments
	d.prices = s.prices
	d.users = s.users
	d.reports = s.reports
	d.comments = s.comments
	d.nextID = s.nextID
}

func (d *fakeData) id() int {
	d.nextID++
	return d.nextID
}

type fakeSlotRepo struct{ d *fakeData }

func (r *fakeSlotRepo) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	for _, s := range r.d.slots {
		if s.Code == slot.Code {
			return nil, fmt.Errorf("%w: mã chỗ đỗ '%s' đã tồn tại", repository.ErrDuplicateEntry, slot.Code)
		}
	}
	slot.ID = r.d.id()
	slot.CreatedAt = time.Now().UTC()
	slot.UpdatedAt = slot.CreatedAt
	r.d.slots[slot.ID] = *slot
	return slot, nil
}

func (r *fakeSlotRepo) FindByID(ctx context.Context, id int) (*domain.Slot, error) {
	s, ok := r.d.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSlotRepo) FindByIDForUpdate(ctx context.Context, id int) (*domain.Slot, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSlotRepo) FindByCode(ctx context.Context, code string) (*domain.Slot, error) {
	for _, s := range r.d.slots {
		if s.Code == code {
			out := s
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSlotRepo) FindAll(ctx context.Context) ([]domain.Slot, error) {
	out := make([]domain.Slot, 0, len(r.d.slots))
	for _, s := range r.d.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSlotRepo) FindByStatus(ctx context.Context, status domain.SlotStatus) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range r.d.slots {
		if s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSlotRepo) UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error {
	s, ok := r.d.slots[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	r.d.slots[id] = s
	return nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	existing, ok := r.d.slots[slot.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, s := range r.d.slots {
		if s.Code == slot.Code && s.ID != slot.ID {
			return nil, fmt.Errorf("%w: mã chỗ đỗ '%s' đã tồn tại", repository.ErrDuplicateEntry, slot.Code)
		}
	}
	existing.Code = slot.Code
	existing.UpdatedAt = time.Now().UTC()
	r.d.slots[slot.ID] = existing
	out := existing
	return &out, nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.d.slots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.slots, id)
	// ON DELETE SET NULL trên registrations.slot_id
	for k, reg := range r.d.registrations {
		if reg.SlotID.Valid && int(reg.SlotID.Int64) == id {
			reg.SlotID = null.Int{}
			r.d.registrations[k] = reg
		}
	}
	return nil
}

type fakeCustomerRepo struct{ d *fakeData }

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	for _, c := range r.d.customers {
		if c.Phone == customer.Phone && !c.IsDeleted {
			return nil, fmt.Errorf("%w: số điện thoại '%s' đã được đăng ký", repository.ErrDuplicateEntry, customer.Phone)
		}
	}
	customer.ID = r.d.id()
	customer.CreatedAt = time.Now().UTC()
	customer.UpdatedAt = customer.CreatedAt
	r.d.customers[customer.ID] = *customer
	return customer, nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	c, ok := r.d.customers[id]
	if !ok || c.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomerRepo) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	for _, c := range r.d.customers {
		if c.Phone == phone && !c.IsDeleted {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range r.d.customers {
		if !c.IsDeleted {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCustomerRepo) SoftDelete(ctx context.Context, id int) error {
	c, ok := r.d.customers[id]
	if !ok || c.IsDeleted {
		return repository.ErrNotFound
	}
	c.IsDeleted = true
	r.d.customers[id] = c
	return nil
}

type fakeVehicleRepo struct{ d *fakeData }

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	for _, v := range r.d.vehicles {
		if strings.EqualFold(v.PlateNumber, vehicle.PlateNumber) {
			return nil, fmt.Errorf("%w: biển số '%s' đã tồn tại", repository.ErrDuplicateEntry, vehicle.PlateNumber)
		}
	}
	vehicle.ID = r.d.id()
	vehicle.CreatedAt = time.Now().UTC()
	r.d.vehicles[vehicle.ID] = *vehicle
	return vehicle, nil
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	v, ok := r.d.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *fakeVehicleRepo) FindByPlate(ctx context.Context, plateNumber string) (*domain.Vehicle, error) {
	for _, v := range r.d.vehicles {
		if strings.EqualFold(v.PlateNumber, plateNumber) {
			out := v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVehicleRepo) FindByCustomerID(ctx context.Context, customerID int) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range r.d.vehicles {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeRegistrationRepo struct{ d *fakeData }

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	reg.ID = r.d.id()
	reg.CreatedAt = time.Now().UTC()
	reg.UpdatedAt = reg.CreatedAt
	r.d.registrations[reg.ID] = *reg
	return reg, nil
}

func (r *fakeRegistrationRepo) FindByID(ctx context.Context, id int) (*domain.Registration, error) {
	reg, ok := r.d.registrations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &reg, nil
}

func (r *fakeRegistrationRepo) FindOpenBySlotID(ctx context.Context, slotID int) (*domain.Registration, error) {
	for _, reg := range r.d.registrations {
		if reg.Status == domain.RegistrationActive && reg.SlotID.Valid && int(reg.SlotID.Int64) == slotID {
			out := reg
			return &out, nil
		}
	}
	return nil, repository.ErrNoOpenRegistration
}

func (r *fakeRegistrationRepo) FindOpenByVehicleID(ctx context.Context, vehicleID int) (*domain.Registration, error) {
	for _, reg := range r.d.registrations {
		if reg.Status == domain.RegistrationActive && reg.VehicleID == vehicleID {
			out := reg
			return &out, nil
		}
	}
	return nil, repository.ErrNoOpenRegistration
}

func (r *fakeRegistrationRepo) HasOpenByCustomerID(ctx context.Context, customerID int) (bool, error) {
	for _, reg := range r.d.registrations {
		if reg.Status != domain.RegistrationActive {
			continue
		}
		if v, ok := r.d.vehicles[reg.VehicleID]; ok && v.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRegistrationRepo) Complete(ctx context.Context, id int, checkOutTime time.Time) error {
	reg, ok := r.d.registrations[id]
	if !ok || reg.Status != domain.RegistrationActive {
		return repository.ErrNotFound
	}
	reg.Status = domain.RegistrationCheckedOut
	reg.CheckOutTime = null.TimeFrom(checkOutTime)
	reg.UpdatedAt = time.Now().UTC()
	r.d.registrations[id] = reg
	return nil
}

func (r *fakeRegistrationRepo) detail(reg domain.Registration) domain.RegistrationDetail {
	d := domain.RegistrationDetail{Registration: reg}
	if v, ok := r.d.vehicles[reg.VehicleID]; ok {
		d.PlateNumber = v.PlateNumber
		d.VehicleType = v.Type
		if c, ok := r.d.customers[v.CustomerID]; ok {
			d.CustomerID = c.ID
			d.CustomerName = c.FullName
			d.CustomerPhone = c.Phone
		}
	}
	if reg.SlotID.Valid {
		if s, ok := r.d.slots[int(reg.SlotID.Int64)]; ok {
			d.SlotCode = s.Code
		}
	}
	return d
}

func (r *fakeRegistrationRepo) FindOpenDetails(ctx context.Context) ([]domain.RegistrationDetail, error) {
	var out []domain.RegistrationDetail
	for _, reg := range r.d.registrations {
		if reg.Status == domain.RegistrationActive {
			out = append(out, r.detail(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRegistrationRepo) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationDetail, error) {
	var out []domain.RegistrationDetail
	for _, reg := range r.d.registrations {
		if reg.Status == domain.RegistrationActive && reg.CheckInTime.Before(cutoff) {
			out = append(out, r.detail(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePaymentRepo struct{ d *fakeData }

func (r *fakePaymentRepo) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment.RequestID.Valid {
		for _, p := range r.d.payments {
			if p.RequestID.Valid && p.RequestID.String == payment.RequestID.String {
				return nil, fmt.Errorf("%w: yêu cầu thanh toán '%s' đã được xử lý", repository.ErrDuplicateEntry, payment.RequestID.String)
			}
		}
	}
	payment.ID = r.d.id()
	r.d.payments[payment.ID] = *payment
	return payment, nil
}

func (r *fakePaymentRepo) FindByRegistrationID(ctx context.Context, registrationID int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.d.payments {
		if p.RegistrationID == registrationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePriceRepo struct{ d *fakeData }

func (r *fakePriceRepo) Create(ctx context.Context, price *domain.Price) (*domain.Price, error) {
	for _, p := range r.d.prices {
		if p.VehicleType == price.VehicleType && p.IsActive {
			return nil, fmt.Errorf("%w: loại xe '%s' đã có biểu giá đang hiệu lực", repository.ErrDuplicateEntry, price.VehicleType)
		}
	}
	price.ID = r.d.id()
	price.IsActive = true
	price.CreatedAt = time.Now().UTC()
	price.UpdatedAt = price.CreatedAt
	r.d.prices[price.ID] = *price
	return price, nil
}

func (r *fakePriceRepo) FindByID(ctx context.Context, id int) (*domain.Price, error) {
	p, ok := r.d.prices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePriceRepo) FindActiveByVehicleType(ctx context.Context, vehicleType domain.VehicleType) (*domain.Price, error) {
	for _, p := range r.d.prices {
		if p.VehicleType == vehicleType && p.IsActive {
			out := p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePriceRepo) FindAll(ctx context.Context) ([]domain.Price, error) {
	var out []domain.Price
	for _, p := range r.d.prices {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePriceRepo) Update(ctx context.Context, price *domain.Price) (*domain.Price, error) {
	existing, ok := r.d.prices[price.ID]
	if !ok || !existing.IsActive {
		return nil, repository.ErrNotFound
	}
	for _, p := range r.d.prices {
		if p.VehicleType == price.VehicleType && p.IsActive && p.ID != price.ID {
			return nil, fmt.Errorf("%w: loại xe '%s' đã có biểu giá đang hiệu lực", repository.ErrDuplicateEntry, price.VehicleType)
		}
	}
	existing.VehicleType = price.VehicleType
	existing.PricePerHour = price.PricePerHour
	existing.UpdatedAt = time.Now().UTC()
	r.d.prices[price.ID] = existing
	out := existing
	return &out, nil
}

func (r *fakePriceRepo) Deactivate(ctx context.Context, id int) error {
	p, ok := r.d.prices[id]
	if !ok || !p.IsActive {
		return repository.ErrNotFound
	}
	p.IsActive = false
	r.d.prices[id] = p
	return nil
}

type fakeUserRepo struct{ d *fakeData }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.d.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("%w: tên đăng nhập '%s' đã tồn tại", repository.ErrDuplicateEntry, user.Username)
		}
	}
	user.ID = r.d.id()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.d.users[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.d.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	u, ok := r.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.d.users[user.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.d.users[user.ID] = *user
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.d.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.users, id)
	return nil
}

type fakeReportRepo struct{ d *fakeData }

func (r *fakeReportRepo) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	report.ID = r.d.id()
	report.CreatedAt = time.Now().UTC()
	report.UpdatedAt = report.CreatedAt
	r.d.reports[report.ID] = *report
	return report, nil
}

func (r *fakeReportRepo) FindByID(ctx context.Context, id int) (*domain.Report, error) {
	rep, ok := r.d.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rep, nil
}

func (r *fakeReportRepo) FindAll(ctx context.Context) ([]domain.Report, error) {
	var out []domain.Report
	for _, rep := range r.d.reports {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReportRepo) FindByCustomerID(ctx context.Context, customerID int) ([]domain.Report, error) {
	var out []domain.Report
	for _, rep := range r.d.reports {
		if rep.CustomerID == customerID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReportRepo) Update(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	if _, ok := r.d.reports[report.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	report.UpdatedAt = time.Now().UTC()
	r.d.reports[report.ID] = *report
	out := *report
	return &out, nil
}

func (r *fakeReportRepo) AddComment(ctx context.Context, comment *domain.ReportComment) (*domain.ReportComment, error) {
	comment.ID = r.d.id()
	comment.CreatedAt = time.Now().UTC()
	r.d.comments[comment.ID] = *comment
	return comment, nil
}

func (r *fakeReportRepo) FindCommentsByReportID(ctx context.Context, reportID int) ([]domain.ReportComment, error) {
	var out []domain.ReportComment
	for _, c := range r.d.comments {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// recordingNotifier ghi lại mọi sự kiện phát ra để test kiểm tra.
type recordingNotifier struct {
	mu         sync.Mutex
	broadcasts []recordedEvent
	directs    []recordedEvent
}

type recordedEvent struct {
	userID  int
	event   string
	payload interface{}
}

func (n *recordingNotifier) BroadcastAll(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, recordedEvent{event: event, payload: payload})
}

func (n *recordingNotifier) SendToUser(userID int, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.directs = append(n.directs, recordedEvent{userID: userID, event: event, payload: payload})
}

func (n *recordingNotifier) broadcastEvents() []string {
	out := make([]string, 0, len(n.broadcasts))
	for _, e := range n.broadcasts {
		out = append(out, e.event)
	}
	return out
}
