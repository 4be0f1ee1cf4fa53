package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// Các góc nhìn chiếu (projection) chỉ đọc: danh sách chỗ đỗ kèm xe đang
// chiếm, nhóm theo khu vực, và tổng quan bãi. Tất cả dựng từ hai truy vấn
// (toàn bộ chỗ đỗ + các lượt đang mở) rồi ghép trong bộ nhớ.

func (s *ParkingService) GetAllSlots(ctx context.Context) ([]domain.SlotProjection, error) {
	return s.buildProjections(ctx, nil)
}

func (s *ParkingService) GetSlotByID(ctx context.Context, id int) (*domain.SlotProjection, error) {
	r := s.store.Repos()
	slot, err := r.Slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy chỗ đỗ với id %d", id))
		}
		return nil, err
	}

	projection := domain.SlotProjection{ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status}
	if detail, err := r.Registrations.FindOpenBySlotID(ctx, slot.ID); err == nil {
		occupant, oerr := s.occupantOf(ctx, r, detail)
		if oerr != nil {
			return nil, oerr
		}
		projection.Occupant = occupant
	} else if !errors.Is(err, repository.ErrNoOpenRegistration) {
		return nil, err
	}
	return &projection, nil
}

func (s *ParkingService) occupantOf(ctx context.Context, r *repository.Repositories, reg *domain.Registration) (*domain.OccupantInfo, error) {
	vehicle, err := r.Vehicles.FindByID(ctx, reg.VehicleID)
	if err != nil {
		return nil, err
	}
	customer, err := r.Customers.FindByID(ctx, vehicle.CustomerID)
	if err != nil {
		return nil, err
	}
	return &domain.OccupantInfo{
		RegistrationID: reg.ID,
		PlateNumber:    vehicle.PlateNumber,
		VehicleType:    vehicle.Type,
		CustomerName:   customer.FullName,
		CustomerPhone:  customer.Phone,
		CheckInTime:    reg.CheckInTime,
	}, nil
}

func (s *ParkingService) GetAvailableSlots(ctx context.Context) ([]domain.SlotProjection, error) {
	slots, err := s.store.Repos().Slots.FindByStatus(ctx, domain.SlotAvailable)
	if err != nil {
		return nil, err
	}
	projections := make([]domain.SlotProjection, 0, len(slots))
	for _, slot := range slots {
		projections = append(projections, domain.SlotProjection{
			ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status,
		})
	}
	return projections, nil
}

// buildProjections ghép danh sách chỗ đỗ với các lượt gửi xe đang mở.
// forCustomerID khác nil nghĩa là góc nhìn khách hàng: chỉ gắn thông tin xe
// của chính khách đó, chỗ của người khác chỉ hiện trạng thái.
func (s *ParkingService) buildProjections(ctx context.Context, forCustomerID *int) ([]domain.SlotProjection, error) {
	r := s.store.Repos()

	slots, err := r.Slots.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	details, err := r.Registrations.FindOpenDetails(ctx)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[int]*domain.RegistrationDetail, len(details))
	for i := range details {
		d := &details[i]
		if d.SlotID.Valid {
			bySlot[int(d.SlotID.Int64)] = d
		}
	}

	projections := make([]domain.SlotProjection, 0, len(slots))
	for _, slot := range slots {
		p := domain.SlotProjection{ID: slot.ID, Code: slot.Code, Area: slot.Area(), Status: slot.Status}
		if d, ok := bySlot[slot.ID]; ok {
			if forCustomerID == nil || d.CustomerID == *forCustomerID {
				p.Occupant = &domain.OccupantInfo{
					RegistrationID: d.ID,
					PlateNumber:    d.PlateNumber,
					VehicleType:    d.VehicleType,
					CustomerName:   d.CustomerName,
					CustomerPhone:  d.CustomerPhone,
					CheckInTime:    d.CheckInTime,
				}
			}
		}
		projections = append(projections, p)
	}
	return projections, nil
}

func (s *ParkingService) GetSlotsByArea(ctx context.Context) ([]domain.AreaGroup, error) {
	projections, err := s.buildProjections(ctx, nil)
	if err != nil {
		return nil, err
	}
	return groupByArea(projections), nil
}

func (s *ParkingService) GetSlotsByAreaForCustomer(ctx context.Context, customerID int) ([]domain.AreaGroup, error) {
	projections, err := s.buildProjections(ctx, &customerID)
	if err != nil {
		return nil, err
	}
	return groupByArea(projections), nil
}

func groupByArea(projections []domain.SlotProjection) []domain.AreaGroup {
	byArea := make(map[string]*domain.AreaGroup)
	for _, p := range projections {
		group, ok := byArea[p.Area]
		if !ok {
			group = &domain.AreaGroup{Area: p.Area}
			byArea[p.Area] = group
		}
		group.Total++
		switch p.Status {
		case domain.SlotAvailable:
			group.Available++
		case domain.SlotOccupied:
			group.Occupied++
		case domain.SlotMaintenance:
			group.Maintenance++
		case domain.SlotReserved:
			group.Reserved++
		}
		group.Slots = append(group.Slots, p)
	}

	groups := make([]domain.AreaGroup, 0, len(byArea))
	for _, g := range byArea {
		sort.Slice(g.Slots, func(i, j int) bool { return g.Slots[i].Code < g.Slots[j].Code })
		groups = append(groups, *g)
	}
	// Khu vực sắp theo tên, nhóm Unknown luôn xếp cuối.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Area == domain.AreaUnknown {
			return false
		}
		if groups[j].Area == domain.AreaUnknown {
			return true
		}
		return groups[i].Area < groups[j].Area
	})
	return groups
}

func (s *ParkingService) GetParkingOverview(ctx context.Context) (*domain.ParkingOverview, error) {
	slots, err := s.store.Repos().Slots.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	overview := &domain.ParkingOverview{TotalSlots: len(slots)}
	for _, slot := range slots {
		switch slot.Status {
		case domain.SlotAvailable:
			overview.Available++
		case domain.SlotOccupied:
			overview.Occupied++
		case domain.SlotMaintenance:
			overview.Maintenance++
		case domain.SlotReserved:
			overview.Reserved++
		}
	}
	if overview.TotalSlots > 0 {
		rate := float64(overview.Occupied) / float64(overview.TotalSlots) * 100
		overview.OccupancyRate = math.Round(rate*10) / 10
	}
	return overview, nil
}

// GetOpenRegistrations liệt kê các lượt gửi xe đang mở kèm thông tin xe,
// khách và chỗ đỗ — góc nhìn vận hành cho nhân viên.
func (s *ParkingService) GetOpenRegistrations(ctx context.Context) ([]domain.RegistrationDetail, error) {
	return s.store.Repos().Registrations.FindOpenDetails(ctx)
}
