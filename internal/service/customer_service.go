package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// CustomerService quản lý hồ sơ khách hàng. Xóa khách là xóa mềm và bị
// chặn khi khách còn xe đang gửi trong bãi.
type CustomerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.store.Repos().Customers.FindAll(ctx)
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, id int) (*domain.Customer, error) {
	customer, err := s.store.Repos().Customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy khách hàng với id %d", id))
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetCustomerVehicles(ctx context.Context, customerID int) ([]domain.Vehicle, error) {
	repos := s.store.Repos()
	if _, err := repos.Customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy khách hàng với id %d", customerID))
		}
		return nil, err
	}
	return repos.Vehicles.FindByCustomerID(ctx, customerID)
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	return s.store.ExecTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Customers.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound(fmt.Sprintf("không tìm thấy khách hàng với id %d", id))
			}
			return err
		}

		hasOpen, err := r.Registrations.HasOpenByCustomerID(ctx, id)
		if err != nil {
			return err
		}
		if hasOpen {
			return ErrConflict("khách hàng còn xe đang gửi trong bãi, không thể xóa")
		}

		return r.Customers.SoftDelete(ctx, id)
	})
}
