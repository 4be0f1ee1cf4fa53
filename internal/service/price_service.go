package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// PriceService quản lý biểu giá theo loại xe. Biểu giá cũ không bị xóa mà
// chỉ bị vô hiệu (soft delete) để giữ lịch sử đối chiếu.
type PriceService struct {
	store repository.Store
}

func NewPriceService(store repository.Store) *PriceService {
	return &PriceService{store: store}
}

func (s *PriceService) CreatePrice(ctx context.Context, dto domain.PriceDTO) (*domain.Price, error) {
	if !domain.ValidVehicleType(dto.VehicleType) {
		return nil, ErrValidation(fmt.Sprintf("loại xe '%s' không hợp lệ", dto.VehicleType))
	}
	if dto.PricePerHour <= 0 {
		return nil, ErrValidation("đơn giá phải lớn hơn 0")
	}

	price, err := s.store.Repos().Prices.Create(ctx, &domain.Price{
		VehicleType:  domain.VehicleType(dto.VehicleType),
		PricePerHour: dto.PricePerHour,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict(err.Error())
		}
		return nil, err
	}
	return price, nil
}

func (s *PriceService) GetPrices(ctx context.Context) ([]domain.Price, error) {
	return s.store.Repos().Prices.FindAll(ctx)
}

func (s *PriceService) GetPriceByID(ctx context.Context, id int) (*domain.Price, error) {
	price, err := s.store.Repos().Prices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy biểu giá với id %d", id))
		}
		return nil, err
	}
	return price, nil
}

func (s *PriceService) UpdatePrice(ctx context.Context, id int, dto domain.PriceDTO) (*domain.Price, error) {
	if !domain.ValidVehicleType(dto.VehicleType) {
		return nil, ErrValidation(fmt.Sprintf("loại xe '%s' không hợp lệ", dto.VehicleType))
	}
	if dto.PricePerHour <= 0 {
		return nil, ErrValidation("đơn giá phải lớn hơn 0")
	}

	price, err := s.store.Repos().Prices.Update(ctx, &domain.Price{
		ID:           id,
		VehicleType:  domain.VehicleType(dto.VehicleType),
		PricePerHour: dto.PricePerHour,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy biểu giá đang hiệu lực với id %d", id))
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict(err.Error())
		}
		return nil, err
	}
	return price, nil
}

func (s *PriceService) DeactivatePrice(ctx context.Context, id int) error {
	err := s.store.Repos().Prices.Deactivate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound(fmt.Sprintf("không tìm thấy biểu giá đang hiệu lực với id %d", id))
	}
	return err
}
