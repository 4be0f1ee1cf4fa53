package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// StaffService quản lý tài khoản nhân viên (chỉ admin gọi được, ràng buộc
// ở tầng router).
type StaffService struct {
	store repository.Store
}

func NewStaffService(store repository.Store) *StaffService {
	return &StaffService{store: store}
}

func (s *StaffService) GetStaff(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Repos().Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *StaffService) GetStaffByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := s.store.Repos().Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy nhân viên với id %d", id))
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *StaffService) UpdateStaff(ctx context.Context, id int, dto domain.UpdateUserDTO) (*domain.User, error) {
	repos := s.store.Repos()
	user, err := repos.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy nhân viên với id %d", id))
		}
		return nil, err
	}

	if dto.FullName != "" {
		user.FullName = dto.FullName
	}
	if dto.Role != "" {
		if dto.Role != domain.RoleAdmin && dto.Role != domain.RoleStaff {
			return nil, ErrValidation(fmt.Sprintf("vai trò '%s' không hợp lệ", dto.Role))
		}
		user.Role = dto.Role
	}
	if dto.Password != "" {
		if len(dto.Password) < 6 {
			return nil, ErrValidation("mật khẩu phải có ít nhất 6 ký tự")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("lỗi hash mật khẩu: %w", err)
		}
		user.Password = string(hashed)
	}

	user, err = repos.Users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *StaffService) DeleteStaff(ctx context.Context, id int) error {
	err := s.store.Repos().Users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound(fmt.Sprintf("không tìm thấy nhân viên với id %d", id))
	}
	return err
}
