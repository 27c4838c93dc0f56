package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// UserUseCase administración de usuarios del tenant (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// Create da de alta un usuario en la empresa del admin. El email es único global.
func (uc *UserUseCase) Create(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("rol %q: %w", in.Role, domain.ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	user, err := NewUser(companyID, email, in.Password, in.Name, in.Role, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// List usuarios del tenant.
func (uc *UserUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Suspend impide el login del usuario. Un admin no puede suspenderse a sí mismo.
func (uc *UserUseCase) Suspend(ctx context.Context, companyID, actorID, id string) (*dto.UserResponse, error) {
	if actorID == id {
		return nil, fmt.Errorf("no puede suspenderse a sí mismo: %w", domain.ErrConflict)
	}
	return uc.setStatus(ctx, companyID, id, entity.UserStatusSuspended)
}

// Reactivate vuelve a permitir el login.
func (uc *UserUseCase) Reactivate(ctx context.Context, companyID, id string) (*dto.UserResponse, error) {
	return uc.setStatus(ctx, companyID, id, entity.UserStatusActive)
}

func (uc *UserUseCase) setStatus(ctx context.Context, companyID, id, status string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Status != status {
		user.Status = status
		user.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	out := ToUserResponse(user)
	return &out, nil
}

// NewUser construye un usuario activo con el password hasheado con bcrypt.
func NewUser(companyID, email, password, name, role string, now time.Time) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ToUserResponse salida de un usuario sin el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
