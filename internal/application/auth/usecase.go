package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/jwt"
)

// DefaultCurrency moneda de un tenant registrado sin currency.
const DefaultCurrency = "EUR"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TenantCreator persiste empresa y primer admin en una sola transacción.
type TenantCreator interface {
	CreateTenant(ctx context.Context, company *entity.Company, admin *entity.User) error
}

// AuthUseCase casos de uso de autenticación: registro de tenant y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tenants     TenantCreator
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, tenants TenantCreator, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, tenants: tenants, jwtCfg: jwtCfg, now: time.Now}
}

// Register crea una empresa nueva con su primer usuario admin y devuelve la sesión.
// ErrEmailAlreadyExists si el email ya está en uso (es único en todo el sistema).
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	now := uc.now()
	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.CompanyName,
		TaxID:     in.TaxID,
		Email:     email,
		Currency:  currency,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin, err := usecase.NewUser(company.ID, email, in.Password, in.Name, entity.RoleAdmin, now)
	if err != nil {
		return nil, err
	}
	if err := uc.tenants.CreateTenant(ctx, company, admin); err != nil {
		return nil, err
	}
	return uc.session(admin, company)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrUserSuspended
	}
	company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.Status != entity.CompanyStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.session(user, company)
}

func (uc *AuthUseCase) session(user *entity.User, company *entity.Company) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  usecase.ToUserResponse(user),
		Company: &dto.CompanyResponse{
			ID:       company.ID,
			Name:     company.Name,
			TaxID:    company.TaxID,
			Currency: company.Currency,
			Status:   company.Status,
		},
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
