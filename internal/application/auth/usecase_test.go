package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/jwt"
)

const secret = "test-secret"

type memUsers struct {
	repository.UserRepository
	items map[string]*entity.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type memCompanies struct {
	repository.CompanyRepository
	items map[string]*entity.Company
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.items[id], nil
}

type memStore struct {
	users     *memUsers
	companies *memCompanies
}

func newMemStore() *memStore {
	return &memStore{
		users:     &memUsers{items: map[string]*entity.User{}},
		companies: &memCompanies{items: map[string]*entity.Company{}},
	}
}

func (m *memStore) CreateTenant(_ context.Context, c *entity.Company, admin *entity.User) error {
	m.companies.items[c.ID] = c
	m.users.items[admin.ID] = admin
	return nil
}

func newAuth(store *memStore) *AuthUseCase {
	uc := NewAuthUseCase(store.users, store.companies, store, JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "estoque-api"})
	uc.now = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }
	return uc
}

func register(t *testing.T, uc *AuthUseCase) *dto.LoginResponse {
	t.Helper()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Papelaria Central",
		Name:        "Rita",
		Email:       "Rita@Papelaria.pt",
		Password:    "segredo123",
	})
	require.NoError(t, err)
	return out
}

func TestRegister_CreaTenantConAdmin(t *testing.T) {
	store := newMemStore()
	out := register(t, newAuth(store))

	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Equal(t, "rita@papelaria.pt", out.User.Email)
	require.NotNil(t, out.Company)
	assert.Equal(t, DefaultCurrency, out.Company.Currency)
	assert.Equal(t, out.Company.ID, out.User.CompanyID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Company.ID, claims.CompanyID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	store := newMemStore()
	uc := newAuth(store)
	register(t, uc)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{CompanyName: "Otra", Name: "X", Email: "rita@papelaria.pt", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Len(t, store.companies.items, 1)
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	uc := newAuth(store)
	reg := register(t, uc)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "rita@papelaria.pt", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, out.User.ID)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "rita@papelaria.pt", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@papelaria.pt", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	store.users.items[reg.User.ID].Status = entity.UserStatusSuspended
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "rita@papelaria.pt", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUserSuspended)

	store.users.items[reg.User.ID].Status = entity.UserStatusActive
	store.companies.items[reg.Company.ID].Status = entity.CompanyStatusSuspended
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "rita@papelaria.pt", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
