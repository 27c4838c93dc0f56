package dto

import "time"

// RegisterRequest alta de una empresa nueva con su primer administrador.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	TaxID       string `json:"tax_id" validate:"max=30"`
	Currency    string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// CreateUserRequest alta de un usuario por un admin (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin gerente vendedor"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse usuarios del tenant.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CompanyResponse tenant creado en el registro.
type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT con el usuario autenticado.
type LoginResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Company *CompanyResponse `json:"company,omitempty"`
}
