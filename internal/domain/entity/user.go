package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleVendedor = "vendedor"
)

// Estados de User.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, vendedor
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el usuario puede autenticarse.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// ValidRole indica si r es uno de los roles soportados.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleGerente, RoleVendedor:
		return true
	}
	return false
}
