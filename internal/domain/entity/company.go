package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// Company representa una organización/tenant del sistema. Todos los datos cuelgan de su ID.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIF / CNPJ según el país
	Address   string
	Phone     string
	Email     string
	Currency  string // ISO 4217, por defecto EUR
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
