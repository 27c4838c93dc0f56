package entity

import "time"

// Supplier representa un fornecedor de mercancía o servicios.
type Supplier struct {
	ID          string
	CompanyID   string
	Name        string
	TaxID       string
	Email       string
	Phone       string
	ContactName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
