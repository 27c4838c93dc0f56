package entity

import "time"

// Client representa un cliente de la empresa. CreatedAt determina la antigüedad usada en la segmentación.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
