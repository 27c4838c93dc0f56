package entity

import "time"

// Tipos de Notification.
const (
	NotificationLowStock       = "low_stock"
	NotificationInactiveClient = "inactive_client"
	NotificationKPIBelowTarget = "kpi_below_target"
)

// Notification aviso para los usuarios del tenant.
// RefKey identifica el hecho que la originó (ej. "low_stock:<productID>:<fecha>"); cada hecho se avisa una sola vez.
type Notification struct {
	ID        string
	CompanyID string
	Type      string
	Title     string
	Message   string
	RefKey    string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
