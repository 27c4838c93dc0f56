package dto

import "time"

// NotificationQuery filtros del listado de avisos.
type NotificationQuery struct {
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int  `query:"offset" validate:"omitempty,min=0"`
	UnreadOnly bool `query:"unread_only"`
}

// NotificationResponse salida de un aviso.
type NotificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationListResponse avisos con el total sin leer.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
	Page   PageResponse           `json:"page"`
}

// MarkAllReadResponse número de avisos marcados.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// UpdateSettingsRequest preferencias del tenant. Claves de kpi_targets: roi, profit_margin, ...
type UpdateSettingsRequest struct {
	InactivityMonths *int               `json:"inactivity_months" validate:"omitempty,min=1,max=120"`
	KPITargets       map[string]float64 `json:"kpi_targets" validate:"omitempty,dive,keys,oneof=roi profit_margin conversion_rate average_purchase average_sale average_profit_per_sale total_profit profit_per_client,endkeys"`
}

// SettingsResponse preferencias efectivas (configuración + overrides del tenant).
type SettingsResponse struct {
	InactivityMonths int                `json:"inactivity_months"`
	KPITargets       map[string]float64 `json:"kpi_targets"`
	Overrides        map[string]float64 `json:"overrides"`
	UpdatedAt        *time.Time         `json:"updated_at,omitempty"`
}
