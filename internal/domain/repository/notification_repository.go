package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// NotificationRepository persistencia de avisos.
type NotificationRepository interface {
	// Create inserta el aviso salvo que ya exista uno con el mismo RefKey (leído o no).
	// created=false indica que se descartó por duplicado.
	Create(ctx context.Context, n *entity.Notification) (created bool, err error)
	// ListByCompany devuelve primero los no leídos y luego por fecha descendente.
	ListByCompany(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, companyID string) (int, error)
	MarkRead(ctx context.Context, companyID, id string, at time.Time) error
	MarkAllRead(ctx context.Context, companyID string, at time.Time) (int64, error)
}

// SettingsRepository preferencias por tenant.
type SettingsRepository interface {
	// Get devuelve (nil, nil) si el tenant aún no guardó preferencias.
	Get(ctx context.Context, companyID string) (*entity.Settings, error)
	Upsert(ctx context.Context, s *entity.Settings) error
}
