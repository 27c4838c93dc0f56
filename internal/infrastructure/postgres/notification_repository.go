package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación del puerto NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta el aviso; el índice único parcial (company_id, ref_key) descarta los hechos ya avisados.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, company_id, type, title, message, ref_key, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
		ON CONFLICT (company_id, ref_key) WHERE ref_key <> '' DO NOTHING`,
		n.ID, n.CompanyID, n.Type, n.Title, n.Message, n.RefKey, n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByCompany no leídos primero, luego los más recientes.
func (r *NotificationRepo) ListByCompany(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, type, title, message, ref_key, read, read_at, created_at
		FROM notifications
		WHERE company_id = $1 AND (NOT $2::bool OR read = false)
		ORDER BY read ASC, created_at DESC
		LIMIT $3 OFFSET $4`, companyID, unreadOnly, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Type, &n.Title, &n.Message, &n.RefKey, &n.Read, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// CountUnread número de avisos sin leer.
func (r *NotificationRepo) CountUnread(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE company_id = $1 AND read = false`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marca un aviso como leído; idempotente sobre avisos ya leídos.
func (r *NotificationRepo) MarkRead(ctx context.Context, companyID, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = COALESCE(read_at, $3)
		WHERE company_id = $1 AND id = $2`, companyID, id, at)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todos los avisos pendientes del tenant.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, companyID string, at time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = $2
		WHERE company_id = $1 AND read = false`, companyID, at)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return cmd.RowsAffected(), nil
}
