package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// NotificationUseCase bandeja de avisos del tenant.
type NotificationUseCase struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, now: time.Now}
}

// List avisos (no leídos primero) y el total sin leer.
func (uc *NotificationUseCase) List(ctx context.Context, companyID string, q dto.NotificationQuery) (*dto.NotificationListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, q.UnreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationResponse(n))
	}
	return &dto.NotificationListResponse{
		Items:  items,
		Unread: unread,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// MarkRead marca un aviso como leído. ErrNotFound si no pertenece al tenant.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, companyID, id string) error {
	return uc.repo.MarkRead(ctx, companyID, id, uc.now())
}

// MarkAllRead marca todos los avisos pendientes del tenant.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, companyID string) (*dto.MarkAllReadResponse, error) {
	n, err := uc.repo.MarkAllRead(ctx, companyID, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
