package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// SegmentationUseCase etiqueta a los clientes como Novo, Recorrente o Inativo.
// Las etiquetas se recalculan en cada consulta; no se persisten.
type SegmentationUseCase struct {
	repo          repository.FinanceRepository
	settings      repository.SettingsRepository
	defaultMonths int
}

// NewSegmentationUseCase construye el caso de uso; defaultMonths es el umbral de configuración.
func NewSegmentationUseCase(repo repository.FinanceRepository, settings repository.SettingsRepository, defaultMonths int) *SegmentationUseCase {
	if defaultMonths < 1 {
		defaultMonths = core.DefaultInactivityMonths
	}
	return &SegmentationUseCase{repo: repo, settings: settings, defaultMonths: defaultMonths}
}

// Config umbral efectivo del tenant.
func (uc *SegmentationUseCase) Config(ctx context.Context, companyID string) (core.SegmentationConfig, error) {
	if uc.settings == nil {
		return core.SegmentationConfig{InactivityMonths: uc.defaultMonths}, nil
	}
	s, err := uc.settings.Get(ctx, companyID)
	if err != nil {
		return core.SegmentationConfig{}, fmt.Errorf("segmentation: settings: %w", err)
	}
	return s.Segmentation(uc.defaultMonths), nil
}

// Tags etiqueta de cada cliente del tenant (clave = ID de cliente).
func (uc *SegmentationUseCase) Tags(ctx context.Context, companyID string, now time.Time) (map[string]core.ClientTag, error) {
	cfg, err := uc.Config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	histories, err := uc.repo.ClientHistories(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("segmentation: historiales: %w", err)
	}
	return core.SegmentClients(histories, now, cfg), nil
}

// Segment etiqueta de todos los clientes con el conteo por etiqueta.
func (uc *SegmentationUseCase) Segment(ctx context.Context, companyID string, now time.Time) (*dto.SegmentationResponse, error) {
	cfg, err := uc.Config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	histories, err := uc.repo.ClientHistories(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("segmentation: historiales: %w", err)
	}
	tags := core.SegmentClients(histories, now, cfg)

	counts := map[string]int{
		string(core.TagNew):       0,
		string(core.TagRecurring): 0,
		string(core.TagInactive):  0,
	}
	for tag, n := range core.TagCounts(tags) {
		counts[string(tag)] = n
	}

	clients := make([]dto.ClientSegmentDTO, 0, len(histories))
	for id, h := range histories {
		clients = append(clients, toClientSegment(id, h, tags[id]))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientID < clients[j].ClientID })

	return &dto.SegmentationResponse{
		InactivityMonths: cfg.InactivityMonths,
		Counts:           counts,
		Clients:          clients,
	}, nil
}

// SegmentClient etiqueta de un cliente. ErrNotFound si no pertenece al tenant.
func (uc *SegmentationUseCase) SegmentClient(ctx context.Context, companyID, clientID string, now time.Time) (*dto.ClientSegmentDTO, error) {
	cfg, err := uc.Config(ctx, companyID)
	if err != nil {
		return nil, err
	}
	h, err := uc.repo.ClientHistory(ctx, companyID, clientID)
	if err != nil {
		return nil, fmt.Errorf("segmentation: historial: %w", err)
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	seg := toClientSegment(clientID, *h, core.SegmentClient(*h, now, cfg))
	return &seg, nil
}

func toClientSegment(id string, h core.ClientHistory, tag core.ClientTag) dto.ClientSegmentDTO {
	var last time.Time
	for _, d := range h.PurchaseDates {
		if d.After(last) {
			last = d
		}
	}
	return dto.ClientSegmentDTO{
		ClientID:       id,
		Tag:            string(tag),
		Purchases:      len(h.PurchaseDates),
		LastPurchaseAt: dto.FormatDate(last),
		ClientSince:    dto.FormatDate(h.CreatedAt),
	}
}
