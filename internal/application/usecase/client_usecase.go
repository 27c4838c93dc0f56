package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// ClientTagger etiquetas de segmentación de los clientes del tenant.
type ClientTagger interface {
	Tags(ctx context.Context, companyID string, now time.Time) (map[string]core.ClientTag, error)
}

// ClientUseCase CRUD de clientes; el listado puede incluir la etiqueta derivada.
type ClientUseCase struct {
	repo   repository.ClientRepository
	tagger ClientTagger
	now    func() time.Time
}

// NewClientUseCase construye el caso de uso. tagger nil desactiva with_tag.
func NewClientUseCase(repo repository.ClientRepository, tagger ClientTagger) *ClientUseCase {
	return &ClientUseCase{repo: repo, tagger: tagger, now: time.Now}
}

// Create crea un cliente; su fecha de alta cuenta para la segmentación.
func (uc *ClientUseCase) Create(ctx context.Context, companyID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := uc.now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client, ""), nil
}

// GetByID obtiene un cliente del tenant.
func (uc *ClientUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ClientResponse, error) {
	client, err := notFoundIfNil(uc.repo.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	return toClientResponse(client, ""), nil
}

// Update campos opcionales del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := notFoundIfNil(uc.repo.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.TaxID != nil {
		client.TaxID = *in.TaxID
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	client.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client, ""), nil
}

// List clientes paginados; withTag añade Novo/Recorrente/Inativo a cada uno.
func (uc *ClientUseCase) List(ctx context.Context, companyID string, page dto.PageRequest, withTag bool) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	var tags map[string]core.ClientTag
	if withTag && uc.tagger != nil {
		if tags, err = uc.tagger.Tags(ctx, companyID, uc.now()); err != nil {
			return nil, err
		}
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c, tags[c.ID]))
	}
	return &dto.ClientListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina un cliente sin ventas.
func (uc *ClientUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

func toClientResponse(c *entity.Client, tag core.ClientTag) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Tag:       string(tag),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
