package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase casos de uso del catálogo de artículos. Quantity se maneja vía
// movimientos del libro: las ediciones de catálogo nunca la tocan.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner ledger.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, txRunner ledger.TxRunner) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner}
}

// NextCode genera el siguiente código incremental, ej. "ITM-0001".
func (uc *ItemUseCase) NextCode() (string, error) {
	max, err := uc.repo.MaxCodeNumber()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", entity.ItemCodePrefix, max+1), nil
}

// Create crea un artículo. Si InitialQuantity > 0 registra además un movimiento
// INITIAL en la misma transacción: un artículo nunca queda con cantidad distinta
// de cero sin su entrada correspondiente en el libro.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) || in.ReorderThreshold < 0 || in.InitialQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		var err error
		code, err = uc.NextCode()
		if err != nil {
			return nil, err
		}
	}
	existing, _ := uc.repo.GetByCode(code)
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		Code:             code,
		Name:             in.Name,
		Category:         in.Category,
		Location:         in.Location,
		Description:      in.Description,
		UnitPrice:        in.UnitPrice,
		ReorderThreshold: in.ReorderThreshold,
		Quantity:         in.InitialQuantity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		return movRepo.Create(&entity.Movement{
			ItemID:    item.ID,
			Kind:      entity.MovementKindINITIAL,
			Delta:     in.InitialQuantity,
			Party:     "system",
			CreatedAt: now,
			CreatedBy: userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza campos descriptivos, precio y umbral. Nunca Quantity ni Code.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.ReorderThreshold != nil {
		if *in.ReorderThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderThreshold = *in.ReorderThreshold
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos con filtros de substring y piso de cantidad.
func (uc *ItemUseCase) List(in dto.ItemFilterRequest) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(repository.ItemFilter{
		Category:    in.Category,
		Location:    in.Location,
		MinQuantity: in.MinQuantity,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// LowStock lista artículos con Quantity <= umbral (inclusive). thresholdOverride
// nil usa el ReorderThreshold propio de cada artículo.
func (uc *ItemUseCase) LowStock(thresholdOverride *int64) ([]dto.ItemResponse, error) {
	if thresholdOverride != nil && *thresholdOverride < 0 {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListLowStock(thresholdOverride)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return items, nil
}

// Delete elimina un artículo. Los movimientos del libro se conservan: el libro
// es append-only y la historia no se borra en cascada.
func (uc *ItemUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:               i.ID,
		Code:             i.Code,
		Name:             i.Name,
		Category:         i.Category,
		Location:         i.Location,
		Description:      i.Description,
		UnitPrice:        i.UnitPrice,
		ReorderThreshold: i.ReorderThreshold,
		Quantity:         i.Quantity,
		TotalValue:       i.TotalValue(),
		LowStock:         i.LowStock(),
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}
