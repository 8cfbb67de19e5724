package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AuditUseCase verifica y repara la consistencia entre la cantidad en caché de
// cada artículo y la suma de deltas de su libro. Con ajustes transaccionales el
// desvío no debería ocurrir; esta vía existe para detectarlo y corregirlo si un
// backend o una migración lo introduce.
type AuditUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, movRepo repository.MovementRepository) *AuditUseCase {
	return &AuditUseCase{txRunner: txRunner, itemRepo: itemRepo, movRepo: movRepo}
}

// Verify compara la cantidad en caché de un artículo contra la suma de su libro.
func (uc *AuditUseCase) Verify(itemID string) (*dto.AuditEntry, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	sum, err := uc.movRepo.SumDeltaByItem(itemID)
	if err != nil {
		return nil, err
	}
	return &dto.AuditEntry{
		ItemID:     item.ID,
		Code:       item.Code,
		Quantity:   item.Quantity,
		LedgerSum:  sum,
		Consistent: item.Quantity == sum,
	}, nil
}

// VerifyAll verifica todo el catálogo y devuelve una entrada por artículo.
func (uc *AuditUseCase) VerifyAll() ([]dto.AuditEntry, error) {
	items, err := uc.itemRepo.List(repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	entries := make([]dto.AuditEntry, 0, len(items))
	for _, item := range items {
		sum, err := uc.movRepo.SumDeltaByItem(item.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dto.AuditEntry{
			ItemID:     item.ID,
			Code:       item.Code,
			Quantity:   item.Quantity,
			LedgerSum:  sum,
			Consistent: item.Quantity == sum,
		})
	}
	return entries, nil
}

// Repair reescribe la cantidad en caché con la suma del libro (el libro manda).
// Si ya era consistente no escribe nada.
func (uc *AuditUseCase) Repair(ctx context.Context, itemID string) (*dto.AuditEntry, error) {
	var entry *dto.AuditEntry
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		sum, err := movRepo.SumDeltaByItem(itemID)
		if err != nil {
			return err
		}
		if item.Quantity != sum {
			if err := itemRepo.UpdateQuantity(item.ID, sum); err != nil {
				return err
			}
		}
		entry = &dto.AuditEntry{
			ItemID:     item.ID,
			Code:       item.Code,
			Quantity:   sum,
			LedgerSum:  sum,
			Consistent: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
