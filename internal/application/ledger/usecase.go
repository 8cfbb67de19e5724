package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AdjustUseCase registra movimientos de stock de forma transaccional.
// El libro es la fuente de verdad de Item.Quantity: cada ajuste bloquea la fila
// del artículo, valida no-negatividad y confirma cantidad + movimiento como una
// sola unidad (Commit/Rollback vía TxRunner).
type AdjustUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, movRepo: movRepo}
}

// AdjustInput entrada para registrar un movimiento.
// Para PURCHASE/DISPATCH Quantity es magnitud positiva (DISPATCH se niega aquí);
// para ADJUSTMENT Quantity lleva signo y debe ser distinta de cero.
type AdjustInput struct {
	ItemID   string
	Kind     string
	Quantity int64
	Party    string
	Note     string
	UserID   string
}

// deltaFor valida tipo y magnitud en la frontera y devuelve el delta con signo.
// INITIAL no se acepta por esta vía: lo registra la creación/importación de artículos.
func deltaFor(in AdjustInput) (int64, error) {
	switch in.Kind {
	case entity.MovementKindPURCHASE:
		if in.Quantity <= 0 {
			return 0, domain.ErrInvalidDelta
		}
		return in.Quantity, nil
	case entity.MovementKindDISPATCH:
		if in.Quantity <= 0 {
			return 0, domain.ErrInvalidDelta
		}
		return -in.Quantity, nil
	case entity.MovementKindADJUSTMENT:
		if in.Quantity == 0 {
			return 0, domain.ErrInvalidDelta
		}
		return in.Quantity, nil
	default:
		return 0, domain.ErrInvalidInput
	}
}

// Adjust ejecuta la secuencia leer-validar-escribir-apendear bajo una transacción:
// bloquea la fila del artículo (GetForUpdate), calcula la nueva cantidad, falla con
// ErrNegativeStock sin mutar nada si quedaría negativa, y si no actualiza la cantidad
// en caché y apendea el movimiento. Devuelve el movimiento creado.
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Movement, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	delta, err := deltaFor(in)
	if err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ItemID:    in.ItemID,
		Kind:      in.Kind,
		Delta:     delta,
		Party:     in.Party,
		Note:      in.Note,
		CreatedAt: time.Now(),
		CreatedBy: in.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		newQuantity := item.Quantity + delta
		if newQuantity < 0 {
			return domain.ErrNegativeStock
		}
		if err := itemRepo.UpdateQuantity(item.ID, newQuantity); err != nil {
			return err
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// History lista movimientos más recientes primero (CreatedAt DESC, ID DESC).
func (uc *AdjustUseCase) History(in dto.HistoryRequest) (*dto.MovementListResponse, error) {
	if in.Kind != "" && !entity.ValidMovementKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.movRepo.List(repository.MovementFilter{
		ItemID: in.ItemID,
		Kind:   in.Kind,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Kind:      m.Kind,
		Delta:     m.Delta,
		Party:     m.Party,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
