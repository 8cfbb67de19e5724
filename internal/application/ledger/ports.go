package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento,
// pasando repositorios atados a esa transacción. Garantiza que la actualización
// de la cantidad en caché y el append al libro se confirmen juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}
