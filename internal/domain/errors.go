package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrItemNotFound       = errors.New("artículo no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidDelta       = errors.New("cantidad de movimiento inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrDuplicateCode      = errors.New("el código de artículo ya existe")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrNegativeStock      = errors.New("el stock no puede quedar negativo")
	ErrLedgerMismatch     = errors.New("la cantidad en caché no coincide con el libro de movimientos")
)
