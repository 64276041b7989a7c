package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
)

var (
	ErrMedicineNotFound  = apperr.NotFound("medicine_not_found", "medicine not found")
	ErrInsufficientStock = apperr.Invalid("insufficient_stock", "insufficient stock")
	ErrInvalidQuantity   = apperr.Invalid("invalid_quantity", "quantity must be positive")
	ErrInvalidMedicine   = apperr.Invalid("invalid_medicine", "name, batch number and expiry date are required and prices cannot be negative")
)

type Repository interface {
	Create(ctx context.Context, m Medicine) (*Medicine, error)
	Update(ctx context.Context, m Medicine) (*Medicine, error)
	Get(ctx context.Context, id uuid.UUID) (*Medicine, error)
	List(ctx context.Context) ([]Medicine, error)
	Search(ctx context.Context, query string) ([]Medicine, error)

	// Restock adds qty units and records a Purchase transaction.
	Restock(ctx context.Context, id uuid.UUID, qty int, remarks string) (*Medicine, error)
	// Decrement removes qty units only when enough stock is on hand, and
	// records a Sale transaction. It fails with ErrInsufficientStock otherwise.
	Decrement(ctx context.Context, id uuid.UUID, qty int, remarks string) error

	Transactions(ctx context.Context, medicineID uuid.UUID) ([]StockTransaction, error)
	DeactivateExpired(ctx context.Context, asOf time.Time) (int, error)
}
