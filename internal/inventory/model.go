package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionPurchase TransactionType = "Purchase"
	TransactionSale     TransactionType = "Sale"
)

const SaleRemarks = "Stock deducted during billing"

type Medicine struct {
	ID           uuid.UUID
	Name         string
	BatchNo      string
	Manufacturer string
	ExpiryDate   time.Time
	UnitPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Stock        int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Price is what a customer pays per unit: the selling price when set,
// otherwise the unit price.
func (m Medicine) Price() decimal.Decimal {
	if m.SellingPrice.IsPositive() {
		return m.SellingPrice
	}
	return m.UnitPrice
}

type StockTransaction struct {
	ID             uuid.UUID
	MedicineID     uuid.UUID
	QuantityChange int
	Type           TransactionType
	Remarks        string
	CreatedAt      time.Time
}

type MedicineInput struct {
	Name         string
	BatchNo      string
	Manufacturer string
	ExpiryDate   time.Time
	UnitPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Stock        int
}

func (in MedicineInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return ErrInvalidMedicine
	case strings.TrimSpace(in.BatchNo) == "":
		return ErrInvalidMedicine
	case in.ExpiryDate.IsZero():
		return ErrInvalidMedicine
	case in.UnitPrice.IsNegative() || in.SellingPrice.IsNegative():
		return ErrInvalidMedicine
	case in.Stock < 0:
		return ErrInvalidQuantity
	}
	return nil
}
