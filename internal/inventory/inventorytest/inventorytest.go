// Package inventorytest provides an in-memory inventory.Repository for tests.
package inventorytest

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/inventory"
)

type Repo struct {
	mu           sync.Mutex
	medicines    map[uuid.UUID]inventory.Medicine
	transactions []inventory.StockTransaction
}

func New() *Repo {
	return &Repo{medicines: make(map[uuid.UUID]inventory.Medicine)}
}

// AddMedicine stocks an active medicine expiring a year from now.
func (r *Repo) AddMedicine(name string, sellingPrice string, stock int) inventory.Medicine {
	r.mu.Lock()
	defer r.mu.Unlock()

	price := decimal.RequireFromString(sellingPrice)
	m := inventory.Medicine{
		ID:           uuid.New(),
		Name:         name,
		BatchNo:      "B-" + strings.ToUpper(name[:1]) + "001",
		Manufacturer: "Acme Pharma",
		ExpiryDate:   time.Now().AddDate(1, 0, 0),
		UnitPrice:    price,
		SellingPrice: price,
		Stock:        stock,
		Active:       true,
	}
	r.medicines[m.ID] = m
	return m
}

// Stock returns the current on-hand quantity.
func (r *Repo) Stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.medicines[id].Stock
}

// Atomically restores stock and transactions if fn fails, the way a
// database transaction would.
func (r *Repo) Atomically(fn func() error) error {
	r.mu.Lock()
	medicines := maps.Clone(r.medicines)
	transactions := append([]inventory.StockTransaction(nil), r.transactions...)
	r.mu.Unlock()

	if err := fn(); err != nil {
		r.mu.Lock()
		r.medicines = medicines
		r.transactions = transactions
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Repo) Create(_ context.Context, m inventory.Medicine) (*inventory.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Active = true
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.medicines[m.ID] = m
	return &m, nil
}

func (r *Repo) Update(_ context.Context, m inventory.Medicine) (*inventory.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.medicines[m.ID]
	if !ok {
		return nil, inventory.ErrMedicineNotFound
	}
	m.Stock = cur.Stock
	m.UpdatedAt = time.Now()
	r.medicines[m.ID] = m
	return &m, nil
}

func (r *Repo) Get(_ context.Context, id uuid.UUID) (*inventory.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.medicines[id]
	if !ok {
		return nil, inventory.ErrMedicineNotFound
	}
	return &m, nil
}

func (r *Repo) filter(match func(inventory.Medicine) bool) []inventory.Medicine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []inventory.Medicine{}
	for _, m := range r.medicines {
		if m.Active && match(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Repo) List(context.Context) ([]inventory.Medicine, error) {
	return r.filter(func(inventory.Medicine) bool { return true }), nil
}

func (r *Repo) Search(_ context.Context, query string) ([]inventory.Medicine, error) {
	q := strings.ToLower(query)
	return r.filter(func(m inventory.Medicine) bool {
		return strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Manufacturer), q) ||
			strings.Contains(strings.ToLower(m.BatchNo), q)
	}), nil
}

func (r *Repo) Restock(_ context.Context, id uuid.UUID, qty int, remarks string) (*inventory.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.medicines[id]
	if !ok {
		return nil, inventory.ErrMedicineNotFound
	}
	m.Stock += qty
	r.medicines[id] = m
	r.record(id, qty, inventory.TransactionPurchase, remarks)
	return &m, nil
}

func (r *Repo) Decrement(_ context.Context, id uuid.UUID, qty int, remarks string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.medicines[id]
	if !ok || !m.Active || m.Stock < qty {
		return fmt.Errorf("%w: medicine %s", inventory.ErrInsufficientStock, id)
	}
	m.Stock -= qty
	r.medicines[id] = m
	r.record(id, -qty, inventory.TransactionSale, remarks)
	return nil
}

func (r *Repo) record(id uuid.UUID, change int, typ inventory.TransactionType, remarks string) {
	r.transactions = append(r.transactions, inventory.StockTransaction{
		ID:             uuid.New(),
		MedicineID:     id,
		QuantityChange: change,
		Type:           typ,
		Remarks:        remarks,
		CreatedAt:      time.Now(),
	})
}

func (r *Repo) Transactions(_ context.Context, medicineID uuid.UUID) ([]inventory.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []inventory.StockTransaction{}
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].MedicineID == medicineID {
			out = append(out, r.transactions[i])
		}
	}
	return out, nil
}

func (r *Repo) DeactivateExpired(_ context.Context, asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, m := range r.medicines {
		if m.Active && m.ExpiryDate.Before(asOf) {
			m.Active = false
			r.medicines[id] = m
			n++
		}
	}
	return n, nil
}

// Expire moves a medicine's expiry date into the past.
func (r *Repo) Expire(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.medicines[id]
	m.ExpiryDate = time.Now().AddDate(0, 0, -1)
	r.medicines[id] = m
}
