package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackgods/clinicops/internal/db"
)

const medicineColumns = `id, name, batch_no, manufacturer, expiry_date, unit_price, selling_price,
	stock_quantity, is_active, created_at, updated_at`

// PgRepository runs against a pool or, for pharmacy billing, an open
// transaction.
type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(
		&m.ID, &m.Name, &m.BatchNo, &m.Manufacturer, &m.ExpiryDate, &m.UnitPrice, &m.SellingPrice,
		&m.Stock, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PgRepository) collect(ctx context.Context, sql string, args ...any) ([]Medicine, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, m Medicine) (*Medicine, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO medicines (id, name, batch_no, manufacturer, expiry_date, unit_price, selling_price, stock_quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING `+medicineColumns,
		m.ID, m.Name, m.BatchNo, m.Manufacturer, m.ExpiryDate, m.UnitPrice, m.SellingPrice, m.Stock,
	)
	return scanMedicine(row)
}

// Update edits catalogue fields. Stock only moves through Restock and
// Decrement so every change has a transaction row.
func (r *PgRepository) Update(ctx context.Context, m Medicine) (*Medicine, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE medicines
		SET name = $2,
		    batch_no = $3,
		    manufacturer = $4,
		    expiry_date = $5,
		    unit_price = $6,
		    selling_price = $7,
		    is_active = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+medicineColumns,
		m.ID, m.Name, m.BatchNo, m.Manufacturer, m.ExpiryDate, m.UnitPrice, m.SellingPrice, m.Active,
	)
	return scanMedicine(row)
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.q.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id))
}

func (r *PgRepository) List(ctx context.Context) ([]Medicine, error) {
	return r.collect(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE is_active ORDER BY name, expiry_date`)
}

func (r *PgRepository) Search(ctx context.Context, query string) ([]Medicine, error) {
	return r.collect(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE is_active
		  AND (name ILIKE '%' || $1 || '%'
		    OR manufacturer ILIKE '%' || $1 || '%'
		    OR batch_no ILIKE '%' || $1 || '%')
		ORDER BY name, expiry_date
	`, query)
}

func (r *PgRepository) Restock(ctx context.Context, id uuid.UUID, qty int, remarks string) (*Medicine, error) {
	row := r.q.QueryRow(ctx, `
		WITH updated AS (
			UPDATE medicines
			SET stock_quantity = stock_quantity + $2::int,
			    updated_at = now()
			WHERE id = $1
			RETURNING `+medicineColumns+`
		), logged AS (
			INSERT INTO stock_transactions (id, medicine_id, quantity_change, type, remarks)
			SELECT $3, id, $2::int, $4, $5 FROM updated
		)
		SELECT `+medicineColumns+` FROM updated
	`, id, qty, uuid.New(), TransactionPurchase, remarks)
	return scanMedicine(row)
}

func (r *PgRepository) Decrement(ctx context.Context, id uuid.UUID, qty int, remarks string) error {
	tag, err := r.q.Exec(ctx, `
		WITH updated AS (
			UPDATE medicines
			SET stock_quantity = stock_quantity - $2::int,
			    updated_at = now()
			WHERE id = $1 AND is_active AND stock_quantity >= $2::int
			RETURNING id
		)
		INSERT INTO stock_transactions (id, medicine_id, quantity_change, type, remarks)
		SELECT $3, id, -($2::int), $4, $5 FROM updated
	`, id, qty, uuid.New(), TransactionSale, remarks)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: medicine %s", ErrInsufficientStock, id)
	}
	return nil
}

func (r *PgRepository) Transactions(ctx context.Context, medicineID uuid.UUID) ([]StockTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, medicine_id, quantity_change, type, remarks, created_at
		FROM stock_transactions
		WHERE medicine_id = $1
		ORDER BY created_at DESC
	`, medicineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []StockTransaction{}
	for rows.Next() {
		var t StockTransaction
		if err := rows.Scan(&t.ID, &t.MedicineID, &t.QuantityChange, &t.Type, &t.Remarks, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *PgRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE medicines
		SET is_active = FALSE,
		    updated_at = now()
		WHERE is_active AND expiry_date < $1
	`, asOf)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired medicines: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
