package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinicops/internal/db"
	"github.com/hackgods/clinicops/internal/inventory"
)

const billingColumns = `id, patient_id, appointment_id, amount, description, status, due_date, paid_date,
	payment_method, notes, patient_name, patient_phone, patient_address, practitioner_name,
	created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanBilling(row pgx.Row) (*Billing, error) {
	var b Billing
	err := row.Scan(
		&b.ID, &b.PatientID, &b.AppointmentID, &b.Amount, &b.Description, &b.Status, &b.DueDate, &b.PaidDate,
		&b.PaymentMethod, &b.Notes, &b.PatientName, &b.PatientPhone, &b.PatientAddress, &b.PractitionerName,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PgRepository) collect(ctx context.Context, sql string, args ...any) ([]Billing, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Billing{}
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, b Billing) (*Billing, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO billings (id, patient_id, appointment_id, amount, description, status, due_date, paid_date,
			payment_method, notes, patient_name, patient_phone, patient_address, practitioner_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+billingColumns,
		b.ID, b.PatientID, b.AppointmentID, b.Amount, b.Description, b.Status, b.DueDate, b.PaidDate,
		b.PaymentMethod, b.Notes, b.PatientName, b.PatientPhone, b.PatientAddress, b.PractitionerName,
	)
	created, err := scanBilling(row)
	if err != nil {
		return nil, fmt.Errorf("insert billing: %w", err)
	}
	return created, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Billing, error) {
	return scanBilling(r.pool.QueryRow(ctx, `SELECT `+billingColumns+` FROM billings WHERE id = $1`, id))
}

func (r *PgRepository) List(ctx context.Context) ([]Billing, error) {
	return r.collect(ctx, `SELECT `+billingColumns+` FROM billings ORDER BY created_at DESC`)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Billing, error) {
	return r.collect(ctx, `SELECT `+billingColumns+` FROM billings WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
}

func (r *PgRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Billing, error) {
	return scanBilling(r.pool.QueryRow(ctx, `
		SELECT `+billingColumns+`
		FROM billings
		WHERE appointment_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, appointmentID))
}

func (r *PgRepository) Update(ctx context.Context, b Billing) (*Billing, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE billings
		SET patient_id = $2,
		    appointment_id = $3,
		    amount = $4,
		    description = $5,
		    status = $6,
		    due_date = $7,
		    paid_date = $8,
		    payment_method = $9,
		    notes = $10,
		    patient_name = $11,
		    patient_phone = $12,
		    patient_address = $13,
		    practitioner_name = $14,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+billingColumns,
		b.ID, b.PatientID, b.AppointmentID, b.Amount, b.Description, b.Status, b.DueDate, b.PaidDate,
		b.PaymentMethod, b.Notes, b.PatientName, b.PatientPhone, b.PatientAddress, b.PractitionerName,
	)
	return scanBilling(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM billings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete billing: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgRepository) CreatePharmacyBill(ctx context.Context, bill PharmacyBill) (*PharmacyBill, error) {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO pharmacy_bills (id, patient_id, patient_name, total, bill_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING bill_date
		`, bill.ID, bill.PatientID, bill.PatientName, bill.Total, bill.BillDate).Scan(&bill.BillDate)
		if err != nil {
			return fmt.Errorf("insert pharmacy bill: %w", err)
		}

		stock := inventory.NewPgRepository(tx)
		for i := range bill.Items {
			it := &bill.Items[i]
			it.PharmacyBillID = bill.ID
			if it.ID == uuid.Nil {
				it.ID = uuid.New()
			}

			if err := stock.Decrement(ctx, it.MedicineID, it.Quantity, inventory.SaleRemarks); err != nil {
				return err
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO pharmacy_bill_items (id, pharmacy_bill_id, medicine_id, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, it.ID, it.PharmacyBillID, it.MedicineID, it.Quantity, it.UnitPrice, it.LineTotal)
			if err != nil {
				return fmt.Errorf("insert pharmacy bill item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *PgRepository) GetPharmacyBill(ctx context.Context, id uuid.UUID) (*PharmacyBill, error) {
	var b PharmacyBill
	err := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, patient_name, total, bill_date
		FROM pharmacy_bills
		WHERE id = $1
	`, id).Scan(&b.ID, &b.PatientID, &b.PatientName, &b.Total, &b.BillDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPharmacyBillNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.pharmacy_bill_id, i.medicine_id, m.name, i.quantity, i.unit_price, i.line_total
		FROM pharmacy_bill_items i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.pharmacy_bill_id = $1
		ORDER BY m.name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b.Items = []PharmacyBillItem{}
	for rows.Next() {
		var it PharmacyBillItem
		if err := rows.Scan(&it.ID, &it.PharmacyBillID, &it.MedicineID, &it.MedicineName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		b.Items = append(b.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}
