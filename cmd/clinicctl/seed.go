package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinicops/internal/db"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/schedule"
)

const seedBatchSize = 500

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var clinicDays = []schedule.Weekday{
	schedule.Monday, schedule.Tuesday, schedule.Wednesday,
	schedule.Thursday, schedule.Friday, schedule.Saturday,
}

type seedOptions struct {
	practitioners int
	patients      int
	medicines     int
	seed          int64
}

func seedCmd() *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake practitioners, patients and medicines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, log, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if opts.seed == 0 {
				opts.seed = time.Now().UnixNano()
			}
			faker := gofakeit.New(uint64(opts.seed))
			return runSeed(ctx, pool, faker, opts, log)
		},
	}
	cmd.Flags().IntVar(&opts.practitioners, "practitioners", 20, "number of practitioners, each with a weekly schedule")
	cmd.Flags().IntVar(&opts.patients, "patients", 2000, "number of patients")
	cmd.Flags().IntVar(&opts.medicines, "medicines", 200, "number of medicine batches")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed, 0 picks one from the clock")
	return cmd
}

func runSeed(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, opts seedOptions, log zerolog.Logger) error {
	if err := seedPractitioners(ctx, pool, faker, opts.practitioners, log); err != nil {
		return fmt.Errorf("seed practitioners: %w", err)
	}
	if err := seedPatients(ctx, pool, faker, opts.patients, log); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	if err := seedMedicines(ctx, pool, faker, opts.medicines, log); err != nil {
		return fmt.Errorf("seed medicines: %w", err)
	}
	log.Info().Msg("seed complete")
	return nil
}

func seedPractitioners(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, count int, log zerolog.Logger) error {
	log.Info().Int("count", count).Msg("seeding practitioners")

	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		for i := 0; i < count; i++ {
			id := uuid.New()
			spec := specializations[faker.Number(0, len(specializations)-1)]
			base := decimal.NewFromInt(int64(faker.Number(20, 60) * 10))
			// a quarter of practitioners only carry the base fee
			profile := decimal.Zero
			if faker.Number(0, 3) > 0 {
				profile = base.Add(decimal.NewFromInt(int64(faker.Number(0, 10) * 10)))
			}

			if _, err := tx.Exec(ctx, `
				INSERT INTO practitioners (id, full_name, specialization, base_fee, profile_fee)
				VALUES ($1, $2, $3, $4, $5)
			`, id, "Dr. "+faker.Name(), spec, base, profile); err != nil {
				return err
			}

			morning := faker.Number(8, 10)
			for _, day := range clinicDays {
				if _, err := tx.Exec(ctx, `
					INSERT INTO practitioner_schedules (id, practitioner_id, day_of_week, start_time, end_time)
					VALUES ($1, $2, $3, $4, $5)
				`, uuid.New(), id, string(day),
					schedule.FormatClock(morning*60), schedule.FormatClock((morning+4)*60)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, count int, log zerolog.Logger) error {
	log.Info().Int("count", count).Msg("seeding patients")

	genders := []string{"Male", "Female", "Other"}
	for offset := 0; offset < count; offset += seedBatchSize {
		end := min(offset+seedBatchSize, count)

		err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
			for i := offset; i < end; i++ {
				id := uuid.New()
				addr := faker.Address()
				dob := faker.DateRange(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-1, 0, 0))

				if _, err := tx.Exec(ctx, `
					INSERT INTO patients (id, mrn, full_name, phone, address, date_of_birth, gender)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
				`, id, "MRN-"+id.String()[:8], faker.Name(), faker.Phone(),
					addr.Street+", "+addr.City, dob, genders[faker.Number(0, len(genders)-1)]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().Int("done", end).Int("count", count).Msg("patients seeded")
	}
	return nil
}

func seedMedicines(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, count int, log zerolog.Logger) error {
	log.Info().Int("count", count).Msg("seeding medicines")

	forms := []string{"Tablet", "Capsule", "Syrup", "Ointment", "Drops"}
	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		for i := 0; i < count; i++ {
			id := uuid.New()
			name := fmt.Sprintf("%s %dmg %s", faker.NounAbstract(), faker.Number(1, 50)*10, forms[faker.Number(0, len(forms)-1)])
			unit := decimal.NewFromFloat(faker.Price(1, 40)).Round(2)
			selling := unit.Mul(decimal.RequireFromString("1.25")).Round(2)
			stock := faker.Number(0, 500)
			// some batches are already past expiry for the worker to pick up
			expiry := time.Now().AddDate(0, faker.Number(-2, 36), 0)

			if _, err := tx.Exec(ctx, `
				INSERT INTO medicines (id, name, batch_no, manufacturer, expiry_date, unit_price, selling_price, stock_quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, id, name, fmt.Sprintf("B%06d", faker.Number(1, 999999)), faker.Company(),
				expiry, unit, selling, stock); err != nil {
				return err
			}
			if stock > 0 {
				if _, err := tx.Exec(ctx, `
					INSERT INTO stock_transactions (id, medicine_id, quantity_change, type, remarks)
					VALUES ($1, $2, $3, $4, $5)
				`, uuid.New(), id, stock, string(inventory.TransactionPurchase), "Initial stock"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
