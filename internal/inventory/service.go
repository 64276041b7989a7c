package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinicops/internal/metrics"
)

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewService(repo Repository, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		log:     log.With().Str("component", "inventory").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, in MedicineInput) (*Medicine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.repo.Create(ctx, Medicine{
		Name:         strings.TrimSpace(in.Name),
		BatchNo:      strings.TrimSpace(in.BatchNo),
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		ExpiryDate:   in.ExpiryDate,
		UnitPrice:    in.UnitPrice,
		SellingPrice: in.SellingPrice,
		Stock:        in.Stock,
	})
	if err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}
	return m, nil
}

// Update edits catalogue fields. in.Stock is ignored; use Restock.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in MedicineInput, active bool) (*Medicine, error) {
	in.Stock = 0
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.BatchNo = strings.TrimSpace(in.BatchNo)
	existing.Manufacturer = strings.TrimSpace(in.Manufacturer)
	existing.ExpiryDate = in.ExpiryDate
	existing.UnitPrice = in.UnitPrice
	existing.SellingPrice = in.SellingPrice
	existing.Active = active

	return s.repo.Update(ctx, *existing)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Medicine, error) {
	return s.repo.List(ctx)
}

// Search matches name, manufacturer or batch number, case-insensitively.
// An empty query lists everything.
func (s *Service) Search(ctx context.Context, query string) ([]Medicine, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

// CheckStock reports whether qty units of an active medicine are on hand.
func (s *Service) CheckStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrInvalidQuantity
	}
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return m.Active && m.Stock >= qty, nil
}

func (s *Service) Restock(ctx context.Context, id uuid.UUID, qty int, remarks string) (*Medicine, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if remarks == "" {
		remarks = "Stock received"
	}
	m, err := s.repo.Restock(ctx, id, qty, remarks)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("medicine_id", id.String()).
		Int("quantity", qty).
		Int("stock", m.Stock).
		Msg("medicine restocked")
	return m, nil
}

func (s *Service) Transactions(ctx context.Context, id uuid.UUID) ([]StockTransaction, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Transactions(ctx, id)
}

// DeactivateExpired hides every batch whose expiry date is before asOf.
func (s *Service) DeactivateExpired(ctx context.Context, asOf time.Time) (int, error) {
	n, err := s.repo.DeactivateExpired(ctx, asOf)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordExpired(n)
	if n > 0 {
		s.log.Info().Int("batches", n).Time("as_of", asOf).Msg("expired medicines deactivated")
	}
	return n, nil
}
