package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/store"
)

// MovementStore is the slice of storage the ledger service needs.
type MovementStore interface {
	Upsert(ctx context.Context, movement *store.FinancialMovement) (string, error)
	DeleteByReference(ctx context.Context, sourceReferenceID, origin string) error
	List(ctx context.Context, filter store.MovementFilter) ([]store.FinancialMovement, error)
}

var validOrigins = map[string]struct{}{
	store.OriginBank:        {},
	store.OriginCard:        {},
	store.OriginMarketplace: {},
	store.OriginPayables:    {},
	store.OriginReceivables: {},
	store.OriginManual:      {},
}

// RegisterInput carries the fields of a movement to be written. Amount must be
// positive; Direction encodes the sign.
type RegisterInput struct {
	Date              time.Time
	Direction         string
	Origin            string
	Description       string
	Amount            float64
	CompanyID         string
	SourceReferenceID string
	CategoryID        *string
	CategoryName      *string
	CostCenterID      *string
	CostCenterName    *string
	ResponsibleID     *string
	PaymentMethod     *string
	CustomerName      *string
	SupplierName      *string
	Notes             *string
}

// Service is the sole authoritative write path into the consolidated movement
// ledger, plus its parameterized read side.
type Service struct {
	movements MovementStore
	appLogger *logger.Logger
}

func NewService(movements MovementStore, appLogger *logger.Logger) *Service {
	return &Service{
		movements: movements,
		appLogger: appLogger,
	}
}

// RegisterMovement upserts a movement keyed on (source_reference_id, origin).
// A second call with the same key fully replaces the row. Manual entries with
// no reference get a fresh one synthesized here and own it for their lifetime.
func (s *Service) RegisterMovement(ctx context.Context, input RegisterInput) (string, error) {
	const component = "Ledger"

	if input.Date.IsZero() {
		return "", &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if input.Amount <= 0 {
		return "", &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if input.CompanyID == "" {
		return "", &ValidationError{Field: "company_id", Reason: "must not be empty"}
	}
	if input.Direction != store.DirectionIn && input.Direction != store.DirectionOut {
		return "", &ValidationError{Field: "direction", Reason: "must be entrada or saida"}
	}
	if _, ok := validOrigins[input.Origin]; !ok {
		return "", &ValidationError{Field: "origin", Reason: "unknown origin"}
	}

	if input.SourceReferenceID == "" {
		if input.Origin != store.OriginManual {
			return "", &ValidationError{Field: "source_reference_id", Reason: "must not be empty"}
		}
		input.SourceReferenceID = uuid.New().String()
	}

	now := time.Now().UTC()
	movement := &store.FinancialMovement{
		ID:                uuid.New().String(),
		MovementDate:      input.Date,
		Direction:         input.Direction,
		Origin:            input.Origin,
		Description:       input.Description,
		Amount:            input.Amount,
		CompanyID:         input.CompanyID,
		SourceReferenceID: input.SourceReferenceID,
		CategoryID:        input.CategoryID,
		CategoryName:      input.CategoryName,
		CostCenterID:      input.CostCenterID,
		CostCenterName:    input.CostCenterName,
		ResponsibleID:     input.ResponsibleID,
		PaymentMethod:     input.PaymentMethod,
		CustomerName:      input.CustomerName,
		SupplierName:      input.SupplierName,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	id, err := s.movements.Upsert(ctx, movement)
	if err != nil {
		return "", err
	}

	s.appLogger.Debug(component, "Movement registered: origin=%s reference=%s amount=%.2f", input.Origin, input.SourceReferenceID, input.Amount)
	return id, nil
}

// RemoveMovement deletes the ledger row for the key, if any.
func (s *Service) RemoveMovement(ctx context.Context, sourceReferenceID, origin string) error {
	return s.movements.DeleteByReference(ctx, sourceReferenceID, origin)
}

func (s *Service) QueryMovements(ctx context.Context, filter store.MovementFilter) ([]store.FinancialMovement, error) {
	return s.movements.List(ctx, filter)
}

type Summary struct {
	TotalIn  float64 `json:"total_in"`
	TotalOut float64 `json:"total_out"`
	Net      float64 `json:"net"`
	Count    int     `json:"count"`
}

// Summarize folds a movement list into its entradas/saídas totals. Pure and
// additive over any partition of the input.
func Summarize(movements []store.FinancialMovement) Summary {
	summary := Summary{Count: len(movements)}

	for _, m := range movements {
		switch m.Direction {
		case store.DirectionIn:
			summary.TotalIn += m.Amount
		case store.DirectionOut:
			summary.TotalOut += m.Amount
		}
	}

	summary.Net = summary.TotalIn - summary.TotalOut
	return summary
}
