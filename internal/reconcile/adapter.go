package reconcile

import (
	"math"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/store"
)

// OriginAdapter binds the generic state machine to one source table. One
// adapter exists per origin; the machine itself carries no per-origin logic.
type OriginAdapter interface {
	Origin() string
	Table() string
	LedgerInput(tx *store.SourceTransaction) ledger.RegisterInput
}

// mapCommon builds the ledger input shared by all origins: the transaction id
// becomes the idempotency reference, credit lines become entradas, debit lines
// saídas, and the amount is stored as its absolute value.
func mapCommon(tx *store.SourceTransaction, origin string) ledger.RegisterInput {
	direction := store.DirectionOut
	if tx.LineDirection == store.LineCredit {
		direction = store.DirectionIn
	}

	return ledger.RegisterInput{
		Date:              tx.TransactionDate,
		Direction:         direction,
		Origin:            origin,
		Description:       tx.Description,
		Amount:            math.Abs(tx.Amount),
		CompanyID:         tx.CompanyID,
		SourceReferenceID: tx.ID,
		CategoryID:        tx.CategoryID,
		CostCenterID:      tx.CostCenterID,
		ResponsibleID:     tx.ResponsibleID,
	}
}

type BankAdapter struct{}

func (BankAdapter) Origin() string { return store.OriginBank }
func (BankAdapter) Table() string  { return store.TableBankTransactions }
func (BankAdapter) LedgerInput(tx *store.SourceTransaction) ledger.RegisterInput {
	return mapCommon(tx, store.OriginBank)
}

type CardAdapter struct{}

func (CardAdapter) Origin() string { return store.OriginCard }
func (CardAdapter) Table() string  { return store.TableCreditCardTransactions }
func (CardAdapter) LedgerInput(tx *store.SourceTransaction) ledger.RegisterInput {
	input := mapCommon(tx, store.OriginCard)
	if tx.EstablishmentName != nil {
		input.SupplierName = tx.EstablishmentName
	}
	return input
}

type MarketplaceAdapter struct{}

func (MarketplaceAdapter) Origin() string { return store.OriginMarketplace }
func (MarketplaceAdapter) Table() string  { return store.TableMarketplaceTransactions }

// Marketplace direction follows the event type when present: transfers and
// withdrawals bring cash in, fees, chargebacks and transfer refunds take it
// out. Rows without a type fall back to the line direction.
func (MarketplaceAdapter) LedgerInput(tx *store.SourceTransaction) ledger.RegisterInput {
	input := mapCommon(tx, store.OriginMarketplace)
	if tx.TransactionType != nil {
		input.Direction = MarketplaceDirection(*tx.TransactionType, input.Direction)
	}
	return input
}

// MarketplaceDirection maps a marketplace event type to a ledger direction,
// returning fallback for unrecognized types.
func MarketplaceDirection(transactionType, fallback string) string {
	switch transactionType {
	case store.MarketplaceTransfer, store.MarketplaceWithdrawal:
		return store.DirectionIn
	case store.MarketplaceTransferRefund, store.MarketplaceFinancialFee, store.MarketplaceChargeback:
		return store.DirectionOut
	}
	return fallback
}

type ManualAdapter struct{}

func (ManualAdapter) Origin() string { return store.OriginManual }
func (ManualAdapter) Table() string  { return store.TableManualEntries }
func (ManualAdapter) LedgerInput(tx *store.SourceTransaction) ledger.RegisterInput {
	return mapCommon(tx, store.OriginManual)
}
