package reports

import (
	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/store"
)

// BalanceSheet is the working-capital roll-up: realized cash position from
// the ledger against still-open payables and receivables.
type BalanceSheet struct {
	CashPosition      float64 `json:"cash_position"`
	ReceivablesOpen   float64 `json:"receivables_open"`
	PayablesOpen      float64 `json:"payables_open"`
	NetWorkingCapital float64 `json:"net_working_capital"`
}

// BuildBalanceSheet rolls up the cash position (net of all movements) with
// the open sides of contas a pagar/receber. Pure function over already
// fetched rows.
func BuildBalanceSheet(movements []store.FinancialMovement, openPayables, openReceivables []store.PayableReceivable) BalanceSheet {
	sheet := BalanceSheet{
		CashPosition: ledger.Summarize(movements).Net,
	}

	for _, p := range openPayables {
		sheet.PayablesOpen += p.AmountOpen
	}
	for _, r := range openReceivables {
		sheet.ReceivablesOpen += r.AmountOpen
	}

	sheet.NetWorkingCapital = sheet.CashPosition + sheet.ReceivablesOpen - sheet.PayablesOpen
	return sheet
}
