package reports

import (
	"math"
	"testing"
	"time"

	"github.com/mbentes/conciliador/internal/store"
)

func strptr(s string) *string { return &s }

func movement(direction string, amount float64, categoryName string, date time.Time) store.FinancialMovement {
	m := store.FinancialMovement{
		Direction:    direction,
		Amount:       amount,
		MovementDate: date,
	}
	if categoryName != "" {
		m.CategoryName = strptr(categoryName)
	}
	return m
}

func TestBuildDRESummary(t *testing.T) {
	nov := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)

	movements := []store.FinancialMovement{
		movement(store.DirectionIn, 1000, "Receita Marketplace", nov),
		movement(store.DirectionIn, 500, "Receita Marketplace", dec),
		movement(store.DirectionIn, 200, "Outras Receitas", nov),
		movement(store.DirectionOut, 300, "Fretes e Envios", nov),
		movement(store.DirectionOut, 120, "", nov),
	}

	summary := BuildDRESummary(movements)

	if summary.TotalRevenue != 1700 {
		t.Errorf("TotalRevenue = %.2f, want 1700", summary.TotalRevenue)
	}
	if summary.TotalExpenses != 420 {
		t.Errorf("TotalExpenses = %.2f, want 420", summary.TotalExpenses)
	}
	if summary.NetResult != 1280 {
		t.Errorf("NetResult = %.2f, want 1280", summary.NetResult)
	}

	if len(summary.Revenue) != 2 {
		t.Fatalf("expected 2 revenue lines, got %d", len(summary.Revenue))
	}
	if summary.Revenue[0].Category != "Receita Marketplace" {
		t.Errorf("revenue lines must be sorted by total descending, got %q first", summary.Revenue[0].Category)
	}
	if summary.Revenue[0].ByMonth["2024-11"] != 1000 || summary.Revenue[0].ByMonth["2024-12"] != 500 {
		t.Errorf("unexpected monthly buckets: %+v", summary.Revenue[0].ByMonth)
	}

	if len(summary.Expenses) != 2 {
		t.Fatalf("expected 2 expense lines, got %d", len(summary.Expenses))
	}
	found := false
	for _, line := range summary.Expenses {
		if line.Category == "Sem categoria" && line.Total == 120 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an uncategorized line of 120, got %+v", summary.Expenses)
	}
}

func TestBuildDRESummaryTieBreaksByName(t *testing.T) {
	nov := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	movements := []store.FinancialMovement{
		movement(store.DirectionOut, 50, "Tarifas Bancárias", nov),
		movement(store.DirectionOut, 50, "Alimentação", nov),
	}

	summary := BuildDRESummary(movements)
	if summary.Expenses[0].Category != "Alimentação" {
		t.Errorf("equal totals must sort by category name, got %q first", summary.Expenses[0].Category)
	}
}

func TestBuildDRESummaryEmpty(t *testing.T) {
	summary := BuildDRESummary(nil)
	if summary.TotalRevenue != 0 || summary.TotalExpenses != 0 || summary.NetResult != 0 {
		t.Errorf("empty input should produce zero totals, got %+v", summary)
	}
	if len(summary.Revenue) != 0 || len(summary.Expenses) != 0 {
		t.Errorf("empty input should produce no lines, got %+v", summary)
	}
}

func TestBuildABCCurve(t *testing.T) {
	items := []ProductRevenue{
		{Product: "Caderno", Revenue: 1500},
		{Product: "Kit Organizador", Revenue: 5000},
		{Product: "Planner Anual", Revenue: 3000},
		{Product: "Adesivos", Revenue: 500},
	}

	curve := BuildABCCurve(items)
	if len(curve) != 4 {
		t.Fatalf("expected 4 items, got %d", len(curve))
	}

	wantOrder := []string{"Kit Organizador", "Planner Anual", "Caderno", "Adesivos"}
	wantClass := []string{"A", "A", "B", "C"}
	for i := range curve {
		if curve[i].Product != wantOrder[i] {
			t.Errorf("position %d: got %q, want %q", i, curve[i].Product, wantOrder[i])
		}
		if curve[i].Class != wantClass[i] {
			t.Errorf("%s: class %q, want %q (cumulative %.2f)", curve[i].Product, curve[i].Class, wantClass[i], curve[i].CumulativeShare)
		}
	}

	if math.Abs(curve[0].Share-0.5) > 1e-9 {
		t.Errorf("Kit Organizador share = %.4f, want 0.5", curve[0].Share)
	}
	if math.Abs(curve[len(curve)-1].CumulativeShare-1.0) > 1e-9 {
		t.Errorf("last cumulative share = %.4f, want 1.0", curve[len(curve)-1].CumulativeShare)
	}
}

func TestBuildABCCurveEmpty(t *testing.T) {
	if got := BuildABCCurve(nil); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}

func TestBuildABCCurveZeroRevenue(t *testing.T) {
	curve := BuildABCCurve([]ProductRevenue{{Product: "Amostra", Revenue: 0}})
	if len(curve) != 1 {
		t.Fatalf("expected 1 item, got %d", len(curve))
	}
	if curve[0].Class != "C" || curve[0].Share != 0 {
		t.Errorf("zero-revenue product should be class C with zero share, got %+v", curve[0])
	}
}

func TestBuildBalanceSheet(t *testing.T) {
	movements := []store.FinancialMovement{
		{Direction: store.DirectionIn, Amount: 10000},
		{Direction: store.DirectionOut, Amount: 4000},
	}
	openPayables := []store.PayableReceivable{
		{AmountOpen: 1200},
		{AmountOpen: 800},
	}
	openReceivables := []store.PayableReceivable{
		{AmountOpen: 3500},
	}

	sheet := BuildBalanceSheet(movements, openPayables, openReceivables)

	if sheet.CashPosition != 6000 {
		t.Errorf("CashPosition = %.2f, want 6000", sheet.CashPosition)
	}
	if sheet.PayablesOpen != 2000 {
		t.Errorf("PayablesOpen = %.2f, want 2000", sheet.PayablesOpen)
	}
	if sheet.ReceivablesOpen != 3500 {
		t.Errorf("ReceivablesOpen = %.2f, want 3500", sheet.ReceivablesOpen)
	}
	if sheet.NetWorkingCapital != 7500 {
		t.Errorf("NetWorkingCapital = %.2f, want 7500", sheet.NetWorkingCapital)
	}
}
