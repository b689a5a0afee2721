package reports

import (
	"sort"

	"github.com/mbentes/conciliador/internal/store"
)

// DRELine is one category line of the income statement, with monthly buckets
// keyed "2006-01".
type DRELine struct {
	Category string             `json:"category"`
	Total    float64            `json:"total"`
	ByMonth  map[string]float64 `json:"by_month"`
}

type DRESummary struct {
	Revenue       []DRELine `json:"revenue"`
	Expenses      []DRELine `json:"expenses"`
	TotalRevenue  float64   `json:"total_revenue"`
	TotalExpenses float64   `json:"total_expenses"`
	NetResult     float64   `json:"net_result"`
}

// BuildDRESummary folds ledger movements into a DRE-style income statement:
// entradas grouped as revenue lines, saídas as expense lines, by denormalized
// category name. Movements without a category name land on "Sem categoria".
// Pure function; additive over any partition of the input.
func BuildDRESummary(movements []store.FinancialMovement) DRESummary {
	revenue := make(map[string]*DRELine)
	expenses := make(map[string]*DRELine)

	summary := DRESummary{}

	for _, m := range movements {
		category := "Sem categoria"
		if m.CategoryName != nil && *m.CategoryName != "" {
			category = *m.CategoryName
		}

		var lines map[string]*DRELine
		switch m.Direction {
		case store.DirectionIn:
			lines = revenue
			summary.TotalRevenue += m.Amount
		case store.DirectionOut:
			lines = expenses
			summary.TotalExpenses += m.Amount
		default:
			continue
		}

		line, ok := lines[category]
		if !ok {
			line = &DRELine{Category: category, ByMonth: make(map[string]float64)}
			lines[category] = line
		}
		line.Total += m.Amount
		line.ByMonth[m.MovementDate.Format("2006-01")] += m.Amount
	}

	summary.Revenue = sortLines(revenue)
	summary.Expenses = sortLines(expenses)
	summary.NetResult = summary.TotalRevenue - summary.TotalExpenses
	return summary
}

func sortLines(lines map[string]*DRELine) []DRELine {
	result := make([]DRELine, 0, len(lines))
	for _, line := range lines {
		result = append(result, *line)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})

	return result
}
