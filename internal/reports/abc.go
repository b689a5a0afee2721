package reports

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
)

// ProductRevenue is the input row for the ABC curve: total revenue per
// product over the analyzed period.
type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}

// ABCItem is one product on the curve, classified by cumulative revenue
// share: A up to 80%, B up to 95%, C the rest.
type ABCItem struct {
	Product         string  `json:"product"`
	Revenue         float64 `json:"revenue"`
	Share           float64 `json:"share"`
	CumulativeShare float64 `json:"cumulative_share"`
	Class           string  `json:"class"`
}

// BuildABCCurve sorts products by revenue descending and walks the cumulative
// revenue share to assign ABC classes. Pure function.
func BuildABCCurve(items []ProductRevenue) []ABCItem {
	if len(items) == 0 {
		return nil
	}

	df := dataframe.LoadStructs(items)
	df = df.Arrange(dataframe.RevSort("Revenue"))

	revenues := df.Col("Revenue").Float()
	products := df.Col("Product").Records()

	total := floats.Sum(revenues)

	cumulative := make([]float64, len(revenues))
	floats.CumSum(cumulative, revenues)

	result := make([]ABCItem, len(revenues))
	for i := range revenues {
		item := ABCItem{
			Product: products[i],
			Revenue: revenues[i],
			Class:   "C",
		}
		if total > 0 {
			item.Share = revenues[i] / total
			item.CumulativeShare = cumulative[i] / total
			switch {
			case item.CumulativeShare <= 0.80:
				item.Class = "A"
			case item.CumulativeShare <= 0.95:
				item.Class = "B"
			}
		}
		result[i] = item
	}

	return result
}
