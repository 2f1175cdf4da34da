package entities

import "fmt"

// GSTSlab is a named tax rate offered by the calculator.
type GSTSlab struct {
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// GSTSlabs are the supported rates in display order.
var GSTSlabs = []GSTSlab{
	{Label: "Exempt (0%)", Rate: 0},
	{Label: "5%", Rate: 5},
	{Label: "12%", Rate: 12},
	{Label: "18%", Rate: 18},
	{Label: "28%", Rate: 28},
}

// DefaultGSTRate is the slab selected when none is given.
const DefaultGSTRate = 18

// IsGSTSlab reports whether rate is one of the supported slabs.
func IsGSTSlab(rate float64) bool {
	for _, s := range GSTSlabs {
		if s.Rate == rate {
			return true
		}
	}
	return false
}

type GSTMode string

const (
	GSTModeAdd       GSTMode = "add"
	GSTModeRemove    GSTMode = "remove"
	GSTModeCalculate GSTMode = "calculate"
)

// GSTResult carries the outcome of a tax computation. Base is the pre-tax
// amount and Total the tax-inclusive amount, whichever way the computation ran.
type GSTResult struct {
	Mode      GSTMode `json:"mode"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
	Base      float64 `json:"base"`
	GSTAmount float64 `json:"gst_amount"`
	Total     float64 `json:"total"`
}

// Money formats a value to two decimal places.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
