package models

import "github.com/shopspring/decimal"

func init() {
	// Prices and amounts are written as JSON numbers, as in existing data files.
	decimal.MarshalJSONWithoutQuotes = true
}
