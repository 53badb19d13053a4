package core

import "github.com/shopspring/decimal"

// RoundAmount rounds a floating point sum to cents, dropping the noise that
// accumulates when SQLite adds REAL values.
func RoundAmount(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
