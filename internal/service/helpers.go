package service

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// parsePrice validates a monetary string and normalizes it to two decimal
// places.
func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("preço inválido", map[string]any{"price": raw})
	}
	if price.IsNegative() {
		return decimal.Zero, apperrors.NewValidationError("preço não pode ser negativo", nil)
	}
	return price.Round(2), nil
}
