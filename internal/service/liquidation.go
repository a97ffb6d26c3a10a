package service

import (
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultMaintenanceMargin is the fixed 10% maintenance margin.
const DefaultMaintenanceMargin = 0.10

// LiquidationPrice returns (size*entry - collateral) / (size*(1-margin)).
//
// The mark price is deliberately not an input: the dashboard has always shown
// this entry-based figure, and whether it should be measured against the mark
// price is an open product question. Inputs are not validated beyond what
// decimal division cannot represent (a zero denominator).
func LiquidationPrice(pos model.Position, maintenanceMargin float64) (decimal.Decimal, error) {
	size := decimal.NewFromFloat(pos.Size)
	entry := decimal.NewFromFloat(pos.EntryPrice)
	collateral := decimal.NewFromFloat(pos.Collateral)
	margin := decimal.NewFromFloat(maintenanceMargin)

	denominator := size.Mul(decimal.NewFromInt(1).Sub(margin))
	if denominator.IsZero() {
		return decimal.Zero, apperrors.New(apperrors.ErrCalculation, "liquidation price undefined for zero position size", nil)
	}

	liquidationValue := size.Mul(entry).Sub(collateral)
	return liquidationValue.Div(denominator), nil
}
