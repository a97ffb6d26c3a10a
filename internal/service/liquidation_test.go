package service

import (
	"testing"

	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiquidationPrice(t *testing.T) {
	tests := []struct {
		name string
		pos  model.Position
		want string
	}{
		{"documented example", model.Position{Size: 10, EntryPrice: 2000, Collateral: 1000}, "2111.11"},
		{"no collateral", model.Position{Size: 1, EntryPrice: 900, Collateral: 0}, "1000.00"},
		{"over-collateralized", model.Position{Size: 2, EntryPrice: 100, Collateral: 300}, "-55.56"},
		{"negative size passes through", model.Position{Size: -1, EntryPrice: 1800, Collateral: 0}, "2000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LiquidationPrice(tt.pos, DefaultMaintenanceMargin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestLiquidationPriceZeroSize(t *testing.T) {
	_, err := LiquidationPrice(model.Position{Size: 0, EntryPrice: 2000, Collateral: 100}, DefaultMaintenanceMargin)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCalculation))
}
