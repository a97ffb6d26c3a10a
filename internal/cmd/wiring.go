package cmd

import (
	"github.com/GoPolymarket/liqwatch/internal/config"
	"github.com/GoPolymarket/liqwatch/internal/market"
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/clock"
	"github.com/GoPolymarket/liqwatch/internal/ratelimit"
	"github.com/GoPolymarket/liqwatch/internal/service"
)

// newSession builds a session from config against the given source and presenter.
func newSession(cfg *config.Config, source market.PriceSource, presenter service.Presenter) *service.Session {
	clk := clock.Real()
	return service.NewSession(service.SessionOptions{
		Source:            source,
		Limiter:           ratelimit.New(cfg.Limiter.MaxCalls, cfg.Limiter.Window(), clk),
		Presenter:         presenter,
		Clock:             clk,
		MinInterval:       cfg.Schedule.MinInterval(),
		MaintenanceMargin: cfg.Position.MaintenanceMargin,
		RefreshTimeout:    cfg.Price.Timeout(),
		Position: model.Position{
			Size:       cfg.Position.Size,
			EntryPrice: cfg.Position.EntryPrice,
			Collateral: cfg.Position.Collateral,
		},
	})
}
