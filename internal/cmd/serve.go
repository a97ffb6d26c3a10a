package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/config"
	"github.com/GoPolymarket/liqwatch/internal/dashboard"
	"github.com/GoPolymarket/liqwatch/internal/handler"
	"github.com/GoPolymarket/liqwatch/internal/market"
	"github.com/GoPolymarket/liqwatch/internal/middleware"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/GoPolymarket/liqwatch/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and run the refresh loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Server.Port = servePort
		}
		return runServer(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "HTTP port (overrides server.port)")
}

func newRouter(cfg *config.Config, session *service.Session, board *dashboard.Board) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "liqwatch", "version": version})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	clientLimiter := middleware.NewClientLimiter(cfg.API.RateQPS, cfg.API.RateBurst)
	handler.RegisterRoutes(r,
		handler.NewDashboardHandler(session, board),
		handler.NewStreamHandler(board),
		middleware.RateLimitMiddleware(clientLimiter),
	)
	return r
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gin.SetMode(gin.ReleaseMode)

	source := market.NewCoinGeckoClient(cfg.Price, nil)
	board := dashboard.NewBoard()
	session := newSession(cfg, source, board)
	board.SetSessionID(session.ID)

	coin, vs := source.Pair()
	logger.Info("Session created", "session_id", session.ID, "coin", coin, "vs_currency", vs,
		"max_calls", cfg.Limiter.MaxCalls, "window", cfg.Limiter.Window().String())

	if cfg.Schedule.AutoStart {
		if err := session.StartAutoRefresh(cfg.Schedule.Interval()); err != nil {
			logger.Warn("Auto refresh not started", "error", err)
		}
	} else if cfg.Dashboard.RefreshOnStart {
		go func() {
			_ = session.Refresh(context.Background())
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, session, board),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-errCh:
		session.Dispose()
		return err
	}
	logger.Info("Shutting down server...")

	session.Dispose()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exiting")
	return nil
}
