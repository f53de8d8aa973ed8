package main

import (
	"context"
	"time"

	httpapi "smarthealth-state/internal/http"
	"smarthealth-state/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout 收到信号后等待在途请求的上限
const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := a.openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			router := httpapi.NewRouter(a.logger)
			router.RegisterHealthRoutes()
			router.RegisterUserDataRoutes(httpapi.NewUserDataHandler(svc, a.logger))

			srv := service.NewServer(a.cfg.HTTP.Addr, router, a.logger)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Stop(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				a.logger.Error("Server exited with error", zap.Error(err))
				return err
			}
			a.logger.Info("Server stopped")
			return nil
		},
	}
}
