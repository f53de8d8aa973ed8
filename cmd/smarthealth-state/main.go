package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"smarthealth-state/internal/config"
	"smarthealth-state/internal/events"
	"smarthealth-state/internal/logger"
	"smarthealth-state/internal/repository"
	"smarthealth-state/internal/service"
	"smarthealth-state/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app 每个子命令共享的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	server string // --server：非空时通过 HTTP API 访问
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:           "smarthealth-state",
		Short:         "Smart Health per-user state store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, logger.ServiceName)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.cfg = cfg
			a.logger = lg
			a.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.server, "server", "", "base URL of a running server (e.g. http://localhost:8080)")

	root.AddCommand(
		newServeCmd(a),
		newShowCmd(a),
		newMetricsCmd(a),
		newLogoutCmd(a),
		newExportCmd(a),
	)
	return root
}

// openService 按配置打开槽位存储和事件发布，并加载持久化状态
func (a *app) openService(ctx context.Context, withEvents bool) (*service.UserDataService, func(), error) {
	kv, closeKV, err := store.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		publisher   events.Publisher = events.NopPublisher{}
		closeEvents                  = func() error { return nil }
	)
	if withEvents {
		publisher, closeEvents, err = events.New(ctx, a.cfg, a.logger)
		if err != nil {
			_ = closeKV()
			return nil, nil, err
		}
	}

	svc := service.NewUserDataService(repository.NewKVSnapshotRepo(kv), publisher, a.logger)
	svc.Load(ctx)

	cleanup := func() {
		if err := errors.Join(closeEvents(), closeKV()); err != nil {
			a.logger.Warn("Failed to close resources", zap.Error(err))
		}
	}
	return svc, cleanup, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
