// friendlyjam-master lists running coordination servers.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/master"
	"github.com/spf13/cobra"
)

var (
	flagAddr     string
	flagTTL      time.Duration
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "friendlyjam-master",
	Short:        "Server list for friendlyjam coordination servers",
	SilenceUsage: true,
	RunE:         runMaster,
}

func init() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	rootCmd.Flags().DurationVar(&flagTTL, "ttl", 90*time.Second, "server TTL before expiry")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func runMaster(cmd *cobra.Command, _ []string) error {
	logger := config.NewLogger(flagLogLevel, "master")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := master.NewRegistry(flagTTL, logger)
	go reg.Run(ctx, 30*time.Second)

	srv := &http.Server{Addr: flagAddr, Handler: master.Routes(reg, logger)}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("starting", "addr", flagAddr, "ttl", flagTTL)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
