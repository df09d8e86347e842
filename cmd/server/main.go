// friendlyjam-server is the coordination server: it pairs two clients in a
// room, assigns roles and relays their state.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/server/core"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagAddr     string
	flagTest     bool
	flagMaster   string
	flagName     string
	flagPublic   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "friendlyjam-server",
	Short:        "Room coordination server for friendlyjam",
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a server YAML config")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().BoolVar(&flagTest, "test", false, "let a single player start a game")
	rootCmd.Flags().StringVar(&flagMaster, "master", "", "master server URL to register with")
	rootCmd.Flags().StringVar(&flagPublic, "public-addr", "", "address advertised to the master")
	rootCmd.Flags().StringVar(&flagName, "name", "", "display name in the server list")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = flagAddr
	}
	if flags.Changed("test") {
		cfg.TestMode = flagTest
	}
	if flags.Changed("master") {
		cfg.MasterURL = flagMaster
	}
	if flags.Changed("name") {
		cfg.Name = flagName
	}
	if flags.Changed("public-addr") {
		cfg.PublicAddr = flagPublic
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	logger := config.NewLogger(cfg.LogLevel, "coop-server")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return core.NewServer(cfg, logger).Run(ctx)
}
