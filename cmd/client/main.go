// friendlyjam is the game client. It connects to a coordination server,
// joins or creates a room and plays whichever role the room assigns.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/network"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

const appName = "friendlyjam"

var (
	flagConnect     string
	flagMaster      string
	flagJoin        string
	flagCreate      bool
	flagRole        string
	flagRules       string
	flagMonitorCode string
	flagLogLevel    string
	flagScale       int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "friendlyjam",
	Short:         "Two-player co-op puzzle platformer",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClient,
}

func init() {
	rootCmd.Flags().StringVar(&flagConnect, "connect", "ws://localhost:8090", "coordination server URL")
	rootCmd.Flags().StringVar(&flagMaster, "master", "", "master server URL to pick a server from")
	rootCmd.Flags().StringVar(&flagJoin, "join", "", "join the room with this code")
	rootCmd.Flags().BoolVar(&flagCreate, "create", false, "create a room on connect")
	rootCmd.Flags().StringVar(&flagRole, "role", "", "select this role once in a room (dispatcher or solver)")
	rootCmd.Flags().StringVar(&flagRules, "rules", "", "path to a solver rules YAML file")
	rootCmd.Flags().StringVar(&flagMonitorCode, "monitor-code", "", "code that unlocks the dispatcher monitor")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&flagScale, "scale", 2, "window scale")
}

func runClient(cmd *cobra.Command, _ []string) error {
	logger := config.NewLogger(flagLogLevel, "client")

	rules, err := config.LoadRules(flagRules)
	if err != nil {
		return err
	}
	levels, err := assets.Levels()
	if err != nil {
		return fmt.Errorf("failed to load levels: %w", err)
	}

	opts := options{create: flagCreate, join: flagJoin, monitorCode: flagMonitorCode}
	if flagRole != "" {
		role, err := model.ParseRole(flagRole)
		if err != nil {
			return err
		}
		opts.role = &role
	}

	var store network.SessionStore
	gdataStore, err := network.OpenGdataStore(appName)
	if err != nil {
		logger.Warn("session persistence unavailable, reconnection disabled", "error", err)
		store = &network.MemoryStore{}
	} else {
		store = gdataStore
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	url := flagConnect
	if flagMaster != "" && !cmd.Flags().Changed("connect") {
		url, err = discover(ctx, flagMaster)
		if err != nil {
			return err
		}
		logger.Info("picked server", "url", url)
	}

	relay := network.NewClient(logger)
	if err := relay.Connect(ctx, url); err != nil {
		return err
	}
	defer relay.Close()

	a := newApp(relay, store, rules, levels, opts, logger)
	ebiten.SetWindowSize(a.width*flagScale, a.height*flagScale)
	ebiten.SetWindowTitle("friendlyjam")

	if err := ebiten.RunGame(a); err != nil {
		logger.Error("game ended", "error", err)
		return err
	}
	return nil
}

func discover(ctx context.Context, masterURL string) (string, error) {
	servers, err := network.FetchServers(ctx, &http.Client{Timeout: 5 * time.Second}, masterURL)
	if err != nil {
		return "", err
	}
	best, ok := network.PickServer(servers)
	if !ok {
		return "", fmt.Errorf("no servers listed at %s", masterURL)
	}
	return network.ServerURL(best), nil
}
