// Command graphoview is a terminal viewer for laid-out graphs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ha1tch/grapho/pkg/config"
	"github.com/ha1tch/grapho/pkg/model"
)

// refreshInterval paces frames while something is moving.
const refreshInterval = 16 * time.Millisecond

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logPath    string
		output     string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:          "graphoview <model>",
		Short:        "View a graph in the terminal",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logPath != "" {
				cfg.Log.File = logPath
			}
			logger, closeLog, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			m, err := model.Load(path)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
			}
			return view(cmd.Context(), path, output, watch, m, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.Path(), "config file")
	cmd.Flags().StringVar(&logPath, "log", "", "log file (overrides [log] file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG export path (default: model with .png)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the model when the file changes")
	return cmd
}

// openLog returns a text logger on the configured file, or a discarding
// one since stderr belongs to the screen.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(h), func() { f.Close() }, nil
}

func view(ctx context.Context, path, output string, watch bool, m *model.Model, cfg *config.Config, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.Clear()

	app, err := newApp(screen, m, path, cfg, logger)
	if err != nil {
		screen.Fini()
		return err
	}
	app.output = output

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	// Ticker posts refresh events while animations or throttled input
	// are pending; the main loop owns all viewer state.
	g.Go(func() error {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if app.busy(now) {
					screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	})
	if watch {
		g.Go(func() error {
			return model.Watch(gctx, path, logger, func(m *model.Model) {
				screen.PostEvent(tcell.NewEventInterrupt(m))
			})
		})
	}

	app.run()

	cancel()
	app.close()
	screen.Fini()
	return g.Wait()
}
