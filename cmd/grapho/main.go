// Command grapho is a CLI tool for working with laid-out graph models.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/ha1tch/grapho/pkg/config"
	"github.com/ha1tch/grapho/pkg/model"
	"github.com/ha1tch/grapho/pkg/render"
	"github.com/ha1tch/grapho/pkg/viewport"
)

var version = "0.3.0"

var (
	bold   = color.New(color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

var (
	configPath string
	logger     *slog.Logger
	settings   *config.Config
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "grapho",
		Short:         "grapho - graph viewport toolkit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  grapho info graph.json
  grapho convert graph.json -o graph.yaml
  grapho snapshot graph.json -o view.png --zoom 2
  grapho run graph.yaml`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			settings = cfg
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.Path(), "config file")

	root.AddCommand(
		infoCmd(),
		validateCmd(),
		convertCmd(),
		snapshotCmd(),
		runCmd(),
	)
	return root
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input>",
		Short: "Show graph information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printInfo(w io.Writer, m *model.Model) {
	labelled := 0
	for _, n := range m.Nodes {
		if n.Label != "" {
			labelled++
		}
	}
	maxDeg := 0
	for _, d := range m.Degree() {
		if d > maxDeg {
			maxDeg = d
		}
	}

	row := func(name string, format string, a ...any) {
		fmt.Fprintf(w, "%s %s\n", bold.Sprintf("%-12s", name+":"), fmt.Sprintf(format, a...))
	}
	row("Size", "%gx%g", m.Width, m.Height)
	row("Nodes", "%d", len(m.Nodes))
	row("Edges", "%d", len(m.Edges))
	row("Groups", "%d", m.Groups())
	row("Labelled", "%d", labelled)
	row("Max degree", "%d", maxDeg)
	if m.Steps > 0 {
		row("Steps", "%d", m.Steps)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input>...",
		Short: "Validate graph files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, input := range args {
				m, err := model.Load(input)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", bad.Sprint("✗"), input, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d nodes, %d edges\n",
					good.Sprint("✓"), input, len(m.Nodes), len(m.Edges))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between formats (json, yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			m, err := model.Load(input)
			if err != nil {
				return err
			}
			if output == "" {
				output = convertTarget(input)
			}
			if err := model.Save(output, m); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: swap json/yaml extension)")
	return cmd
}

// convertTarget swaps a json extension for yaml and anything else for json.
func convertTarget(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if strings.EqualFold(ext, ".json") {
		return base + ".yaml"
	}
	return base + ".json"
}

func snapshotCmd() *cobra.Command {
	var (
		output string
		zoom   float64
		panX   float64
		panY   float64
		focus  int
		width  int
		height int
		noText bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot <input>",
		Short: "Render the viewport to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			m, err := model.Load(input)
			if err != nil {
				return err
			}
			if zoom <= 0 {
				return fmt.Errorf("zoom must be positive, got %g", zoom)
			}
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
			}

			opts := render.DefaultOptions(m)
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			vc := settings.Viewport(float64(opts.Width), float64(opts.Height))
			opts.NodeRadius = vc.PointSize() / 4
			opts.Arrows = vc.Arrows
			opts.Labels = !noText

			var fb viewport.FocusBuffer
			if focus >= 0 {
				if focus >= len(m.Nodes) {
					return fmt.Errorf("focus index %d out of range (%d nodes)", focus, len(m.Nodes))
				}
				fb = viewport.NewFocusBuffer(len(m.Nodes))
				fb.Apply([]viewport.FocusPatch{{Index: focus, Value: 1}})
			}
			t := viewport.Transform{PanX: panX, PanY: panY, ZoomX: zoom, ZoomY: zoom}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := render.RenderPNG(f, m, t, fb, opts); err != nil {
				return fmt.Errorf("rendering %s: %w", output, err)
			}
			logger.Debug("snapshot", slog.String("output", output), slog.Float64("zoom", zoom))
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default: input with .png)")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom factor")
	cmd.Flags().Float64Var(&panX, "pan-x", 0, "horizontal pan in pixels")
	cmd.Flags().Float64Var(&panY, "pan-y", 0, "vertical pan in pixels")
	cmd.Flags().IntVar(&focus, "focus", -1, "node index to draw focused")
	cmd.Flags().IntVar(&width, "width", 0, "image width (default: model width)")
	cmd.Flags().IntVar(&height, "height", 0, "image height (default: model height)")
	cmd.Flags().BoolVar(&noText, "no-labels", false, "omit node labels")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <input>",
		Short: "Drive a headless viewer interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(m, settings.Viewport(m.Width, m.Height), cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			defer s.close()

			fmt.Fprintf(cmd.OutOrStdout(), "Graph: %s (%d nodes)\n", args[0], len(m.Nodes))
			fmt.Fprintln(cmd.OutOrStdout(), subtle.Sprint("Commands: zoom-in, zoom-out, reset, select, pan, box-zoom, press/move/release x y, tick [ms], status, history, quit"))
			fmt.Fprintln(cmd.OutOrStdout())
			return s.repl(cmd.InOrStdin())
		},
	}
}
