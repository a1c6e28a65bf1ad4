package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bazinga/internal/config"
	"bazinga/internal/consciousness"
	"bazinga/internal/dashboard"
	"bazinga/internal/report"
	"bazinga/internal/tui"
)

var (
	dashboardAddr     string
	dashboardGenerate bool
	dashboardOutput   string

	reportView   bool
	reportOutput string

	docsOutput string
)

// monitorCmd runs the terminal monitor over a live engine
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the consciousness loop in a terminal monitor",
	RunE:  runMonitor,
}

// dashboardCmd serves the live dashboard or writes the static page
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the live web dashboard, or generate the static page",
	Long: `Without flags, serves the dashboard on the configured address and
streams engine state over WebSocket until interrupted. With --generate,
writes a self-contained HTML snapshot under ~/.bazinga/reports/ instead.`,
	RunE: runDashboard,
}

// reportCmd renders the system report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the system report (Markdown)",
	RunE:  runReport,
}

// docsCmd writes the documentation tree
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Write the documentation tree under the reports directory",
	RunE:  runDocs,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "serve", "", "Listen address (default from config)")
	dashboardCmd.Flags().BoolVar(&dashboardGenerate, "generate", false, "Write the static HTML dashboard and exit")
	dashboardCmd.Flags().StringVar(&dashboardOutput, "output", "", "Output path for --generate")

	reportCmd.Flags().BoolVar(&reportView, "view", false, "Render to the terminal instead of writing a file")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "Output path (default under ~/.bazinga/reports)")

	docsCmd.Flags().StringVar(&docsOutput, "output", "", "Target directory (default ~/.bazinga/reports/docs)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig("unified")
	if err != nil {
		return err
	}
	engine := consciousness.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = engine.Run(ctx) }()

	return tui.Run(engine)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if dashboardGenerate {
		return generateDashboard()
	}

	cfg, err := engineConfig("unified")
	if err != nil {
		return err
	}
	engine := consciousness.New(cfg)

	addr := dashboardAddr
	if addr == "" {
		addr = appCfg.DashboardAddr
	}
	srv := dashboard.NewServer(engine, addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving dashboard", zap.String("addr", addr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return engine.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func generateDashboard() error {
	snap, thoughts, err := latestSnapshot()
	if err != nil {
		return err
	}
	path, err := report.SaveDashboard(appHome, snap, thoughts, dashboardOutput)
	if err != nil {
		return err
	}
	fmt.Printf("Dashboard written: %s\n", path)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	snap, thoughts, err := latestSnapshot()
	if err != nil {
		return err
	}

	if reportView {
		md := report.System(snap, thoughts)
		if isatty.IsTerminal(os.Stdout.Fd()) {
			if rendered, err := report.RenderTerminal(md); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Print(md)
		return nil
	}

	path, err := report.SaveSystem(appHome, snap, thoughts, reportOutput)
	if err != nil {
		return err
	}
	fmt.Printf("Report written: %s\n", path)
	return nil
}

func runDocs(cmd *cobra.Command, args []string) error {
	dir := docsOutput
	if dir == "" {
		dir = filepath.Join(config.ReportsDir(appHome), "docs")
	}

	paths, err := report.GenerateDocs(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Documentation tree: %d files under %s\n", len(paths), dir)
	return nil
}

// latestSnapshot builds report input: the newest saved state when one
// exists, otherwise a fresh engine snapshot.
func latestSnapshot() (consciousness.Snapshot, []consciousness.Thought, error) {
	cfg, err := engineConfig("unified")
	if err != nil {
		return consciousness.Snapshot{}, nil, err
	}
	engine := consciousness.New(cfg)

	snap := engine.Snapshot()
	if list, err := engine.ListStates(); err == nil && len(list.Available) > 0 {
		newest := list.Available[len(list.Available)-1]
		if loaded, err := engine.LoadState(newest); err == nil {
			snap = loaded.State
		}
	}
	return snap, engine.RecentThoughts(15), nil
}
