package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazinga/internal/artifacts"
)

var (
	collectWatch   bool
	artifactsLimit int
	artifactsTop   int
)

// collectCmd gathers artifact files into the store
var collectCmd = &cobra.Command{
	Use:   "collect [dir]",
	Short: "Collect artifact files from a directory into the store",
	Long: `Scans a directory for artifact files, copies new ones into
~/.bazinga/artifacts/, and catalogs them by content hash. Already
collected content is skipped. With --watch, keeps running and collects
files as they appear.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollect,
}

// artifactsCmd inspects the collected artifacts
var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List or analyze collected artifacts",
}

var artifactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently collected artifacts",
	RunE:  runArtifactsList,
}

var artifactsAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the artifact corpus and write the analysis reports",
	RunE:  runArtifactsAnalyze,
}

func init() {
	collectCmd.Flags().BoolVar(&collectWatch, "watch", false, "Keep watching the directory for new files")
	artifactsListCmd.Flags().IntVar(&artifactsLimit, "limit", 20, "How many artifacts to list")
	artifactsAnalyzeCmd.Flags().IntVar(&artifactsTop, "top", 20, "How many top words to rank")

	artifactsCmd.AddCommand(artifactsListCmd)
	artifactsCmd.AddCommand(artifactsAnalyzeCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	collector, err := artifacts.NewCollector(appHome)
	if err != nil {
		return err
	}
	defer collector.Close()

	if collectWatch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", dir)
		err := collector.Watch(ctx, dir)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		stats := collector.Stats()
		fmt.Printf("Collected %d new artifacts (%d total)\n", stats.NewArtifacts, stats.TotalArtifacts)
		return nil
	}

	stats, err := collector.Collect(dir)
	if err != nil {
		return err
	}
	logger.Info("collection complete",
		zap.Int("new", stats.NewArtifacts),
		zap.Int("total", stats.TotalArtifacts))
	fmt.Printf("Collected %d new artifacts (%d total)\n", stats.NewArtifacts, stats.TotalArtifacts)
	return nil
}

func runArtifactsList(cmd *cobra.Command, args []string) error {
	collector, err := artifacts.NewCollector(appHome)
	if err != nil {
		return err
	}
	defer collector.Close()

	list, err := collector.Catalog().List(artifactsLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No artifacts collected yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTED\tLANGUAGE\tSCORE\tSIZE\tNAME")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n",
			a.CollectedAt.Format("2006-01-02 15:04"), a.Language, a.ValueScore, a.Size, a.Name)
	}
	return w.Flush()
}

func runArtifactsAnalyze(cmd *cobra.Command, args []string) error {
	collector, err := artifacts.NewCollector(appHome)
	if err != nil {
		return err
	}
	defer collector.Close()

	analysis, err := collector.Analyze(artifactsTop)
	if err != nil {
		return err
	}
	fmt.Println(analysis.Summary())

	jsonPath, summaryPath, err := artifacts.SaveAnalysis(appHome, analysis)
	if err != nil {
		return err
	}
	fmt.Printf("Analysis written: %s, %s\n", jsonPath, summaryPath)
	return nil
}
