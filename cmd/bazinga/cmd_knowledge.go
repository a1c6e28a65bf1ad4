package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazinga/internal/knowledge"
)

var searchTop int

// indexCmd embeds a directory into the knowledge store
var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index a directory of notes into the knowledge store",
	Long: `Walks a directory for text and Markdown files, chunks them by
paragraph, embeds each chunk, and upserts the vectors into
~/.bazinga/knowledge.db. Unchanged files are skipped by modification
time.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

// searchCmd retrieves the nearest chunks for a query
var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the knowledge store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

// askCmd answers a question from indexed knowledge
var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask the oracle a question over indexed knowledge",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	searchCmd.Flags().IntVar(&searchTop, "top", 5, "How many hits to return")
}

func runIndex(cmd *cobra.Command, args []string) error {
	oracle, err := knowledge.NewOracle(appHome, appCfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("indexing", zap.String("dir", args[0]), zap.String("engine", oracle.Engine().Name()))

	stats, err := oracle.Index(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d of %d files (%d chunks, %d skipped, %d errors)\n",
		stats.Indexed, stats.Scanned, stats.Chunks, stats.Skipped, stats.Errors)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	oracle, err := knowledge.NewOracle(appHome, appCfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	hits, err := oracle.Search(ctx, query, searchTop)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%d. [%.3f] %s (%s)\n", i+1, 1-hit.Distance, hit.Title, hit.Path)
		fmt.Printf("   %s\n", snippet(hit.Content, 160))
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	oracle, err := knowledge.NewOracle(appHome, appCfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	question := strings.Join(args, " ")
	answer, err := oracle.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range answer.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	return nil
}

// snippet flattens content to a single line of at most n runes.
func snippet(content string, n int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
