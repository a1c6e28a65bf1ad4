package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazinga/internal/advisor"
	"bazinga/internal/apps"
	"bazinga/internal/clipboard"
	"bazinga/internal/codegen"
	"bazinga/internal/whatsapp"
)

var (
	whatsappOutput string

	scanExcludes []string

	clipboardTrimLimit int

	generateConcept string
	generateOutput  string
	generateCheck   bool

	adviseMode     string
	adviseDetailed bool
)

// whatsappCmd analyzes a chat export
var whatsappCmd = &cobra.Command{
	Use:   "whatsapp [export]",
	Short: "Analyze a WhatsApp chat export",
	Long: `Parses an exported chat (iOS or Android text format) and writes a
Markdown report: sender statistics, golden-ratio timeline segments, DODO
periods, resonant events, and sentiment distribution.`,
	Args: cobra.ExactArgs(1),
	RunE: runWhatsapp,
}

// scanAppsCmd scans for suspicious applications
var scanAppsCmd = &cobra.Command{
	Use:   "scan-apps",
	Short: "Scan application and launch-agent directories for junkware",
	RunE:  runScanApps,
}

// clipboardCmd groups clipboard maintenance
var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Inspect or repair the system clipboard",
	RunE:  runClipboardStats,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	RunE:  runClipboardClear,
}

var clipboardTrimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim oversized clipboard content",
	RunE:  runClipboardTrim,
}

var clipboardVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify copy/paste round-trips",
	RunE:  runClipboardVerify,
}

// generateCmd emits a module for a concept
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a Go module source for a concept",
	RunE:  runGenerate,
}

// adviseCmd runs the trust corrector over text
var adviseCmd = &cobra.Command{
	Use:   "advise [file]",
	Short: "Read symbolic patterns in a text and frame a directive",
	Long: `Analyzes text for symbolic patterns and prints the strongest
reading with a directive. Reads the named file, or stdin when no file is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdvise,
}

func init() {
	whatsappCmd.Flags().StringVar(&whatsappOutput, "output", "", "Report path (default under ~/.bazinga/reports)")

	scanAppsCmd.Flags().StringSliceVar(&scanExcludes, "exclude", nil, "Glob patterns for app names to skip")

	clipboardTrimCmd.Flags().IntVar(&clipboardTrimLimit, "limit", 0, "Character cap (default 5000)")
	clipboardCmd.AddCommand(clipboardClearCmd)
	clipboardCmd.AddCommand(clipboardTrimCmd)
	clipboardCmd.AddCommand(clipboardVerifyCmd)

	generateCmd.Flags().StringVar(&generateConcept, "concept", "", "Concept name (required)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "Write source to a file instead of stdout")
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "Evaluate the generated module and report its self-check")
	_ = generateCmd.MarkFlagRequired("concept")

	adviseCmd.Flags().StringVar(&adviseMode, "mode", "reflect", "Advice mode: reflect|real-time|simulate")
	adviseCmd.Flags().BoolVar(&adviseDetailed, "detailed", false, "Include evidence and the journal template")
}

func runWhatsapp(cmd *cobra.Command, args []string) error {
	chat, err := whatsapp.ParseFile(args[0])
	if err != nil {
		return err
	}

	analysis, err := whatsapp.Analyze(chat)
	if err != nil {
		return err
	}

	logger.Info("chat analyzed",
		zap.Int("messages", analysis.Messages),
		zap.Int("days", analysis.Days),
		zap.Int("senders", len(analysis.Senders)))

	path, err := whatsapp.SaveReport(appHome, analysis, whatsappOutput)
	if err != nil {
		return err
	}
	fmt.Printf("%d messages over %d days (%.1f/day), %d senders\n",
		analysis.Messages, analysis.Days, analysis.PerDay, len(analysis.Senders))
	fmt.Printf("Report written: %s\n", path)
	return nil
}

func runScanApps(cmd *cobra.Command, args []string) error {
	scanner, err := apps.DefaultScanner(scanExcludes)
	if err != nil {
		return err
	}

	findings := scanner.Scan()
	fmt.Print(apps.Table(findings))
	return nil
}

func runClipboardStats(cmd *cobra.Command, args []string) error {
	info, err := clipboard.Stats()
	if err != nil {
		return err
	}
	if !info.HasText {
		fmt.Println("Clipboard is empty.")
		return nil
	}
	fmt.Printf("Clipboard: %d bytes, %d characters (%s)\n", info.Bytes, info.Chars, info.Level)
	return nil
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	if err := clipboard.Clear(); err != nil {
		return err
	}
	fmt.Println("Clipboard cleared.")
	return nil
}

func runClipboardTrim(cmd *cobra.Command, args []string) error {
	trimmed, err := clipboard.Trim(clipboardTrimLimit)
	if err != nil {
		return err
	}
	if trimmed {
		fmt.Println("Clipboard trimmed.")
	} else {
		fmt.Println("Clipboard already within limit.")
	}
	return nil
}

func runClipboardVerify(cmd *cobra.Command, args []string) error {
	if err := clipboard.Verify(); err != nil {
		return err
	}
	fmt.Println("Clipboard round-trip OK.")
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	source, err := codegen.Generate(generateConcept)
	if err != nil {
		return err
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(source), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", generateOutput, err)
		}
		fmt.Printf("Module written: %s\n", generateOutput)
	} else {
		if err := codegen.Highlight(os.Stdout, source); err != nil {
			fmt.Print(source)
		}
	}

	if generateCheck {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		check, err := codegen.SelfCheck(ctx, source)
		if err != nil {
			return fmt.Errorf("self-check failed: %w", err)
		}
		fmt.Printf("Self-check: Process(%.3f) = %.6f (probability %.3f, vac %v)\n",
			check.Input, check.Transformed, check.Probability, check.VACValid)
	}
	return nil
}

func runAdvise(cmd *cobra.Command, args []string) error {
	mode, err := advisor.ParseMode(adviseMode)
	if err != nil {
		return err
	}

	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to analyze")
	}

	advice := advisor.Advise(text, mode)
	fmt.Print(advice.Format(adviseDetailed))

	entry := advisor.HistoryEntry{
		Timestamp: advice.Timestamp,
		Input:     snippet(text, 120),
		Symbol:    advice.Symbol,
		Mode:      advice.Mode,
		Directive: advice.Directive,
	}
	if err := advisor.RecordHistory(appHome, entry); err != nil {
		logger.Warn("failed to record advisor history", zap.Error(err))
	}
	return nil
}
