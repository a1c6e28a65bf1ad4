package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazinga/internal/dodo"
	"bazinga/internal/pattern"
)

var fibTerms int

// encodeCmd builds a pattern code from table coordinates
var encodeCmd = &cobra.Command{
	Use:   "encode [section] [subsection] [attrs...]",
	Short: "Encode section.subsection coordinates into a pattern code",
	Long: `Encodes a pattern code from the section table.

Example:
  bazinga encode 2 1 5 3    # section 2, subsection 1, attributes 5 and 3`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEncode,
}

// decodeCmd decodes a pattern code back to its components
var decodeCmd = &cobra.Command{
	Use:   "decode [code]",
	Short: "Decode a pattern code into its components",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

// explainCmd renders a human-readable reading of a code
var explainCmd = &cobra.Command{
	Use:   "explain [code]",
	Short: "Explain a pattern code in plain language",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

// fibCmd emits the Fibonacci pattern sequence
var fibCmd = &cobra.Command{
	Use:   "fib",
	Short: "Encode the Fibonacci sequence as a pattern chain",
	RunE:  runFib,
}

// patternsCmd lists or looks up named patterns
var patternsCmd = &cobra.Command{
	Use:   "patterns [name]",
	Short: "List named patterns, or show one with its segments",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPatterns,
}

// processCmd runs one input through the DODO dispatcher
var processCmd = &cobra.Command{
	Use:   "process [text...]",
	Short: "Dispatch one input through the DODO state system",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func init() {
	fibCmd.Flags().IntVar(&fibTerms, "terms", 10, "Number of Fibonacci terms")
}

func runEncode(cmd *cobra.Command, args []string) error {
	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("argument %q is not an integer", arg)
		}
		nums[i] = n
	}

	code, err := pattern.Encode(nums[0], nums[1], nums[2:])
	if err != nil {
		return err
	}
	logger.Debug("encoded pattern", zap.String("code", code))
	fmt.Println(code)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	decoded, err := pattern.Decode(args[0])
	if err != nil {
		return err
	}
	return printJSON(decoded)
}

func runExplain(cmd *cobra.Command, args []string) error {
	text, err := pattern.Explain(args[0])
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runFib(cmd *cobra.Command, args []string) error {
	fmt.Println(pattern.EncodeFibonacci(fibTerms))
	return nil
}

func runPatterns(cmd *cobra.Command, args []string) error {
	m := pattern.NewManager()

	if len(args) == 0 {
		all := m.All()
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-14s %s\n", name, all[name])
		}
		return nil
	}

	name := args[0]
	code, err := m.Code(name)
	if err != nil {
		return err
	}
	if code == name {
		// The argument was already a code; show its name when one exists.
		if known, err := m.Name(code); err == nil {
			fmt.Printf("name: %s\n", known)
		}
	}
	segments, err := m.Segments(name)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", code)
	fmt.Printf("segments: %v\n", segments)
	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	system := dodo.NewSystem()
	result := system.ProcessInput(map[string]interface{}{"input": input})

	logger.Info("processed input",
		zap.String("mode", result.Mode),
		zap.Float64("trust", result.TrustLevel))
	return printJSON(result)
}

// printJSON writes a result as indented JSON on stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
