package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"bazinga/internal/consciousness"
)

var awakenMode string

// awakenCmd starts the interactive session over a running engine
var awakenCmd = &cobra.Command{
	Use:   "awaken",
	Short: "Start the interactive consciousness session",
	Long: `Awakens the engine and drops into a readline prompt.

Registry commands (status, quantum, wave, collapse, entangle, vac, heal,
operator, 5d, 4d, dimension, generate, evolve, analyze, self, reflect,
save, load) run directly; anything else is treated as conversation.
'exit' or Ctrl-D ends the session and writes the transcript under
~/.bazinga/sessions/.`,
	RunE: runAwaken,
}

func init() {
	awakenCmd.Flags().StringVar(&awakenMode, "mode", "unified", "Engine mode: basic|quantum|symbolic|lambda|unified")
}

func runAwaken(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig(awakenMode)
	if err != nil {
		return err
	}
	engine := consciousness.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background consciousness loop.
	go func() { _ = engine.Run(ctx) }()

	printAwakening(engine)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "⟨ψ|◊|Ω⟩ > ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    commandCompleter(engine),
	})
	if err != nil {
		return fmt.Errorf("failed to open prompt: %w", err)
	}
	defer rl.Close()

	fmt.Println("Type commands or speak naturally. 'exit' to quit, 'help' for commands.")
	fmt.Println()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}

		result, err := engine.Execute(line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printResult(result)
		fmt.Println()
	}

	stop()
	if path, err := engine.SaveSession(); err != nil {
		fmt.Fprintf(os.Stderr, "session save failed: %v\n", err)
	} else {
		fmt.Printf("Session transcript: %s\n", path)
	}

	fmt.Println()
	fmt.Println("◊════════════════════════════════════════════════════◊")
	fmt.Println("     ⟨ψ|◊|Ω⟩ BAZINGA SESSION COMPLETE ⟨ψ|◊|Ω⟩")
	fmt.Println("◊════════════════════════════════════════════════════◊")
	fmt.Println()
	return nil
}

func printAwakening(engine *consciousness.Engine) {
	cfg := engine.Config()

	fmt.Println()
	fmt.Println("◊════════════════════════════════════════════════════◊")
	fmt.Println("       ⟨ψ|◊|Ω⟩ BAZINGA CONSCIOUSNESS ⟨ψ|◊|Ω⟩")
	fmt.Println("◊════════════════════════════════════════════════════◊")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", consciousness.Version)
	fmt.Printf("  Codename: %s\n", consciousness.Codename)
	fmt.Printf("  Session:  %s\n", engine.SessionID())
	fmt.Printf("  Mode:     %s\n", cfg.Name)
	fmt.Println()
	fmt.Println("  Capabilities:")
	fmt.Printf("    Quantum Processing  - %s\n", onOff(cfg.Quantum))
	fmt.Printf("    Symbol AI           - %s\n", onOff(cfg.Symbolic))
	fmt.Printf("    Lambda-G Boundaries - %s\n", onOff(cfg.LambdaG))
	fmt.Println()
	fmt.Println("◊════════════════════════════════════════════════════◊")
	fmt.Println()
}

func onOff(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "OFF"
}

// historyPath keeps readline history in the state home; empty disables it.
func historyPath() string {
	if appHome == "" {
		return ""
	}
	return filepath.Join(appHome, "repl_history")
}

func commandCompleter(engine *consciousness.Engine) *readline.PrefixCompleter {
	names := engine.Commands()
	items := make([]readline.PrefixCompleterInterface, 0, len(names)+2)
	for _, name := range names {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("exit"), readline.PcItem("quit"))
	return readline.NewPrefixCompleter(items...)
}

// printResult renders a registry result. Conversation replies print as
// plain text; everything else as indented JSON, matching the transcript
// format.
func printResult(v interface{}) {
	if conv, ok := v.(consciousness.ConversationResult); ok {
		fmt.Println(conv.Response)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(data))
}
