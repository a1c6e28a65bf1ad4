package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bazinga/internal/consciousness"
)

// stateCmd groups the state persistence commands
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show, save, or load engine state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a fresh engine snapshot",
	RunE:  runStateShow,
}

var stateSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save engine state under the states directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateSave,
}

var stateLoadCmd = &cobra.Command{
	Use:   "load [name]",
	Short: "Load a saved state, or list what is available",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateLoad,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateSaveCmd)
	stateCmd.AddCommand(stateLoadCmd)
}

func stateEngine() (*consciousness.Engine, error) {
	cfg, err := engineConfig("unified")
	if err != nil {
		return nil, err
	}
	return consciousness.New(cfg), nil
}

func runStateShow(cmd *cobra.Command, args []string) error {
	engine, err := stateEngine()
	if err != nil {
		return err
	}
	return printJSON(engine.Snapshot())
}

func runStateSave(cmd *cobra.Command, args []string) error {
	engine, err := stateEngine()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	result, err := engine.SaveState(name)
	if err != nil {
		return err
	}
	fmt.Printf("State saved: %s (%d bytes)\n", result.Path, result.Size)
	return nil
}

func runStateLoad(cmd *cobra.Command, args []string) error {
	engine, err := stateEngine()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		list, err := engine.ListStates()
		if err != nil {
			return err
		}
		if len(list.Available) == 0 {
			fmt.Println("No saved states.")
			return nil
		}
		for _, name := range list.Available {
			fmt.Println(name)
		}
		return nil
	}

	result, err := engine.LoadState(args[0])
	if err != nil {
		return err
	}
	return printJSON(result)
}
