package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/wiring"
)

var wireDryRun bool

var wireCmd = &cobra.Command{
	Use:   "wire <circuit-file> <wire-list>",
	Short: "Add the wires of a wire list to a circuit",
	Long: `Read a wire list, drop every wire the circuit already has (in either
direction), and append the rest to the circuit file.

Wire list syntax, one wire per entry:
  <node>:<pin> -- <node>:<pin> [color]
Node ids containing characters other than letters, digits, '_' and '.'
must be quoted. '#' starts a comment.

Examples:
  circuitbuilder wire circuit.json wires.txt
  circuitbuilder wire --dry-run blink.yaml wires.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runWire,
}

func init() {
	rootCmd.AddCommand(wireCmd)

	wireCmd.Flags().BoolVarP(&wireDryRun, "dry-run", "n", false,
		"print the new wires without saving")
}

func runWire(cmd *cobra.Command, args []string) error {
	circuitFile, wireFile := args[0], args[1]

	c, err := readCircuit(circuitFile)
	if err != nil {
		return err
	}

	parser, err := wiring.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	proposed, err := parser.ParseFile(wireFile)
	if err != nil {
		return fmt.Errorf("failed to parse wire list: %w", err)
	}

	res, err := wiring.Apply(&wiring.Request{
		ConnectionsToApply: proposed,
		CurrentConnections: c.Connections,
	})
	if err != nil {
		return err
	}

	fmt.Println(res.Message)
	for _, conn := range res.NewConnections {
		fmt.Printf("  %s:%d -- %s:%d", conn.From.NodeID, conn.From.PinIndex, conn.To.NodeID, conn.To.PinIndex)
		if conn.Color != "" {
			fmt.Printf(" [%s]", conn.Color)
		}
		fmt.Println()
	}
	if verbose {
		fmt.Printf("Skipped %d existing wires\n", len(proposed)-len(res.NewConnections))
	}

	if wireDryRun || len(res.NewConnections) == 0 {
		return nil
	}
	c.Connections = append(c.Connections, res.NewConnections...)
	if err := writeCircuit(circuitFile, c); err != nil {
		return fmt.Errorf("failed to save circuit: %w", err)
	}
	return nil
}
